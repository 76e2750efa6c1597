package gameview

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mindfulbreak/internal/core/games"
)

var handSymbols = map[games.Hand]string{
	games.Rock:     "✊",
	games.Paper:    "✋",
	games.Scissors: "✌",
}

type rpsView struct {
	game   *games.RockPaperScissors
	result *widget.Label
	score  *widget.Label
	object fyne.CanvasObject
}

func newRockPaperScissors(random games.Intner) *rpsView {
	view := &rpsView{
		game:   games.NewRockPaperScissors(random),
		result: widget.NewLabelWithStyle("Make your move", fyne.TextAlignCenter, fyne.TextStyle{}),
		score:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
	}

	hands := container.NewHBox()
	for _, hand := range games.Hands {
		choice := hand
		hands.Add(widget.NewButton(handSymbols[choice]+" "+string(choice), func() { view.play(choice) }))
	}
	reset := widget.NewButton("Reset Score", func() {
		view.game.Reset()
		view.result.SetText("Make your move")
		view.renderScore()
	})

	view.object = container.NewVBox(
		widget.NewLabelWithStyle("Rock, Paper, Scissors", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewCenter(hands),
		view.result,
		view.score,
		container.NewCenter(reset),
	)
	view.renderScore()
	return view
}

func (view *rpsView) Object() fyne.CanvasObject { return view.object }
func (*rpsView) Stop()                          {}

func (view *rpsView) play(hand games.Hand) {
	round, err := view.game.Play(hand)
	if err != nil {
		return
	}
	view.result.SetText(fmt.Sprintf("%s vs %s: %s",
		handSymbols[round.Player], handSymbols[round.Computer], outcomeText(round.Outcome)))
	view.renderScore()
}

func (view *rpsView) renderScore() {
	player, computer := view.game.Score()
	view.score.SetText(fmt.Sprintf("You %d : %d Computer", player, computer))
}
