package gameview

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mindfulbreak/internal/core/games"
)

type guessView struct {
	game   *games.NumberGuess
	entry  *widget.Entry
	submit *widget.Button
	hint   *widget.Label
	object fyne.CanvasObject
}

func newNumberGuess(random games.Intner) *guessView {
	view := &guessView{
		game:  games.NewNumberGuess(random),
		entry: widget.NewEntry(),
		hint:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
	}
	view.entry.SetPlaceHolder(fmt.Sprintf("%d-%d", games.GuessMin, games.GuessMax))
	view.entry.OnSubmitted = func(string) { view.guess() }
	view.submit = widget.NewButton("Guess", view.guess)
	reset := widget.NewButton("New Number", func() {
		view.game.Reset()
		view.entry.SetText("")
		view.entry.Enable()
		view.submit.Enable()
		view.hint.SetText(view.prompt())
	})

	view.hint.SetText(view.prompt())
	view.object = container.NewVBox(
		widget.NewLabelWithStyle("Number Guess", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, view.entry, view.submit),
		view.hint,
		container.NewCenter(reset),
	)
	return view
}

func (view *guessView) Object() fyne.CanvasObject { return view.object }
func (*guessView) Stop()                          {}

func (view *guessView) prompt() string {
	return fmt.Sprintf("I'm thinking of a number between %d and %d", games.GuessMin, games.GuessMax)
}

func (view *guessView) guess() {
	hint, err := view.game.Guess(view.entry.Text)
	if err != nil {
		view.hint.SetText(fmt.Sprintf("Enter a whole number from %d to %d", games.GuessMin, games.GuessMax))
		return
	}
	view.entry.SetText("")
	switch hint {
	case games.HintHigher:
		view.hint.SetText(fmt.Sprintf("Higher! (attempt %d)", view.game.Attempts()))
	case games.HintLower:
		view.hint.SetText(fmt.Sprintf("Lower! (attempt %d)", view.game.Attempts()))
	case games.HintCorrect:
		view.hint.SetText(fmt.Sprintf("Correct! You got it in %d attempts", view.game.Attempts()))
		view.entry.Disable()
		view.submit.Disable()
	}
}
