package gameview

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mindfulbreak/internal/core/games"
)

type ticTacToeView struct {
	delayed
	game   *games.TicTacToe
	cells  [9]*widget.Button
	status *widget.Label
	object fyne.CanvasObject
}

func newTicTacToe(random games.Intner) *ticTacToeView {
	view := &ticTacToeView{
		game:   games.NewTicTacToe(random),
		status: widget.NewLabelWithStyle("Your turn (X)", fyne.TextAlignCenter, fyne.TextStyle{}),
	}

	grid := container.NewGridWithColumns(3)
	for index := range view.cells {
		cell := index
		view.cells[cell] = widget.NewButton(" ", func() { view.play(cell) })
		grid.Add(view.cells[cell])
	}
	reset := widget.NewButton("New Game", func() {
		view.Stop()
		view.game.Reset()
		view.render()
	})

	view.object = container.NewVBox(
		widget.NewLabelWithStyle("Tic-Tac-Toe", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewCenter(container.NewGridWrap(fyne.NewSize(210, 210), grid)),
		view.status,
		container.NewCenter(reset),
	)
	view.render()
	return view
}

func (view *ticTacToeView) Object() fyne.CanvasObject { return view.object }

func (view *ticTacToeView) play(cell int) {
	if err := view.game.Play(cell); err != nil {
		return
	}
	view.render()
	if view.game.ComputerTurn() {
		view.after(computerDelay, func() {
			view.game.ComputerMove()
			view.render()
		})
	}
}

func (view *ticTacToeView) render() {
	board := view.game.Board()
	winning := map[int]bool{}
	for _, cell := range view.game.WinningCells() {
		winning[cell] = true
	}
	finished := view.game.Outcome() != games.OutcomeNone

	for index, button := range view.cells {
		label := string(board[index])
		if label == "" {
			label = " "
		}
		button.SetText(label)
		button.Importance = widget.MediumImportance
		if winning[index] {
			button.Importance = widget.SuccessImportance
		}
		if finished || view.game.ComputerTurn() || board[index] != games.MarkEmpty {
			button.Disable()
		} else {
			button.Enable()
		}
		button.Refresh()
	}

	switch {
	case finished:
		view.status.SetText(outcomeText(view.game.Outcome()))
	case view.game.ComputerTurn():
		view.status.SetText("Computer is thinking...")
	default:
		view.status.SetText("Your turn (X)")
	}
}
