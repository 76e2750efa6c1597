package gameview

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mindfulbreak/internal/core/games"
)

const hiddenFace = "?"

type memoryView struct {
	delayed
	game    *games.MemoryMatch
	cards   []*widget.Button
	status  *widget.Label
	waiting bool
	object  fyne.CanvasObject
}

func newMemory(random games.Intner) *memoryView {
	view := &memoryView{
		game:   games.NewMemoryMatch(random),
		status: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
	}

	grid := container.NewGridWithColumns(4)
	for index := range view.game.Cards() {
		card := index
		button := widget.NewButton(hiddenFace, func() { view.flip(card) })
		view.cards = append(view.cards, button)
		grid.Add(button)
	}
	reset := widget.NewButton("New Game", func() {
		view.Stop()
		view.waiting = false
		view.game.Reset()
		view.render()
	})

	view.object = container.NewVBox(
		widget.NewLabelWithStyle("Memory Match", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewCenter(container.NewGridWrap(fyne.NewSize(260, 130), grid)),
		view.status,
		container.NewCenter(reset),
	)
	view.render()
	return view
}

func (view *memoryView) Object() fyne.CanvasObject { return view.object }

func (view *memoryView) flip(index int) {
	if view.waiting {
		return
	}
	open, err := view.game.Flip(index)
	if err != nil {
		return
	}
	view.render()
	if open {
		view.waiting = true
		view.after(memoryDelay, func() {
			view.game.Resolve()
			view.waiting = false
			view.render()
		})
	}
}

func (view *memoryView) render() {
	for index, card := range view.game.Cards() {
		button := view.cards[index]
		switch {
		case card.Matched:
			button.SetText(card.Symbol)
			button.Importance = widget.SuccessImportance
			button.Disable()
		case card.FaceUp:
			button.SetText(card.Symbol)
			button.Importance = widget.HighImportance
			button.Enable()
		default:
			button.SetText(hiddenFace)
			button.Importance = widget.MediumImportance
			button.Enable()
		}
		button.Refresh()
	}

	if view.game.Won() {
		view.status.SetText("All pairs found!")
		return
	}
	view.status.SetText(fmt.Sprintf("Pairs: %d / %d", view.game.Pairs(), view.game.Total()))
}
