// Package gameview renders the quick break games with fyne widgets.
package gameview

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"mindfulbreak/internal/core/games"
	"mindfulbreak/internal/core/model"
)

const (
	computerDelay = 500 * time.Millisecond
	memoryDelay   = 800 * time.Millisecond
)

// View is a rendered game.
type View interface {
	Object() fyne.CanvasObject
	// Stop cancels pending delayed moves. Call it when the view leaves the screen.
	Stop()
}

// New builds the view for game. Unknown games render a placeholder label.
func New(game model.GameKind, random games.Intner) View {
	switch game {
	case model.GameTicTacToe:
		return newTicTacToe(random)
	case model.GameMemoryMatch:
		return newMemory(random)
	case model.GameRockPaperScissors:
		return newRockPaperScissors(random)
	case model.GameNumberGuess:
		return newNumberGuess(random)
	default:
		return static{widget.NewLabel("No game available")}
	}
}

type static struct {
	object fyne.CanvasObject
}

func (view static) Object() fyne.CanvasObject { return view.object }
func (static) Stop()                          {}

// delayed runs UI callbacks after a pause. Stop drops everything still
// pending, including callbacks already queued on the UI thread.
type delayed struct {
	mu      sync.Mutex
	timers  []*time.Timer
	stopped uint64
}

func (d *delayed) after(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	epoch := d.stopped
	timer := time.AfterFunc(delay, func() {
		fyne.Do(func() {
			d.mu.Lock()
			current := d.stopped
			d.mu.Unlock()
			if current == epoch {
				fn()
			}
		})
	})
	d.timers = append(d.timers, timer)
}

func (d *delayed) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, timer := range d.timers {
		timer.Stop()
	}
	d.timers = nil
	d.stopped++
}

func outcomeText(outcome games.Outcome) string {
	switch outcome {
	case games.OutcomePlayer:
		return "You win!"
	case games.OutcomeComputer:
		return "Computer wins!"
	case games.OutcomeDraw:
		return "It's a draw!"
	default:
		return ""
	}
}
