package animation

import (
	"context"
	"sync"
	"time"
)

const defaultFrameInterval = 50 * time.Millisecond

// Engine drives the breathing animation of the break window.
type Engine struct {
	mu            sync.Mutex
	breath        Breath
	frameInterval time.Duration
	render        func(Frame)
	cancel        context.CancelFunc
	done          chan struct{}
}

// New creates a new animation engine. render is called from the engine's
// goroutine; UI callers must hop to the UI thread themselves.
func New(breath Breath, frameInterval time.Duration, render func(Frame)) *Engine {
	if frameInterval <= 0 {
		frameInterval = defaultFrameInterval
	}
	return &Engine{
		breath:        breath,
		frameInterval: frameInterval,
		render:        render,
	}
}

// Start runs the animation until ctx is cancelled or Stop is called. A running
// animation is restarted from the first frame.
func (engine *Engine) Start(ctx context.Context) {
	engine.Stop()

	engine.mu.Lock()
	defer engine.mu.Unlock()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done

	go func() {
		defer close(done)
		engine.run(runCtx)
	}()
}

// Stop terminates the animation and waits for the last frame to finish.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel, engine.done = nil, nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (engine *Engine) run(ctx context.Context) {
	started := time.Now()
	for {
		engine.render(engine.breath.At(time.Since(started)))
		if !sleepWithContext(ctx, engine.frameInterval) {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
