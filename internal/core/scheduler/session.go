package scheduler

import (
	"sync"
	"time"

	"mindfulbreak/internal/core/clock"
)

// BreakSession tracks one open break and fires a single warning once the
// break has run past the threshold.
type BreakSession struct {
	mu           sync.Mutex
	id           string
	clock        clock.Clock
	threshold    time.Duration
	onWarning    func(SessionInfo)
	startedAt    time.Time
	warningFired bool
	started      bool
	stopped      bool
	timer        clock.Timer
}

// NewBreakSession creates a session. onWarning runs at most once, while the
// session lock is held, so it must not call Stop.
func NewBreakSession(id string, clk clock.Clock, threshold time.Duration, onWarning func(SessionInfo)) *BreakSession {
	return &BreakSession{
		id:        id,
		clock:     clk,
		threshold: threshold,
		onWarning: onWarning,
	}
}

// Start records the start time and arms the warning timer.
func (session *BreakSession) Start(now time.Time) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.started {
		return
	}
	session.started = true
	session.startedAt = now
	session.timer = session.clock.AfterFunc(session.threshold, session.fire)
}

// Stop cancels the warning. No warning fires after Stop returns.
func (session *BreakSession) Stop() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.stopped {
		return
	}
	session.stopped = true
	if session.timer != nil {
		session.timer.Stop()
		session.timer = nil
	}
}

// WarningFired reports whether the warning has fired.
func (session *BreakSession) WarningFired() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.warningFired
}

// Elapsed returns how long the break has been open.
func (session *BreakSession) Elapsed(now time.Time) time.Duration {
	session.mu.Lock()
	defer session.mu.Unlock()
	if !session.started {
		return 0
	}
	return now.Sub(session.startedAt)
}

// Info returns a read-only view of the session.
func (session *BreakSession) Info() SessionInfo {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.infoLocked()
}

func (session *BreakSession) infoLocked() SessionInfo {
	return SessionInfo{
		ID:           session.id,
		StartedAt:    session.startedAt,
		WarningFired: session.warningFired,
	}
}

func (session *BreakSession) fire() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.stopped || session.warningFired {
		return
	}
	session.warningFired = true
	session.timer = nil
	if session.onWarning != nil {
		session.onWarning(session.infoLocked())
	}
}
