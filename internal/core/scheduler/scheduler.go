package scheduler

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mindfulbreak/internal/core/clock"
	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/logger"
)

// Dependencies are the collaborators a Scheduler calls into. Nil fields are
// replaced with no-op implementations.
type Dependencies struct {
	Clock       clock.Clock
	Notifier    Notifier
	Content     ContentLoader
	Preferences PreferenceSource
	Window      BreakWindow
	Logger      logrus.FieldLogger
}

// Scheduler is the work/break state machine. Every transition runs under a
// single mutex, so a timer firing and a manual break request never interleave.
type Scheduler struct {
	mu       sync.Mutex
	config   model.SchedulerConfig
	clock    clock.Clock
	notifier Notifier
	content  ContentLoader
	prefs    PreferenceSource
	window   BreakWindow
	logger   logrus.FieldLogger

	state      StateKind
	since      time.Time
	nextFireAt time.Time
	timer      clock.Timer
	timerGen   uint64
	session    *BreakSession
	stopped    bool

	subsMu     sync.Mutex
	events     []chan Event
	subsClosed bool
}

// New creates a Scheduler in the Idle state.
func New(config model.SchedulerConfig, deps Dependencies) *Scheduler {
	if config.WorkInterval <= 0 {
		config.WorkInterval = model.DefaultWorkDurationMinutes * time.Minute
	}
	if config.WarningThreshold <= 0 {
		config.WarningThreshold = model.DefaultWarningTimeSeconds * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewReal(deps.Logger)
	}
	if deps.Notifier == nil {
		deps.Notifier = noopNotifier{}
	}
	if deps.Content == nil {
		deps.Content = noopLoader{}
	}
	if deps.Preferences == nil {
		deps.Preferences = fixedPreference(model.DefaultPreference)
	}
	if deps.Window == nil {
		deps.Window = noopWindow{}
	}

	return &Scheduler{
		config:   config,
		clock:    deps.Clock,
		notifier: deps.Notifier,
		content:  deps.Content,
		prefs:    deps.Preferences,
		window:   deps.Window,
		logger:   deps.Logger.WithField("component", "scheduler"),
		state:    StateIdle,
	}
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than block transitions.
func (scheduler *Scheduler) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	scheduler.subsMu.Lock()
	defer scheduler.subsMu.Unlock()
	if scheduler.subsClosed {
		close(ch)
		return ch
	}
	scheduler.events = append(scheduler.events, ch)
	return ch
}

// Unsubscribe removes and closes an observer channel.
func (scheduler *Scheduler) Unsubscribe(events <-chan Event) {
	scheduler.subsMu.Lock()
	defer scheduler.subsMu.Unlock()
	for index, ch := range scheduler.events {
		if ch == events {
			scheduler.events = append(scheduler.events[:index], scheduler.events[index+1:]...)
			close(ch)
			return
		}
	}
}

// Start moves Idle to Working and starts the repeating work timer.
func (scheduler *Scheduler) Start() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.stopped || scheduler.state != StateIdle {
		return
	}

	scheduler.notifier.RequestPermission()
	now := scheduler.clock.Now()
	scheduler.startTimerLocked(now)
	scheduler.setStateLocked(StateWorking, now)
	scheduler.logger.WithField("interval", scheduler.config.WorkInterval).Info("work timer started")
	scheduler.publish(Event{
		Type:        EventStateChange,
		State:       StateWorking,
		NextBreakAt: scheduler.nextFireAt,
		At:          now,
	})
}

// Stop cancels all timers, ends any open break and closes observers.
func (scheduler *Scheduler) Stop() {
	scheduler.mu.Lock()
	if scheduler.stopped {
		scheduler.mu.Unlock()
		return
	}
	scheduler.stopped = true
	scheduler.cancelTimerLocked()
	if scheduler.state == StateBreakPending {
		scheduler.notifier.DismissPrompt()
	}
	if scheduler.session != nil {
		scheduler.session.Stop()
		scheduler.session = nil
		scheduler.window.CloseBreakWindow()
	}
	scheduler.setStateLocked(StateIdle, scheduler.clock.Now())
	scheduler.mu.Unlock()

	scheduler.subsMu.Lock()
	events := scheduler.events
	scheduler.events = nil
	scheduler.subsClosed = true
	scheduler.subsMu.Unlock()
	for _, ch := range events {
		close(ch)
	}
	scheduler.logger.Info("scheduler stopped")
}

// Accept opens a break in response to the prompt. It is ignored unless a
// prompt is pending.
func (scheduler *Scheduler) Accept() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.stopped || scheduler.state != StateBreakPending {
		return
	}
	scheduler.enterBreakLocked(TriggerAccepted)
}

// Decline dismisses the prompt and returns to Working. The repeating timer
// keeps its schedule unless the config asks for a fresh interval.
func (scheduler *Scheduler) Decline() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.stopped || scheduler.state != StateBreakPending {
		return
	}

	now := scheduler.clock.Now()
	if scheduler.config.DeclineResetsTimer {
		scheduler.startTimerLocked(now)
	}
	scheduler.setStateLocked(StateWorking, now)
	scheduler.logger.WithField("reset", scheduler.config.DeclineResetsTimer).Info("break declined")
	scheduler.publish(Event{
		Type:        EventStateChange,
		State:       StateWorking,
		NextBreakAt: scheduler.nextFireAt,
		At:          now,
	})
}

// TakeBreakNow opens a break immediately from any state except OnBreak,
// cancelling a pending prompt and the running work timer.
func (scheduler *Scheduler) TakeBreakNow() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.stopped || scheduler.state == StateOnBreak {
		return
	}
	if scheduler.state == StateBreakPending {
		scheduler.notifier.DismissPrompt()
	}
	scheduler.enterBreakLocked(TriggerManual)
}

// EndBreak closes the break and restarts the work interval from now.
func (scheduler *Scheduler) EndBreak() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.stopped || scheduler.state != StateOnBreak {
		return
	}

	now := scheduler.clock.Now()
	var info SessionInfo
	if scheduler.session != nil {
		scheduler.session.Stop()
		info = scheduler.session.Info()
		scheduler.session = nil
	}
	scheduler.window.CloseBreakWindow()
	scheduler.startTimerLocked(now)
	scheduler.setStateLocked(StateWorking, now)

	scheduler.logger.WithFields(logrus.Fields{
		"session":  info.ID,
		"duration": now.Sub(info.StartedAt).Round(time.Second),
	}).Info("break ended")
	scheduler.publish(Event{
		Type:        EventStateChange,
		State:       StateWorking,
		Session:     &info,
		NextBreakAt: scheduler.nextFireAt,
		At:          now,
	})
}

// RefreshContent reloads break content with the current preference.
// It reports false when no break is open.
func (scheduler *Scheduler) RefreshContent() bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.stopped || scheduler.state != StateOnBreak {
		return false
	}
	scheduler.content.Load(scheduler.prefs.Preference())
	return true
}

// State returns the current WorkBreakState.
func (scheduler *Scheduler) State() State {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	switch scheduler.state {
	case StateWorking:
		return Working{Interval: scheduler.config.WorkInterval, Since: scheduler.since, NextBreakAt: scheduler.nextFireAt}
	case StateBreakPending:
		return BreakPending{Since: scheduler.since, NextBreakAt: scheduler.nextFireAt}
	case StateOnBreak:
		if scheduler.session != nil {
			return OnBreak{Session: scheduler.session.Info()}
		}
		return OnBreak{}
	default:
		return Idle{}
	}
}

// Snapshot returns a serializable view including display metadata.
func (scheduler *Scheduler) Snapshot() Snapshot {
	snapshot := Describe(scheduler.State())
	snapshot.WorkInterval = scheduler.config.WorkInterval
	snapshot.BreakDuration = scheduler.config.BreakDuration
	return snapshot
}

func (scheduler *Scheduler) onTimer(generation uint64) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.stopped || generation != scheduler.timerGen {
		return
	}

	now := scheduler.clock.Now()
	scheduler.nextFireAt = now.Add(scheduler.config.WorkInterval)
	switch scheduler.state {
	case StateWorking:
		scheduler.setStateLocked(StateBreakPending, now)
		scheduler.logger.Info("work interval elapsed, prompting for break")
		scheduler.publish(Event{
			Type:        EventStateChange,
			State:       StateBreakPending,
			NextBreakAt: scheduler.nextFireAt,
			At:          now,
		})
		scheduler.promptLocked(now)
	case StateBreakPending:
		scheduler.logger.Debug("work interval elapsed while prompt pending, prompting again")
		scheduler.promptLocked(now)
	}
}

func (scheduler *Scheduler) promptLocked(now time.Time) {
	if err := scheduler.notifier.PromptBreak(); err != nil {
		scheduler.logger.WithError(err).Warn("break prompt not delivered")
		scheduler.publish(Event{
			Type:    EventPromptFailed,
			State:   scheduler.state,
			Message: err.Error(),
			At:      now,
		})
	}
}

func (scheduler *Scheduler) enterBreakLocked(trigger Trigger) {
	now := scheduler.clock.Now()
	scheduler.cancelTimerLocked()

	session := NewBreakSession(uuid.NewString(), scheduler.clock, scheduler.config.WarningThreshold, scheduler.onWarning)
	session.Start(now)
	scheduler.session = session
	scheduler.setStateLocked(StateOnBreak, now)

	info := session.Info()
	preference := scheduler.prefs.Preference()
	scheduler.logger.WithFields(logrus.Fields{
		"session":    info.ID,
		"trigger":    trigger,
		"preference": preference,
	}).Info("break started")
	scheduler.publish(Event{
		Type:    EventStateChange,
		State:   StateOnBreak,
		Trigger: trigger,
		Session: &info,
		At:      now,
	})

	scheduler.window.OpenBreakWindow(info)
	scheduler.content.Load(preference)
}

func (scheduler *Scheduler) onWarning(info SessionInfo) {
	now := scheduler.clock.Now()
	elapsed := now.Sub(info.StartedAt)
	scheduler.logger.WithFields(logrus.Fields{
		"session": info.ID,
		"elapsed": elapsed.Round(time.Second),
	}).Info("break running long")
	if err := scheduler.notifier.WarnLongBreak(elapsed); err != nil {
		scheduler.logger.WithError(err).Warn("long break warning not delivered")
	}
	scheduler.publish(Event{
		Type:    EventBreakWarning,
		State:   StateOnBreak,
		Session: &info,
		At:      now,
	})
}

// startTimerLocked cancels the live work timer before creating the next one,
// so at most one is ever scheduled.
func (scheduler *Scheduler) startTimerLocked(now time.Time) {
	scheduler.cancelTimerLocked()
	generation := scheduler.timerGen
	scheduler.timer = scheduler.clock.Every(scheduler.config.WorkInterval, func() {
		scheduler.onTimer(generation)
	})
	scheduler.nextFireAt = now.Add(scheduler.config.WorkInterval)
}

func (scheduler *Scheduler) cancelTimerLocked() {
	scheduler.timerGen++
	if scheduler.timer != nil {
		scheduler.timer.Stop()
		scheduler.timer = nil
	}
	scheduler.nextFireAt = time.Time{}
}

func (scheduler *Scheduler) setStateLocked(state StateKind, now time.Time) {
	scheduler.state = state
	scheduler.since = now
}

func (scheduler *Scheduler) publish(event Event) {
	scheduler.subsMu.Lock()
	defer scheduler.subsMu.Unlock()
	for _, ch := range scheduler.events {
		select {
		case ch <- event:
		default:
		}
	}
}
