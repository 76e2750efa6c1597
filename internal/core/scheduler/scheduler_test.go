package scheduler_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"mindfulbreak/internal/core/clock"
	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/core/scheduler"
)

type fakeNotifier struct {
	mu          sync.Mutex
	permissions int
	prompts     int
	dismissals  int
	warnings    []time.Duration
	promptErr   error
}

func (notifier *fakeNotifier) RequestPermission() {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.permissions++
}

func (notifier *fakeNotifier) PromptBreak() error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.prompts++
	return notifier.promptErr
}

func (notifier *fakeNotifier) DismissPrompt() {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.dismissals++
}

func (notifier *fakeNotifier) WarnLongBreak(elapsed time.Duration) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.warnings = append(notifier.warnings, elapsed)
	return nil
}

type fakeLoader struct {
	mu    sync.Mutex
	loads []model.ContentPreference
}

func (loader *fakeLoader) Load(preference model.ContentPreference) uint64 {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	loader.loads = append(loader.loads, preference)
	return uint64(len(loader.loads))
}

type fakePreference struct {
	value model.ContentPreference
}

func (preference fakePreference) Preference() model.ContentPreference {
	return preference.value
}

type fakeWindow struct {
	opened []scheduler.SessionInfo
	closed int
}

func (window *fakeWindow) OpenBreakWindow(session scheduler.SessionInfo) {
	window.opened = append(window.opened, session)
}

func (window *fakeWindow) CloseBreakWindow() {
	window.closed++
}

type harness struct {
	clock    *clock.Manual
	notifier *fakeNotifier
	loader   *fakeLoader
	window   *fakeWindow
	sched    *scheduler.Scheduler
	start    time.Time
}

func newHarness(t *testing.T, config model.SchedulerConfig) *harness {
	t.Helper()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	h := &harness{
		clock:    clock.NewManual(start),
		notifier: &fakeNotifier{},
		loader:   &fakeLoader{},
		window:   &fakeWindow{},
		start:    start,
	}
	h.sched = scheduler.New(config, scheduler.Dependencies{
		Clock:       h.clock,
		Notifier:    h.notifier,
		Content:     h.loader,
		Preferences: fakePreference{value: model.PreferenceJoke},
		Window:      h.window,
	})
	t.Cleanup(h.sched.Stop)
	return h
}

func defaultConfig() model.SchedulerConfig {
	return model.SchedulerConfig{
		WorkInterval:     25 * time.Minute,
		BreakDuration:    5 * time.Minute,
		WarningThreshold: 5 * time.Minute,
	}
}

func TestStartMovesIdleToWorking(t *testing.T) {
	h := newHarness(t, defaultConfig())
	if got := h.sched.State().Kind(); got != scheduler.StateIdle {
		t.Fatalf("initial state = %q, want %q", got, scheduler.StateIdle)
	}

	h.sched.Start()

	working, ok := h.sched.State().(scheduler.Working)
	if !ok {
		t.Fatalf("state = %T, want Working", h.sched.State())
	}
	if want := h.start.Add(25 * time.Minute); !working.NextBreakAt.Equal(want) {
		t.Errorf("NextBreakAt = %v, want %v", working.NextBreakAt, want)
	}
	if h.notifier.permissions != 1 {
		t.Errorf("permission requests = %d, want 1", h.notifier.permissions)
	}
	if h.clock.Pending() != 1 {
		t.Errorf("live timers = %d, want 1", h.clock.Pending())
	}
}

func TestFullCycleRestartsFreshInterval(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.sched.Start()

	h.clock.Advance(25 * time.Minute)
	if got := h.sched.State().Kind(); got != scheduler.StateBreakPending {
		t.Fatalf("state after interval = %q, want %q", got, scheduler.StateBreakPending)
	}
	if h.notifier.prompts != 1 {
		t.Fatalf("prompts = %d, want 1", h.notifier.prompts)
	}
	if len(h.window.opened) != 0 {
		t.Fatalf("break window opened before accept")
	}

	h.clock.Advance(30 * time.Second)
	h.sched.Accept()
	onBreak, ok := h.sched.State().(scheduler.OnBreak)
	if !ok {
		t.Fatalf("state after accept = %T, want OnBreak", h.sched.State())
	}
	if onBreak.Session.WarningFired {
		t.Error("new session starts with warning fired")
	}
	if want := h.start.Add(25*time.Minute + 30*time.Second); !onBreak.Session.StartedAt.Equal(want) {
		t.Errorf("session started at %v, want %v", onBreak.Session.StartedAt, want)
	}
	if len(h.loader.loads) != 1 || h.loader.loads[0] != model.PreferenceJoke {
		t.Fatalf("loads = %v, want [joke]", h.loader.loads)
	}
	if len(h.window.opened) != 1 {
		t.Fatalf("windows opened = %d, want 1", len(h.window.opened))
	}

	h.clock.Advance(2 * time.Minute)
	h.sched.EndBreak()
	working, ok := h.sched.State().(scheduler.Working)
	if !ok {
		t.Fatalf("state after end = %T, want Working", h.sched.State())
	}
	breakEnd := h.start.Add(27*time.Minute + 30*time.Second)
	if want := breakEnd.Add(25 * time.Minute); !working.NextBreakAt.Equal(want) {
		t.Errorf("NextBreakAt = %v, want %v", working.NextBreakAt, want)
	}
	if h.window.closed != 1 {
		t.Errorf("windows closed = %d, want 1", h.window.closed)
	}
	if h.clock.Pending() != 1 {
		t.Errorf("live timers = %d, want 1", h.clock.Pending())
	}

	h.clock.Advance(25*time.Minute - time.Second)
	if got := h.sched.State().Kind(); got != scheduler.StateWorking {
		t.Fatalf("state before fresh interval = %q, want %q", got, scheduler.StateWorking)
	}
	h.clock.Advance(time.Second)
	if got := h.sched.State().Kind(); got != scheduler.StateBreakPending {
		t.Fatalf("state after fresh interval = %q, want %q", got, scheduler.StateBreakPending)
	}
}

func TestDeclineKeepsExistingSchedule(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.sched.Start()
	h.clock.Advance(25 * time.Minute)
	h.clock.Advance(time.Minute)

	h.sched.Decline()
	if got := h.sched.State().Kind(); got != scheduler.StateWorking {
		t.Fatalf("state after decline = %q, want %q", got, scheduler.StateWorking)
	}

	h.clock.Advance(24 * time.Minute)
	if got := h.sched.State().Kind(); got != scheduler.StateBreakPending {
		t.Errorf("state at 50m = %q, want %q", got, scheduler.StateBreakPending)
	}
	if h.notifier.prompts != 2 {
		t.Errorf("prompts = %d, want 2", h.notifier.prompts)
	}
}

func TestDeclineResetsTimerWhenConfigured(t *testing.T) {
	config := defaultConfig()
	config.DeclineResetsTimer = true
	h := newHarness(t, config)
	h.sched.Start()
	h.clock.Advance(25 * time.Minute)
	h.clock.Advance(time.Minute)

	h.sched.Decline()
	h.clock.Advance(24 * time.Minute)
	if got := h.sched.State().Kind(); got != scheduler.StateWorking {
		t.Fatalf("state at 50m = %q, want %q", got, scheduler.StateWorking)
	}
	h.clock.Advance(time.Minute)
	if got := h.sched.State().Kind(); got != scheduler.StateBreakPending {
		t.Errorf("state at 51m = %q, want %q", got, scheduler.StateBreakPending)
	}
	if h.clock.Pending() != 1 {
		t.Errorf("live timers = %d, want 1", h.clock.Pending())
	}
}

func TestTimerFiringWhilePendingPromptsAgain(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.sched.Start()

	h.clock.Advance(50 * time.Minute)
	if got := h.sched.State().Kind(); got != scheduler.StateBreakPending {
		t.Fatalf("state = %q, want %q", got, scheduler.StateBreakPending)
	}
	if h.notifier.prompts != 2 {
		t.Errorf("prompts = %d, want 2", h.notifier.prompts)
	}
}

func TestTakeBreakNowCancelsPendingPromptAndTimer(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.sched.Start()
	h.clock.Advance(25 * time.Minute)

	h.sched.TakeBreakNow()
	if got := h.sched.State().Kind(); got != scheduler.StateOnBreak {
		t.Fatalf("state = %q, want %q", got, scheduler.StateOnBreak)
	}
	if h.notifier.dismissals != 1 {
		t.Errorf("dismissals = %d, want 1", h.notifier.dismissals)
	}

	h.clock.Advance(3 * time.Hour)
	if h.notifier.prompts != 1 {
		t.Errorf("prompts during break = %d, want 1", h.notifier.prompts)
	}
	if got := h.sched.State().Kind(); got != scheduler.StateOnBreak {
		t.Errorf("state after long break = %q, want %q", got, scheduler.StateOnBreak)
	}
}

func TestTakeBreakNowFromWorking(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.sched.Start()
	h.clock.Advance(10 * time.Minute)

	h.sched.TakeBreakNow()
	h.sched.TakeBreakNow()
	if len(h.loader.loads) != 1 {
		t.Errorf("loads = %d, want 1", len(h.loader.loads))
	}
	if h.notifier.dismissals != 0 {
		t.Errorf("dismissals = %d, want 0", h.notifier.dismissals)
	}

	h.sched.EndBreak()
	working := h.sched.State().(scheduler.Working)
	if want := h.start.Add(35 * time.Minute); !working.NextBreakAt.Equal(want) {
		t.Errorf("NextBreakAt = %v, want %v", working.NextBreakAt, want)
	}
}

func TestAcceptAndDeclineIgnoredOutsidePrompt(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.sched.Start()

	h.sched.Accept()
	h.sched.Decline()
	h.sched.EndBreak()
	if got := h.sched.State().Kind(); got != scheduler.StateWorking {
		t.Errorf("state = %q, want %q", got, scheduler.StateWorking)
	}
	if len(h.loader.loads) != 0 {
		t.Errorf("loads = %d, want 0", len(h.loader.loads))
	}
}

func TestPromptFailureStillEntersPending(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.notifier.promptErr = errors.New("notifications unavailable")
	events := h.sched.Subscribe(10)
	h.sched.Start()

	h.clock.Advance(25 * time.Minute)
	if got := h.sched.State().Kind(); got != scheduler.StateBreakPending {
		t.Fatalf("state = %q, want %q", got, scheduler.StateBreakPending)
	}

	var sawFailure bool
	for len(events) > 0 {
		if event := <-events; event.Type == scheduler.EventPromptFailed {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Error("no prompt_failed event published")
	}
}

func TestWarningFiresOnceDuringBreak(t *testing.T) {
	h := newHarness(t, defaultConfig())
	events := h.sched.Subscribe(10)
	h.sched.Start()
	h.sched.TakeBreakNow()

	h.clock.Advance(5 * time.Minute)
	h.clock.Advance(20 * time.Minute)
	if len(h.notifier.warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(h.notifier.warnings))
	}
	if h.notifier.warnings[0] != 5*time.Minute {
		t.Errorf("warning elapsed = %v, want 5m", h.notifier.warnings[0])
	}
	onBreak := h.sched.State().(scheduler.OnBreak)
	if !onBreak.Session.WarningFired {
		t.Error("session WarningFired = false, want true")
	}

	warningEvents := 0
	for len(events) > 0 {
		if event := <-events; event.Type == scheduler.EventBreakWarning {
			warningEvents++
		}
	}
	if warningEvents != 1 {
		t.Errorf("warning events = %d, want 1", warningEvents)
	}
}

func TestEndBreakBeforeThresholdSuppressesWarning(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.sched.Start()
	h.sched.TakeBreakNow()
	h.clock.Advance(time.Minute)

	h.sched.EndBreak()
	h.clock.Advance(10 * time.Minute)
	if len(h.notifier.warnings) != 0 {
		t.Errorf("warnings = %d, want 0", len(h.notifier.warnings))
	}

	h.sched.TakeBreakNow()
	onBreak := h.sched.State().(scheduler.OnBreak)
	if onBreak.Session.WarningFired {
		t.Error("second session starts with warning fired")
	}
}

// leakyClock ignores Stop so a cancelled timer still fires, as a timer racing
// its cancellation would.
type leakyClock struct {
	*clock.Manual
}

type leakyTimer struct{}

func (leakyTimer) Stop() {}

func (leaky leakyClock) Every(interval time.Duration, callback func()) clock.Timer {
	leaky.Manual.Every(interval, callback)
	return leakyTimer{}
}

func TestCancelledTimerCallbacksAreDiscarded(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	manual := clock.NewManual(start)
	notifier := &fakeNotifier{}
	sched := scheduler.New(defaultConfig(), scheduler.Dependencies{
		Clock:    leakyClock{Manual: manual},
		Notifier: notifier,
	})
	defer sched.Stop()

	sched.Start()
	manual.Advance(10 * time.Minute)
	sched.TakeBreakNow()
	manual.Advance(time.Minute)
	sched.EndBreak()

	// The first timer is still live at 25m; only the restarted one at 36m counts.
	manual.Advance(20 * time.Minute)
	if notifier.prompts != 0 {
		t.Fatalf("prompts at 31m = %d, want 0", notifier.prompts)
	}
	manual.Advance(5 * time.Minute)
	if notifier.prompts != 1 {
		t.Errorf("prompts at 36m = %d, want 1", notifier.prompts)
	}
}

func TestStopCancelsEverythingAndClosesObservers(t *testing.T) {
	h := newHarness(t, defaultConfig())
	events := h.sched.Subscribe(10)
	h.sched.Start()
	h.sched.TakeBreakNow()

	h.sched.Stop()
	if h.clock.Pending() != 0 {
		t.Errorf("live timers after stop = %d, want 0", h.clock.Pending())
	}
	if h.window.closed != 1 {
		t.Errorf("windows closed = %d, want 1", h.window.closed)
	}
	if got := h.sched.State().Kind(); got != scheduler.StateIdle {
		t.Errorf("state after stop = %q, want %q", got, scheduler.StateIdle)
	}

	for range events {
	}
	h.sched.TakeBreakNow()
	if got := h.sched.State().Kind(); got != scheduler.StateIdle {
		t.Errorf("state after stop and manual break = %q, want %q", got, scheduler.StateIdle)
	}

	late := h.sched.Subscribe(1)
	if _, open := <-late; open {
		t.Error("subscription after stop is open")
	}
}

func TestRefreshContentOnlyDuringBreak(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.sched.Start()
	if h.sched.RefreshContent() {
		t.Error("RefreshContent while working = true, want false")
	}
	h.sched.TakeBreakNow()
	if !h.sched.RefreshContent() {
		t.Error("RefreshContent on break = false, want true")
	}
	if len(h.loader.loads) != 2 {
		t.Errorf("loads = %d, want 2", len(h.loader.loads))
	}
}

func TestSnapshotCarriesDisplayMetadata(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.sched.Start()

	snapshot := h.sched.Snapshot()
	if snapshot.State != scheduler.StateWorking {
		t.Errorf("snapshot state = %q, want %q", snapshot.State, scheduler.StateWorking)
	}
	if snapshot.BreakDuration != 5*time.Minute {
		t.Errorf("break duration = %v, want 5m", snapshot.BreakDuration)
	}
	if snapshot.Session != nil {
		t.Error("snapshot session set while working")
	}
}
