package scheduler_test

import (
	"testing"
	"time"

	"mindfulbreak/internal/core/clock"
	"mindfulbreak/internal/core/scheduler"
)

func TestSessionStopBeforeThresholdNeverWarns(t *testing.T) {
	manual := clock.NewManual(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	fired := 0
	session := scheduler.NewBreakSession("s1", manual, 5*time.Second, func(scheduler.SessionInfo) { fired++ })

	session.Start(manual.Now())
	session.Stop()
	manual.Advance(time.Minute)

	if fired != 0 {
		t.Errorf("warnings = %d, want 0", fired)
	}
	if session.WarningFired() {
		t.Error("WarningFired = true after stop")
	}
}

func TestSessionWarnsExactlyOnce(t *testing.T) {
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	manual := clock.NewManual(start)
	var infos []scheduler.SessionInfo
	session := scheduler.NewBreakSession("s2", manual, 5*time.Second, func(info scheduler.SessionInfo) {
		infos = append(infos, info)
	})

	session.Start(start)
	manual.Advance(4 * time.Second)
	if session.WarningFired() {
		t.Fatal("warning fired before threshold")
	}
	manual.Advance(time.Second)
	for i := 0; i < 3; i++ {
		if !session.WarningFired() {
			t.Fatalf("query %d: WarningFired = false, want true", i)
		}
	}
	manual.Advance(time.Hour)

	if len(infos) != 1 {
		t.Fatalf("warnings = %d, want 1", len(infos))
	}
	if infos[0].ID != "s2" || !infos[0].WarningFired {
		t.Errorf("warning info = %+v", infos[0])
	}
	if got := session.Elapsed(manual.Now()); got != time.Hour+5*time.Second {
		t.Errorf("Elapsed = %v, want 1h0m5s", got)
	}
}

func TestSessionStartIsIdempotent(t *testing.T) {
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	manual := clock.NewManual(start)
	session := scheduler.NewBreakSession("s3", manual, time.Second, nil)

	session.Start(start)
	session.Start(start.Add(time.Minute))
	if manual.Pending() != 1 {
		t.Errorf("pending timers = %d, want 1", manual.Pending())
	}
	if got := session.Info().StartedAt; !got.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", got, start)
	}

	session.Stop()
	session.Stop()
	if manual.Pending() != 0 {
		t.Errorf("pending timers after stop = %d, want 0", manual.Pending())
	}
}

func TestSessionStopWaitsForRunningWarning(t *testing.T) {
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	wall := clock.NewReal(nil)
	defer wall.Close()

	entered := make(chan struct{})
	release := make(chan struct{})
	session := scheduler.NewBreakSession("s4", wall, time.Millisecond, func(scheduler.SessionInfo) {
		close(entered)
		<-release
	})
	session.Start(start)
	<-entered

	stopped := make(chan struct{})
	go func() {
		session.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while warning callback was running")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-stopped
	if !session.WarningFired() {
		t.Error("WarningFired = false, want true")
	}
}
