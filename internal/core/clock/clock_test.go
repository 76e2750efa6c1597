package clock_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"mindfulbreak/internal/core/clock"
)

func TestRealAfterFunc(t *testing.T) {
	wall := clock.NewReal(nil)
	defer wall.Close()

	fired := make(chan struct{})
	wall.AfterFunc(10*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("AfterFunc callback did not run")
	}

	var late atomic.Int32
	timer := wall.AfterFunc(50*time.Millisecond, func() { late.Add(1) })
	timer.Stop()
	time.Sleep(100 * time.Millisecond)
	if late.Load() != 0 {
		t.Error("stopped AfterFunc still fired")
	}
}

func TestRealEveryStoppedNeverFires(t *testing.T) {
	wall := clock.NewReal(nil)
	defer wall.Close()

	var fired atomic.Int32
	timer := wall.Every(time.Second, func() { fired.Add(1) })
	timer.Stop()
	timer.Stop()

	time.Sleep(1500 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("fired = %d after Stop, want 0", fired.Load())
	}
}

func TestRealEveryFiresAndRecoversPanics(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	wall := clock.NewReal(log)
	defer wall.Close()

	var fired atomic.Int32
	timer := wall.Every(time.Second, func() {
		fired.Add(1)
		panic("boom")
	})
	defer timer.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for fired.Load() == 0 || !loggedError(hook) {
		if time.Now().After(deadline) {
			t.Fatalf("fired = %d, error logged = %v", fired.Load(), loggedError(hook))
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func loggedError(hook *logtest.Hook) bool {
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Data["component"] == "clock" {
			return true
		}
	}
	return false
}
