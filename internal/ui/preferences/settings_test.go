package preferences

import (
	"testing"
	"time"

	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/core/scheduler"
)

func TestOptionsFollowMenuOrder(t *testing.T) {
	options := Options()
	if len(options) != len(model.AllPreferences) {
		t.Fatalf("len = %d, want %d", len(options), len(model.AllPreferences))
	}
	if options[0] != "Nature Scene" || options[len(options)-1] != "Surprise Me" {
		t.Errorf("options = %q", options)
	}
	for _, label := range options {
		if _, err := model.ParsePreference(label); err != nil {
			t.Errorf("label %q does not parse: %v", label, err)
		}
	}
}

func TestStatusText(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		snapshot scheduler.Snapshot
		want     string
	}{
		{"working", scheduler.Snapshot{State: scheduler.StateWorking, NextBreakAt: now.Add(24*time.Minute + 5*time.Second)}, "Next break in 24:05"},
		{"overdue", scheduler.Snapshot{State: scheduler.StateWorking, NextBreakAt: now.Add(-time.Second)}, "Next break in 00:00"},
		{"pending", scheduler.Snapshot{State: scheduler.StateBreakPending}, "Break time! Waiting for you"},
		{"on break", scheduler.Snapshot{State: scheduler.StateOnBreak}, "On a break"},
		{"idle", scheduler.Snapshot{State: scheduler.StateIdle}, "Not running"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusText(tt.snapshot, now); got != tt.want {
				t.Errorf("StatusText = %q, want %q", got, tt.want)
			}
		})
	}
}
