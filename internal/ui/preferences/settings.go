package preferences

import (
	"fmt"
	"time"

	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/core/scheduler"
)

// Options returns the radio labels in menu order.
func Options() []string {
	labels := make([]string, 0, len(model.AllPreferences))
	for _, preference := range model.AllPreferences {
		labels = append(labels, preference.Label())
	}
	return labels
}

// StatusText describes the scheduler for the status line.
func StatusText(snapshot scheduler.Snapshot, now time.Time) string {
	switch snapshot.State {
	case scheduler.StateWorking:
		return "Next break in " + formatRemaining(snapshot.NextBreakAt.Sub(now))
	case scheduler.StateBreakPending:
		return "Break time! Waiting for you"
	case scheduler.StateOnBreak:
		return "On a break"
	default:
		return "Not running"
	}
}

func formatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Round(time.Second).Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
