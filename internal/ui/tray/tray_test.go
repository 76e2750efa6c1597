package tray

import (
	"testing"

	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/core/scheduler"
)

func TestBreakItemFollowsState(t *testing.T) {
	var took, ended int
	manager := New(nil, model.PreferenceJoke, Callbacks{
		OnTakeBreak: func() { took++ },
		OnEndBreak:  func() { ended++ },
	})

	manager.SetState(scheduler.StateWorking)
	manager.breakItem.Action()
	if took != 1 || ended != 0 {
		t.Errorf("took, ended = %d, %d, want 1, 0", took, ended)
	}

	manager.SetState(scheduler.StateOnBreak)
	if manager.breakItem.Label != "Back to Work" {
		t.Errorf("label = %q, want Back to Work", manager.breakItem.Label)
	}
	manager.breakItem.Action()
	if ended != 1 {
		t.Errorf("ended = %d, want 1", ended)
	}

	manager.SetState(scheduler.StateIdle)
	if !manager.breakItem.Disabled {
		t.Error("break item enabled while idle")
	}
}

func TestPreferenceChoicesAreExclusive(t *testing.T) {
	var picked []model.ContentPreference
	manager := New(nil, model.PreferenceJoke, Callbacks{
		OnPreference: func(preference model.ContentPreference) { picked = append(picked, preference) },
	})
	if !manager.choices[model.PreferenceJoke].Checked {
		t.Fatal("initial preference not checked")
	}

	manager.choices[model.PreferenceNature].Action()
	for choice, item := range manager.choices {
		if item.Checked != (choice == model.PreferenceNature) {
			t.Errorf("%s checked = %v", choice, item.Checked)
		}
	}
	if len(picked) != 1 || picked[0] != model.PreferenceNature {
		t.Errorf("picked = %v", picked)
	}
}

func TestSetStatus(t *testing.T) {
	manager := New(nil, model.DefaultPreference, Callbacks{})
	manager.SetStatus("Next break in 12:00")
	if manager.statusItem.Label != "Next break in 12:00" {
		t.Errorf("status = %q", manager.statusItem.Label)
	}
}
