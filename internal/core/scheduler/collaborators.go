package scheduler

import (
	"time"

	"mindfulbreak/internal/core/model"
)

// Notifier surfaces prompts and warnings to the user. Implementations must
// return promptly and must not call back into the Scheduler synchronously;
// answers arrive later through Accept and Decline.
type Notifier interface {
	RequestPermission()
	PromptBreak() error
	DismissPrompt()
	WarnLongBreak(elapsed time.Duration) error
}

// ContentLoader starts a content load and returns its generation.
type ContentLoader interface {
	Load(preference model.ContentPreference) uint64
}

// PreferenceSource returns the current content preference.
type PreferenceSource interface {
	Preference() model.ContentPreference
}

// BreakWindow opens and closes the break window.
type BreakWindow interface {
	OpenBreakWindow(session SessionInfo)
	CloseBreakWindow()
}

type noopNotifier struct{}

func (noopNotifier) RequestPermission()                {}
func (noopNotifier) PromptBreak() error                { return nil }
func (noopNotifier) DismissPrompt()                    {}
func (noopNotifier) WarnLongBreak(time.Duration) error { return nil }

type noopLoader struct{}

func (noopLoader) Load(model.ContentPreference) uint64 { return 0 }

type fixedPreference model.ContentPreference

func (preference fixedPreference) Preference() model.ContentPreference {
	return model.ContentPreference(preference)
}

type noopWindow struct{}

func (noopWindow) OpenBreakWindow(SessionInfo) {}
func (noopWindow) CloseBreakWindow()           {}
