package scheduler

import "time"

// StateKind names the current WorkBreakState variant.
type StateKind string

const (
	StateIdle         StateKind = "idle"
	StateWorking      StateKind = "working"
	StateBreakPending StateKind = "break_pending"
	StateOnBreak      StateKind = "on_break"
)

// State is the work/break state machine position. The concrete types are
// Idle, Working, BreakPending and OnBreak; no other type implements it.
type State interface {
	Kind() StateKind
	isState()
}

// Idle is the state before Start and after Stop.
type Idle struct{}

// Working means the repeating focus timer is running.
type Working struct {
	Interval    time.Duration
	Since       time.Time
	NextBreakAt time.Time
}

// BreakPending means the break prompt is on screen.
type BreakPending struct {
	Since       time.Time
	NextBreakAt time.Time
}

// OnBreak means a break window is open.
type OnBreak struct {
	Session SessionInfo
}

func (Idle) Kind() StateKind         { return StateIdle }
func (Working) Kind() StateKind      { return StateWorking }
func (BreakPending) Kind() StateKind { return StateBreakPending }
func (OnBreak) Kind() StateKind      { return StateOnBreak }

func (Idle) isState()         {}
func (Working) isState()      {}
func (BreakPending) isState() {}
func (OnBreak) isState()      {}

// SessionInfo is a read-only view of a BreakSession.
type SessionInfo struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	WarningFired bool      `json:"warning_fired"`
}

// Trigger records why a break was opened.
type Trigger string

const (
	TriggerAccepted Trigger = "accepted"
	TriggerManual   Trigger = "manual"
)

// EventType defines the type of scheduler event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventBreakWarning EventType = "break_warning"
	EventPromptFailed EventType = "prompt_failed"
)

// Event represents a scheduler update for observers.
type Event struct {
	Type        EventType    `json:"type"`
	State       StateKind    `json:"state"`
	Trigger     Trigger      `json:"trigger,omitempty"`
	Session     *SessionInfo `json:"session,omitempty"`
	NextBreakAt time.Time    `json:"next_break_at,omitzero"`
	Message     string       `json:"message,omitempty"`
	At          time.Time    `json:"at"`
}

// Snapshot is a serializable view of the scheduler.
type Snapshot struct {
	State         StateKind     `json:"state"`
	Since         time.Time     `json:"since,omitzero"`
	NextBreakAt   time.Time     `json:"next_break_at,omitzero"`
	WorkInterval  time.Duration `json:"work_interval"`
	BreakDuration time.Duration `json:"break_duration"`
	Session       *SessionInfo  `json:"session,omitempty"`
}

// Describe converts a State into a Snapshot.
func Describe(state State) Snapshot {
	switch current := state.(type) {
	case Working:
		return Snapshot{State: StateWorking, Since: current.Since, NextBreakAt: current.NextBreakAt, WorkInterval: current.Interval}
	case BreakPending:
		return Snapshot{State: StateBreakPending, Since: current.Since, NextBreakAt: current.NextBreakAt}
	case OnBreak:
		session := current.Session
		return Snapshot{State: StateOnBreak, Since: session.StartedAt, Session: &session}
	default:
		return Snapshot{State: StateIdle}
	}
}
