package model

import "time"

// Default tunables used when the config file is missing or invalid.
const (
	DefaultWorkDurationMinutes  = 25
	DefaultBreakDurationSeconds = 300
	DefaultWarningTimeSeconds   = 5
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "text"

	// ControlDisabled as ControlAddress turns the control API off. An empty
	// address serves it on the single-instance port.
	ControlDisabled = "off"
)

// Config contains the static tunables loaded once at process start.
type Config struct {
	WorkDuration     time.Duration
	BreakDuration    time.Duration
	WarningThreshold time.Duration

	// DeclineResetsTimer restarts the work interval when a prompt is declined.
	DeclineResetsTimer bool

	LogLevel       string
	LogFormat      string
	ControlAddress string
}

// DefaultConfig returns built-in defaults.
func DefaultConfig() Config {
	return Config{
		WorkDuration:     DefaultWorkDurationMinutes * time.Minute,
		BreakDuration:    DefaultBreakDurationSeconds * time.Second,
		WarningThreshold: DefaultWarningTimeSeconds * time.Second,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
	}
}

// SchedulerConfig contains the runtime settings for the work/break state machine.
type SchedulerConfig struct {
	WorkInterval       time.Duration
	BreakDuration      time.Duration
	WarningThreshold   time.Duration
	DeclineResetsTimer bool
}

// SchedulerConfig converts Config to SchedulerConfig.
func (config Config) SchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		WorkInterval:       config.WorkDuration,
		BreakDuration:      config.BreakDuration,
		WarningThreshold:   config.WarningThreshold,
		DeclineResetsTimer: config.DeclineResetsTimer,
	}
}
