package animation

import (
	"math"
	"time"
)

// Phase is the half of the breathing cycle a frame belongs to.
type Phase string

const (
	PhaseInhale Phase = "inhale"
	PhaseExhale Phase = "exhale"
)

// Label returns the prompt shown under the circle.
func (phase Phase) Label() string {
	if phase == PhaseExhale {
		return "Breathe out"
	}
	return "Breathe in"
}

// Breath describes one inhale/exhale cycle of the pulsing circle.
type Breath struct {
	HalfCycle time.Duration
	MinScale  float32
	MaxScale  float32
}

// DefaultBreath grows the circle by 30% over four seconds and back.
func DefaultBreath() Breath {
	return Breath{HalfCycle: 4 * time.Second, MinScale: 1.0, MaxScale: 1.3}
}

// Frame is the circle state at a point in time.
type Frame struct {
	Scale float32
	Phase Phase
}

// At returns the frame elapsed into the animation. Both halves ease in and out.
func (breath Breath) At(elapsed time.Duration) Frame {
	if breath.HalfCycle <= 0 {
		return Frame{Scale: breath.MinScale, Phase: PhaseInhale}
	}
	if elapsed < 0 {
		elapsed = 0
	}
	cycle := 2 * breath.HalfCycle
	position := elapsed % cycle
	phase := PhaseInhale
	if position >= breath.HalfCycle {
		phase = PhaseExhale
		position -= breath.HalfCycle
	}

	progress := float64(position) / float64(breath.HalfCycle)
	eased := float32((1 - math.Cos(math.Pi*progress)) / 2)
	span := breath.MaxScale - breath.MinScale
	if phase == PhaseExhale {
		return Frame{Scale: breath.MaxScale - span*eased, Phase: phase}
	}
	return Frame{Scale: breath.MinScale + span*eased, Phase: phase}
}
