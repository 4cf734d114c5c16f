package timercore

import (
	"time"

	"lapclock/internal/core/model"
)

// Phase represents the current timer mode.
type Phase string

const (
	PhaseStopped     Phase = "stopped"
	PhaseRunning     Phase = "running"
	PhaseResting     Phase = "resting"
	PhasePaused      Phase = "paused"
	PhaseAlarmActive Phase = "alarm_active"
)

// State is an immutable snapshot of the timer at one instant. A new
// value replaces the old one wholesale on every transition; observers
// never see partial mutation.
type State struct {
	Phase         Phase
	TimeRemaining time.Duration
	CurrentLap    int
	TotalLaps     int

	// IsPaused mirrors Phase == PhasePaused for observer convenience.
	IsPaused bool

	// Configuration is the recipe active for this run.
	Configuration model.TimerConfiguration

	// IntervalStart marks when the currently accumulating running
	// segment began. Meaningless while paused or stopped.
	IntervalStart time.Time

	// TotalRunning is the running time already consumed in the current
	// interval across segments that ended in a pause. Remaining time is
	// always intervalDuration - TotalRunning - (now - IntervalStart),
	// which keeps pause/resume cycles drift-free.
	TotalRunning time.Duration
}

// stoppedState is the canonical snapshot for a given configuration.
func stoppedState(config model.TimerConfiguration) State {
	config = config.Normalized()
	return State{
		Phase:         PhaseStopped,
		TimeRemaining: config.WorkDuration,
		CurrentLap:    1,
		TotalLaps:     config.Laps,
		Configuration: config,
	}
}

// intervalDuration returns the full length of the interval the state is
// currently counting down.
func (state State) intervalDuration() time.Duration {
	if state.Phase == PhaseResting {
		return state.Configuration.RestDuration
	}
	return state.Configuration.WorkDuration
}
