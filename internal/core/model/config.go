package model

import "time"

// Bounds applied by Normalized. Out-of-range values are clamped, never rejected.
const (
	MinLaps = 1
	MaxLaps = 999

	// InfiniteLaps is the sentinel lap count meaning "repeat until stopped".
	InfiniteLaps = 999

	MinWorkDuration = time.Second
	MaxWorkDuration = 30 * time.Minute

	MaxRestDuration = 10 * time.Minute
)

// TimerConfiguration describes one workout recipe: a number of laps,
// each a work interval followed by an optional rest interval.
// Values are immutable once handed to the timer core.
type TimerConfiguration struct {
	ID           string
	Laps         int
	WorkDuration time.Duration
	RestDuration time.Duration
	LastUsed     time.Time
}

// DefaultConfiguration returns the classic Tabata recipe.
func DefaultConfiguration() TimerConfiguration {
	return TimerConfiguration{
		ID:           "tabata",
		Laps:         8,
		WorkDuration: 20 * time.Second,
		RestDuration: 10 * time.Second,
	}
}

// Normalized returns a copy with all fields clamped into their valid ranges.
func (config TimerConfiguration) Normalized() TimerConfiguration {
	if config.Laps < MinLaps {
		config.Laps = MinLaps
	}
	if config.Laps > MaxLaps {
		config.Laps = MaxLaps
	}
	if config.WorkDuration < MinWorkDuration {
		config.WorkDuration = MinWorkDuration
	}
	if config.WorkDuration > MaxWorkDuration {
		config.WorkDuration = MaxWorkDuration
	}
	if config.RestDuration < 0 {
		config.RestDuration = 0
	}
	if config.RestDuration > MaxRestDuration {
		config.RestDuration = MaxRestDuration
	}
	return config
}

// Infinite reports whether the recipe uses the open-ended lap sentinel.
func (config TimerConfiguration) Infinite() bool {
	return config.Laps >= InfiniteLaps
}

// HasRest reports whether laps include a rest interval.
func (config TimerConfiguration) HasRest() bool {
	return config.RestDuration > 0
}
