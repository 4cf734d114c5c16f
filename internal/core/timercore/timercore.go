// Package timercore implements the workout interval state machine: a
// lap counter over alternating work and rest intervals with drift-free
// pause/resume accounting and conflated state fan-out.
package timercore

import (
	"errors"
	"sync"
	"time"

	"lapclock/internal/core/clock"
	"lapclock/internal/core/model"
)

// ErrAlreadyRunning is returned by Start when the machine is not in the
// stopped phase. It is the only command failure the core surfaces; all
// other phase mismatches are silent no-ops so racing UI input cannot
// produce spurious errors.
var ErrAlreadyRunning = errors.New("timer already running")

// ConfigurationProvider supplies the current recipe. The core reads it
// when constructed and again on Stop, so a stopped display always
// reflects the latest configuration rather than a stale run.
type ConfigurationProvider interface {
	Current() model.TimerConfiguration
}

// Options contains runtime options for the Core.
type Options struct {
	// TickInterval is the scheduler period. Defaults to one second.
	TickInterval time.Duration

	// AutoRestart makes DismissAlarm begin the next run instead of
	// stopping.
	AutoRestart bool
}

// Core owns the single authoritative State and serializes every
// command and tick under one mutex. The periodic tick goroutine exists
// only while the phase is Running or Resting; the machine is otherwise
// idle.
type Core struct {
	mu          sync.Mutex
	clock       clock.Clock
	provider    ConfigurationProvider
	options     Options
	state       State
	prePause    Phase
	broadcaster *Broadcaster
	tickStop    chan struct{}
	closed      bool
}

// New creates a stopped Core. The provider may be nil, in which case
// the default configuration seeds the stopped snapshot. A nil clock
// falls back to the system clock.
func New(provider ConfigurationProvider, timeSource clock.Clock, options Options) *Core {
	if timeSource == nil {
		timeSource = clock.System{}
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}

	config := model.DefaultConfiguration()
	if provider != nil {
		config = provider.Current()
	}

	core := &Core{
		clock:       timeSource,
		provider:    provider,
		options:     options,
		state:       stoppedState(config),
		broadcaster: NewBroadcaster(),
	}
	return core
}

// Subscribe attaches a state observer with conflated delivery. The
// returned cancel function detaches it.
func (core *Core) Subscribe() (<-chan State, func()) {
	return core.broadcaster.Subscribe()
}

// Current returns the latest state snapshot.
func (core *Core) Current() State {
	core.mu.Lock()
	defer core.mu.Unlock()
	return core.state
}

// Start begins a run of the given configuration from lap one. Allowed
// only while stopped; any other phase (or a closed core) returns
// ErrAlreadyRunning.
func (core *Core) Start(config model.TimerConfiguration) error {
	core.mu.Lock()
	defer core.mu.Unlock()

	if core.closed || core.state.Phase != PhaseStopped {
		return ErrAlreadyRunning
	}

	config = config.Normalized()
	core.state = State{
		Phase:         PhaseRunning,
		TimeRemaining: config.WorkDuration,
		CurrentLap:    1,
		TotalLaps:     config.Laps,
		Configuration: config,
		IntervalStart: core.clock.Now(),
	}
	core.startTickerLocked()
	core.publishLocked()
	return nil
}

// Pause freezes the countdown. The elapsed part of the current running
// segment is folded into the interval's accumulated running time, so a
// later Resume continues exactly where the countdown stood. No-op
// unless running or resting.
func (core *Core) Pause() {
	core.mu.Lock()
	defer core.mu.Unlock()

	if core.closed || (core.state.Phase != PhaseRunning && core.state.Phase != PhaseResting) {
		return
	}

	core.state.TotalRunning += core.segmentElapsedLocked()
	remaining := core.state.intervalDuration() - core.state.TotalRunning
	if remaining < 0 {
		remaining = 0
	}
	core.state.TimeRemaining = remaining

	core.prePause = core.state.Phase
	core.state.Phase = PhasePaused
	core.state.IsPaused = true
	core.state.IntervalStart = time.Time{}

	core.stopTickerLocked()
	core.publishLocked()
}

// Resume continues a paused countdown in the phase that was
// interrupted, opening a fresh running segment at the current instant.
// TimeRemaining is untouched, however long the pause lasted. No-op
// unless paused.
func (core *Core) Resume() {
	core.mu.Lock()
	defer core.mu.Unlock()

	if core.closed || core.state.Phase != PhasePaused {
		return
	}

	core.state.Phase = core.prePause
	core.state.IsPaused = false
	core.state.IntervalStart = core.clock.Now()

	core.startTickerLocked()
	core.publishLocked()
}

// Stop resets the machine to the canonical stopped snapshot built from
// the provider's current configuration. Allowed from any phase.
func (core *Core) Stop() {
	core.mu.Lock()
	defer core.mu.Unlock()

	if core.closed {
		return
	}

	core.stopTickerLocked()
	core.state = stoppedState(core.currentConfigLocked())
	core.prePause = PhaseStopped
	core.publishLocked()
}

// SkipRest ends the rest interval immediately, exactly as if its
// countdown had reached zero. No-op unless resting.
func (core *Core) SkipRest() {
	core.mu.Lock()
	defer core.mu.Unlock()

	if core.closed || core.state.Phase != PhaseResting {
		return
	}
	core.completeIntervalLocked(core.clock.Now())
	core.publishLocked()
}

// DismissAlarm acknowledges a finished run. With auto-restart enabled
// the machine moves straight into the next lap's work interval (or back
// to lap one when the run completed); otherwise it stops. No-op unless
// the alarm is active.
func (core *Core) DismissAlarm() {
	core.mu.Lock()
	defer core.mu.Unlock()

	if core.closed || core.state.Phase != PhaseAlarmActive {
		return
	}

	if !core.options.AutoRestart {
		core.stopTickerLocked()
		core.state = stoppedState(core.currentConfigLocked())
		core.publishLocked()
		return
	}

	lap := 1
	if core.state.CurrentLap < core.state.TotalLaps {
		lap = core.state.CurrentLap + 1
	}
	core.state.Phase = PhaseRunning
	core.state.CurrentLap = lap
	core.state.TimeRemaining = core.state.Configuration.WorkDuration
	core.state.TotalRunning = 0
	core.state.IntervalStart = core.clock.Now()

	core.startTickerLocked()
	core.publishLocked()
}

// Close shuts the core down: the tick scheduler stops and every
// subscriber channel is closed. Idempotent; all commands no-op
// afterwards.
func (core *Core) Close() {
	core.mu.Lock()
	if core.closed {
		core.mu.Unlock()
		return
	}
	core.closed = true
	core.stopTickerLocked()
	core.mu.Unlock()

	core.broadcaster.Close()
}

func (core *Core) run(stop <-chan struct{}) {
	ticker := time.NewTicker(core.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			core.tick()
		}
	}
}

// tick recomputes the countdown from absolute timestamps rather than
// decrementing, so scheduling jitter never accumulates.
func (core *Core) tick() {
	core.mu.Lock()
	defer core.mu.Unlock()

	if core.state.Phase != PhaseRunning && core.state.Phase != PhaseResting {
		return
	}

	now := core.clock.Now()
	remaining := core.state.intervalDuration() - core.state.TotalRunning - core.segmentElapsedLocked()
	if remaining <= 0 {
		core.completeIntervalLocked(now)
	} else {
		core.state.TimeRemaining = remaining
	}
	core.publishLocked()
}

// completeIntervalLocked applies the phase-transition rules when the
// current interval's countdown reaches zero. The lap counter advances
// only when the next work interval begins: on the Resting to Running
// edge, or on the Running to Running edge when the recipe has no rest.
func (core *Core) completeIntervalLocked(now time.Time) {
	state := &core.state
	config := state.Configuration

	// An infinite recipe never exhausts its laps; the counter keeps
	// climbing past the sentinel until the run is stopped.
	lapsRemain := state.CurrentLap < state.TotalLaps || config.Infinite()

	switch state.Phase {
	case PhaseRunning:
		switch {
		case config.HasRest():
			state.Phase = PhaseResting
			state.TimeRemaining = config.RestDuration
			state.IntervalStart = now
			state.TotalRunning = 0
		case lapsRemain:
			state.CurrentLap++
			state.TimeRemaining = config.WorkDuration
			state.IntervalStart = now
			state.TotalRunning = 0
		default:
			core.enterAlarmLocked()
		}
	case PhaseResting:
		if lapsRemain {
			state.CurrentLap++
			state.Phase = PhaseRunning
			state.TimeRemaining = config.WorkDuration
			state.IntervalStart = now
			state.TotalRunning = 0
		} else {
			core.enterAlarmLocked()
		}
	}
}

func (core *Core) enterAlarmLocked() {
	core.state.Phase = PhaseAlarmActive
	core.state.TimeRemaining = 0
	core.state.TotalRunning = 0
	core.state.IntervalStart = time.Time{}
	core.stopTickerLocked()
}

// segmentElapsedLocked returns time spent in the current running
// segment. Negative deltas from clock anomalies clamp to zero.
func (core *Core) segmentElapsedLocked() time.Duration {
	elapsed := core.clock.Now().Sub(core.state.IntervalStart)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func (core *Core) currentConfigLocked() model.TimerConfiguration {
	if core.provider != nil {
		return core.provider.Current()
	}
	return core.state.Configuration
}

func (core *Core) startTickerLocked() {
	if core.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	core.tickStop = stop
	go core.run(stop)
}

func (core *Core) stopTickerLocked() {
	if core.tickStop != nil {
		close(core.tickStop)
		core.tickStop = nil
	}
}

func (core *Core) publishLocked() {
	core.broadcaster.Publish(core.state)
}
