// Package engine drives the simulation in real time: it polls input at a
// high rate, forwards direction intents and advances the grid on a fixed
// cadence, rendering each settled state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"grid-snake/game/manager"
	"grid-snake/game/types"
	"grid-snake/input"
)

const (
	DefaultTickInterval = 100 * time.Millisecond
	DefaultPollInterval = 5 * time.Millisecond
)

// Simulation is the grid the loop advances; *game.SnakeGrid implements it.
type Simulation interface {
	GenerateFruit() error
	RequestDirectionChange(dir types.Direction)
	CommitDirection()
	Tick() types.TickResult
	Reset()
	Snapshot() types.Snapshot
}

// Sink receives a settled grid after every tick.
type Sink interface {
	Render(snap types.Snapshot) error
}

// Listener is told about every tick result.
type Listener interface {
	OnTick(result types.TickResult)
}

// Clock abstracts time so the loop can be driven deterministically.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Options configures a Loop. Zero values fall back to defaults.
type Options struct {
	TickInterval  time.Duration
	PollInterval  time.Duration
	RestartOnLoss bool
	Clock         Clock
	Logger        *log.Logger
	Listeners     []Listener
}

type Loop struct {
	sim    Simulation
	state  *manager.StateManager
	source input.Source
	sink   Sink

	tickInterval  time.Duration
	pollInterval  time.Duration
	restartOnLoss bool
	clock         Clock
	logger        *log.Logger
	listeners     []Listener

	elapsed  time.Duration
	lastTime time.Time
}

func NewLoop(sim Simulation, state *manager.StateManager, source input.Source, sink Sink, opts Options) *Loop {
	l := &Loop{
		sim:           sim,
		state:         state,
		source:        source,
		sink:          sink,
		tickInterval:  opts.TickInterval,
		pollInterval:  opts.PollInterval,
		restartOnLoss: opts.RestartOnLoss,
		clock:         opts.Clock,
		logger:        opts.Logger,
		listeners:     opts.Listeners,
	}
	if l.tickInterval <= 0 {
		l.tickInterval = DefaultTickInterval
	}
	if l.pollInterval <= 0 {
		l.pollInterval = DefaultPollInterval
	}
	if l.clock == nil {
		l.clock = realClock{}
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	return l
}

// Start places the first fruit and draws the opening frame.
func (l *Loop) Start() {
	l.placeFirstFruit()
	l.lastTime = l.clock.Now()
	l.elapsed = 0
	l.render()
}

// Run starts the loop and iterates until the exit key, a source error or
// ctx cancellation.
func (l *Loop) Run(ctx context.Context) error {
	l.Start()
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		more, err := l.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Step runs one loop iteration. It returns false once exit was requested.
func (l *Loop) Step() (bool, error) {
	frame, err := l.source.Poll()
	if err != nil {
		return false, fmt.Errorf("poll input: %w", err)
	}
	if frame.Exit {
		return false, nil
	}

	for _, d := range frame.Directions {
		l.sim.RequestDirectionChange(d)
	}
	if frame.Restart && !l.state.Running() {
		l.restart()
	}

	now := l.clock.Now()
	l.elapsed += now.Sub(l.lastTime)
	l.lastTime = now
	if l.elapsed >= l.tickInterval {
		// One tick per iteration; a stalled loop drops the backlog but keeps its phase
		l.elapsed %= l.tickInterval
		if l.state.Running() {
			l.tick()
		}
	}

	l.clock.Sleep(l.pollInterval)
	return true, nil
}

func (l *Loop) tick() {
	l.sim.CommitDirection()
	result := l.sim.Tick()
	l.state.Record(result)
	for _, ln := range l.listeners {
		ln.OnTick(result)
	}

	snap := l.sim.Snapshot()
	switch result {
	case types.GrowAndContinue:
		l.logger.Printf("snake grew to %d", snap.Length)
	case types.Lose:
		l.logger.Printf("round %d lost after %d ticks at length %d",
			l.state.Round().Round, l.state.Round().Ticks, snap.Length)
	case types.Win:
		l.logger.Printf("round %d won: grid filled after %d ticks",
			l.state.Round().Round, l.state.Round().Ticks)
	}

	if err := l.sink.Render(snap); err != nil {
		l.logger.Printf("render: %v", err)
	}

	if result == types.Lose && l.restartOnLoss {
		l.restart()
	}
}

func (l *Loop) restart() {
	l.sim.Reset()
	l.state.NextRound()
	l.logger.Printf("round %d started", l.state.Round().Round)
	l.placeFirstFruit()
	l.elapsed = 0
	l.render()
}

func (l *Loop) placeFirstFruit() {
	if err := l.sim.GenerateFruit(); err != nil {
		if errors.Is(err, manager.ErrGridFull) {
			l.state.MarkWon()
			return
		}
		l.logger.Printf("place fruit: %v", err)
	}
}

// render failures never stop the simulation
func (l *Loop) render() {
	if err := l.sink.Render(l.sim.Snapshot()); err != nil {
		l.logger.Printf("render: %v", err)
	}
}
