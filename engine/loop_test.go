package engine

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"grid-snake/game"
	"grid-snake/game/manager"
	"grid-snake/game/types"
	"grid-snake/input"
)

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

// scriptedSource returns frames[i] on the i-th poll (0-based) and an empty
// frame otherwise.
type scriptedSource struct {
	frames map[int]input.Frame
	polls  int
	err    error
}

func (s *scriptedSource) Poll() (input.Frame, error) {
	defer func() { s.polls++ }()
	if s.err != nil {
		return input.Frame{}, s.err
	}
	return s.frames[s.polls], nil
}

type recordingSink struct {
	frames []types.Snapshot
	err    error
}

func (s *recordingSink) Render(snap types.Snapshot) error {
	s.frames = append(s.frames, snap)
	return s.err
}

type recordingListener struct {
	results []types.TickResult
}

func (l *recordingListener) OnTick(r types.TickResult) {
	l.results = append(l.results, r)
}

type fakeSim struct {
	results  []types.TickResult
	ticks    int
	resets   int
	commits  int
	fruitErr error
	dirs     []types.Direction
	last     types.TickResult
}

func (f *fakeSim) GenerateFruit() error { return f.fruitErr }

func (f *fakeSim) RequestDirectionChange(d types.Direction) { f.dirs = append(f.dirs, d) }

func (f *fakeSim) CommitDirection() { f.commits++ }

func (f *fakeSim) Tick() types.TickResult {
	r := types.Continue
	if f.ticks < len(f.results) {
		r = f.results[f.ticks]
	}
	f.ticks++
	f.last = r
	return r
}

func (f *fakeSim) Reset() {
	f.resets++
	f.last = types.Continue
}

func (f *fakeSim) Snapshot() types.Snapshot {
	return types.Snapshot{
		Grid:   types.Grid{Width: 4, Height: 4},
		Cells:  make([]types.CellKind, 16),
		Length: 2,
		Last:   f.last,
	}
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func newTestLoop(sim Simulation, src input.Source, sink Sink, opts Options) (*Loop, *manager.StateManager) {
	if opts.Clock == nil {
		opts.Clock = newFakeClock()
	}
	if opts.Logger == nil {
		opts.Logger, _ = quietLogger()
	}
	state := manager.NewStateManager()
	return NewLoop(sim, state, src, sink, opts), state
}

func steps(t *testing.T, l *Loop, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		more, err := l.Step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if !more {
			t.Fatalf("step %d: loop exited", i)
		}
	}
}

func newGrid(t *testing.T) *game.SnakeGrid {
	t.Helper()
	g, err := game.NewSnakeGrid(25, 25, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatalf("NewSnakeGrid: %v", err)
	}
	return g
}

func TestTickCadence(t *testing.T) {
	g := newGrid(t)
	sink := &recordingSink{}
	clock := newFakeClock()
	l, _ := newTestLoop(g, &scriptedSource{}, sink, Options{
		TickInterval: 100 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		Clock:        clock,
	})
	l.Start()

	if n := sink.frames[0].Count(types.Food); n != 1 {
		t.Fatalf("opening frame has %d food cells, want 1", n)
	}

	steps(t, l, 20)
	if got := g.Snapshot().Tick; got != 0 {
		t.Fatalf("ticks after 20 polls = %d, want 0", got)
	}
	steps(t, l, 1)
	if got := g.Snapshot().Tick; got != 1 {
		t.Fatalf("ticks after 21 polls = %d, want 1", got)
	}
	steps(t, l, 20)
	if got := g.Snapshot().Tick; got != 2 {
		t.Fatalf("ticks after 41 polls = %d, want 2", got)
	}
	if len(sink.frames) != 3 {
		t.Fatalf("rendered %d frames, want 3", len(sink.frames))
	}
	if clock.slept != 41*5*time.Millisecond {
		t.Fatalf("slept %v, want %v", clock.slept, 41*5*time.Millisecond)
	}
}

func TestStalledLoopTicksOnce(t *testing.T) {
	sim := &fakeSim{}
	clock := newFakeClock()
	l, _ := newTestLoop(sim, &scriptedSource{}, &recordingSink{}, Options{Clock: clock})
	l.Start()

	clock.now = clock.now.Add(time.Second)
	steps(t, l, 1)
	if sim.ticks != 1 {
		t.Fatalf("ticks after a 1s stall = %d, want 1", sim.ticks)
	}
	steps(t, l, 1)
	if sim.ticks != 1 {
		t.Fatalf("backlog replayed: %d ticks", sim.ticks)
	}
}

func TestDirectionsForwarded(t *testing.T) {
	g := newGrid(t)
	src := &scriptedSource{frames: map[int]input.Frame{
		0: {Directions: []types.Direction{types.Up, types.Down}},
	}}
	l, _ := newTestLoop(g, src, &recordingSink{}, Options{})
	l.Start()

	steps(t, l, 1)
	// Down reverses the queued Up and is dropped.
	if g.TravelDirection() != types.Up {
		t.Fatalf("travel = %v, want up", g.TravelDirection())
	}
	steps(t, l, 20)
	if want := (types.Point{Row: 5, Col: 6}); g.Head() != want {
		t.Fatalf("head = %+v, want %+v", g.Head(), want)
	}
	if g.PreviousDirection() != types.Up {
		t.Fatalf("previous = %v, want up", g.PreviousDirection())
	}
}

func TestLoseStopsTicking(t *testing.T) {
	sim := &fakeSim{results: []types.TickResult{types.Continue, types.Lose}}
	listener := &recordingListener{}
	logger, buf := quietLogger()
	l, state := newTestLoop(sim, &scriptedSource{}, &recordingSink{}, Options{
		Listeners: []Listener{listener},
		Logger:    logger,
	})
	l.Start()

	steps(t, l, 200)
	if sim.ticks != 2 {
		t.Fatalf("ticks = %d, want 2", sim.ticks)
	}
	if sim.commits != 2 {
		t.Fatalf("commits = %d, want one per tick", sim.commits)
	}
	if state.Status() != manager.Lost {
		t.Fatalf("status = %v, want lost", state.Status())
	}
	if len(listener.results) != 2 || listener.results[1] != types.Lose {
		t.Fatalf("listener saw %v", listener.results)
	}
	if !strings.Contains(buf.String(), "lost") {
		t.Fatalf("loss not logged: %q", buf.String())
	}
}

func TestRestartKey(t *testing.T) {
	sim := &fakeSim{results: []types.TickResult{types.Lose}}
	src := &scriptedSource{frames: map[int]input.Frame{
		0:  {Restart: true}, // ignored while running
		50: {Restart: true},
	}}
	l, state := newTestLoop(sim, src, &recordingSink{}, Options{})
	l.Start()

	steps(t, l, 50)
	if sim.resets != 0 {
		t.Fatalf("restart while running reset the grid")
	}
	if state.Status() != manager.Lost {
		t.Fatalf("status = %v, want lost", state.Status())
	}

	steps(t, l, 1)
	if sim.resets != 1 || !state.Running() || state.Round().Round != 2 {
		t.Fatalf("after restart: resets %d status %v round %d", sim.resets, state.Status(), state.Round().Round)
	}
	steps(t, l, 40)
	if sim.ticks < 2 {
		t.Fatalf("ticks after restart = %d, want more than 1", sim.ticks)
	}
}

func TestRestartOnLoss(t *testing.T) {
	sim := &fakeSim{results: []types.TickResult{types.Lose}}
	l, state := newTestLoop(sim, &scriptedSource{}, &recordingSink{}, Options{RestartOnLoss: true})
	l.Start()

	steps(t, l, 21)
	if sim.resets != 1 {
		t.Fatalf("resets = %d, want 1", sim.resets)
	}
	if !state.Running() || len(state.History()) != 1 {
		t.Fatalf("status %v history %d", state.Status(), len(state.History()))
	}
}

func TestFullGridAtStartIsWin(t *testing.T) {
	sim := &fakeSim{fruitErr: manager.ErrGridFull}
	l, state := newTestLoop(sim, &scriptedSource{}, &recordingSink{}, Options{})
	l.Start()
	steps(t, l, 50)

	if state.Status() != manager.Won {
		t.Fatalf("status = %v, want won", state.Status())
	}
	if sim.ticks != 0 {
		t.Fatalf("ticks = %d on a finished round", sim.ticks)
	}
}

func TestRenderErrorIsNotFatal(t *testing.T) {
	sim := &fakeSim{}
	logger, buf := quietLogger()
	l, _ := newTestLoop(sim, &scriptedSource{}, &recordingSink{err: errors.New("cell failed")}, Options{Logger: logger})
	l.Start()

	steps(t, l, 45)
	if sim.ticks != 2 {
		t.Fatalf("ticks = %d, want 2", sim.ticks)
	}
	if !strings.Contains(buf.String(), "render: cell failed") {
		t.Fatalf("render failure not logged: %q", buf.String())
	}
}

func TestSourceErrorAborts(t *testing.T) {
	boom := errors.New("no keyboard")
	l, _ := newTestLoop(&fakeSim{}, &scriptedSource{err: boom}, &recordingSink{}, Options{})
	l.Start()

	more, err := l.Step()
	if more || !errors.Is(err, boom) {
		t.Fatalf("Step() = %v, %v; want false and the source error", more, err)
	}
}

func TestRunStopsOnExit(t *testing.T) {
	src := &scriptedSource{frames: map[int]input.Frame{30: {Exit: true}}}
	sim := &fakeSim{}
	l, _ := newTestLoop(sim, src, &recordingSink{}, Options{})

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if src.polls != 31 {
		t.Fatalf("polls = %d, want 31", src.polls)
	}
	if sim.ticks != 1 {
		t.Fatalf("ticks = %d, want 1", sim.ticks)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &scriptedSource{}
	l, _ := newTestLoop(&fakeSim{}, src, &recordingSink{}, Options{})

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if src.polls != 0 {
		t.Fatalf("polls = %d after cancellation, want 0", src.polls)
	}
}
