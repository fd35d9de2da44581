package ai

import (
	"golang.org/x/exp/rand"

	"grid-snake/game/manager"
	"grid-snake/game/types"
	"grid-snake/input"
)

// Viewer exposes settled snapshots of the simulation.
type Viewer interface {
	Snapshot() types.Snapshot
}

// Autopilot steers the snake with a Q-learning agent. It is an input
// source: one decision per completed tick, learning from each transition.
type Autopilot struct {
	Agent       *QLearning
	AutoRestart bool

	view       Viewer
	lastTick   uint64
	decided    bool
	pending    bool
	lastState  State
	lastAction Action
}

func NewAutopilot(view Viewer, rng *rand.Rand) *Autopilot {
	return &Autopilot{
		Agent:       NewQLearning(rng),
		AutoRestart: true,
		view:        view,
	}
}

func (a *Autopilot) Poll() (input.Frame, error) {
	snap := a.view.Snapshot()

	if snap.Last.Terminal() {
		if a.pending {
			a.Agent.Update(a.lastState, a.lastAction, Observe(snap), snap.Last)
			a.pending = false
		}
		a.decided = false
		return input.Frame{Restart: a.AutoRestart}, nil
	}

	if a.decided && snap.Tick == a.lastTick {
		return input.Frame{}, nil
	}

	state := Observe(snap)
	if a.pending {
		a.Agent.Update(a.lastState, a.lastAction, state, snap.Last)
	}
	action := a.Agent.GetAction(state, Allowed(snap.Travel))

	a.lastState = state
	a.lastAction = action
	a.lastTick = snap.Tick
	a.decided = true
	a.pending = true
	return input.Frame{Directions: []types.Direction{action}}, nil
}

// Allowed lists the directions that do not reverse travel.
func Allowed(travel types.Direction) []Action {
	out := make([]Action, 0, len(types.Directions))
	for _, d := range types.Directions {
		if d != travel.Opposite() {
			out = append(out, d)
		}
	}
	return out
}

// Observe extracts the agent state from a snapshot.
func Observe(snap types.Snapshot) State {
	var s State

	cm := manager.NewCollisionManager(snap.Grid)
	for i, p := range cm.Neighbours(snap.Head) {
		s.DangerDirs[i] = snap.At(p.Row, p.Col) == types.Body
	}

	food, ok := findFood(snap)
	if !ok {
		return s
	}
	dr := shortestOffset(food.Row-snap.Head.Row, snap.Height)
	dc := shortestOffset(food.Col-snap.Head.Col, snap.Width)
	s.RelativeFoodDir = [2]int{sign(dr), sign(dc)}
	s.FoodDistance = abs(dr) + abs(dc)
	return s
}

func findFood(snap types.Snapshot) (types.Point, bool) {
	for i, k := range snap.Cells {
		if k == types.Food {
			return types.Point{Row: i / snap.Width, Col: i % snap.Width}, true
		}
	}
	return types.Point{}, false
}

// shortestOffset folds d into the shorter way around a ring of size n.
func shortestOffset(d, n int) int {
	if d > n/2 {
		d -= n
	} else if d < -n/2 {
		d += n
	}
	return d
}

func sign(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
