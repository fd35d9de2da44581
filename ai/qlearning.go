package ai

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"grid-snake/game/types"
)

// State is what the agent sees from the head: which way the food lies and
// which neighbouring cells are occupied by the body.
type State struct {
	RelativeFoodDir [2]int  // sign of the shortest wrapped (row, col) offset to the food
	FoodDistance    int     // wrapped Manhattan distance to the food
	DangerDirs      [4]bool // body in each direction (up, right, down, left)
}

// Action is a movement direction.
type Action = types.Direction

// QTable maps a state key to the learned value of each action.
type QTable map[string]map[Action]float64

type QLearning struct {
	QTable         QTable
	LearningRate   float64
	Discount       float64
	Epsilon        float64
	InitialEpsilon float64
	MinEpsilon     float64
	EpsilonDecay   float64 // per finished game
	TotalReward    float64
	GamesPlayed    int
	rng            *rand.Rand
}

func NewQLearning(rng *rand.Rand) *QLearning {
	return &QLearning{
		QTable:         make(QTable),
		LearningRate:   0.1,
		Discount:       0.9,
		Epsilon:        0.9, // explore heavily at first
		InitialEpsilon: 0.9,
		MinEpsilon:     0.1,
		EpsilonDecay:   0.99,
		rng:            rng,
	}
}

func (q *QLearning) getStateKey(s State) string {
	return fmt.Sprintf("%d,%d|%t,%t,%t,%t", s.RelativeFoodDir[0], s.RelativeFoodDir[1],
		s.DangerDirs[0], s.DangerDirs[1], s.DangerDirs[2], s.DangerDirs[3])
}

func (q *QLearning) values(key string) map[Action]float64 {
	v, ok := q.QTable[key]
	if !ok {
		v = make(map[Action]float64, len(types.Directions))
		for _, a := range types.Directions {
			v[a] = 0
		}
		q.QTable[key] = v
	}
	return v
}

// GetAction picks among allowed with an epsilon-greedy policy.
func (q *QLearning) GetAction(state State, allowed []Action) Action {
	// Exploration: random action
	if q.rng.Float64() < q.Epsilon {
		return allowed[q.rng.Intn(len(allowed))]
	}
	return q.getBestAction(state, allowed)
}

func (q *QLearning) getBestAction(state State, allowed []Action) Action {
	values := q.values(q.getStateKey(state))
	best := allowed[0]
	bestValue := math.Inf(-1)
	for _, a := range allowed {
		if values[a] > bestValue {
			bestValue = values[a]
			best = a
		}
	}
	return best
}

// Reward scores the transition from state to next given the tick result.
func Reward(state, next State, result types.TickResult) float64 {
	switch result {
	case types.Lose:
		return -1.0
	case types.GrowAndContinue, types.Win:
		return 1.0
	}
	switch change := next.FoodDistance - state.FoodDistance; {
	case change < 0:
		// Got closer to food
		return 0.5
	case change > 0:
		return -0.3
	}
	return 0
}

// Update applies one Q-learning step and returns the reward used.
func (q *QLearning) Update(state State, action Action, next State, result types.TickResult) float64 {
	reward := Reward(state, next, result)
	current := q.values(q.getStateKey(state))

	maxNext := 0.0
	if !result.Terminal() {
		maxNext = math.Inf(-1)
		for _, v := range q.values(q.getStateKey(next)) {
			if v > maxNext {
				maxNext = v
			}
		}
	}

	current[action] += q.LearningRate * (reward + q.Discount*maxNext - current[action])
	q.TotalReward += reward
	if result.Terminal() {
		q.GamesPlayed++
		q.decayEpsilon()
	}
	return reward
}

func (q *QLearning) decayEpsilon() {
	if q.Epsilon <= q.MinEpsilon {
		return
	}
	q.Epsilon = math.Max(q.MinEpsilon, q.InitialEpsilon*math.Pow(q.EpsilonDecay, float64(q.GamesPlayed)))
}
