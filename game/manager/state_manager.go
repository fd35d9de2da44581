package manager

import (
	"time"

	"github.com/google/uuid"

	"grid-snake/game/types"
)

// Status is the lifecycle state of the current round.
type Status int

const (
	Running Status = iota
	Lost
	Won
)

func (s Status) String() string {
	switch s {
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return "running"
	}
}

// RoundStats summarises one round.
type RoundStats struct {
	Round     int
	Ticks     int
	Growths   int
	Result    Status
	StartTime time.Time
	EndTime   time.Time
}

// StateManager tracks the session a simulation runs in: its id, the round
// counter and whether the current round still accepts ticks.
type StateManager struct {
	SessionID string
	status    Status
	round     RoundStats
	history   []RoundStats
	now       func() time.Time
}

func NewStateManager() *StateManager {
	sm := &StateManager{
		SessionID: uuid.New().String(),
		history:   make([]RoundStats, 0),
		now:       time.Now,
	}
	sm.round = RoundStats{Round: 1, StartTime: sm.now()}
	return sm
}

// ShortID is the session id prefix used in log lines.
func (sm *StateManager) ShortID() string {
	return sm.SessionID[:8]
}

func (sm *StateManager) Status() Status {
	return sm.status
}

func (sm *StateManager) Running() bool {
	return sm.status == Running
}

func (sm *StateManager) Round() RoundStats {
	return sm.round
}

func (sm *StateManager) History() []RoundStats {
	return sm.history
}

// Record folds a tick result into the current round.
func (sm *StateManager) Record(result types.TickResult) {
	if sm.status != Running {
		return
	}
	sm.round.Ticks++
	switch result {
	case types.GrowAndContinue:
		sm.round.Growths++
	case types.Lose:
		sm.finish(Lost)
	case types.Win:
		sm.finish(Won)
	}
}

// MarkWon ends the round as a win without a tick, e.g. when the very first
// fruit cannot be placed.
func (sm *StateManager) MarkWon() {
	if sm.status == Running {
		sm.finish(Won)
	}
}

func (sm *StateManager) finish(status Status) {
	sm.status = status
	sm.round.Result = status
	sm.round.EndTime = sm.now()
	sm.history = append(sm.history, sm.round)
}

// NextRound opens a fresh round after the previous one ended.
func (sm *StateManager) NextRound() {
	sm.status = Running
	sm.round = RoundStats{Round: sm.round.Round + 1, StartTime: sm.now()}
}
