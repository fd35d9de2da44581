// Package input turns physical keys into the logical frame the game loop
// consumes: direction intents plus exit and restart signals.
package input

import (
	"grid-snake/game/types"
)

// Action is a logical control.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionRight
	ActionDown
	ActionLeft
	ActionExit
	ActionRestart
)

// Direction maps a movement action to a grid direction.
func (a Action) Direction() types.Direction {
	switch a {
	case ActionUp:
		return types.Up
	case ActionRight:
		return types.Right
	case ActionDown:
		return types.Down
	case ActionLeft:
		return types.Left
	default:
		return types.None
	}
}

// Frame is the input observed at one polling instant.
type Frame struct {
	Directions []types.Direction
	Exit       bool
	Restart    bool
}

// Apply folds a into the frame.
func (f *Frame) Apply(a Action) {
	switch a {
	case ActionExit:
		f.Exit = true
	case ActionRestart:
		f.Restart = true
	default:
		if d := a.Direction(); d != types.None {
			f.Directions = append(f.Directions, d)
		}
	}
}

// Merge adds the contents of other to f.
func (f *Frame) Merge(other Frame) {
	f.Directions = append(f.Directions, other.Directions...)
	f.Exit = f.Exit || other.Exit
	f.Restart = f.Restart || other.Restart
}

// Source provides the input of one polling instant.
type Source interface {
	Poll() (Frame, error)
}

// Combined polls several sources and merges their frames in order.
type Combined []Source

func (c Combined) Poll() (Frame, error) {
	var out Frame
	for _, s := range c {
		f, err := s.Poll()
		if err != nil {
			return out, err
		}
		out.Merge(f)
	}
	return out, nil
}
