package entity

import (
	"grid-snake/game/types"
)

// Snake holds the cached endpoints of the body chain stored in the grid
// together with the steering state. The body itself lives in the grid cells.
type Snake struct {
	Head     types.Point
	Tail     types.Point
	Size     int // segments grown beyond the initial two
	Travel   types.Direction
	Previous types.Direction
}

func NewSnake(head types.Point, dir types.Direction) *Snake {
	dr, dc := dir.Delta()
	return &Snake{
		Head:     head,
		Tail:     types.Point{Row: head.Row - dr, Col: head.Col - dc},
		Size:     0,
		Travel:   dir,
		Previous: dir,
	}
}

// Length is the number of body cells.
func (s *Snake) Length() int {
	return s.Size + 2
}

// SetDirection updates the travel direction unless dir would reverse either
// the direction applied on the last tick or the one queued for the next.
func (s *Snake) SetDirection(dir types.Direction) {
	if dir == types.None {
		return
	}
	// Two quick turns between ticks must not fold the head back into the neck
	if dir == s.Previous.Opposite() {
		return
	}
	if dir == s.Travel.Opposite() {
		return
	}
	s.Travel = dir
}

// Commit records the travel direction as the one applied by the coming tick.
func (s *Snake) Commit() {
	s.Previous = s.Travel
}
