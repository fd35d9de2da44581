package manager

import (
	"grid-snake/game/types"
)

// Board is the read side of the grid the managers work against.
type Board interface {
	Dimensions() types.Grid
	Kind(p types.Point) types.CellKind
}

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	FoodCollision
	SelfCollision
)

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// Move returns the cell one step from pos in direction dir. The grid is a
// torus: leaving one edge re-enters on the opposite edge.
func (cm *CollisionManager) Move(pos types.Point, dir types.Direction) types.Point {
	dr, dc := dir.Delta()
	return types.Point{
		Row: wrap(pos.Row+dr, cm.grid.Height),
		Col: wrap(pos.Col+dc, cm.grid.Width),
	}
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

// CheckCollision classifies what the head would run into at pos.
func (cm *CollisionManager) CheckCollision(board Board, pos types.Point) CollisionType {
	switch board.Kind(pos) {
	case types.Food:
		return FoodCollision
	case types.Body:
		return SelfCollision
	default:
		return NoCollision
	}
}

// Neighbours returns the cells reached by one step in each direction, in
// the order of types.Directions.
func (cm *CollisionManager) Neighbours(pos types.Point) [4]types.Point {
	var out [4]types.Point
	for i, d := range types.Directions {
		out[i] = cm.Move(pos, d)
	}
	return out
}
