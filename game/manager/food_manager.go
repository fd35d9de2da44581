package manager

import (
	"errors"

	"golang.org/x/exp/rand"

	"grid-snake/game/types"
)

// ErrGridFull is returned when no Air cell is left to hold a fruit.
var ErrGridFull = errors.New("no free cell left for food")

type FoodManager struct {
	grid  types.Grid
	rng   *rand.Rand
	draws int
}

func NewFoodManager(grid types.Grid, rng *rand.Rand) *FoodManager {
	return &FoodManager{
		grid:  grid,
		rng:   rng,
		draws: types.FoodDraws,
	}
}

// GenerateFood picks a uniformly random Air cell. Random draws are tried
// first; once they are used up the remaining free cells are enumerated, so
// the call always terminates.
func (fm *FoodManager) GenerateFood(board Board) (types.Point, error) {
	for i := 0; i < fm.draws; i++ {
		food := types.Point{
			Row: fm.rng.Intn(fm.grid.Height),
			Col: fm.rng.Intn(fm.grid.Width),
		}
		if board.Kind(food) == types.Air {
			return food, nil
		}
	}

	free := fm.freeCells(board)
	if len(free) == 0 {
		return types.Point{}, ErrGridFull
	}
	return free[fm.rng.Intn(len(free))], nil
}

func (fm *FoodManager) freeCells(board Board) []types.Point {
	free := make([]types.Point, 0)
	for row := 0; row < fm.grid.Height; row++ {
		for col := 0; col < fm.grid.Width; col++ {
			p := types.Point{Row: row, Col: col}
			if board.Kind(p) == types.Air {
				free = append(free, p)
			}
		}
	}
	return free
}
