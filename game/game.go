package game

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"grid-snake/game/entity"
	"grid-snake/game/manager"
	"grid-snake/game/types"
)

// ErrGridTooSmall is returned for dimensions that leave no room for the
// initial two-cell snake away from the origin.
var ErrGridTooSmall = errors.New("grid too small")

// SnakeGrid is the authoritative simulation state. The snake body is not
// kept as a list: each Body cell points at the next segment toward the head
// and only the two endpoints are cached on the Snake.
type SnakeGrid struct {
	Grid  types.Grid
	cells [][]types.Cell
	snake *entity.Snake
	food  *types.Point
	tick  uint64 // ticks run since creation, kept across Reset
	last  types.TickResult

	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager
}

func NewSnakeGrid(width, height int, rng *rand.Rand) (*SnakeGrid, error) {
	if width < types.MinDimension || height < types.MinDimension {
		return nil, fmt.Errorf("%w: %dx%d, need at least %dx%d",
			ErrGridTooSmall, width, height, types.MinDimension, types.MinDimension)
	}

	grid := types.Grid{Width: width, Height: height}
	g := &SnakeGrid{
		Grid:         grid,
		collisionMgr: manager.NewCollisionManager(grid),
		foodMgr:      manager.NewFoodManager(grid, rng),
	}
	g.cells = make([][]types.Cell, height)
	for row := range g.cells {
		g.cells[row] = make([]types.Cell, width)
	}
	g.Reset()
	return g, nil
}

// Reset clears the arena and places a fresh two-cell snake a quarter of the
// way into each dimension, heading right.
func (g *SnakeGrid) Reset() {
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col] = types.Cell{Kind: types.Air}
		}
	}

	head := types.Point{Row: g.Grid.Height / 4, Col: g.Grid.Width / 4}
	g.snake = entity.NewSnake(head, types.Right)
	g.set(g.snake.Head, types.Cell{Kind: types.Body, Next: types.None})
	g.set(g.snake.Tail, types.Cell{Kind: types.Body, Next: types.Right})

	g.food = nil
	g.last = types.Continue
}

func (g *SnakeGrid) Dimensions() types.Grid {
	return g.Grid
}

func (g *SnakeGrid) Kind(p types.Point) types.CellKind {
	return g.cells[p.Row][p.Col].Kind
}

// Cell returns the full content of the cell at p.
func (g *SnakeGrid) Cell(p types.Point) types.Cell {
	return g.cells[p.Row][p.Col]
}

func (g *SnakeGrid) set(p types.Point, c types.Cell) {
	g.cells[p.Row][p.Col] = c
}

func (g *SnakeGrid) Head() types.Point { return g.snake.Head }

func (g *SnakeGrid) Tail() types.Point { return g.snake.Tail }

// Size is the number of segments grown beyond the initial two.
func (g *SnakeGrid) Size() int { return g.snake.Size }

func (g *SnakeGrid) TravelDirection() types.Direction { return g.snake.Travel }

func (g *SnakeGrid) PreviousDirection() types.Direction { return g.snake.Previous }

// Food returns the fruit location, if one is on the grid.
func (g *SnakeGrid) Food() (types.Point, bool) {
	if g.food == nil {
		return types.Point{}, false
	}
	return *g.food, true
}

// GenerateFruit places a fruit on a random Air cell. It returns
// manager.ErrGridFull when the snake covers the whole grid.
func (g *SnakeGrid) GenerateFruit() error {
	p, err := g.foodMgr.GenerateFood(g)
	if err != nil {
		g.food = nil
		return err
	}
	g.set(p, types.Cell{Kind: types.Food})
	g.food = &p
	return nil
}

// RequestDirectionChange queues dir for the next tick unless it reverses the
// snake. Safe to call any number of times between ticks.
func (g *SnakeGrid) RequestDirectionChange(dir types.Direction) {
	g.snake.SetDirection(dir)
}

// CommitDirection must run right before Tick so the reversal guard compares
// against the direction the tick applies.
func (g *SnakeGrid) CommitDirection() {
	g.snake.Commit()
}

// Tick advances the snake by one cell.
func (g *SnakeGrid) Tick() types.TickResult {
	newHead := g.collisionMgr.Move(g.snake.Head, g.snake.Travel)
	g.tick++

	switch g.collisionMgr.CheckCollision(g, newHead) {
	case manager.SelfCollision:
		g.last = types.Lose
		return g.last

	case manager.FoodCollision:
		g.advanceHead(newHead)
		g.snake.Size++
		g.food = nil
		if err := g.GenerateFruit(); err != nil {
			g.last = types.Win
			return g.last
		}
		g.last = types.GrowAndContinue
		return g.last

	default:
		g.advanceHead(newHead)
		g.retireTail()
		g.last = types.Continue
		return g.last
	}
}

func (g *SnakeGrid) advanceHead(newHead types.Point) {
	g.set(newHead, types.Cell{Kind: types.Body, Next: types.None})
	g.set(g.snake.Head, types.Cell{Kind: types.Body, Next: g.snake.Travel})
	g.snake.Head = newHead
}

func (g *SnakeGrid) retireTail() {
	old := g.snake.Tail
	if next := g.Cell(old).Next; next != types.None {
		g.snake.Tail = g.collisionMgr.Move(old, next)
	}
	g.set(old, types.Cell{Kind: types.Air})
}

// ChainLength follows the direction chain from the tail and returns the
// number of cells visited up to and including the head, or -1 when the
// chain is broken.
func (g *SnakeGrid) ChainLength() int {
	limit := g.Grid.Width * g.Grid.Height
	p := g.snake.Tail
	for n := 1; n <= limit; n++ {
		c := g.Cell(p)
		if c.Kind != types.Body {
			return -1
		}
		if p == g.snake.Head {
			if c.Next != types.None {
				return -1
			}
			return n
		}
		if c.Next == types.None {
			return -1
		}
		p = g.collisionMgr.Move(p, c.Next)
	}
	return -1
}

// Snapshot copies the settled grid for renderers and observers.
func (g *SnakeGrid) Snapshot() types.Snapshot {
	cells := make([]types.CellKind, 0, g.Grid.Width*g.Grid.Height)
	for _, row := range g.cells {
		for _, c := range row {
			cells = append(cells, c.Kind)
		}
	}
	return types.Snapshot{
		Grid:   g.Grid,
		Cells:  cells,
		Head:   g.snake.Head,
		Tail:   g.snake.Tail,
		Travel: g.snake.Travel,
		Length: g.snake.Length(),
		Tick:   g.tick,
		Last:   g.last,
	}
}
