package types

// Grid represents the game grid dimensions
type Grid struct {
	Width  int
	Height int
}

// Contains reports whether p addresses a cell of the grid.
func (g Grid) Contains(p Point) bool {
	return p.Row >= 0 && p.Row < g.Height && p.Col >= 0 && p.Col < g.Width
}

// Game constants
const (
	DefaultWidth  = 25
	DefaultHeight = 25
	MinDimension  = 4  // Smallest grid that still has an interior start offset
	FoodDraws     = 64 // Random draws before falling back to scanning free cells
)

// Point addresses one cell as (row, col).
type Point struct {
	Row, Col int
}

// Direction is one of the four cardinal directions. None marks a head cell
// that has no successor yet.
type Direction int

const (
	None Direction = iota
	Up
	Right
	Down
	Left
)

// Directions lists the four movement directions in clockwise order.
var Directions = [4]Direction{Up, Right, Down, Left}

// Opposite returns the 180 degree reversal of d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	default:
		return None
	}
}

// Delta returns the (row, col) offset of a single step in direction d.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// CellKind classifies the content of a grid cell.
type CellKind int

const (
	Air CellKind = iota
	Food
	Body
)

func (k CellKind) String() string {
	switch k {
	case Food:
		return "food"
	case Body:
		return "body"
	default:
		return "air"
	}
}

// Cell is one arena slot. For Body cells Next is the direction of the
// segment one step closer to the head; the head itself carries None.
type Cell struct {
	Kind CellKind
	Next Direction
}

// TickResult is the outcome of one simulation step.
type TickResult int

const (
	Continue TickResult = iota
	GrowAndContinue
	Lose
	Win
)

func (r TickResult) String() string {
	switch r {
	case GrowAndContinue:
		return "grow"
	case Lose:
		return "lose"
	case Win:
		return "win"
	default:
		return "continue"
	}
}

// Terminal reports whether no further ticks may follow r.
func (r TickResult) Terminal() bool {
	return r == Lose || r == Win
}

// Snapshot is a settled copy of the grid handed to renderers and observers.
type Snapshot struct {
	Grid
	Cells  []CellKind // row-major, len == Width*Height
	Head   Point
	Tail   Point
	Travel Direction
	Length int
	Tick   uint64
	Last   TickResult
}

// At returns the kind of the cell at (row, col).
func (s Snapshot) At(row, col int) CellKind {
	return s.Cells[row*s.Width+col]
}

// Count returns how many cells hold kind k.
func (s Snapshot) Count(k CellKind) int {
	n := 0
	for _, c := range s.Cells {
		if c == k {
			n++
		}
	}
	return n
}
