package ui

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"grid-snake/game/types"
)

// ErrNoWindow is returned when raylib cannot open a window.
var ErrNoWindow = errors.New("window unavailable")

const windowTitle = "Snake"

// Renderer draws snapshots into a raylib window sized to the grid.
type Renderer struct {
	cellSize int32
	palette  Palette
	grid     types.Grid
}

// NewRenderer opens a window of grid.Width x grid.Height cells.
func NewRenderer(grid types.Grid, cellSize int) (*Renderer, error) {
	r := &Renderer{
		cellSize: int32(cellSize),
		palette:  DefaultPalette,
		grid:     grid,
	}

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(r.cellSize*int32(grid.Width), r.cellSize*int32(grid.Height), windowTitle)
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("%w: raylib could not initialise the display", ErrNoWindow)
	}
	// Escape is bound as a regular key; closing is reported by the input source
	rl.SetExitKey(rl.KeyNull)
	return r, nil
}

// Render draws one full frame.
func (r *Renderer) Render(snap types.Snapshot) error {
	if snap.Grid != r.grid {
		return fmt.Errorf("snapshot is %dx%d, window is %dx%d",
			snap.Width, snap.Height, r.grid.Width, r.grid.Height)
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	for row := 0; row < snap.Height; row++ {
		for col := 0; col < snap.Width; col++ {
			x, y := r.CellOrigin(row, col)
			rl.DrawRectangle(x, y, r.cellSize, r.cellSize, r.palette.CellColor(snap, row, col))
		}
	}
	rl.EndDrawing()
	return nil
}

// CellOrigin returns the pixel position of the top left corner of a cell.
func (r *Renderer) CellOrigin(row, col int) (int32, int32) {
	return int32(col) * r.cellSize, int32(row) * r.cellSize
}

func (r *Renderer) Close() {
	rl.CloseWindow()
}
