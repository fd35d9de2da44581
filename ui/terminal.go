package ui

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"grid-snake/game/types"
)

// cellColumns is the number of terminal columns per grid cell; terminal
// glyphs are roughly twice as tall as they are wide.
const cellColumns = 2

// Terminal draws snapshots into a tcell screen using background colours.
type Terminal struct {
	screen  tcell.Screen
	palette Palette
}

// NewScreen creates and initialises the terminal screen.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal screen: %w", err)
	}
	screen.HideCursor()
	return screen, nil
}

func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen:  screen,
		palette: DefaultPalette,
	}
}

// Render draws the grid from the top left corner. Cells that do not fit in
// the current terminal size are skipped.
func (t *Terminal) Render(snap types.Snapshot) error {
	width, height := t.screen.Size()
	t.screen.Clear()
	for row := 0; row < snap.Height && row < height; row++ {
		for col := 0; col < snap.Width; col++ {
			x := col * cellColumns
			if x+cellColumns > width {
				break
			}
			style := tcell.StyleDefault.Background(toTcell(t.palette.CellColor(snap, row, col)))
			for i := 0; i < cellColumns; i++ {
				t.screen.SetContent(x+i, row, ' ', nil, style)
			}
		}
	}
	t.screen.Show()
	return nil
}

func (t *Terminal) Close() {
	t.screen.Fini()
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
