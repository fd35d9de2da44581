package ui

import (
	"image/color"

	"grid-snake/game/types"
)

// Palette maps logical cell kinds to colours.
type Palette struct {
	AirLight color.RGBA
	AirDark  color.RGBA
	Food     color.RGBA
	Body     color.RGBA
	Head     color.RGBA
}

var DefaultPalette = Palette{
	AirLight: color.RGBA{R: 101, G: 204, B: 90, A: 255},
	AirDark:  color.RGBA{R: 71, G: 189, B: 58, A: 255},
	Food:     color.RGBA{R: 255, G: 25, B: 33, A: 255},
	Body:     color.RGBA{R: 52, G: 118, B: 224, A: 255},
	Head:     color.RGBA{R: 67, G: 153, B: 255, A: 255},
}

// CellColor returns the colour of the cell at (row, col). Air alternates in
// a checkerboard.
func (p Palette) CellColor(snap types.Snapshot, row, col int) color.RGBA {
	switch snap.At(row, col) {
	case types.Food:
		return p.Food
	case types.Body:
		if snap.Head.Row == row && snap.Head.Col == col {
			return p.Head
		}
		return p.Body
	default:
		if (row+col)%2 == 0 {
			return p.AirLight
		}
		return p.AirDark
	}
}
