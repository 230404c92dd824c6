package tui

import (
	"math"

	"github.com/playmatatu/spinball/internal/game"
)

// Rows reserved above and below the arena.
const (
	headerRows = 2
	footerRows = 1
)

// viewport maps arena coordinates onto terminal cells. Cells are roughly
// twice as tall as they are wide, so x gets twice the scale of y.
type viewport struct {
	center  game.Vec2
	originX int
	originY int
	scaleX  float64 // columns per arena unit
	scaleY  float64 // rows per arena unit
	width   int
	height  int
}

func newViewport(width, height int, center game.Vec2, extent float64) viewport {
	rows := height - headerRows - footerRows
	if rows < 2 {
		rows = 2
	}
	cols := width - 2
	if cols < 1 {
		cols = 1
	}

	span := 2 * extent
	scaleY := float64(rows-1) / span
	scaleX := 2 * scaleY
	if span*scaleX > float64(cols) {
		scaleX = float64(cols) / span
		scaleY = scaleX / 2
	}

	return viewport{
		center:  center,
		originX: width / 2,
		originY: headerRows + rows/2,
		scaleX:  scaleX,
		scaleY:  scaleY,
		width:   width,
		height:  height,
	}
}

// cell returns the terminal cell for an arena point.
func (v viewport) cell(p game.Vec2) (x, y int) {
	x = v.originX + int(math.Round((p.X-v.center.X)*v.scaleX))
	y = v.originY + int(math.Round((p.Y-v.center.Y)*v.scaleY))
	return x, y
}

// inArena reports whether a cell lies between the header and the footer.
func (v viewport) inArena(x, y int) bool {
	return x >= 0 && x < v.width && y >= headerRows && y < v.height-footerRows
}
