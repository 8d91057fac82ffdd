// Package render draws trajectories on a terminal screen.
package render

import (
	"fmt"
	"math"

	"github.com/playmatatu/tablesim/internal/physics"
)

// cellAspect is how many columns make up the same physical length as one row.
const cellAspect = 2.0

// captionRows are reserved under the table frame.
const captionRows = 3

// Layout maps table coordinates to screen cells. Row 0 is the top of the
// screen, so y is flipped: the table origin is the bottom-left inner cell.
type Layout struct {
	Table     physics.Table
	SX, SY    float64 // cells per metre
	InnerCols int
	InnerRows int
}

// NewLayout fits the table into a cols x rows screen keeping its proportions.
func NewLayout(table physics.Table, cols, rows int) (Layout, error) {
	if !table.Valid() {
		return Layout{}, fmt.Errorf("render: invalid table %gx%g", table.Width, table.Height)
	}
	// two border cells each way plus the caption
	availCols := cols - 2
	availRows := rows - 2 - captionRows
	if availCols < 2 || availRows < 2 {
		return Layout{}, fmt.Errorf("render: screen %dx%d too small", cols, rows)
	}

	k := math.Min(float64(availCols-1)/(table.Width*cellAspect), float64(availRows-1)/table.Height)
	l := Layout{Table: table, SX: k * cellAspect, SY: k}
	l.InnerCols = int(math.Round(table.Width*l.SX)) + 1
	l.InnerRows = int(math.Round(table.Height*l.SY)) + 1
	return l, nil
}

// Cell returns the screen cell of p and whether it lies inside the frame.
func (l Layout) Cell(p physics.Vec2) (col, row int, ok bool) {
	if !p.IsFinite() {
		return 0, 0, false
	}
	col = 1 + int(math.Round(p.X*l.SX))
	row = 1 + int(math.Round((l.Table.Height-p.Y)*l.SY))
	ok = col >= 1 && col <= l.InnerCols && row >= 1 && row <= l.InnerRows
	return col, row, ok
}

// BorderCell maps a point on the table edge to the border cell just outside it.
func (l Layout) BorderCell(p physics.Vec2) (col, row int) {
	col = 1 + int(math.Round(p.X*l.SX))
	row = 1 + int(math.Round((l.Table.Height-p.Y)*l.SY))
	if p.X <= 0 {
		col--
	} else if p.X >= l.Table.Width {
		col++
	}
	if p.Y <= 0 {
		row++
	} else if p.Y >= l.Table.Height {
		row--
	}
	return col, row
}

// FrameCols and FrameRows include the border.
func (l Layout) FrameCols() int { return l.InnerCols + 2 }
func (l Layout) FrameRows() int { return l.InnerRows + 2 }

// line calls fn for every cell on the segment between two cells (Bresenham).
func line(c0, r0, c1, r1 int, fn func(c, r int)) {
	dc := abs(c1 - c0)
	dr := -abs(r1 - r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	e := dc + dr
	for {
		fn(c0, r0)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
