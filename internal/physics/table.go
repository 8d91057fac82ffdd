package physics

import (
	"fmt"
	"math"
)

// Table is the rectangle (0,0)-(Width,Height) confining the ball.
type Table struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultTable is the 2m x 1m table.
var DefaultTable = Table{Width: DefaultWidth, Height: DefaultHeight}

// NewTable returns a table, or an error if either side is not strictly positive.
func NewTable(width, height float64) (Table, error) {
	t := Table{Width: width, Height: height}
	if !t.Valid() {
		return Table{}, fmt.Errorf("table %gx%g: sides must be positive", width, height)
	}
	return t, nil
}

// Valid reports whether both sides are positive and finite.
func (t Table) Valid() bool {
	return t.Width > 0 && t.Height > 0 && !math.IsInf(t.Width, 1) && !math.IsInf(t.Height, 1)
}

// Center is the ball's launch position.
func (t Table) Center() Vec2 {
	return Vec2{X: t.Width / 2.0, Y: t.Height / 2.0}
}

// Contains reports whether p lies on or inside the table edges.
func (t Table) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= t.Width && p.Y >= 0 && p.Y <= t.Height
}

// Corners returns the closed outline starting and ending at the origin.
func (t Table) Corners() []Vec2 {
	return []Vec2{
		{0, 0},
		{t.Width, 0},
		{t.Width, t.Height},
		{0, t.Height},
		{0, 0},
	}
}
