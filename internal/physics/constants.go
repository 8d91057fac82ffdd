package physics

import "math"

// Table and integration defaults.
// These match the values the interactive tool has always used.

const (
	DefaultWidth     = 2.0  // metres
	DefaultHeight    = 1.0  // metres
	DefaultTotalTime = 10.0 // seconds
	DefaultTimeStep  = 0.01 // seconds
)

// pi is rounded to float64 before dividing so degToRad matches a runtime
// float64 division rather than an exact constant quotient.
var (
	pi       float64 = math.Pi
	degToRad         = pi / 180.0
)
