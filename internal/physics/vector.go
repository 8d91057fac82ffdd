package physics

import "math"

// Vec2 is a 2D vector in table coordinates (metres or metres/second).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec2) IsEqualTo(o Vec2) bool {
	return v.X == o.X && v.Y == o.Y
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// FromPolar decomposes a magnitude and an angle in degrees (0 = +x, counterclockwise).
func FromPolar(magnitude, degrees float64) Vec2 {
	rad := degrees * degToRad
	return Vec2{
		X: magnitude * math.Cos(rad),
		Y: magnitude * math.Sin(rad),
	}
}
