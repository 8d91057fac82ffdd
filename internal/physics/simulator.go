// Package physics integrates a point-mass ball bouncing inside a rectangular table.
//
// The integrator is a fixed-step Euler stepper. After each step every axis is
// checked on its own; a coordinate that reached or crossed a wall is mirrored
// back across that wall once and the matching velocity component changes sign.
// A step longer than twice the table extent is therefore not fully corrected,
// and a step reaching two walls at once flips both components. Both behaviours
// are part of the model and keep trajectories reproducible.
package physics

import "math"

// Trajectory is the ordered list of sampled positions of one run.
type Trajectory []Vec2

// Final returns the last sample, or the zero vector for an empty trajectory.
func (tr Trajectory) Final() Vec2 {
	if len(tr) == 0 {
		return Vec2{}
	}
	return tr[len(tr)-1]
}

// Bounds returns the component-wise minimum and maximum over all samples.
func (tr Trajectory) Bounds() (min, max Vec2) {
	if len(tr) == 0 {
		return Vec2{}, Vec2{}
	}
	min, max = tr[0], tr[0]
	for _, p := range tr[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Params are the launch and integration inputs of a run.
type Params struct {
	Speed     float64 `json:"speed"`      // m/s
	Angle     float64 `json:"angle"`      // degrees, 0 = +x, counterclockwise
	TotalTime float64 `json:"total_time"` // seconds
	TimeStep  float64 `json:"dt"`         // seconds
}

// DefaultParams returns params with the default duration and step.
func DefaultParams(speed, angle float64) Params {
	return Params{
		Speed:     speed,
		Angle:     angle,
		TotalTime: DefaultTotalTime,
		TimeStep:  DefaultTimeStep,
	}
}

// Reflection records which axes bounced during one step.
type Reflection struct {
	X bool `json:"x"`
	Y bool `json:"y"`
}

// Any reports whether at least one wall was hit.
func (r Reflection) Any() bool {
	return r.X || r.Y
}

// Corner reports whether both walls were hit in the same step.
func (r Reflection) Corner() bool {
	return r.X && r.Y
}

// KinematicState is the evolving position and velocity of the ball.
type KinematicState struct {
	Position Vec2 `json:"position"`
	Velocity Vec2 `json:"velocity"`
}

// NewKinematicState places the ball at the table centre moving at speed along angle.
func NewKinematicState(speed, angle float64, table Table) KinematicState {
	return KinematicState{
		Position: table.Center(),
		Velocity: FromPolar(speed, angle),
	}
}

// Step advances the state by dt and applies one reflection pass per axis.
func (s *KinematicState) Step(dt float64, table Table) Reflection {
	s.Position.X += s.Velocity.X * dt
	s.Position.Y += s.Velocity.Y * dt

	var r Reflection
	s.Position.X, s.Velocity.X, r.X = reflect(s.Position.X, s.Velocity.X, table.Width)
	s.Position.Y, s.Velocity.Y, r.Y = reflect(s.Position.Y, s.Velocity.Y, table.Height)
	return r
}

// reflect mirrors c across 0 or extent once. It never loops.
func reflect(c, v, extent float64) (float64, float64, bool) {
	if c <= 0 {
		return -c, -v, true
	}
	if c >= extent {
		return 2*extent - c, -v, true
	}
	return c, v, false
}

// SampleCount returns floor(totalTime/dt) + 1.
// Degenerate inputs (dt <= 0, negative or non-finite values) give a single sample.
func SampleCount(totalTime, dt float64) int {
	if !(dt > 0) || !(totalTime >= 0) {
		return 1
	}
	n := math.Floor(totalTime / dt)
	if math.IsInf(n, 0) || math.IsNaN(n) || n >= math.MaxInt32 {
		return 1
	}
	return int(n) + 1
}

// Sample is one recorded instant, delivered to Walk callbacks.
type Sample struct {
	Index      int        `json:"i"`
	Time       float64    `json:"t"`
	Position   Vec2       `json:"position"`
	Velocity   Vec2       `json:"velocity"`
	Reflection Reflection `json:"reflection"`
}

// Walk runs the integrator and calls fn for every sample in order.
// The sample is recorded before the step is applied, so the first call always
// sees the table centre. Reflection on a sample reports the bounces that
// produced its position. Walk stops as soon as fn returns false.
func Walk(p Params, table Table, fn func(Sample) bool) {
	state := NewKinematicState(p.Speed, p.Angle, table)
	n := SampleCount(p.TotalTime, p.TimeStep)

	var last Reflection
	for i := 0; i < n; i++ {
		sample := Sample{
			Index:      i,
			Time:       float64(i) * p.TimeStep,
			Position:   state.Position,
			Velocity:   state.Velocity,
			Reflection: last,
		}
		if !fn(sample) {
			return
		}
		last = state.Step(p.TimeStep, table)
	}
}

// Simulate returns the full trajectory of a ball launched from the table centre.
func Simulate(speed, angle, totalTime, dt float64, table Table) Trajectory {
	return Run(Params{Speed: speed, Angle: angle, TotalTime: totalTime, TimeStep: dt}, table)
}

// Run is Simulate taking Params.
func Run(p Params, table Table) Trajectory {
	out := make(Trajectory, 0, SampleCount(p.TotalTime, p.TimeStep))
	Walk(p, table, func(s Sample) bool {
		out = append(out, s.Position)
		return true
	})
	return out
}

// Record is a trajectory together with its wall-hit tally.
type Record struct {
	Trajectory   Trajectory `json:"trajectory"`
	ReflectionsX int        `json:"reflections_x"`
	ReflectionsY int        `json:"reflections_y"`
}

// RunRecord simulates once and counts reflections along the way.
// Only steps whose result is sampled are counted.
func RunRecord(p Params, table Table) Record {
	rec := Record{Trajectory: make(Trajectory, 0, SampleCount(p.TotalTime, p.TimeStep))}
	Walk(p, table, func(s Sample) bool {
		rec.Trajectory = append(rec.Trajectory, s.Position)
		if s.Reflection.X {
			rec.ReflectionsX++
		}
		if s.Reflection.Y {
			rec.ReflectionsY++
		}
		return true
	})
	return rec
}

// CountReflections tallies wall hits over the sampled part of a run.
func CountReflections(p Params, table Table) (x, y int) {
	rec := RunRecord(p, table)
	return rec.ReflectionsX, rec.ReflectionsY
}
