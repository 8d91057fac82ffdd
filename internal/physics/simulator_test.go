package physics

import (
	"math"
	"testing"
)

// Helper to build a state at an arbitrary point, bypassing the centre launch.
func stateAt(x, y, vx, vy float64) *KinematicState {
	return &KinematicState{
		Position: NewVec2(x, y),
		Velocity: NewVec2(vx, vy),
	}
}

func TestStraightShotAlongX(t *testing.T) {
	// 2x1 table, 1 m/s along +x, dt 0.5 for 2 s
	traj := Simulate(1.0, 0, 2.0, 0.5, DefaultTable)

	want := []float64{1.0, 1.5, 2.0, 1.5, 1.0}
	if len(traj) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(traj))
	}
	for i, x := range want {
		if traj[i].X != x || traj[i].Y != 0.5 {
			t.Errorf("Sample %d: want (%.4f,0.5000) got (%.4f,%.4f)", i, x, traj[i].X, traj[i].Y)
		}
	}
}

func TestStraightUpKeepsX(t *testing.T) {
	traj := Simulate(1.0, 90, DefaultTotalTime, DefaultTimeStep, DefaultTable)

	for i, p := range traj {
		if p.X != DefaultWidth/2 {
			t.Fatalf("Sample %d drifted in x: %v", i, p.X)
		}
	}
}

func TestOvershootIsMirroredOnce(t *testing.T) {
	// vx*dt = 5 > width: one mirror pass leaves the ball outside the table
	traj := Simulate(10.0, 0, 1.0, 0.5, DefaultTable)

	want := []float64{1.0, -2.0, 7.0}
	if len(traj) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(traj))
	}
	for i, x := range want {
		if traj[i].X != x {
			t.Errorf("Sample %d: want x=%.4f got %.4f", i, x, traj[i].X)
		}
	}
	if DefaultTable.Contains(traj[1]) {
		t.Error("Single mirror pass should leave the overshoot outside the table")
	}
}

func TestFirstSampleIsCenter(t *testing.T) {
	tables := []Table{DefaultTable, {Width: 3, Height: 7}, {Width: 0.5, Height: 0.25}}
	for _, table := range tables {
		traj := Simulate(2.5, 33, 1, 0.01, table)
		if !traj[0].IsEqualTo(table.Center()) {
			t.Errorf("Table %v: first sample %v, want centre %v", table, traj[0], table.Center())
		}
	}
}

func TestSampleCount(t *testing.T) {
	cases := []struct {
		total, dt float64
		want      int
	}{
		{2.0, 0.5, 5},
		{0, 0.01, 1},
		{1.0, 0.25, 5},
		{10, 0.01, 1001},
		{0.3, 0.125, 3},
		{1, 0, 1},
		{1, -0.1, 1},
		{-1, 0.1, 1},
		{math.NaN(), 0.1, 1},
		{math.Inf(1), 0.1, 1},
	}
	for _, c := range cases {
		if got := SampleCount(c.total, c.dt); got != c.want {
			t.Errorf("SampleCount(%v, %v) = %d, want %d", c.total, c.dt, got, c.want)
		}
		if got := len(Simulate(1, 45, c.total, c.dt, DefaultTable)); got != c.want {
			t.Errorf("Simulate(total=%v, dt=%v) returned %d samples, want %d", c.total, c.dt, got, c.want)
		}
	}
}

func TestSamplesStayOnTable(t *testing.T) {
	angles := []float64{0, 17, 45, 90, 135, 200, 271.5, -30, 725}
	for _, angle := range angles {
		traj := Simulate(3.7, angle, DefaultTotalTime, DefaultTimeStep, DefaultTable)
		for i, p := range traj {
			if !DefaultTable.Contains(p) {
				t.Fatalf("angle=%.1f sample %d left the table: (%.6f,%.6f)", angle, i, p.X, p.Y)
			}
		}
	}
}

func TestReflectionConservesSpeed(t *testing.T) {
	state := NewKinematicState(4.2, 63, DefaultTable)
	before := state.Velocity.Magnitude()
	bounces := 0

	for i := 0; i < 5000; i++ {
		v := state.Velocity
		r := state.Step(0.01, DefaultTable)
		if !r.Any() {
			continue
		}
		bounces++
		if state.Velocity.Magnitude() != v.Magnitude() {
			t.Fatalf("Step %d: speed changed on reflection %.17g -> %.17g", i, v.Magnitude(), state.Velocity.Magnitude())
		}
		if r.X && state.Velocity.X != -v.X {
			t.Errorf("Step %d: vx should flip sign", i)
		}
		if !r.X && state.Velocity.X != v.X {
			t.Errorf("Step %d: vx changed without an x reflection", i)
		}
		if r.Y && state.Velocity.Y != -v.Y {
			t.Errorf("Step %d: vy should flip sign", i)
		}
	}

	if bounces == 0 {
		t.Fatal("Expected at least one wall hit")
	}
	if state.Velocity.Magnitude() != before {
		t.Errorf("Speed drifted: %.17g -> %.17g", before, state.Velocity.Magnitude())
	}
}

func TestCornerHitFlipsBoth(t *testing.T) {
	state := stateAt(1.99, 0.99, 1, 1)

	r := state.Step(0.02, DefaultTable)

	if !r.Corner() {
		t.Fatalf("Expected corner reflection, got %+v", r)
	}
	if state.Velocity.X != -1 || state.Velocity.Y != -1 {
		t.Errorf("Both components should flip: %+v", state.Velocity)
	}
	if !DefaultTable.Contains(state.Position) {
		t.Errorf("Mirrored position should be back on the table: %+v", state.Position)
	}
}

func TestExactWallContactReflects(t *testing.T) {
	// landing exactly on x=0 counts as a hit
	state := stateAt(0.5, 0.5, -1, 0)

	r := state.Step(0.5, DefaultTable)

	if !r.X || r.Y {
		t.Fatalf("Expected x-only reflection, got %+v", r)
	}
	if state.Position.X != 0 || state.Velocity.X != 1 {
		t.Errorf("Got position %+v velocity %+v", state.Position, state.Velocity)
	}
}

func TestZeroSpeedStaysAtCenter(t *testing.T) {
	traj := Simulate(0, 123, 1, 0.1, DefaultTable)

	if len(traj) != 11 {
		t.Fatalf("Expected 11 samples, got %d", len(traj))
	}
	for i, p := range traj {
		if !p.IsEqualTo(DefaultTable.Center()) {
			t.Errorf("Sample %d moved: %+v", i, p)
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Trajectory {
		return Simulate(5.5, 31.7, DefaultTotalTime, DefaultTimeStep, DefaultTable)
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("Length differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].IsEqualTo(b[i]) {
			t.Fatalf("Non-deterministic at %d: (%.17g,%.17g) vs (%.17g,%.17g)", i, a[i].X, a[i].Y, b[i].X, b[i].Y)
		}
	}
}

func TestWalkStopsEarly(t *testing.T) {
	calls := 0
	Walk(DefaultParams(1, 0), DefaultTable, func(s Sample) bool {
		if s.Index != calls {
			t.Errorf("Out of order sample: index %d at call %d", s.Index, calls)
		}
		calls++
		return calls < 3
	})

	if calls != 3 {
		t.Errorf("Expected walk to stop after 3 samples, got %d", calls)
	}
}

func TestWalkReportsReflections(t *testing.T) {
	var hits []int
	Walk(Params{Speed: 1, Angle: 0, TotalTime: 2, TimeStep: 0.5}, DefaultTable, func(s Sample) bool {
		if s.Reflection.X {
			hits = append(hits, s.Index)
		}
		if s.Time != float64(s.Index)*0.5 {
			t.Errorf("Sample %d has time %v", s.Index, s.Time)
		}
		return true
	})

	if len(hits) != 1 || hits[0] != 2 {
		t.Errorf("Expected one x reflection on sample 2, got %v", hits)
	}

	x, y := CountReflections(Params{Speed: 1, Angle: 0, TotalTime: 2, TimeStep: 0.5}, DefaultTable)
	if x != 1 || y != 0 {
		t.Errorf("CountReflections = (%d,%d), want (1,0)", x, y)
	}
}

func TestRunRecordMatchesRun(t *testing.T) {
	p := Params{Speed: 2.3, Angle: 41, TotalTime: 5, TimeStep: 0.01}

	rec := RunRecord(p, DefaultTable)
	traj := Run(p, DefaultTable)

	if len(rec.Trajectory) != len(traj) {
		t.Fatalf("Length differs: %d vs %d", len(rec.Trajectory), len(traj))
	}
	for i := range traj {
		if !rec.Trajectory[i].IsEqualTo(traj[i]) {
			t.Fatalf("Sample %d differs", i)
		}
	}
	// 2.3*cos(41deg)*5 is about 8.7m of x travel on a 2m table
	if rec.ReflectionsX < 3 || rec.ReflectionsY < 3 {
		t.Errorf("Expected several reflections per axis, got (%d,%d)", rec.ReflectionsX, rec.ReflectionsY)
	}
}

func TestTrajectoryHelpers(t *testing.T) {
	traj := Simulate(1.0, 0, 2.0, 0.5, DefaultTable)

	if f := traj.Final(); f.X != 1.0 || f.Y != 0.5 {
		t.Errorf("Final = %+v", f)
	}
	min, max := traj.Bounds()
	if min.X != 1.0 || max.X != 2.0 || min.Y != 0.5 || max.Y != 0.5 {
		t.Errorf("Bounds = %+v %+v", min, max)
	}
	if !(Trajectory{}).Final().IsZero() {
		t.Error("Final of empty trajectory should be zero")
	}
}

func TestFromPolar(t *testing.T) {
	v := FromPolar(2, 0)
	if v.X != 2 || v.Y != 0 {
		t.Errorf("FromPolar(2, 0) = %+v", v)
	}
	v = FromPolar(2, 180)
	if v.X != -2 || math.Abs(v.Y) > 1e-15 {
		t.Errorf("FromPolar(2, 180) = %+v", v)
	}
	if v := FromPolar(3, 405); math.Abs(v.Magnitude()-3) > 1e-12 {
		t.Errorf("Magnitude of unnormalised angle = %v", v.Magnitude())
	}
}

func TestCornersCloseTheOutline(t *testing.T) {
	c := Table{Width: 3, Height: 2}.Corners()

	if len(c) != 5 || c[0] != c[4] {
		t.Fatalf("Outline should be closed: %v", c)
	}
	if c[2] != NewVec2(3, 2) {
		t.Errorf("Opposite corner = %+v", c[2])
	}
}

func TestNewTableRejectsNonPositive(t *testing.T) {
	if _, err := NewTable(0, 1); err == nil {
		t.Error("Expected error for zero width")
	}
	if _, err := NewTable(2, -1); err == nil {
		t.Error("Expected error for negative height")
	}
	if _, err := NewTable(math.NaN(), 1); err == nil {
		t.Error("Expected error for NaN width")
	}
	if tb, err := NewTable(3, 1.5); err != nil || tb.Center() != NewVec2(1.5, 0.75) {
		t.Errorf("NewTable(3, 1.5) = %+v, %v", tb, err)
	}
}
