package input

import (
	"fmt"
	"math"

	"github.com/playmatatu/tablesim/internal/physics"
)

// Request is the JSON body accepted by the simulate endpoints.
// Omitted optional fields fall back to the server defaults.
type Request struct {
	Speed       float64  `json:"speed"`
	Angle       float64  `json:"angle"`
	TotalTime   *float64 `json:"total_time,omitempty"`
	TimeStep    *float64 `json:"dt,omitempty"`
	TableWidth  *float64 `json:"table_width,omitempty"`
	TableHeight *float64 `json:"table_height,omitempty"`
	Persist     *bool    `json:"persist,omitempty"`
}

// Limits are the server-side defaults and bounds applied to a Request.
type Limits struct {
	Table      physics.Table
	TotalTime  float64
	TimeStep   float64
	MaxSamples int
}

// DefaultLimits uses the package defaults and a 100k sample cap.
func DefaultLimits() Limits {
	return Limits{
		Table:      physics.DefaultTable,
		TotalTime:  physics.DefaultTotalTime,
		TimeStep:   physics.DefaultTimeStep,
		MaxSamples: 100000,
	}
}

// Resolve validates the request and returns the params and table to simulate.
func (r Request) Resolve(lim Limits) (physics.Params, physics.Table, error) {
	if math.IsNaN(r.Angle) || math.IsInf(r.Angle, 0) {
		return physics.Params{}, physics.Table{}, fmt.Errorf("angle: %w", ErrInvalidInputFormat)
	}
	if err := (Launch{Speed: r.Speed, Angle: r.Angle}).Validate(); err != nil {
		return physics.Params{}, physics.Table{}, err
	}
	if math.IsInf(r.Speed, 0) {
		return physics.Params{}, physics.Table{}, fmt.Errorf("speed: %w", ErrInvalidInputFormat)
	}

	p := physics.Params{
		Speed:     r.Speed,
		Angle:     r.Angle,
		TotalTime: orDefault(r.TotalTime, lim.TotalTime),
		TimeStep:  orDefault(r.TimeStep, lim.TimeStep),
	}
	if !(p.TimeStep > 0) || math.IsInf(p.TimeStep, 0) {
		return physics.Params{}, physics.Table{}, fmt.Errorf("dt %g: %w", p.TimeStep, ErrInvalidTimeStep)
	}
	if math.IsInf(p.Speed*p.TimeStep, 0) {
		return physics.Params{}, physics.Table{}, fmt.Errorf("speed %g * dt %g: %w", p.Speed, p.TimeStep, ErrNumericOverflow)
	}
	if !(p.TotalTime >= 0) || math.IsInf(p.TotalTime, 0) {
		return physics.Params{}, physics.Table{}, fmt.Errorf("total_time %g: %w", p.TotalTime, ErrInvalidDuration)
	}

	table := physics.Table{
		Width:  orDefault(r.TableWidth, lim.Table.Width),
		Height: orDefault(r.TableHeight, lim.Table.Height),
	}
	if !table.Valid() {
		return physics.Params{}, physics.Table{}, fmt.Errorf("table %gx%g: %w", table.Width, table.Height, ErrInvalidTable)
	}

	if lim.MaxSamples > 0 {
		// compare in float space first so huge ratios do not saturate SampleCount
		if p.TotalTime/p.TimeStep >= float64(lim.MaxSamples) {
			return physics.Params{}, physics.Table{}, fmt.Errorf("%.0f samples (max %d): %w", p.TotalTime/p.TimeStep+1, lim.MaxSamples, ErrTooManySamples)
		}
	}

	return p, table, nil
}

// ShouldPersist reports the persist flag, defaulting to def when omitted.
func (r Request) ShouldPersist(def bool) bool {
	if r.Persist == nil {
		return def
	}
	return *r.Persist
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
