// Package service runs simulations on behalf of the HTTP and websocket layers:
// it validates requests, consults the trajectory cache, persists runs and
// announces them.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playmatatu/tablesim/internal/input"
	"github.com/playmatatu/tablesim/internal/models"
	"github.com/playmatatu/tablesim/internal/physics"
	"github.com/playmatatu/tablesim/internal/store"
)

// Result is a finished simulation as returned to API clients.
type Result struct {
	RunID  string         `json:"run_id,omitempty"`
	Params physics.Params `json:"params"`
	Table  physics.Table  `json:"table"`
	physics.Record
	Cached bool `json:"cached"`
}

// Samples is the number of recorded positions.
func (r *Result) Samples() int {
	return len(r.Trajectory)
}

// Options wires the optional collaborators. Nil fields disable that feature.
type Options struct {
	Runs        store.RunStore
	Cache       store.Cache
	Events      store.Publisher
	Limits      input.Limits
	PersistRuns bool
}

// Simulator is safe for concurrent use.
type Simulator struct {
	runs    store.RunStore
	cache   store.Cache
	events  store.Publisher
	limits  input.Limits
	persist bool
}

func NewSimulator(opts Options) *Simulator {
	return &Simulator{
		runs:    opts.Runs,
		cache:   opts.Cache,
		events:  opts.Events,
		limits:  opts.Limits,
		persist: opts.PersistRuns,
	}
}

// Status reports which optional collaborators are wired.
type Status struct {
	Runs   string `json:"runs"` // postgres, memory, custom or disabled
	Cache  bool   `json:"cache"`
	Events bool   `json:"events"`
}

func (s *Simulator) Status() Status {
	st := Status{Runs: "disabled", Cache: s.cache != nil, Events: s.events != nil}
	switch s.runs.(type) {
	case nil:
	case *store.PGRunStore:
		st.Runs = "postgres"
	case *store.MemoryRunStore:
		st.Runs = "memory"
	default:
		st.Runs = "custom"
	}
	return st
}

// Limits returns the defaults and bounds applied to requests.
func (s *Simulator) Limits() input.Limits {
	return s.limits
}

// Simulate validates req and returns its trajectory. Validation failures are
// returned as input errors; cache, store and publish failures are logged and
// do not fail the call.
func (s *Simulator) Simulate(ctx context.Context, req input.Request) (*Result, error) {
	p, table, err := req.Resolve(s.limits)
	if err != nil {
		return nil, err
	}

	res := &Result{Params: p, Table: table}

	if s.cache != nil {
		rec, ok, err := s.cache.Get(ctx, p, table)
		if err != nil {
			log.Printf("[CACHE] lookup failed: %v", err)
		} else if ok {
			res.Record = rec
			res.Cached = true
		}
	}

	if !res.Cached {
		start := time.Now()
		res.Record = physics.RunRecord(p, table)
		log.Printf("[SIM] speed=%g angle=%g samples=%d reflections=(%d,%d) took=%s",
			p.Speed, p.Angle, len(res.Trajectory), res.ReflectionsX, res.ReflectionsY, time.Since(start))

		if i := firstNonFinite(res.Trajectory); i >= 0 {
			return nil, fmt.Errorf("sample %d left the float range: %w", i, input.ErrNumericOverflow)
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, p, table, res.Record); err != nil {
				log.Printf("[CACHE] store failed: %v", err)
			}
		}
	}

	if s.runs != nil && req.ShouldPersist(s.persist) {
		res.RunID = s.save(ctx, p, table, res.Record)
	}

	return res, nil
}

// firstNonFinite returns the index of the first NaN or infinite sample, or -1.
func firstNonFinite(traj physics.Trajectory) int {
	for i, pt := range traj {
		if !pt.IsFinite() {
			return i
		}
	}
	return -1
}

func (s *Simulator) save(ctx context.Context, p physics.Params, table physics.Table, rec physics.Record) string {
	run, err := store.NewRun(p, table, rec)
	if err != nil {
		log.Printf("[DB] Failed to build run: %v", err)
		return ""
	}
	if err := s.runs.Save(ctx, run); err != nil {
		log.Printf("[DB] Failed to save run %s: %v", run.ID, err)
		return ""
	}

	s.publish(ctx, models.RunEvent{
		Type:      "run_completed",
		RunID:     run.ID,
		Speed:     run.Speed,
		Angle:     run.Angle,
		Samples:   run.Samples,
		FinalX:    run.FinalX,
		FinalY:    run.FinalY,
		CreatedAt: run.CreatedAt,
	})
	return run.ID
}

func (s *Simulator) publish(ctx context.Context, ev models.RunEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("[SIM] publish %s failed: %v", ev.Type, err)
	}
}

// Stream validates req and sends samples to emit in batches of up to batch.
// It stops early when ctx is cancelled or emit fails and returns that error.
func (s *Simulator) Stream(ctx context.Context, req input.Request, batch int, emit func([]physics.Sample) error) (int, error) {
	p, table, err := req.Resolve(s.limits)
	if err != nil {
		return 0, err
	}
	if batch <= 0 {
		batch = 1
	}

	var (
		buf     = make([]physics.Sample, 0, batch)
		sent    int
		stopErr error
	)
	flush := func() bool {
		if len(buf) == 0 {
			return true
		}
		if err := emit(buf); err != nil {
			stopErr = err
			return false
		}
		sent += len(buf)
		buf = make([]physics.Sample, 0, batch)
		return true
	}

	physics.Walk(p, table, func(sm physics.Sample) bool {
		if err := ctx.Err(); err != nil {
			stopErr = err
			return false
		}
		if !sm.Position.IsFinite() {
			stopErr = fmt.Errorf("sample %d left the float range: %w", sm.Index, input.ErrNumericOverflow)
			return false
		}
		buf = append(buf, sm)
		if len(buf) == batch {
			return flush()
		}
		return true
	})
	if stopErr == nil {
		flush()
	}
	if stopErr != nil {
		return sent, fmt.Errorf("stream stopped after %d samples: %w", sent, stopErr)
	}
	return sent, nil
}

// Run loads a persisted run with its trajectory.
func (s *Simulator) Run(ctx context.Context, id string) (*models.SimulationRun, physics.Trajectory, error) {
	if s.runs == nil {
		return nil, nil, store.ErrRunNotFound
	}
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	traj, err := store.DecodeTrajectory(run)
	if err != nil {
		return nil, nil, err
	}
	return run, traj, nil
}

// Runs lists persisted run summaries, newest first.
func (s *Simulator) Runs(ctx context.Context, limit, offset int) ([]models.SimulationRun, error) {
	if s.runs == nil {
		return []models.SimulationRun{}, nil
	}
	return s.runs.List(ctx, limit, offset)
}

// DeleteRun removes a run and announces it.
func (s *Simulator) DeleteRun(ctx context.Context, id string) error {
	if s.runs == nil {
		return store.ErrRunNotFound
	}
	if err := s.runs.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, models.RunEvent{Type: "run_deleted", RunID: id, CreatedAt: time.Now().UTC()})
	return nil
}
