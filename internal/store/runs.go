// Package store persists simulation runs and caches trajectories.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/tablesim/internal/models"
	"github.com/playmatatu/tablesim/internal/physics"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("store: run not found")

// RunStore keeps the history of simulation runs.
type RunStore interface {
	Save(ctx context.Context, run *models.SimulationRun) error
	Get(ctx context.Context, id string) (*models.SimulationRun, error)
	List(ctx context.Context, limit, offset int) ([]models.SimulationRun, error)
	Delete(ctx context.Context, id string) error
}

// NewRun builds a run record with a fresh ID from a finished simulation.
func NewRun(p physics.Params, table physics.Table, rec physics.Record) (*models.SimulationRun, error) {
	traj := rec.Trajectory
	data, err := json.Marshal(traj)
	if err != nil {
		return nil, fmt.Errorf("encode trajectory: %w", err)
	}
	final := traj.Final()
	return &models.SimulationRun{
		ID:           uuid.NewString(),
		Speed:        p.Speed,
		Angle:        p.Angle,
		TotalTime:    p.TotalTime,
		TimeStep:     p.TimeStep,
		TableWidth:   table.Width,
		TableHeight:  table.Height,
		Samples:      len(traj),
		ReflectionsX: rec.ReflectionsX,
		ReflectionsY: rec.ReflectionsY,
		FinalX:       final.X,
		FinalY:       final.Y,
		Trajectory:   data,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// DecodeTrajectory unpacks the JSONB trajectory column.
func DecodeTrajectory(run *models.SimulationRun) (physics.Trajectory, error) {
	if len(run.Trajectory) == 0 {
		return physics.Trajectory{}, nil
	}
	var traj physics.Trajectory
	if err := json.Unmarshal(run.Trajectory, &traj); err != nil {
		return nil, fmt.Errorf("decode trajectory of run %s: %w", run.ID, err)
	}
	return traj, nil
}

// ValidID reports whether id is a well-formed run ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// PGRunStore stores runs in the simulation_runs table.
type PGRunStore struct {
	db *sqlx.DB
}

func NewPGRunStore(db *sqlx.DB) *PGRunStore {
	return &PGRunStore{db: db}
}

const summaryColumns = `id, speed, angle, total_time, dt, table_width, table_height, samples,
	reflections_x, reflections_y, final_x, final_y, created_at`

func (s *PGRunStore) Save(ctx context.Context, run *models.SimulationRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO simulation_runs (`+summaryColumns+`, trajectory)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14::jsonb)`,
		run.ID, run.Speed, run.Angle, run.TotalTime, run.TimeStep, run.TableWidth, run.TableHeight, run.Samples,
		run.ReflectionsX, run.ReflectionsY, run.FinalX, run.FinalY, run.CreatedAt, string(run.Trajectory),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

func (s *PGRunStore) Get(ctx context.Context, id string) (*models.SimulationRun, error) {
	if !ValidID(id) {
		return nil, ErrRunNotFound
	}
	var run models.SimulationRun
	err := s.db.GetContext(ctx, &run, `SELECT `+summaryColumns+`, trajectory FROM simulation_runs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// List returns run summaries newest first. Trajectories are not loaded.
func (s *PGRunStore) List(ctx context.Context, limit, offset int) ([]models.SimulationRun, error) {
	runs := []models.SimulationRun{}
	err := s.db.SelectContext(ctx, &runs,
		`SELECT `+summaryColumns+` FROM simulation_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *PGRunStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrRunNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM simulation_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}
	return nil
}
