package models

import (
	"time"
)

// SimulationRun is one persisted call to the simulator
type SimulationRun struct {
	ID           string    `db:"id" json:"id"`
	Speed        float64   `db:"speed" json:"speed"`
	Angle        float64   `db:"angle" json:"angle"`
	TotalTime    float64   `db:"total_time" json:"total_time"`
	TimeStep     float64   `db:"dt" json:"dt"`
	TableWidth   float64   `db:"table_width" json:"table_width"`
	TableHeight  float64   `db:"table_height" json:"table_height"`
	Samples      int       `db:"samples" json:"samples"`
	ReflectionsX int       `db:"reflections_x" json:"reflections_x"`
	ReflectionsY int       `db:"reflections_y" json:"reflections_y"`
	FinalX       float64   `db:"final_x" json:"final_x"`
	FinalY       float64   `db:"final_y" json:"final_y"`
	Trajectory   []byte    `db:"trajectory" json:"-"` // JSONB array of {x,y}
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RunEvent is published on the simulation_events channel
type RunEvent struct {
	Type      string    `json:"type"` // "run_completed", "run_deleted"
	RunID     string    `json:"run_id"`
	Speed     float64   `json:"speed,omitempty"`
	Angle     float64   `json:"angle,omitempty"`
	Samples   int       `json:"samples,omitempty"`
	FinalX    float64   `json:"final_x,omitempty"`
	FinalY    float64   `json:"final_y,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
