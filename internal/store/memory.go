package store

import (
	"context"
	"sort"
	"sync"

	"github.com/playmatatu/tablesim/internal/models"
)

// MemoryRunStore keeps runs in process memory. Used when no database is configured.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]models.SimulationRun
}

func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]models.SimulationRun)}
}

func (s *MemoryRunStore) Save(_ context.Context, run *models.SimulationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

func (s *MemoryRunStore) Get(_ context.Context, id string) (*models.SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return &run, nil
}

func (s *MemoryRunStore) List(_ context.Context, limit, offset int) ([]models.SimulationRun, error) {
	s.mu.RLock()
	all := make([]models.SimulationRun, 0, len(s.runs))
	for _, r := range s.runs {
		r.Trajectory = nil
		all = append(all, r)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []models.SimulationRun{}, nil
	}
	all = all[offset:]
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryRunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		return ErrRunNotFound
	}
	delete(s.runs, id)
	return nil
}
