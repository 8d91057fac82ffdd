package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/playmatatu/tablesim/internal/input"
	"github.com/playmatatu/tablesim/internal/models"
	"github.com/playmatatu/tablesim/internal/physics"
	"github.com/playmatatu/tablesim/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string]physics.Record
	gets    int
	failGet bool
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]physics.Record)}
}

func (c *memCache) Get(_ context.Context, p physics.Params, table physics.Table) (physics.Record, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return physics.Record{}, false, errors.New("redis down")
	}
	rec, ok := c.entries[store.CacheKey(p, table)]
	return rec, ok, nil
}

func (c *memCache) Set(_ context.Context, p physics.Params, table physics.Table, rec physics.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[store.CacheKey(p, table)] = rec
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.RunEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev models.RunEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type brokenStore struct{ store.MemoryRunStore }

func (*brokenStore) Save(context.Context, *models.SimulationRun) error {
	return errors.New("db unavailable")
}

func fp(v float64) *float64 { return &v }

func newTestSimulator(runs store.RunStore, cache store.Cache, pub store.Publisher) *Simulator {
	return NewSimulator(Options{
		Runs:        runs,
		Cache:       cache,
		Events:      pub,
		Limits:      input.DefaultLimits(),
		PersistRuns: true,
	})
}

func TestSimulateReturnsReferenceTrajectory(t *testing.T) {
	sim := newTestSimulator(nil, nil, nil)

	res, err := sim.Simulate(context.Background(), input.Request{Speed: 1, Angle: 0, TotalTime: fp(2), TimeStep: fp(0.5)})
	require.NoError(t, err)

	assert.Equal(t, physics.Trajectory{{X: 1, Y: 0.5}, {X: 1.5, Y: 0.5}, {X: 2, Y: 0.5}, {X: 1.5, Y: 0.5}, {X: 1, Y: 0.5}}, res.Trajectory)
	assert.Equal(t, 5, res.Samples())
	assert.Equal(t, 1, res.ReflectionsX)
	assert.Empty(t, res.RunID)
	assert.False(t, res.Cached)
}

func TestSimulateRejectsInvalidInput(t *testing.T) {
	sim := newTestSimulator(nil, nil, nil)

	_, err := sim.Simulate(context.Background(), input.Request{Speed: -1})
	assert.ErrorIs(t, err, input.ErrNonPositiveSpeed)

	_, err = sim.Simulate(context.Background(), input.Request{Speed: 1, TimeStep: fp(0)})
	assert.ErrorIs(t, err, input.ErrInvalidTimeStep)
}

func TestSimulateUsesCache(t *testing.T) {
	cache := newMemCache()
	sim := newTestSimulator(nil, cache, nil)
	req := input.Request{Speed: 2, Angle: 33}

	first, err := sim.Simulate(context.Background(), req)
	require.NoError(t, err)
	second, err := sim.Simulate(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Record, second.Record)
	assert.Equal(t, 2, cache.gets)
}

func TestSimulateSurvivesCacheFailure(t *testing.T) {
	cache := newMemCache()
	cache.failGet = true
	sim := newTestSimulator(nil, cache, nil)

	res, err := sim.Simulate(context.Background(), input.Request{Speed: 1})
	require.NoError(t, err)
	assert.Len(t, res.Trajectory, 1001)
}

func TestSimulatePersistsAndPublishes(t *testing.T) {
	runs := store.NewMemoryRunStore()
	pub := &recordingPublisher{}
	sim := newTestSimulator(runs, nil, pub)

	res, err := sim.Simulate(context.Background(), input.Request{Speed: 1.5, Angle: 20})
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)

	run, traj, err := sim.Run(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.Trajectory, traj)
	assert.Equal(t, 1.5, run.Speed)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "run_completed", pub.events[0].Type)
	assert.Equal(t, res.RunID, pub.events[0].RunID)

	require.NoError(t, sim.DeleteRun(context.Background(), res.RunID))
	assert.ErrorIs(t, sim.DeleteRun(context.Background(), res.RunID), store.ErrRunNotFound)
	require.Len(t, pub.events, 2)
	assert.Equal(t, "run_deleted", pub.events[1].Type)
}

func TestSimulatePersistOptOut(t *testing.T) {
	runs := store.NewMemoryRunStore()
	sim := newTestSimulator(runs, nil, nil)
	no := false

	res, err := sim.Simulate(context.Background(), input.Request{Speed: 1, Persist: &no})
	require.NoError(t, err)
	assert.Empty(t, res.RunID)

	list, err := sim.Runs(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSimulateStoreFailureStillReturnsTrajectory(t *testing.T) {
	sim := newTestSimulator(&brokenStore{}, nil, nil)

	res, err := sim.Simulate(context.Background(), input.Request{Speed: 1})
	require.NoError(t, err)
	assert.Empty(t, res.RunID)
	assert.NotEmpty(t, res.Trajectory)
}

func TestWithoutStore(t *testing.T) {
	sim := newTestSimulator(nil, nil, nil)

	_, _, err := sim.Run(context.Background(), "x")
	assert.ErrorIs(t, err, store.ErrRunNotFound)
	list, err := sim.Runs(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStreamBatches(t *testing.T) {
	sim := newTestSimulator(nil, nil, nil)
	var sizes []int
	var all []physics.Sample

	n, err := sim.Stream(context.Background(), input.Request{Speed: 1, TotalTime: fp(2), TimeStep: fp(0.5)}, 2,
		func(batch []physics.Sample) error {
			sizes = append(sizes, len(batch))
			all = append(all, batch...)
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{2, 2, 1}, sizes)
	for i, s := range all {
		assert.Equal(t, i, s.Index)
	}
	assert.Equal(t, 2.0, all[2].Position.X)
	assert.True(t, all[2].Reflection.X)
}

func TestStreamStopsOnCancel(t *testing.T) {
	sim := newTestSimulator(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	n, err := sim.Stream(ctx, input.Request{Speed: 1}, 10, func(batch []physics.Sample) error {
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 10, n)
}

func TestStreamStopsOnEmitError(t *testing.T) {
	sim := newTestSimulator(nil, nil, nil)
	boom := errors.New("client gone")

	n, err := sim.Stream(context.Background(), input.Request{Speed: 1}, 10, func([]physics.Sample) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, n)
}

// Each step is finite but the single-pass mirror lets |x| grow by 1e307 per
// step until it overflows.
func runawayRequest() input.Request {
	return input.Request{Speed: 1e307, Angle: 0, TotalTime: fp(30), TimeStep: fp(1)}
}

func TestSimulateRejectsOverflowingTrajectory(t *testing.T) {
	runs := store.NewMemoryRunStore()
	cache := newMemCache()
	pub := &recordingPublisher{}
	sim := newTestSimulator(runs, cache, pub)

	_, err := sim.Simulate(context.Background(), runawayRequest())

	assert.ErrorIs(t, err, input.ErrNumericOverflow)
	assert.Empty(t, cache.entries, "broken trajectories are not cached")
	assert.Empty(t, pub.events)
	list, err := sim.Runs(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStreamRejectsOverflowingTrajectory(t *testing.T) {
	sim := newTestSimulator(nil, nil, nil)

	_, err := sim.Stream(context.Background(), runawayRequest(), 1, func(batch []physics.Sample) error {
		for _, s := range batch {
			assert.True(t, s.Position.IsFinite(), "sample %d", s.Index)
		}
		return nil
	})

	assert.ErrorIs(t, err, input.ErrNumericOverflow)
}

func TestStatusReportsBackends(t *testing.T) {
	assert.Equal(t, Status{Runs: "disabled"}, newTestSimulator(nil, nil, nil).Status())
	assert.Equal(t, Status{Runs: "memory", Cache: true, Events: true},
		newTestSimulator(store.NewMemoryRunStore(), newMemCache(), &recordingPublisher{}).Status())
	assert.Equal(t, "postgres", newTestSimulator(store.NewPGRunStore(nil), nil, nil).Status().Runs)
	assert.Equal(t, "custom", newTestSimulator(&brokenStore{}, nil, nil).Status().Runs)
}
