package store

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/playmatatu/tablesim/internal/models"
	"github.com/playmatatu/tablesim/internal/physics"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// EventsChannel is the Redis pub/sub channel carrying run events.
const EventsChannel = "simulation_events"

// Cache holds finished trajectories keyed by their inputs.
type Cache interface {
	Get(ctx context.Context, p physics.Params, table physics.Table) (physics.Record, bool, error)
	Set(ctx context.Context, p physics.Params, table physics.Table, rec physics.Record) error
}

// Publisher announces run events to other processes.
type Publisher interface {
	Publish(ctx context.Context, ev models.RunEvent) error
}

// CacheKey hashes the exact bit patterns of the inputs. The simulator is
// deterministic, so equal keys always map to identical trajectories.
func CacheKey(p physics.Params, table physics.Table) string {
	var buf [6 * 8]byte
	for i, v := range []float64{p.Speed, p.Angle, p.TotalTime, p.TimeStep, table.Width, table.Height} {
		binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	sum := blake2b.Sum256(buf[:])
	return "traj:" + hex.EncodeToString(sum[:])
}

// RedisCache implements Cache and Publisher on top of go-redis.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, p physics.Params, table physics.Table) (physics.Record, bool, error) {
	data, err := c.rdb.Get(ctx, CacheKey(p, table)).Bytes()
	if errors.Is(err, redis.Nil) {
		return physics.Record{}, false, nil
	}
	if err != nil {
		return physics.Record{}, false, fmt.Errorf("cache get: %w", err)
	}
	var rec physics.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return physics.Record{}, false, fmt.Errorf("cache decode: %w", err)
	}
	return rec, true, nil
}

func (c *RedisCache) Set(ctx context.Context, p physics.Params, table physics.Table, rec physics.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.rdb.SetEx(ctx, CacheKey(p, table), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Publish(ctx context.Context, ev models.RunEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	n, err := c.rdb.Publish(ctx, EventsChannel, b).Result()
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	log.Printf("[CACHE] published %s run=%s subscribers=%d", ev.Type, ev.RunID, n)
	return nil
}
