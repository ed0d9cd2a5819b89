// Package ratelimit provides fixed-window request limiting, backed by Redis
// when it is reachable and by process memory otherwise.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Limiter decides whether another event for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Options configures a limiter.
type Options struct {
	// Limit is the number of events allowed per window. Zero or less
	// disables limiting.
	Limit  int
	Window time.Duration
	// Prefix namespaces keys, for example "login".
	Prefix string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New returns a Redis limiter when opts.RedisAddr answers a ping, and an
// in-memory limiter otherwise.
func New(ctx context.Context, opts Options, logger *zap.Logger) Limiter {
	if opts.Window <= 0 {
		opts.Window = time.Minute
	}
	if opts.RedisAddr == "" {
		return NewMemory(opts.Limit, opts.Window)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.RedisAddr,
		Password:     opts.RedisPassword,
		DB:           opts.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limiter",
			zap.String("addr", opts.RedisAddr),
			zap.Error(err),
		)
		client.Close()
		return NewMemory(opts.Limit, opts.Window)
	}

	logger.Info("redis rate limiter ready",
		zap.String("addr", opts.RedisAddr),
		zap.String("prefix", opts.Prefix),
		zap.Int("limit", opts.Limit),
	)
	return NewRedis(client, opts.Prefix, opts.Limit, opts.Window)
}

// Redis counts events with INCR on a per-window key that expires with the
// window, so every instance sharing the server shares the budget.
type Redis struct {
	client redis.Cmdable
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedis returns a Redis-backed limiter.
func NewRedis(client redis.Cmdable, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow implements Limiter.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}

	k := r.key(key)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("counting rate limit: %w", err)
	}

	return incr.Val() <= int64(r.limit), nil
}

func (r *Redis) key(key string) string {
	window := r.now().UnixNano() / int64(r.window)
	return fmt.Sprintf("izposoja:ratelimit:%s:%s:%d", r.prefix, key, window)
}

// Memory is a single-process fixed-window limiter.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	buckets map[string]bucket
}

type bucket struct {
	start time.Time
	count int
}

// NewMemory returns an in-memory limiter.
func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]bucket),
	}
}

// Allow implements Limiter.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	if m.limit <= 0 {
		return true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b := m.buckets[key]
	if now.Sub(b.start) >= m.window {
		b = bucket{start: now}
		m.sweep(now)
	}
	b.count++
	m.buckets[key] = b

	return b.count <= m.limit, nil
}

// sweep drops expired buckets. Caller holds m.mu.
func (m *Memory) sweep(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.start) >= m.window {
			delete(m.buckets, k)
		}
	}
}
