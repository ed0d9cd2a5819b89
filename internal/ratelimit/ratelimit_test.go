package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryFixedWindow(t *testing.T) {
	m := NewMemory(2, time.Minute)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := m.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "attempt %d", i+1)
	}

	ok, err := m.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Minute)
	ok, err = m.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "new window")
	assert.Len(t, m.buckets, 1, "expired buckets are swept")
}

func TestMemoryDisabled(t *testing.T) {
	m := NewMemory(0, time.Minute)
	for range 100 {
		ok, err := m.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestNewFallsBackToMemory(t *testing.T) {
	l := New(context.Background(), Options{Limit: 1, RedisAddr: "127.0.0.1:1"}, zap.NewNop())
	_, ok := l.(*Memory)
	assert.True(t, ok)

	l = New(context.Background(), Options{Limit: 1}, zap.NewNop())
	_, ok = l.(*Memory)
	assert.True(t, ok)
}

func TestRedisKeyPerWindow(t *testing.T) {
	r := NewRedis(nil, "login", 5, time.Minute)
	now := time.Date(2026, 10, 17, 12, 0, 30, 0, time.UTC)
	r.now = func() time.Time { return now }

	first := r.key("10.0.0.1")
	assert.Contains(t, first, "izposoja:ratelimit:login:10.0.0.1:")

	now = now.Add(20 * time.Second)
	assert.Equal(t, first, r.key("10.0.0.1"), "same window")

	now = now.Add(time.Minute)
	assert.NotEqual(t, first, r.key("10.0.0.1"), "next window")
}
