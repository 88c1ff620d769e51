package cache

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](time.Minute)

	c.Set("key", "value")

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestCache_Miss(t *testing.T) {
	c := New[int](time.Minute)

	_, ok := c.Get("absent")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_LazyExpiry(t *testing.T) {
	c := New[string](time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("key", "value")

	// Jump past the TTL; entry must read as a miss and be evicted.
	now = now.Add(2 * time.Minute)
	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := New[string](0)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("key", "value")
	now = now.Add(240 * time.Hour)

	_, ok := c.Get("key")
	assert.True(t, ok)
}

func TestCache_Sweep(t *testing.T) {
	c := New[int](time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	c.SetTTL("keep", 3, time.Hour)

	now = now.Add(5 * time.Minute)
	removed := c.Sweep()

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Size())

	_, ok := c.Get("keep")
	assert.True(t, ok)
}

func TestCache_DeleteClear(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestStats_HitRatio(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)

	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	assert.InDelta(t, 2.0/3.0, stats.HitRatio(), 0.001)
}

func TestStats_HitRatioNoTraffic(t *testing.T) {
	assert.Equal(t, 0.0, Stats{}.HitRatio())
}

func TestSweeper(t *testing.T) {
	c := New[int](time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("a", 1)
	now = now.Add(2 * time.Minute)

	sweeper, err := NewSweeper(zerolog.Nop(), time.Second, c)
	require.NoError(t, err)

	sweeper.Start()
	defer sweeper.Stop()

	assert.Eventually(t, func() bool {
		return c.Size() == 0
	}, 3*time.Second, 50*time.Millisecond)
}
