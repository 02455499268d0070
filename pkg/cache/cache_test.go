package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Symbol string    `json:"symbol"`
	Prices []float64 `json:"prices"`
}

func TestMemoryRoundTripStruct(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := report{Symbol: "AAPL", Prices: []float64{1, 2.5}}
	require.NoError(t, mc.Set(ctx, "k", in, time.Minute))

	var out report
	require.NoError(t, mc.Get(ctx, "k", &out))
	assert.Equal(t, in, out)

	var s string
	require.NoError(t, mc.Set(ctx, "s", "plain", 0))
	require.NoError(t, mc.Get(ctx, "s", &s))
	assert.Equal(t, "plain", s)
}

func TestMemoryExpiryAndDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "short", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	var v int
	assert.ErrorIs(t, mc.Get(ctx, "short", &v), ErrCacheMiss)

	require.NoError(t, mc.Set(ctx, "gone", 1, time.Minute))
	require.NoError(t, mc.Delete(ctx, "gone"))
	assert.ErrorIs(t, mc.Get(ctx, "gone", &v), ErrCacheMiss)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", 2, time.Minute))
	time.Sleep(time.Millisecond)
	var v int
	require.NoError(t, mc.Get(ctx, "a", &v))
	require.NoError(t, mc.Set(ctx, "c", 3, time.Minute))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &v))
}

func TestMemoryTryLock(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock:AAPL", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mc.TryLock(ctx, "lock:AAPL", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mc.Unlock(ctx, "lock:AAPL"))
	ok, _ = mc.TryLock(ctx, "lock:AAPL", time.Minute)
	assert.True(t, ok)
}

type failingStore struct{ *MemoryCache }

func (failingStore) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("down")
}

func TestLayeredPromotesFromSharedLayer(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryCache()
	lc := NewLayeredCache(NewMemoryCache(), shared)
	defer lc.Close()

	require.NoError(t, shared.Set(ctx, "k", report{Symbol: "MSFT"}, time.Minute))
	var out report
	require.NoError(t, lc.Get(ctx, "k", &out))
	assert.Equal(t, "MSFT", out.Symbol)

	require.NoError(t, shared.Delete(ctx, "k"))
	out = report{}
	require.NoError(t, lc.Get(ctx, "k", &out))
	assert.Equal(t, "MSFT", out.Symbol)
}

func TestLayeredWriteThroughFailure(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache()
	lc := NewLayeredCache(l1, failingStore{NewMemoryCache()})
	defer lc.Close()

	assert.Error(t, lc.Set(ctx, "k", 1, time.Minute))
	var v int
	assert.ErrorIs(t, l1.Get(ctx, "k", &v), ErrCacheMiss)
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "forecast:AAPL:2024-01-01:7", GenerateKeyWithParams("forecast", "AAPL", "2024-01-01", 7))
	assert.Len(t, HashKey("x"), 32)
}
