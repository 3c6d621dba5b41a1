package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Year    int            `json:"year"`
	Summary map[string]int `json:"summary"`
}

func TestMemoryCacheRoundTripsStructs(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	in := report{Year: 2024, Summary: map[string]int{"RISK": 2}}
	require.NoError(t, mc.Set(ctx, "risk:0101999888:2024", in, time.Minute))

	got, err := GetTyped[report](ctx, mc, "risk:0101999888:2024")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	var s string
	require.NoError(t, mc.Set(ctx, "plain", "value", 0))
	require.NoError(t, mc.Get(ctx, "plain", &s))
	assert.Equal(t, "value", s)

	_, err = GetTyped[report](ctx, mc, "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "k", 1, time.Second))
	ok, _ := mc.Exists(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	var v int
	assert.ErrorIs(t, mc.Get(ctx, "k", &v), ErrCacheMiss)
	ok, _ = mc.Exists(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	for _, k := range []string{"risk:111:2024", "risk:111:0", "risk:222:2024", "ratios:111"} {
		require.NoError(t, mc.Set(ctx, k, 1, time.Minute))
	}

	require.NoError(t, mc.DeleteByPattern(ctx, BuildPattern(GenerateKeyWithParams("risk", "111")+":")))

	for k, want := range map[string]bool{"risk:111:2024": false, "risk:111:0": false, "risk:222:2024": true, "ratios:111": true} {
		ok, _ := mc.Exists(ctx, k)
		assert.Equal(t, want, ok, k)
	}

	assert.Error(t, mc.DeleteByPattern(ctx, "risk:["))
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { now = now.Add(time.Millisecond); return now }

	require.NoError(t, mc.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, mc.Set(ctx, "b", 2, time.Minute))
	var v int
	require.NoError(t, mc.Get(ctx, "a", &v))
	require.NoError(t, mc.Set(ctx, "c", 3, time.Minute))

	assert.Equal(t, 2, mc.Len())
	ok, _ := mc.Exists(ctx, "b")
	assert.False(t, ok)
	ok, _ = mc.Exists(ctx, "a")
	assert.True(t, ok)
}

func TestLayeredCacheReadsThroughRemote(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote)
	defer lc.Close()

	in := report{Year: 2023, Summary: map[string]int{"SAFE": 10}}
	require.NoError(t, remote.Set(ctx, "risk:1:2023", in, time.Minute))

	got, err := GetTyped[report](ctx, lc, "risk:1:2023")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// now served from L1 even after remote loses it
	require.NoError(t, remote.Delete(ctx, "risk:1:2023"))
	got, err = GetTyped[report](ctx, lc, "risk:1:2023")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	require.NoError(t, lc.DeleteByPattern(ctx, "risk:1:*"))
	_, err = GetTyped[report](ctx, lc, "risk:1:2023")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "risk:0101999888:2024", GenerateKeyWithParams("risk", "0101999888", 2024))
	assert.Equal(t, "risk*", BuildPattern("risk"))
}
