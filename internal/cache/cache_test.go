package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type payload struct {
	Name string `json:"name"`
}

func TestAside_MissThenHit(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			dest.Name = "fresh"
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "thing:1", &first, time.Minute, fetch(&first)))
	assert.Equal(t, "fresh", first.Name)

	var second payload
	require.NoError(t, Aside(ctx, "thing:1", &second, time.Minute, fetch(&second)))
	assert.Equal(t, "fresh", second.Name)
	assert.Equal(t, 1, calls)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	mr := withMiniredis(t)
	boom := errors.New("boom")

	var p payload
	err := Aside(context.Background(), "thing:2", &p, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("thing:2"))
}

func TestAside_NoClientCallsFetch(t *testing.T) {
	SetClient(nil)
	var p payload
	require.NoError(t, Aside(context.Background(), "thing:3", &p, time.Minute, func() error {
		p.Name = "direct"
		return nil
	}))
	assert.Equal(t, "direct", p.Name)
}

func TestInvalidatePortfolio_RotatesKeys(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	before := PortfolioListKey(ctx, "", "completed")
	assert.Equal(t, "portfolio:v0:list:*:completed", before)

	InvalidatePortfolio(ctx)
	after := PortfolioListKey(ctx, "", "completed")
	assert.NotEqual(t, before, after)
	assert.Equal(t, "portfolio:v1:stats", PortfolioStatsKey(ctx))
}

func TestInvalidatePost(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set(PostKey(4), "{}"))
	require.NoError(t, mr.Set(HomeKey, "[]"))

	InvalidatePost(ctx, 4)
	assert.False(t, mr.Exists(PostKey(4)))
	assert.False(t, mr.Exists(HomeKey))
}
