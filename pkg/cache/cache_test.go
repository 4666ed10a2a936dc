package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "q:KO", payload{Symbol: "KO", Price: 60}, time.Minute))

	var got payload
	require.NoError(t, mc.Get(ctx, "q:KO", &got))
	require.Equal(t, "KO", got.Symbol)
	require.Equal(t, 60.0, got.Price)

	require.NoError(t, mc.Delete(ctx, "q:KO"))
	require.ErrorIs(t, mc.Get(ctx, "q:KO", &got), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "q:MSFT", payload{Symbol: "MSFT"}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	var got payload
	require.ErrorIs(t, mc.Get(ctx, "q:MSFT", &got), ErrCacheMiss)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	rc := NewRedisCacheFromClient(client, "test")
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "q:KO", payload{Symbol: "KO", Price: 60}, time.Minute))

	ok, err := rc.Exists(ctx, "q:KO")
	require.NoError(t, err)
	require.True(t, ok)

	var got payload
	require.NoError(t, rc.Get(ctx, "q:KO", &got))
	require.Equal(t, 60.0, got.Price)

	require.NoError(t, rc.Delete(ctx, "q:KO"))
	require.ErrorIs(t, rc.Get(ctx, "q:KO", &got), ErrCacheMiss)
}
