package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupCounter(t *testing.T) (*miniredis.Miniredis, *UnreadCounter) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	return mr, NewUnreadCounter(client)
}

func TestUnreadCounter_MissThenSet(t *testing.T) {
	_, counter := setupCounter(t)
	ctx := context.Background()

	_, err := counter.Get(ctx, 1)
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, counter.Set(ctx, 1, 5))

	count, err := counter.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(5), count)
}

func TestUnreadCounter_IncrOnlyWhenCached(t *testing.T) {
	_, counter := setupCounter(t)
	ctx := context.Background()

	// Incr on an uncached counter is a no-op, not an implicit zero.
	require.NoError(t, counter.Incr(ctx, 2))
	_, err := counter.Get(ctx, 2)
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, counter.Set(ctx, 2, 1))
	require.NoError(t, counter.Incr(ctx, 2))

	count, err := counter.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestUnreadCounter_Clear(t *testing.T) {
	_, counter := setupCounter(t)
	ctx := context.Background()

	require.NoError(t, counter.Set(ctx, 3, 7))
	require.NoError(t, counter.Clear(ctx, 3))

	_, err := counter.Get(ctx, 3)
	require.ErrorIs(t, err, ErrMiss)
}

func TestUnreadCounter_Expiry(t *testing.T) {
	mr, counter := setupCounter(t)
	ctx := context.Background()

	require.NoError(t, counter.Set(ctx, 4, 9))
	mr.FastForward(unreadTTL + 1)

	_, err := counter.Get(ctx, 4)
	require.ErrorIs(t, err, ErrMiss)
}

func TestUnreadCounter_NilClientDisablesCache(t *testing.T) {
	counter := NewUnreadCounter(nil)
	ctx := context.Background()

	_, err := counter.Get(ctx, 5)
	require.ErrorIs(t, err, ErrMiss)
	require.NoError(t, counter.Set(ctx, 5, 1))
	require.NoError(t, counter.Incr(ctx, 5))
	require.NoError(t, counter.Clear(ctx, 5))
}
