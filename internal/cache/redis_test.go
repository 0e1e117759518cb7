package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/travelagency/config"
	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(config.RedisConfig{Addr: mr.Addr()}, time.Minute, time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestRedisCache_Packages(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	cached, err := c.GetPackages(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)

	packages := []domain.Package{{
		ID:             uuid.New(),
		Title:          "Alps",
		BasePrice:      decimal.RequireFromString("1200.50"),
		AvailableSeats: 4,
	}}
	require.NoError(t, c.SetPackages(ctx, packages))
	assert.Equal(t, time.Minute, mr.TTL(packagesKey()))

	cached, err = c.GetPackages(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Alps", cached[0].Title)
	assert.True(t, packages[0].BasePrice.Equal(cached[0].BasePrice))

	require.NoError(t, c.InvalidatePackages(ctx))
	cached, err = c.GetPackages(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisCache_CartRoundTripAndExpiry(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	_, err := c.GetCart(ctx, "s1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	cart := domain.NewCart("s1")
	_, err = cart.Add(domain.Package{ID: uuid.New(), Title: "Crete", BasePrice: decimal.RequireFromString("99.99")}, 2)
	require.NoError(t, err)
	require.NoError(t, c.SaveCart(ctx, cart))

	loaded, err := c.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].PeopleCount)
	assert.Equal(t, "199.98", loaded.Total().String())

	_, err = c.GetCart(ctx, "s2")
	assert.ErrorIs(t, err, ErrCacheMiss)

	mr.FastForward(2 * time.Hour)
	_, err = c.GetCart(ctx, "s1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_DeleteCart(t *testing.T) {
	_, c := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SaveCart(ctx, domain.NewCart("s1")))
	require.NoError(t, c.DeleteCart(ctx, "s1"))

	_, err := c.GetCart(ctx, "s1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_CheckoutLock(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	ok, err := c.AcquireCheckoutLock(ctx, "s1", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.AcquireCheckoutLock(ctx, "s1", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.AcquireCheckoutLock(ctx, "s2", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.ReleaseCheckoutLock(ctx, "s1"))
	ok, err = c.AcquireCheckoutLock(ctx, "s1", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(11 * time.Second)
	ok, err = c.AcquireCheckoutLock(ctx, "s2", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCache_Ping(t *testing.T) {
	mr, c := setupRedis(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
