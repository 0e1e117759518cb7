package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelagency/config"
	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a session has no stored cart.
var ErrCacheMiss = errors.New("cache miss")

type RedisCache struct {
	client      *redis.Client
	packagesTTL time.Duration
	cartTTL     time.Duration
}

func NewRedisCache(cfg config.RedisConfig, packagesTTL, cartTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		packagesTTL: packagesTTL,
		cartTTL:     cartTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetPackages returns the cached package list, or nil when nothing is cached.
func (c *RedisCache) GetPackages(ctx context.Context) ([]domain.Package, error) {
	data, err := c.client.Get(ctx, packagesKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var packages []domain.Package
	if err := json.Unmarshal(data, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

func (c *RedisCache) SetPackages(ctx context.Context, packages []domain.Package) error {
	payload, err := json.Marshal(packages)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, packagesKey(), payload, c.packagesTTL).Err()
}

func (c *RedisCache) InvalidatePackages(ctx context.Context) error {
	return c.client.Del(ctx, packagesKey()).Err()
}

// GetCart loads the cart stored for sessionID. It returns ErrCacheMiss when
// the session has no cart or the cart expired.
func (c *RedisCache) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := c.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

// SaveCart stores the cart and restarts its expiry.
func (c *RedisCache) SaveCart(ctx context.Context, cart *domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cartKey(cart.SessionID), payload, c.cartTTL).Err()
}

func (c *RedisCache) DeleteCart(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, cartKey(sessionID)).Err()
}

// AcquireCheckoutLock makes checkouts of one session mutually exclusive.
// It reports false when another checkout holds the lock.
func (c *RedisCache) AcquireCheckoutLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, checkoutLockKey(sessionID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseCheckoutLock(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, checkoutLockKey(sessionID)).Err()
}

func packagesKey() string {
	return "cache:packages"
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func checkoutLockKey(sessionID string) string {
	return fmt.Sprintf("lock:checkout:%s", sessionID)
}
