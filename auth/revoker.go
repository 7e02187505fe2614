package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers logged-out token ids until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevoker keeps one key per revoked token with a TTL matching its expiry.
type RedisRevoker struct {
	client *redis.Client
}

func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{client: client}
}

func revokedKey(jti string) string {
	return "fabcatalogue:revoked:" + jti
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, revokedKey(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NopRevoker is used when no Redis is configured. Logout then only clears the session cookie.
type NopRevoker struct{}

func (NopRevoker) Revoke(context.Context, string, time.Time) error   { return nil }
func (NopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }
