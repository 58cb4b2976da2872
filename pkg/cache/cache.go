// Package cache wraps the shared Redis client. Values are stored as JSON.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hustlcampus/hustl/config"
	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// ErrUnavailable is returned when Connect has not succeeded.
var ErrUnavailable = errors.New("cache: redis unavailable")

// Connect initialises the Redis client and verifies it with a ping. On
// failure RDB is left nil.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	return nil
}

// Close shuts the client down if it was opened.
func Close() error {
	if RDB == nil {
		return nil
	}
	return RDB.Close()
}

// Get loads key into dest. It reports false on a miss.
func Get(ctx context.Context, key string, dest any) (bool, error) {
	if RDB == nil {
		return false, ErrUnavailable
	}

	val, err := RDB.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key for ttl.
func Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if RDB == nil {
		return ErrUnavailable
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes keys.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil {
		return ErrUnavailable
	}
	return RDB.Del(ctx, keys...).Err()
}
