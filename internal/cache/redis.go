package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cargo-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Dashboard cache keys
const (
	DashboardStatsKey = "dashboard:stats"
	DashboardStatsTTL = 30 * time.Second
	FlightBoardKeyFmt = "dashboard:flights:%s" // date
	FlightBoardTTL    = time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. The cache degrades gracefully:
// callers must tolerate a nil client.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when the cache is down)
func GetClient() *redis.Client {
	return client
}

// GetJSON reads a cached JSON value into dest; returns false on miss
// or when the cache is unavailable.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON stores a JSON value with a TTL; a cold cache is not an error.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Invalidate drops a cached key
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}
