package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chachabrian/transitly-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

var errRedisNotInitialized = errors.New("redis client not initialized")

// CacheRouteSearch stores a search result set for a (source, destination) pair
func CacheRouteSearch(ctx context.Context, source, destination string, routes []models.Route) error {
	if RedisClient == nil {
		return errRedisNotInitialized
	}
	data, err := json.Marshal(routes)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("routes:search:%s:%s", source, destination)
	return RedisClient.Set(ctx, key, data, 5*time.Minute).Err()
}

// GetCachedRouteSearch retrieves a cached search result set
func GetCachedRouteSearch(ctx context.Context, source, destination string) ([]models.Route, error) {
	if RedisClient == nil {
		return nil, errRedisNotInitialized
	}
	key := fmt.Sprintf("routes:search:%s:%s", source, destination)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var routes []models.Route
	if err := json.Unmarshal([]byte(data), &routes); err != nil {
		return nil, err
	}

	return routes, nil
}

// InvalidateRouteSearches drops every cached search result. Called when an
// admin adds a route so stale matches don't linger for the cache TTL.
func InvalidateRouteSearches(ctx context.Context) error {
	if RedisClient == nil {
		return errRedisNotInitialized
	}
	iter := RedisClient.Scan(ctx, 0, "routes:search:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// BlacklistToken records a logged-out JWT until its natural expiry
func BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if RedisClient == nil {
		return errRedisNotInitialized
	}
	if ttl <= 0 {
		return nil
	}
	key := fmt.Sprintf("auth:blacklist:%s", token)
	return RedisClient.Set(ctx, key, "revoked", ttl).Err()
}

// IsTokenBlacklisted reports whether a JWT has been logged out
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if RedisClient == nil {
		return false, nil
	}
	key := fmt.Sprintf("auth:blacklist:%s", token)
	result, err := RedisClient.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}
