// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"medconnect/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// PresenceClient backs the shared presence registry for the real-time channel.
	PresenceClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitPresenceCache initializes the Redis client used for online-user presence.
func InitPresenceCache() {
	PresenceClient = newRedisClient(config.AppConfig.RedisPresenceDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := PresenceClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Presence): %v", err)
	}
}

// GetPresenceClient returns the Redis client for presence tracking.
func GetPresenceClient() *redis.Client {
	if PresenceClient == nil {
		InitPresenceCache()
	}
	return PresenceClient
}
