package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidasana/vidasana/config"
)

var (
	redisClient *redis.Client
	redisMu     sync.Mutex
)

// GetRedis returns a shared Redis client based on loaded config.
func GetRedis() *redis.Client {
	redisMu.Lock()
	defer redisMu.Unlock()
	if redisClient == nil {
		cfg := config.Get()
		redisClient = redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		// Ping to validate; errors are tolerated so cache-dependent paths
		// can fall back gracefully.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = redisClient.Ping(ctx).Err()
	}
	return redisClient
}

// SetRedis replaces the shared client. Tests use this with miniredis.
func SetRedis(c *redis.Client) {
	redisMu.Lock()
	redisClient = c
	redisMu.Unlock()
}
