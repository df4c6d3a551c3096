package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// ConnectRedis builds the Redis client used for dashboard caching.
// REDIS_URL accepts either a redis:// URL or a plain host:port address.
// The cache is optional; callers degrade to direct queries when the
// server is unreachable.
func ConnectRedis() *redis.Client {
	raw := strings.TrimSpace(os.Getenv("REDIS_URL"))
	if raw == "" {
		raw = "localhost:6379"
		log.Println("⚠️  REDIS_URL not set, using localhost:6379")
	}

	var client *redis.Client
	if strings.HasPrefix(raw, "redis://") || strings.HasPrefix(raw, "rediss://") {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			log.Printf("warning: invalid REDIS_URL %q: %v", raw, err)
			return nil
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{Addr: raw})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unreachable (%v); dashboard caching disabled", err)
	} else {
		log.Println("✅ Redis connection established")
	}
	return client
}
