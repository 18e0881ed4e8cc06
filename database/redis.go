package database

import (
	"context"
	"fintrack-backend/config"
	"log"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis is optional: without Redis the login rate limiter is disabled.
func ConnectRedis() {
	opts, err := redis.ParseURL(config.AppConfig.RedisURL)
	if err != nil {
		log.Println("⚠️  Invalid REDIS_URL, running without rate limiting:", err)
		return
	}

	client := redis.NewClient(opts)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Println("⚠️  Redis not available, running without rate limiting:", err)
		client.Close()
		return
	}

	Redis = client
	log.Println("✅ Redis connected successfully")
}
