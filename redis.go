package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOptions accepts either a redis:// URL or a bare host:port
func redisOptions(redisURL string) *redis.Options {
	if !strings.Contains(redisURL, "://") {
		redisURL = "redis://" + redisURL
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// Fallback to simple connection
		return &redis.Options{Addr: strings.TrimPrefix(redisURL, "redis://")}
	}
	return opt
}

// openRedis connects to Redis and checks it answers
func openRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	client := redis.NewClient(redisOptions(redisURL))

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
