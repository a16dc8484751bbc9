package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/blaaiz/blaaiz-go/utils/logger"
	"github.com/redis/go-redis/v9"
)

var (
	// RedisClient holds the Redis connection, nil when Redis is not configured
	RedisClient *redis.Client
	// Err holds the last connection error
	Err error
)

// InitializeRedis connects to the Redis server at redisURL.
// An empty URL leaves RedisClient nil.
func InitializeRedis(redisURL string) error {
	if redisURL == "" {
		logger.Infof("Redis not configured, using in-memory delivery store", nil)
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		Err = err
		return fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = client.Ping(ctx).Err()
		cancel()
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		Err = err
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	RedisClient = client
	logger.Infof("Connected to redis at %s", nil, opts.Addr)
	return nil
}

// GetError returns the last connection error
func GetError() error {
	return Err
}
