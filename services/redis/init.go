package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// InitRedis connects to Redis and checks the connection.
func InitRedis(addr string, db int, roomTTL time.Duration) (*RedisClient, error) {
	rc, err := NewRedisClient(addr, db, roomTTL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	log.Info().Str("module", "redis").Msg("Successfully connected to Redis")
	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %v", err)
	}
	return nil
}
