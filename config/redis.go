package config

import (
	"Undercover/services/redis"

	"github.com/rs/zerolog/log"
)

// Connect to Redis
func Connect_redis(cfg *Config) (*redis.RedisClient, error) {
	redisClient, err := redis.InitRedis(cfg.RedisURL, 0, cfg.RoomTTL)
	if err != nil {
		log.Error().Err(err).Str("module", "config").Msg("Error connecting to Redis")
		return nil, err
	}
	log.Info().Str("module", "config").Msg("Redis connection established")
	return redisClient, nil
}
