package redis

import (
	game_constants "Undercover/constants/game"
	redis_models "Undercover/models/redis"
	"Undercover/services/game"
	redis_utils "Undercover/services/redis/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisClient stores room state as JSON documents with a sliding TTL.
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(addr string, db int, roomTTL time.Duration) (*RedisClient, error) {
	var client *redis.Client
	if strings.Contains(addr, "://") {
		log.Info().Str("module", "redis").Msg("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %v", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	if roomTTL <= 0 {
		roomTTL = game_constants.DefaultRoomTTL
	}
	return &RedisClient{client: client, ttl: roomTTL}, nil
}

// SaveRoom stores a room and indexes it by connection and, once finished, by age.
// Key format: "room:{code}"
func (rc *RedisClient) SaveRoom(ctx context.Context, room *redis_models.RoomState) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("error marshaling room data: %v", err)
	}

	_, err = rc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redis_utils.FormatRoomKey(room.RoomCode), data, rc.ttl)
		for _, p := range room.Players {
			key := redis_utils.FormatConnectionRoomsKey(p.ConnectionID)
			pipe.SAdd(ctx, key, room.RoomCode)
			pipe.Expire(ctx, key, rc.ttl)
		}
		if room.Status == redis_models.StatusFinished {
			pipe.ZAdd(ctx, redis_utils.FinishedRoomsKey, redis.Z{
				Score:  float64(room.UpdatedAt.UnixMilli()),
				Member: room.RoomCode,
			})
		} else {
			pipe.ZRem(ctx, redis_utils.FinishedRoomsKey, room.RoomCode)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error saving room %s: %v", room.RoomCode, err)
	}
	return nil
}

// FindRoom returns an error wrapping game.ErrRoomNotFound when the key is absent.
func (rc *RedisClient) FindRoom(ctx context.Context, code string) (*redis_models.RoomState, error) {
	data, err := rc.client.Get(ctx, redis_utils.FormatRoomKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("room %s: %w", code, game.ErrRoomNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error getting room data: %v", err)
	}

	var room redis_models.RoomState
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("error unmarshaling room data: %v", err)
	}
	return &room, nil
}

// DeleteRoom removes a room together with its index entries.
func (rc *RedisClient) DeleteRoom(ctx context.Context, code string) error {
	room, err := rc.FindRoom(ctx, code)
	if err != nil && !errors.Is(err, game.ErrRoomNotFound) {
		return err
	}

	_, err = rc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redis_utils.FormatRoomKey(code))
		pipe.ZRem(ctx, redis_utils.FinishedRoomsKey, code)
		if room != nil {
			for _, p := range room.Players {
				pipe.SRem(ctx, redis_utils.FormatConnectionRoomsKey(p.ConnectionID), code)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error deleting room %s: %v", code, err)
	}
	return nil
}

// FindRoomsByConnection lists rooms whose roster still holds connectionID. Stale
// index entries left by removals and reconnects are pruned on the way.
func (rc *RedisClient) FindRoomsByConnection(ctx context.Context, connectionID string) ([]string, error) {
	key := redis_utils.FormatConnectionRoomsKey(connectionID)
	codes, err := rc.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting rooms of connection %s: %v", connectionID, err)
	}

	var seated []string
	for _, code := range codes {
		room, err := rc.FindRoom(ctx, code)
		if err != nil && !errors.Is(err, game.ErrRoomNotFound) {
			return nil, err
		}
		if room != nil && room.PlayerByConnection(connectionID) != nil {
			seated = append(seated, code)
			continue
		}
		if err := rc.client.SRem(ctx, key, code).Err(); err != nil {
			log.Warn().Err(err).Str("module", "redis").Str("connection", connectionID).Msg("could not prune stale room index")
		}
	}
	return seated, nil
}

// FindFinishedRooms lists finished rooms last updated at or before updatedBefore.
func (rc *RedisClient) FindFinishedRooms(ctx context.Context, updatedBefore time.Time) ([]string, error) {
	codes, err := rc.client.ZRangeByScore(ctx, redis_utils.FinishedRoomsKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(updatedBefore.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("error listing finished rooms: %v", err)
	}
	return codes, nil
}
