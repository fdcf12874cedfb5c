package sync

import (
	"Undercover/models/postgres"
	redis_models "Undercover/models/redis"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrGameNotArchived is returned when no record exists for a room code.
var ErrGameNotArchived = errors.New("game not archived")

// SyncManager copies finished games out of Redis into PostgreSQL, where they
// outlive the room TTL.
type SyncManager struct {
	db *gorm.DB
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(db *gorm.DB) *SyncManager {
	return &SyncManager{db: db}
}

// ArchiveFinishedRoom stores the outcome of a finished room.
func (sm *SyncManager) ArchiveFinishedRoom(ctx context.Context, room *redis_models.RoomState) error {
	if room.Status != redis_models.StatusFinished {
		return fmt.Errorf("room %s is %s, not finished", room.RoomCode, room.Status)
	}

	players := make([]postgres.ArchivedPlayer, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, postgres.ArchivedPlayer{
			DisplayName: p.DisplayName,
			Role:        string(p.Role),
			Alive:       p.Alive,
			Guest:       p.IsGuest(),
		})
	}

	data, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("error marshaling players: %v", err)
	}

	record := postgres.GameRecord{
		RoomCode:       room.RoomCode,
		Winner:         string(room.Winner),
		Rounds:         room.CurrentRound - 1,
		CivilianWord:   room.CivilianWord,
		UndercoverWord: room.UndercoverWord,
		Players:        datatypes.JSON(data),
		FinishedAt:     room.UpdatedAt,
	}

	if err := sm.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("error archiving room %s: %v", room.RoomCode, err)
	}
	log.Info().Str("module", "sync").Str("room", room.RoomCode).Str("record", record.ID).
		Str("winner", record.Winner).Msg("game archived")
	return nil
}

// RecentGames lists the latest archived games, newest first.
func (sm *SyncManager) RecentGames(ctx context.Context, limit int) ([]postgres.GameRecord, error) {
	var records []postgres.GameRecord
	err := sm.db.WithContext(ctx).
		Order("finished_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error listing games: %v", err)
	}
	return records, nil
}

// GameByRoomCode returns the most recent archived game played in a room.
func (sm *SyncManager) GameByRoomCode(ctx context.Context, roomCode string) (*postgres.GameRecord, error) {
	var record postgres.GameRecord
	err := sm.db.WithContext(ctx).
		Where("room_code = ?", roomCode).
		Order("finished_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("room %s: %w", roomCode, ErrGameNotArchived)
	}
	if err != nil {
		return nil, fmt.Errorf("error getting game: %v", err)
	}
	return &record, nil
}
