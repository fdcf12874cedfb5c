package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'GameRecord' is the archived outcome of a finished Undercover game.
 * Players holds a JSON array of ArchivedPlayer.
 */
type GameRecord struct {
	ID             string         `gorm:"primaryKey;size:36;not null" json:"id"`
	RoomCode       string         `gorm:"size:16;not null;index:idx_game_records_room_code" json:"roomCode"`
	Winner         string         `gorm:"size:20;not null" json:"winner"`
	Rounds         int            `json:"rounds"`
	CivilianWord   string         `gorm:"size:100" json:"civilianWord"`
	UndercoverWord string         `gorm:"size:100" json:"undercoverWord"`
	Players        datatypes.JSON `gorm:"type:jsonb" json:"players" swaggertype:"array,object"`
	FinishedAt     time.Time      `gorm:"not null;index:idx_game_records_finished_at" json:"finishedAt"`
}

// ArchivedPlayer is one seat of a finished game. Connection ids are not kept.
type ArchivedPlayer struct {
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Alive       bool   `json:"alive"`
	Guest       bool   `json:"guest"`
}

func (r *GameRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
