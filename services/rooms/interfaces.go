package rooms

import (
	redis_models "Undercover/models/redis"
	"context"
	"time"
)

// Store is the persistence collaborator. FindRoom returns an error wrapping
// game.ErrRoomNotFound when no room is stored under code.
type Store interface {
	FindRoom(ctx context.Context, code string) (*redis_models.RoomState, error)
	SaveRoom(ctx context.Context, room *redis_models.RoomState) error
	DeleteRoom(ctx context.Context, code string) error
	FindRoomsByConnection(ctx context.Context, connectionID string) ([]string, error)
	FindFinishedRooms(ctx context.Context, updatedBefore time.Time) ([]string, error)
}

// Notifier is the real-time messaging collaborator. Delivery is best-effort.
type Notifier interface {
	Join(connectionID, roomCode string)
	Broadcast(roomCode, event string, payload any)
	SendTo(connectionID, event string, payload any)
}

// Archiver keeps a durable record of finished games.
type Archiver interface {
	ArchiveFinishedRoom(ctx context.Context, room *redis_models.RoomState) error
}
