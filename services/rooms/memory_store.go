package rooms

import (
	redis_models "Undercover/models/redis"
	"Undercover/services/game"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps rooms in process memory. Rooms are copied on the way in and
// out so no caller ever shares a reference with the store.
type MemoryStore struct {
	rooms map[string]*redis_models.RoomState
	mu    sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*redis_models.RoomState)}
}

func (s *MemoryStore) FindRoom(_ context.Context, code string) (*redis_models.RoomState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", code, game.ErrRoomNotFound)
	}
	return room.Clone(), nil
}

func (s *MemoryStore) SaveRoom(_ context.Context, room *redis_models.RoomState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.RoomCode] = room.Clone()
	return nil
}

func (s *MemoryStore) DeleteRoom(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *MemoryStore) FindRoomsByConnection(_ context.Context, connectionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var codes []string
	for code, room := range s.rooms {
		if room.PlayerByConnection(connectionID) != nil {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *MemoryStore) FindFinishedRooms(_ context.Context, updatedBefore time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var codes []string
	for code, room := range s.rooms {
		if room.Status == redis_models.StatusFinished && !room.UpdatedAt.After(updatedBefore) {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *MemoryStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
