package redis

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle stage of a room. It only ever moves forward:
// waiting -> playing -> finished.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// CanTransitionTo reports whether a room in status s may move to next.
// An unknown status never transitions.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusWaiting:
		return next == StatusPlaying
	case StatusPlaying:
		return next == StatusFinished
	default:
		return false
	}
}

type Winner string

const (
	WinnerNone       Winner = "none"
	WinnerCivilians  Winner = "civilians"
	WinnerUndercover Winner = "undercover"
	WinnerMrWhite    Winner = "mr_white"
)

// RoomState is the authoritative representation of one game instance.
// Key format in Redis: "room:{room_code}"
type RoomState struct {
	RoomCode       string        `json:"roomCode"`
	Players        []*Player     `json:"players"`
	Messages       []ChatMessage `json:"messages"`
	Status         Status        `json:"status"`
	CurrentRound   int           `json:"currentRound"`
	CivilianWord   string        `json:"civilianWord"`
	UndercoverWord string        `json:"undercoverWord"`
	Winner         Winner        `json:"winner"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// NewRoomState builds a waiting room with no players.
func NewRoomState(roomCode string, now time.Time) *RoomState {
	return &RoomState{
		RoomCode:  roomCode,
		Players:   []*Player{},
		Messages:  []ChatMessage{},
		Status:    StatusWaiting,
		Winner:    WinnerNone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo moves the room to next, refusing any regression.
func (r *RoomState) TransitionTo(next Status) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("invalid status transition %s -> %s", r.Status, next)
	}
	r.Status = next
	return nil
}

func (r *RoomState) PlayerByConnection(connectionID string) *Player {
	for _, p := range r.Players {
		if p.ConnectionID == connectionID {
			return p
		}
	}
	return nil
}

// PlayerByIdentity returns nil for an empty identityID, guests never match.
func (r *RoomState) PlayerByIdentity(identityID string) *Player {
	if identityID == "" {
		return nil
	}
	for _, p := range r.Players {
		if p.IdentityID == identityID {
			return p
		}
	}
	return nil
}

// NameTaken compares display names case-insensitively.
func (r *RoomState) NameTaken(displayName string) bool {
	for _, p := range r.Players {
		if strings.EqualFold(p.DisplayName, displayName) {
			return true
		}
	}
	return false
}

// RemovePlayer drops the player bound to connectionID, keeping list order.
func (r *RoomState) RemovePlayer(connectionID string) *Player {
	for i, p := range r.Players {
		if p.ConnectionID == connectionID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return p
		}
	}
	return nil
}

// AliveCount counts alive players holding role.
func (r *RoomState) AliveCount(role Role) int {
	n := 0
	for _, p := range r.Players {
		if p.Alive && p.Role == role {
			n++
		}
	}
	return n
}

// Clone returns a deep copy, so callers can mutate it without touching the original.
func (r *RoomState) Clone() *RoomState {
	if r == nil {
		return nil
	}
	c := *r
	c.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		c.Players[i] = p.Clone()
	}
	c.Messages = append([]ChatMessage(nil), r.Messages...)
	if c.Messages == nil {
		c.Messages = []ChatMessage{}
	}
	return &c
}
