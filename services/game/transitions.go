package game

import (
	game_constants "Undercover/constants/game"
	redis_models "Undercover/models/redis"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"
)

// The functions in this file apply one operation to a room in place.
// They never touch storage or the network; the session manager commits and broadcasts.

type JoinRequest struct {
	RoomCode     string
	DisplayName  string
	IdentityID   string
	ConnectionID string
	AllowCreate  bool
}

type JoinResult struct {
	Room        *redis_models.RoomState
	Player      *redis_models.Player
	Reconnected bool
	Created     bool
	// Changed is false when the connection was already seated in the room.
	Changed bool
	// PreviousConnectionID is the connection a reconnecting player was bound to before.
	PreviousConnectionID string
}

// NormalizeRoomCode trims and upper-cases a room code.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validDisplayName(name string) bool {
	return name != "" && utf8.RuneCountInString(name) <= game_constants.MaxDisplayNameLength
}

// Join seats req in room. room is nil when no room exists under req.RoomCode.
func Join(room *redis_models.RoomState, req JoinRequest, now time.Time) (JoinResult, error) {
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.RoomCode == "" || req.ConnectionID == "" {
		return JoinResult{}, ErrInvalidRequest
	}

	if room == nil {
		if !req.AllowCreate {
			return JoinResult{}, ErrRoomNotFound
		}
		if !validDisplayName(req.DisplayName) {
			return JoinResult{}, ErrInvalidRequest
		}
		room = redis_models.NewRoomState(req.RoomCode, now)
		player := redis_models.NewPlayer(req.ConnectionID, req.IdentityID, req.DisplayName)
		room.Players = append(room.Players, player)
		return JoinResult{Room: room, Player: player, Created: true, Changed: true}, nil
	}

	if existing := room.PlayerByIdentity(req.IdentityID); existing != nil {
		if holder := room.PlayerByConnection(req.ConnectionID); holder != nil && holder != existing {
			return JoinResult{}, ErrInvalidRequest
		}
		previous := existing.ConnectionID
		existing.ConnectionID = req.ConnectionID
		room.UpdatedAt = now
		return JoinResult{
			Room:                 room,
			Player:               existing,
			Reconnected:          true,
			Changed:              previous != req.ConnectionID,
			PreviousConnectionID: previous,
		}, nil
	}

	if room.Status != redis_models.StatusWaiting {
		return JoinResult{}, ErrGameAlreadyStarted
	}

	// Same socket joining twice: nothing to add, the caller still gets a fresh snapshot.
	if seated := room.PlayerByConnection(req.ConnectionID); seated != nil {
		return JoinResult{Room: room, Player: seated}, nil
	}

	if !validDisplayName(req.DisplayName) {
		return JoinResult{}, ErrInvalidRequest
	}
	if room.NameTaken(req.DisplayName) {
		return JoinResult{}, ErrNameTaken
	}

	player := redis_models.NewPlayer(req.ConnectionID, req.IdentityID, req.DisplayName)
	room.Players = append(room.Players, player)
	room.UpdatedAt = now
	return JoinResult{Room: room, Player: player, Changed: true}, nil
}

// PostMessage appends a chat message. fallbackName is used when the author is not seated.
// Text is trimmed; blank text or text over MaxMessageLength runes is refused.
func PostMessage(room *redis_models.RoomState, connectionID, fallbackName, text string, now time.Time) (redis_models.ChatMessage, error) {
	if room == nil {
		return redis_models.ChatMessage{}, ErrRoomNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > game_constants.MaxMessageLength {
		return redis_models.ChatMessage{}, ErrInvalidRequest
	}

	author := fallbackName
	if p := room.PlayerByConnection(connectionID); p != nil {
		author = p.DisplayName
	}
	msg := redis_models.ChatMessage{
		AuthorConnectionID: connectionID,
		AuthorDisplayName:  author,
		Text:               text,
		SentAt:             now,
	}
	room.Messages = append(room.Messages, msg)
	room.UpdatedAt = now
	return msg, nil
}

// Start deals roles and words and moves the room to playing, round 1.
func Start(room *redis_models.RoomState, catalog *Catalog, rng *rand.Rand, now time.Time) error {
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Status != redis_models.StatusWaiting {
		return ErrGameAlreadyStarted
	}
	if len(room.Players) < game_constants.MinPlayers {
		return ErrInsufficientPlayers
	}

	assignment, err := AssignRoles(len(room.Players), catalog, rng)
	if err != nil {
		return err
	}
	words := make([]*string, len(room.Players))
	for i, role := range assignment.Roles {
		if words[i], err = assignment.Word(role); err != nil {
			return err
		}
	}
	if err := room.TransitionTo(redis_models.StatusPlaying); err != nil {
		return err
	}
	for i, p := range room.Players {
		p.Role = assignment.Roles[i]
		p.SecretWord = words[i]
		p.Alive = true
		p.VoteCount = 0
		p.HasVotedThisRound = false
	}
	room.CivilianWord = assignment.Pair.Civilian
	room.UndercoverWord = assignment.Pair.Undercover
	room.CurrentRound = 1
	room.UpdatedAt = now
	return nil
}

// CastVote records one vote. It reports false, leaving the room untouched, unless the game
// is being played, the voter is alive and has not voted this round, and the target exists.
// A repeated vote is therefore a silent no-op.
func CastVote(room *redis_models.RoomState, voterConnectionID, targetConnectionID string, now time.Time) bool {
	if room == nil || room.Status != redis_models.StatusPlaying {
		return false
	}
	voter := room.PlayerByConnection(voterConnectionID)
	target := room.PlayerByConnection(targetConnectionID)
	if voter == nil || target == nil || !voter.Alive || voter.HasVotedThisRound {
		return false
	}
	target.VoteCount++
	voter.HasVotedThisRound = true
	room.UpdatedAt = now
	return true
}

// EndRound resolves the votes of the current round.
func EndRound(room *redis_models.RoomState, now time.Time) (RoundResult, error) {
	if room == nil {
		return RoundResult{}, ErrRoomNotFound
	}
	if room.Status != redis_models.StatusPlaying {
		return RoundResult{}, ErrGameNotInProgress
	}
	result, err := ResolveRound(room)
	if err != nil {
		return RoundResult{}, err
	}
	room.UpdatedAt = now
	return result, nil
}
