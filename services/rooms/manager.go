package rooms

import (
	game_constants "Undercover/constants/game"
	redis_models "Undercover/models/redis"
	"Undercover/services/game"
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Manager owns every active room. Each mutation of a room runs under that room's
// lock: load, apply, save, then notify. A failed save leaves the stored room
// untouched and nothing is broadcast.
type Manager struct {
	store    Store
	notifier Notifier
	archiver Archiver
	presence *Presence
	catalog  *game.Catalog
	locks    *roomLocks
	now      func() time.Time
	grace    time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSeed makes role assignment reproducible.
func WithSeed(seed int64) Option {
	return func(m *Manager) { m.rng = rand.New(rand.NewSource(seed)) }
}

func WithArchiver(a Archiver) Option {
	return func(m *Manager) { m.archiver = a }
}

// WithFinishedRoomGrace sets how long a finished room lingers before it can be reaped.
func WithFinishedRoomGrace(d time.Duration) Option {
	return func(m *Manager) { m.grace = d }
}

func NewManager(store Store, notifier Notifier, presence *Presence, catalog *game.Catalog, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		notifier: notifier,
		presence: presence,
		catalog:  catalog,
		locks:    newRoomLocks(),
		now:      time.Now,
		grace:    game_constants.DefaultFinishedRoomGrace,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(newSeed()))
	}
	if m.presence == nil {
		m.presence = NewPresence()
	}
	return m
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

func (m *Manager) Presence() *Presence {
	return m.presence
}

// load returns the stored room, or nil when there is none.
func (m *Manager) load(ctx context.Context, code string) (*redis_models.RoomState, error) {
	room, err := m.store.FindRoom(ctx, code)
	if errors.Is(err, game.ErrRoomNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Str("module", "rooms").Str("room", code).Msg("load failed")
		return nil, fmt.Errorf("%w: %w", game.ErrPersistenceFailure, err)
	}
	return room, nil
}

func (m *Manager) save(ctx context.Context, room *redis_models.RoomState) error {
	if err := m.store.SaveRoom(ctx, room); err != nil {
		log.Error().Err(err).Str("module", "rooms").Str("room", room.RoomCode).Msg("save failed, mutation dropped")
		return fmt.Errorf("%w: %w", game.ErrPersistenceFailure, err)
	}
	return nil
}

type JoinOutcome struct {
	Room        *redis_models.RoomState
	Reconnected bool
}

// CreateOrJoin seats the caller in a room, creating it when allowed, or rebinds a
// returning identity to its new connection.
func (m *Manager) CreateOrJoin(ctx context.Context, req game.JoinRequest) (JoinOutcome, error) {
	req.RoomCode = game.NormalizeRoomCode(req.RoomCode)
	if req.RoomCode == "" {
		return JoinOutcome{}, game.ErrInvalidRequest
	}

	unlock := m.locks.Lock(req.RoomCode)
	defer unlock()

	room, err := m.load(ctx, req.RoomCode)
	if err != nil {
		return JoinOutcome{}, err
	}
	res, err := game.Join(room, req, m.now())
	if err != nil {
		log.Warn().Err(err).Str("module", "rooms").Str("room", req.RoomCode).Str("connection", req.ConnectionID).Msg("join refused")
		return JoinOutcome{}, err
	}
	if res.Changed {
		if err := m.save(ctx, res.Room); err != nil {
			return JoinOutcome{}, err
		}
	}

	m.presence.Bind(req.ConnectionID, res.Player.IdentityID, res.Player.DisplayName, m.now())
	m.notifier.Join(req.ConnectionID, req.RoomCode)
	m.notifier.Broadcast(req.RoomCode, EventRoomUpdate, res.Room)
	m.notifier.SendTo(req.ConnectionID, EventJoinSuccess, JoinSuccess{Room: res.Room, Reconnected: res.Reconnected})

	event := log.Info().Str("module", "rooms").Str("room", req.RoomCode).
		Str("connection", req.ConnectionID).Str("player", res.Player.DisplayName)
	switch {
	case res.Created:
		event.Msg("room created")
	case res.Reconnected:
		event.Str("previous_connection", res.PreviousConnectionID).Msg("player reconnected")
	default:
		event.Msg("player joined")
	}
	return JoinOutcome{Room: res.Room, Reconnected: res.Reconnected}, nil
}

// PostMessage appends a chat message. Unknown rooms are ignored; blank or oversized
// text fails with game.ErrInvalidRequest.
func (m *Manager) PostMessage(ctx context.Context, roomCode, connectionID, text string) error {
	roomCode = game.NormalizeRoomCode(roomCode)
	unlock := m.locks.Lock(roomCode)
	defer unlock()

	room, err := m.load(ctx, roomCode)
	if err != nil {
		return err
	}
	var fallback string
	if p, ok := m.presence.Lookup(connectionID); ok {
		fallback = p.DisplayName
	}
	msg, err := game.PostMessage(room, connectionID, fallback, text, m.now())
	if errors.Is(err, game.ErrRoomNotFound) {
		log.Debug().Str("module", "rooms").Str("room", roomCode).Msg("message to unknown room dropped")
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.save(ctx, room); err != nil {
		return err
	}
	m.notifier.Broadcast(roomCode, EventNewMessage, msg)
	return nil
}

func (m *Manager) StartGame(ctx context.Context, roomCode string) error {
	roomCode = game.NormalizeRoomCode(roomCode)
	unlock := m.locks.Lock(roomCode)
	defer unlock()

	room, err := m.load(ctx, roomCode)
	if err != nil {
		return err
	}
	m.rngMu.Lock()
	err = game.Start(room, m.catalog, m.rng, m.now())
	m.rngMu.Unlock()
	if err != nil {
		log.Warn().Err(err).Str("module", "rooms").Str("room", roomCode).Msg("start refused")
		return err
	}
	if err := m.save(ctx, room); err != nil {
		return err
	}

	m.notifier.Broadcast(roomCode, EventGameStarted, room)
	log.Info().Str("module", "rooms").Str("room", roomCode).Int("players", len(room.Players)).Msg("game started")
	return nil
}

// CastVote reports whether the vote counted. Votes that do not qualify are
// silently ignored so redelivered events stay harmless.
func (m *Manager) CastVote(ctx context.Context, roomCode, voterConnectionID, targetConnectionID string) (bool, error) {
	roomCode = game.NormalizeRoomCode(roomCode)
	unlock := m.locks.Lock(roomCode)
	defer unlock()

	room, err := m.load(ctx, roomCode)
	if err != nil {
		return false, err
	}
	if !game.CastVote(room, voterConnectionID, targetConnectionID, m.now()) {
		log.Debug().Str("module", "rooms").Str("room", roomCode).Str("voter", voterConnectionID).Msg("vote ignored")
		return false, nil
	}
	if err := m.save(ctx, room); err != nil {
		return false, err
	}
	m.notifier.Broadcast(roomCode, EventVoteUpdate, room)
	return true, nil
}

func (m *Manager) EndRound(ctx context.Context, roomCode string) (game.RoundResult, error) {
	roomCode = game.NormalizeRoomCode(roomCode)
	unlock := m.locks.Lock(roomCode)
	defer unlock()

	room, err := m.load(ctx, roomCode)
	if err != nil {
		return game.RoundResult{}, err
	}
	result, err := game.EndRound(room, m.now())
	if err != nil {
		log.Warn().Err(err).Str("module", "rooms").Str("room", roomCode).Msg("end round refused")
		return game.RoundResult{}, err
	}
	if err := m.save(ctx, room); err != nil {
		return game.RoundResult{}, err
	}
	m.notifier.Broadcast(roomCode, EventRoundEnded, RoundEnded{Room: room, EliminatedPlayer: result.Eliminated})

	event := log.Info().Str("module", "rooms").Str("room", roomCode).Int("round", room.CurrentRound)
	if result.Eliminated != nil {
		event = event.Str("eliminated", result.Eliminated.DisplayName)
	}
	event.Msg("round ended")

	if result.Finished {
		log.Info().Str("module", "rooms").Str("room", roomCode).Str("winner", string(result.Winner)).Msg("game finished")
		m.archive(ctx, room)
	}
	return result, nil
}

func (m *Manager) archive(ctx context.Context, room *redis_models.RoomState) {
	if m.archiver == nil {
		return
	}
	if err := m.archiver.ArchiveFinishedRoom(ctx, room.Clone()); err != nil {
		log.Error().Err(err).Str("module", "rooms").Str("room", room.RoomCode).Msg("archive failed")
	}
}

// HandleDisconnect visits every room holding connectionID, one room lock at a time.
func (m *Manager) HandleDisconnect(ctx context.Context, connectionID string) {
	defer m.presence.Forget(connectionID)

	codes, err := m.store.FindRoomsByConnection(ctx, connectionID)
	if err != nil {
		log.Error().Err(err).Str("module", "rooms").Str("connection", connectionID).Msg("could not list rooms on disconnect")
		return
	}
	for _, code := range codes {
		if err := m.disconnectFromRoom(ctx, code, connectionID); err != nil {
			log.Error().Err(err).Str("module", "rooms").Str("room", code).Str("connection", connectionID).Msg("disconnect not applied")
		}
	}
}

func (m *Manager) disconnectFromRoom(ctx context.Context, code, connectionID string) error {
	unlock := m.locks.Lock(code)
	defer unlock()

	room, err := m.load(ctx, code)
	if err != nil {
		return err
	}
	if room == nil {
		return nil
	}
	player := room.PlayerByConnection(connectionID)
	if player == nil {
		// Already rebound to a newer connection.
		return nil
	}

	switch ClassifyDisconnect(room.Status, player) {
	case DisconnectRemove:
		room.RemovePlayer(connectionID)
		room.UpdatedAt = m.now()
		if len(room.Players) == 0 {
			if err := m.store.DeleteRoom(ctx, code); err != nil {
				return fmt.Errorf("%w: %w", game.ErrPersistenceFailure, err)
			}
			log.Info().Str("module", "rooms").Str("room", code).Msg("empty room deleted")
			return nil
		}
		if err := m.save(ctx, room); err != nil {
			return err
		}
		m.notifier.Broadcast(code, EventRoomUpdate, room)
		log.Info().Str("module", "rooms").Str("room", code).Str("player", player.DisplayName).Msg("guest removed")
	case DisconnectKeep:
		m.notifier.Broadcast(code, EventPlayerDisconnected, PlayerDisconnected{
			ConnectionID: connectionID,
			DisplayName:  player.DisplayName,
			CanReconnect: !player.IsGuest(),
		})
		log.Info().Str("module", "rooms").Str("room", code).Str("player", player.DisplayName).
			Bool("can_reconnect", !player.IsGuest()).Msg("player disconnected")
	}
	return nil
}

// Snapshot returns a read copy of the room.
func (m *Manager) Snapshot(ctx context.Context, roomCode string) (*redis_models.RoomState, error) {
	room, err := m.load(ctx, game.NormalizeRoomCode(roomCode))
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, game.ErrRoomNotFound
	}
	return room, nil
}

// ReapFinished deletes finished rooms that have been idle longer than the grace period.
func (m *Manager) ReapFinished(ctx context.Context) ([]string, error) {
	cutoff := m.now().Add(-m.grace)
	codes, err := m.store.FindFinishedRooms(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrPersistenceFailure, err)
	}

	var reaped []string
	for _, code := range codes {
		ok, err := m.reap(ctx, code, cutoff)
		if err != nil {
			log.Error().Err(err).Str("module", "rooms").Str("room", code).Msg("reap failed")
			continue
		}
		if ok {
			reaped = append(reaped, code)
		}
	}
	return reaped, nil
}

func (m *Manager) reap(ctx context.Context, code string, cutoff time.Time) (bool, error) {
	unlock := m.locks.Lock(code)
	defer unlock()

	room, err := m.load(ctx, code)
	if err != nil || room == nil {
		return false, err
	}
	if room.Status != redis_models.StatusFinished || room.UpdatedAt.After(cutoff) {
		return false, nil
	}
	if err := m.store.DeleteRoom(ctx, code); err != nil {
		return false, err
	}
	log.Info().Str("module", "rooms").Str("room", code).Msg("finished room reaped")
	return true, nil
}

// RunReaper calls ReapFinished every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.ReapFinished(ctx); err != nil {
				log.Error().Err(err).Str("module", "rooms").Msg("reaper pass failed")
			}
		}
	}
}

// UniqueRoomCode returns a code no stored room is using.
func (m *Manager) UniqueRoomCode(ctx context.Context) (string, error) {
	for i := 0; i < 10; i++ {
		code := GenerateRoomCode()
		room, err := m.load(ctx, code)
		if err != nil {
			return "", err
		}
		if room == nil {
			return code, nil
		}
	}
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:game_constants.RoomCodeLength+2]), nil
}
