package rooms

import (
	game_constants "Undercover/constants/game"
	redis_models "Undercover/models/redis"
	"Undercover/services/game"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const roomCode = "ROOM42"

type fixture struct {
	manager  *Manager
	store    *flakyStore
	notifier *recordingNotifier
	clock    *fakeClock
}

func setupManager(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store:    &flakyStore{MemoryStore: NewMemoryStore()},
		notifier: &recordingNotifier{},
		clock:    &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	opts = append([]Option{WithSeed(7), WithClock(f.clock.Now)}, opts...)
	f.manager = NewManager(f.store, f.notifier, NewPresence(), game.DefaultCatalog(), opts...)
	return f
}

func (f *fixture) join(t *testing.T, name, conn, identity string) JoinOutcome {
	t.Helper()
	out, err := f.manager.CreateOrJoin(context.Background(), game.JoinRequest{
		RoomCode:     roomCode,
		DisplayName:  name,
		IdentityID:   identity,
		ConnectionID: conn,
		AllowCreate:  true,
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) seat(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		f.join(t, fmt.Sprintf("Player%d", i), fmt.Sprintf("c%d", i), "")
	}
}

func (f *fixture) room(t *testing.T) *redis_models.RoomState {
	t.Helper()
	room, err := f.manager.Snapshot(context.Background(), roomCode)
	require.NoError(t, err)
	return room
}

func TestCreateOrJoinWithoutCreateOnMissingRoom(t *testing.T) {
	f := setupManager(t)

	_, err := f.manager.CreateOrJoin(context.Background(), game.JoinRequest{
		RoomCode:     "NOPE",
		DisplayName:  "Alice",
		ConnectionID: "c1",
	})
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
	assert.Zero(t, f.store.size())
	assert.Zero(t, f.notifier.broadcastCount())
}

func TestCreateOrJoinNotifiesRoomAndCaller(t *testing.T) {
	f := setupManager(t)

	out := f.join(t, "Alice", "c1", "")
	assert.False(t, out.Reconnected)
	assert.Equal(t, roomCode, out.Room.RoomCode)

	require.Len(t, f.notifier.joins, 1)
	assert.Equal(t, sentEvent{Target: "c1", Event: roomCode}, f.notifier.joins[0])
	assert.Len(t, f.notifier.broadcastsNamed(EventRoomUpdate), 1)

	ack := f.notifier.lastDirect()
	assert.Equal(t, "c1", ack.Target)
	assert.Equal(t, EventJoinSuccess, ack.Event)
	assert.False(t, ack.Payload.(JoinSuccess).Reconnected)

	presence, ok := f.manager.Presence().Lookup("c1")
	require.True(t, ok)
	assert.Equal(t, "Alice", presence.DisplayName)
}

func TestCreateOrJoinNormalizesRoomCode(t *testing.T) {
	f := setupManager(t)
	f.join(t, "Alice", "c1", "")

	out, err := f.manager.CreateOrJoin(context.Background(), game.JoinRequest{
		RoomCode:     "  room42 ",
		DisplayName:  "Bob",
		ConnectionID: "c2",
	})
	require.NoError(t, err)
	assert.Len(t, out.Room.Players, 2)
}

func TestCreateOrJoinNameTaken(t *testing.T) {
	f := setupManager(t)
	f.join(t, "Alice", "c1", "")

	_, err := f.manager.CreateOrJoin(context.Background(), game.JoinRequest{
		RoomCode:     roomCode,
		DisplayName:  "ALICE",
		ConnectionID: "c2",
	})
	assert.ErrorIs(t, err, game.ErrNameTaken)
	assert.Len(t, f.room(t).Players, 1)
}

func TestConcurrentJoinsAreNotLost(t *testing.T) {
	f := setupManager(t)
	f.join(t, "Host", "host", "")

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.manager.CreateOrJoin(context.Background(), game.JoinRequest{
				RoomCode:     roomCode,
				DisplayName:  fmt.Sprintf("Guest%d", i),
				ConnectionID: fmt.Sprintf("g%d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, f.room(t).Players, 31)
	assert.Zero(t, f.manager.locks.size())
}

func TestStartGame(t *testing.T) {
	f := setupManager(t)
	f.seat(t, 2)

	err := f.manager.StartGame(context.Background(), roomCode)
	assert.ErrorIs(t, err, game.ErrInsufficientPlayers)
	assert.Empty(t, f.notifier.broadcastsNamed(EventGameStarted))

	assert.ErrorIs(t, f.manager.StartGame(context.Background(), "MISSING"), game.ErrRoomNotFound)

	f.join(t, "Player2", "c2", "")
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))

	room := f.room(t)
	assert.Equal(t, redis_models.StatusPlaying, room.Status)
	assert.Equal(t, 1, room.CurrentRound)
	started := f.notifier.broadcastsNamed(EventGameStarted)
	require.Len(t, started, 1)
	assert.Equal(t, roomCode, started[0].Target)
}

func TestConcurrentVotesCountDistinctVoters(t *testing.T) {
	f := setupManager(t)
	f.seat(t, 8)
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		for attempt := 0; attempt < 3; attempt++ {
			wg.Add(1)
			go func(voter, target string) {
				defer wg.Done()
				_, err := f.manager.CastVote(context.Background(), roomCode, voter, target)
				assert.NoError(t, err)
			}(fmt.Sprintf("c%d", i), fmt.Sprintf("c%d", (i+1+attempt)%8))
		}
	}
	wg.Wait()

	total := 0
	for _, p := range f.room(t).Players {
		total += p.VoteCount
		assert.True(t, p.HasVotedThisRound)
	}
	assert.Equal(t, 8, total)
	assert.Len(t, f.notifier.broadcastsNamed(EventVoteUpdate), 8)
}

func TestEndRoundBroadcastsEliminatedPlayer(t *testing.T) {
	f := setupManager(t)
	f.seat(t, 5)
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))

	_, err := f.manager.CastVote(context.Background(), roomCode, "c0", "c1")
	require.NoError(t, err)
	_, err = f.manager.CastVote(context.Background(), roomCode, "c2", "c1")
	require.NoError(t, err)

	result, err := f.manager.EndRound(context.Background(), roomCode)
	require.NoError(t, err)
	require.NotNil(t, result.Eliminated)
	assert.Equal(t, "c1", result.Eliminated.ConnectionID)

	room := f.room(t)
	assert.Equal(t, 2, room.CurrentRound)
	for _, p := range room.Players {
		assert.Zero(t, p.VoteCount)
		assert.False(t, p.HasVotedThisRound)
	}
	assert.False(t, room.PlayerByConnection("c1").Alive)

	ended := f.notifier.broadcastsNamed(EventRoundEnded)
	require.Len(t, ended, 1)
	payload := ended[0].Payload.(RoundEnded)
	require.NotNil(t, payload.EliminatedPlayer)
	assert.Equal(t, "c1", payload.EliminatedPlayer.ConnectionID)
}

func TestEndRoundWithoutVotes(t *testing.T) {
	f := setupManager(t)
	f.seat(t, 3)
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))

	result, err := f.manager.EndRound(context.Background(), roomCode)
	require.NoError(t, err)
	assert.Nil(t, result.Eliminated)
	assert.Nil(t, f.notifier.broadcastsNamed(EventRoundEnded)[0].Payload.(RoundEnded).EliminatedPlayer)
}

func TestCiviliansWinAndGameIsArchived(t *testing.T) {
	archiver := &MockArchiver{}
	archiver.On("ArchiveFinishedRoom", mock.Anything, mock.MatchedBy(func(r *redis_models.RoomState) bool {
		return r.Status == redis_models.StatusFinished && r.Winner == redis_models.WinnerCivilians
	})).Return(nil).Once()

	f := setupManager(t, WithArchiver(archiver))
	f.seat(t, 4)
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))

	var undercover string
	for _, p := range f.room(t).Players {
		if p.Role == redis_models.RoleUndercover {
			undercover = p.ConnectionID
		}
	}
	require.NotEmpty(t, undercover)

	for i := 0; i < 4; i++ {
		voted, err := f.manager.CastVote(context.Background(), roomCode, fmt.Sprintf("c%d", i), undercover)
		require.NoError(t, err)
		assert.True(t, voted)
	}

	result, err := f.manager.EndRound(context.Background(), roomCode)
	require.NoError(t, err)
	assert.True(t, result.Finished)
	assert.Equal(t, redis_models.WinnerCivilians, result.Winner)

	room := f.room(t)
	assert.Equal(t, redis_models.StatusFinished, room.Status)
	assert.Equal(t, 2, room.CurrentRound)
	archiver.AssertExpectations(t)

	// finished never goes back
	assert.ErrorIs(t, f.manager.StartGame(context.Background(), roomCode), game.ErrGameAlreadyStarted)
	_, err = f.manager.EndRound(context.Background(), roomCode)
	assert.ErrorIs(t, err, game.ErrGameNotInProgress)
	assert.Equal(t, redis_models.StatusFinished, f.room(t).Status)
}

func TestArchiveFailureDoesNotUndoTheRound(t *testing.T) {
	archiver := &MockArchiver{}
	archiver.On("ArchiveFinishedRoom", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	f := setupManager(t, WithArchiver(archiver))
	f.seat(t, 3)
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))

	// Eliminating anyone in a three player game ends it one way or the other.
	_, err := f.manager.CastVote(context.Background(), roomCode, "c0", "c1")
	require.NoError(t, err)
	result, err := f.manager.EndRound(context.Background(), roomCode)
	require.NoError(t, err)
	assert.True(t, result.Finished)
	assert.Equal(t, redis_models.StatusFinished, f.room(t).Status)
	archiver.AssertExpectations(t)
}

func TestReconnectMidGameKeepsState(t *testing.T) {
	f := setupManager(t)
	f.join(t, "Alice", "c0", "")
	f.join(t, "Bob", "c1", "")
	f.join(t, "Carol", "c2", "user-carol")
	f.join(t, "Dave", "c3", "")
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))

	_, err := f.manager.CastVote(context.Background(), roomCode, "c2", "c0")
	require.NoError(t, err)
	_, err = f.manager.CastVote(context.Background(), roomCode, "c1", "c2")
	require.NoError(t, err)

	before := f.room(t).PlayerByConnection("c2").Clone()

	f.manager.HandleDisconnect(context.Background(), "c2")
	notices := f.notifier.broadcastsNamed(EventPlayerDisconnected)
	require.Len(t, notices, 1)
	assert.Equal(t, PlayerDisconnected{ConnectionID: "c2", DisplayName: "Carol", CanReconnect: true}, notices[0].Payload)
	assert.Len(t, f.room(t).Players, 4)

	out, err := f.manager.CreateOrJoin(context.Background(), game.JoinRequest{
		RoomCode:     roomCode,
		DisplayName:  "Carol",
		IdentityID:   "user-carol",
		ConnectionID: "c2-new",
	})
	require.NoError(t, err)
	assert.True(t, out.Reconnected)

	after := f.room(t).PlayerByConnection("c2-new")
	require.NotNil(t, after)
	assert.Nil(t, f.room(t).PlayerByConnection("c2"))
	assert.Equal(t, before.Role, after.Role)
	assert.Equal(t, before.Word(), after.Word())
	assert.Equal(t, before.Alive, after.Alive)
	assert.Equal(t, before.VoteCount, after.VoteCount)
	assert.Equal(t, before.HasVotedThisRound, after.HasVotedThisRound)

	ack := f.notifier.lastDirect()
	assert.Equal(t, "c2-new", ack.Target)
	assert.True(t, ack.Payload.(JoinSuccess).Reconnected)
}

func TestDisconnectedGuestLeavesWaitingRoom(t *testing.T) {
	f := setupManager(t)
	f.join(t, "Alice", "c0", "")
	f.join(t, "Bob", "c1", "user-bob")

	f.manager.HandleDisconnect(context.Background(), "c0")
	room := f.room(t)
	require.Len(t, room.Players, 1)
	assert.Equal(t, "Bob", room.Players[0].DisplayName)

	// the freed name can be taken again
	f.join(t, "alice", "c2", "")

	// a player with an identity stays seated
	f.manager.HandleDisconnect(context.Background(), "c1")
	assert.Len(t, f.room(t).Players, 2)
	_, bound := f.manager.Presence().Lookup("c1")
	assert.False(t, bound)
}

func TestLastGuestLeavingDeletesRoom(t *testing.T) {
	f := setupManager(t)
	f.join(t, "Alice", "c0", "")

	f.manager.HandleDisconnect(context.Background(), "c0")
	assert.Zero(t, f.store.size())
	_, err := f.manager.Snapshot(context.Background(), roomCode)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}

func TestDisconnectedGuestStaysInPlayingRoom(t *testing.T) {
	f := setupManager(t)
	f.seat(t, 3)
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))

	f.manager.HandleDisconnect(context.Background(), "c1")
	assert.Len(t, f.room(t).Players, 3)
	notices := f.notifier.broadcastsNamed(EventPlayerDisconnected)
	require.Len(t, notices, 1)
	assert.False(t, notices[0].Payload.(PlayerDisconnected).CanReconnect)
}

func TestDisconnectUnknownConnection(t *testing.T) {
	f := setupManager(t)
	f.seat(t, 3)
	before := f.notifier.broadcastCount()

	f.manager.HandleDisconnect(context.Background(), "stranger")
	assert.Equal(t, before, f.notifier.broadcastCount())
}

func TestPersistenceFailureIsNotApplied(t *testing.T) {
	f := setupManager(t)
	f.seat(t, 3)
	before := f.notifier.broadcastCount()
	f.store.failSaves.Store(true)

	err := f.manager.StartGame(context.Background(), roomCode)
	assert.ErrorIs(t, err, game.ErrPersistenceFailure)

	_, err = f.manager.CreateOrJoin(context.Background(), game.JoinRequest{
		RoomCode: roomCode, DisplayName: "Late", ConnectionID: "late",
	})
	assert.ErrorIs(t, err, game.ErrPersistenceFailure)

	assert.ErrorIs(t, f.manager.PostMessage(context.Background(), roomCode, "c0", "hello"), game.ErrPersistenceFailure)

	assert.Equal(t, before, f.notifier.broadcastCount())
	room := f.room(t)
	assert.Equal(t, redis_models.StatusWaiting, room.Status)
	assert.Len(t, room.Players, 3)
	assert.Empty(t, room.Messages)

	f.store.failSaves.Store(false)
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))
}

func TestCorruptedStatusIsNotFatal(t *testing.T) {
	f := setupManager(t)
	f.seat(t, 3)
	room := f.room(t)
	room.Status = redis_models.Status("corrupted")
	require.NoError(t, f.store.SaveRoom(context.Background(), room))

	assert.ErrorIs(t, f.manager.StartGame(context.Background(), roomCode), game.ErrGameAlreadyStarted)
	_, err := f.manager.EndRound(context.Background(), roomCode)
	assert.ErrorIs(t, err, game.ErrGameNotInProgress)
	assert.NotPanics(t, func() { f.manager.HandleDisconnect(context.Background(), "c0") })

	after := f.room(t)
	assert.Len(t, after.Players, 3)
	assert.Zero(t, after.CurrentRound)
}

func TestPostMessage(t *testing.T) {
	f := setupManager(t)
	f.join(t, "Alice", "c0", "")

	require.NoError(t, f.manager.PostMessage(context.Background(), roomCode, "c0", "salut"))
	require.NoError(t, f.manager.PostMessage(context.Background(), "GHOST", "c0", "anyone?"))

	room := f.room(t)
	require.Len(t, room.Messages, 1)
	assert.Equal(t, "Alice", room.Messages[0].AuthorDisplayName)

	sent := f.notifier.broadcastsNamed(EventNewMessage)
	require.Len(t, sent, 1)
	assert.Equal(t, "salut", sent[0].Payload.(redis_models.ChatMessage).Text)
}

func TestPostMessageRejectsInvalidText(t *testing.T) {
	f := setupManager(t)
	f.join(t, "Alice", "c0", "")
	before := f.notifier.broadcastCount()

	tooLong := strings.Repeat("x", game_constants.MaxMessageLength+1)
	assert.ErrorIs(t, f.manager.PostMessage(context.Background(), roomCode, "c0", tooLong), game.ErrInvalidRequest)
	assert.ErrorIs(t, f.manager.PostMessage(context.Background(), roomCode, "c0", "  "), game.ErrInvalidRequest)

	assert.Empty(t, f.room(t).Messages)
	assert.Equal(t, before, f.notifier.broadcastCount())
}

func TestReapFinished(t *testing.T) {
	f := setupManager(t, WithFinishedRoomGrace(10*time.Minute))
	f.seat(t, 3)
	require.NoError(t, f.manager.StartGame(context.Background(), roomCode))
	_, err := f.manager.CastVote(context.Background(), roomCode, "c0", "c1")
	require.NoError(t, err)
	result, err := f.manager.EndRound(context.Background(), roomCode)
	require.NoError(t, err)
	require.True(t, result.Finished)

	reaped, err := f.manager.ReapFinished(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reaped)

	f.clock.Advance(11 * time.Minute)
	reaped, err = f.manager.ReapFinished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{roomCode}, reaped)
	assert.Zero(t, f.store.size())
}

func TestReaperSkipsActiveRooms(t *testing.T) {
	f := setupManager(t, WithFinishedRoomGrace(time.Minute))
	f.seat(t, 3)
	f.clock.Advance(time.Hour)

	reaped, err := f.manager.ReapFinished(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reaped)
	assert.Equal(t, 1, f.store.size())
}

func TestUniqueRoomCode(t *testing.T) {
	f := setupManager(t)
	code, err := f.manager.UniqueRoomCode(context.Background())
	require.NoError(t, err)
	assert.Len(t, code, 6)
	_, err = f.manager.Snapshot(context.Background(), code)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}
