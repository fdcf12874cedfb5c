package rooms

import (
	redis_models "Undercover/models/redis"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- Notifier ---

type sentEvent struct {
	Target  string
	Event   string
	Payload any
}

type recordingNotifier struct {
	mu         sync.Mutex
	joins      []sentEvent
	broadcasts []sentEvent
	direct     []sentEvent
}

func (n *recordingNotifier) Join(connectionID, roomCode string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.joins = append(n.joins, sentEvent{Target: connectionID, Event: roomCode})
}

func (n *recordingNotifier) Broadcast(roomCode, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcasts = append(n.broadcasts, sentEvent{Target: roomCode, Event: event, Payload: payload})
}

func (n *recordingNotifier) SendTo(connectionID, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.direct = append(n.direct, sentEvent{Target: connectionID, Event: event, Payload: payload})
}

func (n *recordingNotifier) broadcastsNamed(event string) []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEvent
	for _, e := range n.broadcasts {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (n *recordingNotifier) lastDirect() sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.direct[len(n.direct)-1]
}

func (n *recordingNotifier) broadcastCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.broadcasts)
}

// --- Store ---

// flakyStore fails every save while failSaves is set.
type flakyStore struct {
	*MemoryStore
	failSaves atomic.Bool
}

func (s *flakyStore) SaveRoom(ctx context.Context, room *redis_models.RoomState) error {
	if s.failSaves.Load() {
		return errors.New("redis: connection refused")
	}
	return s.MemoryStore.SaveRoom(ctx, room)
}

// --- Archiver ---

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) ArchiveFinishedRoom(ctx context.Context, room *redis_models.RoomState) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

// --- Clock ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
