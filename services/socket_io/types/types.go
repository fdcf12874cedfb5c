package socketio_types

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/v2/socket"
	"golang.org/x/time/rate"
)

// SocketServer is a struct that contains the socket.io server and a map of socket connections.
// It delivers room events for the room manager.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track socket id -> socket connections
	Connections map[string]*socket.Socket
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Sio_server:  socket.NewServer(nil, nil),
		Connections: make(map[string]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(connectionID string, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Connections[connectionID] = socket
}

func (s *SocketServer) RemoveConnection(connectionID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.Connections, connectionID)
}

func (s *SocketServer) GetConnection(connectionID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	socket, exists := s.Connections[connectionID]
	return socket, exists
}

func (s *SocketServer) ConnectionCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.Connections)
}

// Join subscribes a live connection to a room's broadcasts.
func (s *SocketServer) Join(connectionID, roomCode string) {
	client, ok := s.GetConnection(connectionID)
	if !ok {
		log.Debug().Str("module", "socket_io").Str("connection", connectionID).Msg("join for a gone connection")
		return
	}
	client.Join(socket.Room(roomCode))
}

func (s *SocketServer) Broadcast(roomCode, event string, payload any) {
	if err := s.Sio_server.To(socket.Room(roomCode)).Emit(event, payload); err != nil {
		log.Warn().Err(err).Str("module", "socket_io").Str("room", roomCode).Str("event", event).Msg("broadcast failed")
	}
}

func (s *SocketServer) SendTo(connectionID, event string, payload any) {
	client, ok := s.GetConnection(connectionID)
	if !ok {
		log.Debug().Str("module", "socket_io").Str("connection", connectionID).Str("event", event).Msg("send to a gone connection")
		return
	}
	if err := client.Emit(event, payload); err != nil {
		log.Warn().Err(err).Str("module", "socket_io").Str("connection", connectionID).Str("event", event).Msg("send failed")
	}
}

// ConnectionSession is the per-connection state resolved at handshake.
type ConnectionSession struct {
	ConnectionID string
	// IdentityID comes from a verified token. Empty for guests.
	IdentityID          string
	TokenName           string
	TrustClientIdentity bool
	limiter             *rate.Limiter
}

func NewConnectionSession(connectionID, identityID, tokenName string, trustClientIdentity bool, limiter *rate.Limiter) *ConnectionSession {
	return &ConnectionSession{
		ConnectionID:        connectionID,
		IdentityID:          identityID,
		TokenName:           tokenName,
		TrustClientIdentity: trustClientIdentity,
		limiter:             limiter,
	}
}

// Allow reports whether the connection may emit one more event now.
func (s *ConnectionSession) Allow() bool {
	return s.limiter == nil || s.limiter.Allow()
}

// ResolveIdentity picks the identity used for a join. A verified token always wins;
// the client's claim is only honoured when the server is configured to trust it.
func (s *ConnectionSession) ResolveIdentity(claimed string) string {
	if s.IdentityID != "" {
		return s.IdentityID
	}
	if s.TrustClientIdentity {
		return claimed
	}
	return ""
}
