package socket_io

import (
	"Undercover/middleware"
	"Undercover/services/game"
	"Undercover/services/rooms"
	"Undercover/services/socket_io/handlers"
	socketio_types "Undercover/services/socket_io/types"
	socketio_utils "Undercover/services/socket_io/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	eio_log "github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"golang.org/x/time/rate"
)

type Settings struct {
	Debug               bool
	AllowedOrigins      []string
	TrustClientIdentity bool
	EventRate           float64
	EventBurst          int
}

type MySocketServer socketio_types.SocketServer

// Start registers the event handlers and mounts socket.io on the router.
func (sio *MySocketServer) Start(router *gin.Engine, manager *rooms.Manager, verifier *middleware.IdentityVerifier, settings Settings) {
	eio_log.DEBUG = settings.Debug
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      corsOrigin(settings.AllowedOrigins),
		Credentials: true,
	})

	server := (*socketio_types.SocketServer)(sio)
	server.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		connectionID := string(client.Id())

		identity, err := socketio_utils.VerifyUserConnection(client.Handshake().Auth, verifier)
		if err != nil {
			log.Warn().Err(err).Str("module", "socket_io").Str("connection", connectionID).Msg("handshake rejected")
			handlers.EmitError(client, game.ErrUnauthorized)
			client.Disconnect(true)
			return
		}

		server.AddConnection(connectionID, client)
		manager.Presence().Bind(connectionID, identity.ID, identity.Name, time.Now())
		session := socketio_types.NewConnectionSession(connectionID, identity.ID, identity.Name,
			settings.TrustClientIdentity, rate.NewLimiter(rate.Limit(settings.EventRate), settings.EventBurst))

		log.Info().Str("module", "socket_io").Str("connection", connectionID).Str("identity", identity.ID).
			Int("connections", server.ConnectionCount()).Msg("client connected")

		// Create, join or reconnect to a room
		client.On("join_room", handlers.HandleJoinRoom(manager, client, session))

		// Room chat
		client.On("send_message", handlers.HandleSendMessage(manager, client, session))

		client.On("start_game", handlers.HandleStartGame(manager, client, session))

		client.On("vote", handlers.HandleVote(manager, client, session))

		client.On("end_round", handlers.HandleEndRound(manager, client, session))

		// NOTE: will remove sio connection from map
		client.On("disconnect", handlers.HandleDisconnect(manager, session, server))
	})

	handler := gin.WrapH(server.Sio_server.ServeHandler(c))
	router.POST("/socket.io/*f", handler)
	router.GET("/socket.io/*f", handler)

	log.Info().Str("module", "socket_io").Msg("Socket server started")
}

// Close disconnects every client.
func (sio *MySocketServer) Close() {
	sio.Sio_server.Close(nil)
}

func corsOrigin(origins []string) any {
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		return "*"
	}
	allowed := make([]any, 0, len(origins))
	for _, o := range origins {
		allowed = append(allowed, o)
	}
	return allowed
}
