package handlers

import (
	"Undercover/services/rooms"
	socketio_types "Undercover/services/socket_io/types"

	"github.com/rs/zerolog/log"
)

// Function to handle socket.io client disconnections.
func HandleDisconnect(manager *rooms.Manager, session *socketio_types.ConnectionSession, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		reason := ""
		if len(args) > 0 {
			reason, _ = args[0].(string)
		}
		log.Info().Str("module", "socket_io").Str("connection", session.ConnectionID).Str("reason", reason).Msg("client disconnected")

		sio.RemoveConnection(session.ConnectionID)

		ctx, cancel := eventContext()
		defer cancel()
		manager.HandleDisconnect(ctx, session.ConnectionID)
	}
}
