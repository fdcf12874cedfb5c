package handlers

import (
	"Undercover/services/game"
	"Undercover/services/rooms"
	socketio_types "Undercover/services/socket_io/types"

	"github.com/rs/zerolog/log"
)

// HandleJoinRoom creates, joins or reconnects to a room.
func HandleJoinRoom(manager *rooms.Manager, client Client, session *socketio_types.ConnectionSession) func(args ...interface{}) {
	return func(args ...interface{}) {
		if !session.Allow() {
			EmitError(client, game.ErrRateLimited)
			return
		}

		var req JoinRoomRequest
		if err := decodePayload(args, &req); err != nil {
			log.Warn().Err(err).Str("module", "socket_io").Str("connection", session.ConnectionID).Msg("bad join_room payload")
			EmitError(client, err)
			return
		}
		if req.DisplayName == "" {
			req.DisplayName = session.TokenName
		}

		ctx, cancel := eventContext()
		defer cancel()
		out, err := manager.CreateOrJoin(ctx, game.JoinRequest{
			RoomCode:     req.RoomCode,
			DisplayName:  req.DisplayName,
			IdentityID:   session.ResolveIdentity(req.IdentityID),
			ConnectionID: session.ConnectionID,
			AllowCreate:  req.AllowCreate,
		})
		if err != nil {
			EmitError(client, err)
			return
		}

		log.Info().Str("module", "socket_io").Str("connection", session.ConnectionID).Str("room", out.Room.RoomCode).
			Bool("reconnected", out.Reconnected).Msg("joined room")
	}
}
