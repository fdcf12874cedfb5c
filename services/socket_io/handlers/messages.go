package handlers

import (
	"Undercover/services/game"
	"Undercover/services/rooms"
	socketio_types "Undercover/services/socket_io/types"
)

// HandleSendMessage posts to the room chat. Unknown rooms are ignored.
func HandleSendMessage(manager *rooms.Manager, client Client, session *socketio_types.ConnectionSession) func(args ...interface{}) {
	return func(args ...interface{}) {
		if !session.Allow() {
			EmitError(client, game.ErrRateLimited)
			return
		}

		var req SendMessageRequest
		if err := decodePayload(args, &req); err != nil {
			EmitError(client, err)
			return
		}

		ctx, cancel := eventContext()
		defer cancel()
		if err := manager.PostMessage(ctx, req.RoomCode, session.ConnectionID, req.Text); err != nil {
			EmitError(client, err)
		}
	}
}
