package handlers

import (
	"Undercover/services/game"
	"Undercover/services/rooms"
	socketio_types "Undercover/services/socket_io/types"

	"github.com/rs/zerolog/log"
)

// HandleStartGame deals roles and words.
func HandleStartGame(manager *rooms.Manager, client Client, session *socketio_types.ConnectionSession) func(args ...interface{}) {
	return func(args ...interface{}) {
		if !session.Allow() {
			EmitError(client, game.ErrRateLimited)
			return
		}

		var req RoomRequest
		if err := decodePayload(args, &req); err != nil {
			EmitError(client, err)
			return
		}

		ctx, cancel := eventContext()
		defer cancel()
		if err := manager.StartGame(ctx, req.RoomCode); err != nil {
			EmitError(client, err)
		}
	}
}

// HandleVote records the caller's vote. Repeated or invalid votes are ignored.
func HandleVote(manager *rooms.Manager, client Client, session *socketio_types.ConnectionSession) func(args ...interface{}) {
	return func(args ...interface{}) {
		if !session.Allow() {
			EmitError(client, game.ErrRateLimited)
			return
		}

		var req VoteRequest
		if err := decodePayload(args, &req); err != nil {
			EmitError(client, err)
			return
		}

		ctx, cancel := eventContext()
		defer cancel()
		voted, err := manager.CastVote(ctx, req.RoomCode, session.ConnectionID, req.TargetConnectionID)
		if err != nil {
			EmitError(client, err)
			return
		}
		if !voted {
			log.Debug().Str("module", "socket_io").Str("connection", session.ConnectionID).Str("room", req.RoomCode).Msg("vote ignored")
		}
	}
}

// HandleEndRound eliminates the most voted player and checks for a winner.
func HandleEndRound(manager *rooms.Manager, client Client, session *socketio_types.ConnectionSession) func(args ...interface{}) {
	return func(args ...interface{}) {
		if !session.Allow() {
			EmitError(client, game.ErrRateLimited)
			return
		}

		var req RoomRequest
		if err := decodePayload(args, &req); err != nil {
			EmitError(client, err)
			return
		}

		ctx, cancel := eventContext()
		defer cancel()
		if _, err := manager.EndRound(ctx, req.RoomCode); err != nil {
			EmitError(client, err)
		}
	}
}
