package handlers

import (
	"Undercover/services/game"
	"Undercover/services/rooms"
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/v2/socket"
)

// eventTimeout bounds the store round trips of one event.
const eventTimeout = 5 * time.Second

// Client is the part of a socket.io socket the handlers talk to.
type Client interface {
	Id() socket.SocketId
	Emit(ev string, args ...any) error
}

// EmitError reports err to the originating connection only.
func EmitError(client Client, err error) {
	notice := rooms.ErrorNotice{
		Message: game.UserMessage(err),
		Code:    string(game.CodeOf(err)),
	}
	if emitErr := client.Emit(rooms.EventError, notice); emitErr != nil {
		log.Warn().Err(emitErr).Str("module", "socket_io").Str("connection", string(client.Id())).Msg("could not deliver error")
	}
}

func eventContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), eventTimeout)
}
