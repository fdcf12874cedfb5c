package handlers

import (
	"Undercover/services/game"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

type JoinRoomRequest struct {
	RoomCode    string `mapstructure:"roomCode"`
	DisplayName string `mapstructure:"displayName"`
	IdentityID  string `mapstructure:"identityId"`
	AllowCreate bool   `mapstructure:"allowCreate"`
}

type SendMessageRequest struct {
	RoomCode string `mapstructure:"roomCode"`
	Text     string `mapstructure:"text"`
}

type RoomRequest struct {
	RoomCode string `mapstructure:"roomCode"`
}

type VoteRequest struct {
	RoomCode           string `mapstructure:"roomCode"`
	TargetConnectionID string `mapstructure:"targetConnectionId"`
}

// decodePayload reads the first event argument into out. A bare string is taken
// as the room code, which is how the lobby events have always been sent.
func decodePayload(args []interface{}, out interface{}) error {
	if len(args) < 1 || args[0] == nil {
		return fmt.Errorf("%w: missing payload", game.ErrInvalidRequest)
	}
	input := args[0]
	if code, ok := input.(string); ok {
		input = map[string]interface{}{"roomCode": code}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidRequest, err)
	}
	return nil
}
