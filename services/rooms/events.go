package rooms

import redis_models "Undercover/models/redis"

const (
	EventRoomUpdate         = "room_update"
	EventJoinSuccess        = "join_success"
	EventGameStarted        = "game_started"
	EventNewMessage         = "new_message"
	EventVoteUpdate         = "vote_update"
	EventRoundEnded         = "round_ended"
	EventPlayerDisconnected = "player_disconnected"
	EventError              = "error"
)

type JoinSuccess struct {
	Room        *redis_models.RoomState `json:"room"`
	Reconnected bool                    `json:"reconnected"`
}

type RoundEnded struct {
	Room             *redis_models.RoomState `json:"room"`
	EliminatedPlayer *redis_models.Player    `json:"eliminatedPlayer"`
}

type PlayerDisconnected struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
	CanReconnect bool   `json:"canReconnect"`
}

type ErrorNotice struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
