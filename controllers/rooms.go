package controllers

import (
	redis_models "Undercover/models/redis"
	"Undercover/services/game"
	"Undercover/services/rooms"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// publicRoom hides roles and words until the game is over.
func publicRoom(room *redis_models.RoomState) *redis_models.RoomState {
	view := room.Clone()
	if view.Status == redis_models.StatusFinished {
		return view
	}
	view.CivilianWord = ""
	view.UndercoverWord = ""
	for _, p := range view.Players {
		p.SecretWord = nil
		if p.Alive {
			p.Role = redis_models.RoleUnassigned
		}
	}
	return view
}

// @Summary Current state of a room
// @Description Returns the live room. Roles and words stay hidden until the game is finished, except for eliminated players' roles.
// @Tags rooms
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} redis_models.RoomState
// @Failure 404 {object} object{error=string,code=string}
// @Failure 500 {object} object{error=string,code=string}
// @Router /rooms/{code} [get]
func GetRoom(manager *rooms.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, err := manager.Snapshot(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, publicRoom(room))
	}
}

// @Summary Fresh room code
// @Description Returns a code no active room is using
// @Tags rooms
// @Produce json
// @Success 200 {object} object{code=string}
// @Failure 500 {object} object{error=string,code=string}
// @Router /rooms/code [get]
func NewRoomCode(manager *rooms.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, err := manager.UniqueRoomCode(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": code})
	}
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInvalidRequest):
		status = http.StatusBadRequest
	default:
		log.Error().Err(err).Str("module", "controllers").Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": game.UserMessage(err), "code": string(game.CodeOf(err))})
}
