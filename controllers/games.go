package controllers

import (
	game_constants "Undercover/constants/game"
	"Undercover/models/postgres"
	"Undercover/services/game"
	"Undercover/sync"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GameArchive is the read side of the finished games archive.
type GameArchive interface {
	RecentGames(ctx context.Context, limit int) ([]postgres.GameRecord, error)
	GameByRoomCode(ctx context.Context, roomCode string) (*postgres.GameRecord, error)
}

// @Summary Recently finished games
// @Description Lists the latest archived games, newest first
// @Tags games
// @Produce json
// @Param limit query int false "Maximum number of games" default(10)
// @Success 200 {array} postgres.GameRecord
// @Failure 400 {object} object{error=string}
// @Failure 503 {object} object{error=string}
// @Router /games [get]
func GetRecentGames(archive GameArchive) gin.HandlerFunc {
	return func(c *gin.Context) {
		if archive == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game archive is disabled"})
			return
		}

		limit := game_constants.RecentGamesLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
				return
			}
			limit = n
		}

		records, err := archive.RecentGames(c.Request.Context(), limit)
		if err != nil {
			log.Error().Err(err).Str("module", "controllers").Msg("listing games failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing games"})
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

// @Summary Archived game of a room
// @Description Returns the most recent finished game played in a room
// @Tags games
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} postgres.GameRecord
// @Failure 404 {object} object{error=string}
// @Failure 503 {object} object{error=string}
// @Router /games/{code} [get]
func GetGame(archive GameArchive) gin.HandlerFunc {
	return func(c *gin.Context) {
		if archive == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game archive is disabled"})
			return
		}

		record, err := archive.GameByRoomCode(c.Request.Context(), game.NormalizeRoomCode(c.Param("code")))
		if errors.Is(err, sync.ErrGameNotArchived) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No finished game for this room"})
			return
		}
		if err != nil {
			log.Error().Err(err).Str("module", "controllers").Msg("getting game failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting game"})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
