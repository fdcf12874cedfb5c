package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Pinger is anything whose reachability /ping reports, such as the Redis store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// @Summary Endpoint just pings the server
// @Description Returns a basic message and whether the room store answers
// @Tags test
// @Produce json
// @Success 200 {object} object{message=string,store=string}
// @Failure 503 {object} object{message=string,store=string}
// @Router /ping [get]
func Ping(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if store != nil {
			if err := store.Ping(ctx); err != nil {
				log.Warn().Err(err).Str("module", "controllers").Msg("room store unreachable")
				c.JSON(http.StatusServiceUnavailable, gin.H{"message": "pong", "store": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong", "store": "ok"})
	}
}
