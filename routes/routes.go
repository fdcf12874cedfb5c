package routes

import (
	"Undercover/controllers"
	"Undercover/services/rooms"
	utils "Undercover/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes. archive may be nil when no database is configured.
func SetupRoutes(router *gin.Engine, manager *rooms.Manager, store controllers.Pinger, archive controllers.GameArchive) {
	// utils global
	router.Use(utils.Logger(), utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping(store))

	roomsGroup := api.Group("/rooms")
	{
		roomsGroup.GET("/code", controllers.NewRoomCode(manager))

		roomsGroup.GET("/:code", controllers.GetRoom(manager))
	}

	games := api.Group("/games")
	{
		games.GET("", controllers.GetRecentGames(archive))

		games.GET("/:code", controllers.GetGame(archive))
	}
}
