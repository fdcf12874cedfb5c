package main

import (
	"Undercover/config"
	_ "Undercover/config/swagger"
	"Undercover/controllers"
	"Undercover/middleware"
	"Undercover/routes"
	"Undercover/services/redis"
	"Undercover/services/rooms"
	"Undercover/services/socket_io"
	socketio_types "Undercover/services/socket_io/types"
	"Undercover/sync"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Undercover API
// @version 1.0
// @description Gin-Gonic server for the "Undercover" word game
// @BasePath /
func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	setupLogging(cfg)
	log.Info().Str("module", "main").Msg("Setting up server...")

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid word catalog")
	}

	redisClient, err := config.Connect_redis(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to Redis")
	}
	defer redis.CloseRedis(redisClient)

	sio := socketio_types.NewSocketServer()
	opts := []rooms.Option{rooms.WithFinishedRoomGrace(cfg.FinishedRoomGrace)}

	// The archive is optional; without PostgreSQL finished games only live until reaped.
	var archive controllers.GameArchive
	if cfg.Postgres.Enabled() {
		gormDB, err := config.ConnectGORM(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to PostgreSQL")
		}
		// Only migrate in development or during deployment
		if cfg.MigratePostgres {
			if err := config.MigrateDatabase(gormDB); err != nil {
				log.Warn().Err(err).Str("module", "main").Msg("Database migration failed")
			}
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("Error reading GORM PostgreSQL instance")
		}
		defer sqlDB.Close()

		syncManager := sync.NewSyncManager(gormDB)
		opts = append(opts, rooms.WithArchiver(syncManager))
		archive = syncManager
	} else {
		log.Warn().Str("module", "main").Msg("POSTGRES_HOST not set, game archive disabled")
	}

	manager := rooms.NewManager(redisClient, sio, rooms.NewPresence(), catalog, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	go manager.RunReaper(ctx, cfg.ReapInterval)

	r := gin.New()
	middleware.SetUpMiddleware(r, cfg.AllowedOrigins)
	routes.SetupRoutes(r, manager, redisClient, archive)

	(*socket_io.MySocketServer)(sio).Start(r, manager, middleware.NewIdentityVerifier(cfg.JWTSecret), socket_io.Settings{
		Debug:               !cfg.Prod,
		AllowedOrigins:      cfg.AllowedOrigins,
		TrustClientIdentity: cfg.TrustClientIdentity,
		EventRate:           cfg.EventRate,
		EventBurst:          cfg.EventBurst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.Info().Str("module", "main").Str("port", cfg.Port).Bool("https", cfg.UseHTTPS).Msg("Server started")
		var err error
		if cfg.UseHTTPS {
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Error starting server")
		}
	}()

	<-ctx.Done()
	log.Info().Str("module", "main").Msg("Shutting down...")
	(*socket_io.MySocketServer)(sio).Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Str("module", "main").Msg("Forced shutdown")
	}
}

func setupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !cfg.Prod {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
