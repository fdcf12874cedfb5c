package config

import (
	"Undercover/models/postgres"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM(cfg *Config) (*gorm.DB, error) {
	// NOTE: See https://github.com/go-gorm/gorm/issues/5409
	sqlDB, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Error().Err(err).Str("module", "config").Msg("Error connecting to PostgreSQL")
		return nil, err
	}

	db, err := OpenGORM(sqlDB, cfg.VerbosePostgres)
	if err != nil {
		log.Error().Err(err).Str("module", "config").Msg("Error connecting to PostgreSQL with GORM")
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		log.Error().Err(err).Str("module", "config").Msg("Error pinging PostgreSQL")
		return nil, err
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Str("module", "config").Msg("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// OpenGORM wraps an open connection. Verbose mode routes SQL logging through zerolog.
func OpenGORM(conn *sql.DB, verbose bool) (*gorm.DB, error) {
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if verbose {
		gormConfig.Logger = logger.New(
			&log.Logger,
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
	}

	return gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), gormConfig)
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database
func MigrateDatabase(db *gorm.DB) error {
	// EXACTLY, this (postgres driver v1.4.0): https://github.com/pilinux/gorest/issues/167#issuecomment-1947114560
	if err := db.AutoMigrate(postgres.GameRecord{}); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	log.Info().Str("module", "config").Msg("PostgreSQL database migrated successfully")
	return nil
}
