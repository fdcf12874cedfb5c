package config

import (
	game_constants "Undercover/constants/game"
	"Undercover/services/game"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type PostgresConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Database string `mapstructure:"database"`
}

// Enabled reports whether an archive database was configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.Database)
}

type Config struct {
	Prod                bool            `mapstructure:"prod"`
	Port                string          `mapstructure:"port"`
	LogLevel            string          `mapstructure:"log_level"`
	UseHTTPS            bool            `mapstructure:"use_https"`
	CertFile            string          `mapstructure:"cert_file"`
	KeyFile             string          `mapstructure:"key_file"`
	AllowedOrigins      []string        `mapstructure:"allowed_origins"`
	RedisURL            string          `mapstructure:"redis_url"`
	Postgres            PostgresConfig  `mapstructure:"postgres"`
	VerbosePostgres     bool            `mapstructure:"verbose_postgres"`
	MigratePostgres     bool            `mapstructure:"migrate_postgres"`
	JWTSecret           string          `mapstructure:"jwt_secret"`
	TrustClientIdentity bool            `mapstructure:"trust_client_identity"`
	RoomTTL             time.Duration   `mapstructure:"room_ttl"`
	FinishedRoomGrace   time.Duration   `mapstructure:"finished_room_grace"`
	ReapInterval        time.Duration   `mapstructure:"reap_interval"`
	EventRate           float64         `mapstructure:"event_rate"`
	EventBurst          int             `mapstructure:"event_burst"`
	WordPairs           []game.WordPair `mapstructure:"word_pairs"`
}

// Load reads defaults, then the optional YAML file named by CONFIG_FILE, then the
// environment. Nested keys map to env vars with "_" (postgres.host is POSTGRES_HOST).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("prod", false)
	v.SetDefault("port", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("use_https", false)
	v.SetDefault("cert_file", "")
	v.SetDefault("key_file", "")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("redis_url", "localhost:6379")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.host", "")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.database", "")
	v.SetDefault("verbose_postgres", false)
	v.SetDefault("migrate_postgres", false)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("trust_client_identity", false)
	v.SetDefault("room_ttl", game_constants.DefaultRoomTTL)
	v.SetDefault("finished_room_grace", game_constants.DefaultFinishedRoomGrace)
	v.SetDefault("reap_interval", game_constants.DefaultReapInterval)
	v.SetDefault("event_rate", 10.0)
	v.SetDefault("event_burst", 20)

	if fileName := os.Getenv("CONFIG_FILE"); fileName != "" {
		v.SetConfigFile(fileName)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Info().Str("module", "config").Str("file", fileName).Msg("Loaded config file")
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		if cfg.UseHTTPS {
			cfg.Port = "443"
		}
	}
	if cfg.UseHTTPS && (cfg.CertFile == "" || cfg.KeyFile == "") {
		return nil, fmt.Errorf("use_https requires cert_file and key_file")
	}
	if cfg.EventRate <= 0 || cfg.EventBurst <= 0 {
		return nil, fmt.Errorf("event_rate and event_burst must be positive")
	}
	return &cfg, nil
}

// Catalog builds the word catalog, falling back to the built-in pairs.
func (c *Config) Catalog() (*game.Catalog, error) {
	if len(c.WordPairs) == 0 {
		return game.DefaultCatalog(), nil
	}
	return game.NewCatalog(c.WordPairs)
}
