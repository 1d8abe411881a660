package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Dosada05/tournament-progression/brackets"
	"github.com/Dosada05/tournament-progression/league"
	"github.com/Dosada05/tournament-progression/standings"
	"github.com/Dosada05/tournament-progression/storage"
)

type Config struct {
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecretKey string `envconfig:"JWT_SECRET_KEY" required:"true"`
	ServerPort   int    `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	AutoMigrate  bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	RedisURL          string        `envconfig:"REDIS_URL"`
	StandingsCacheTTL time.Duration `envconfig:"STANDINGS_CACHE_TTL" default:"5m"`

	LeagueRebuildInterval time.Duration `envconfig:"LEAGUE_REBUILD_INTERVAL" default:"1h"`
	LeagueScale           league.Scale  `envconfig:"LEAGUE_SCALE" default:"1:3,2:2,3:1"`
	LinkSimilarity        float64       `envconfig:"LINK_SIMILARITY_THRESHOLD" default:"0.7"`

	Bracket brackets.Config
	Points  standings.PointsScheme

	R2 R2
}

type R2 struct {
	AccountID       string `envconfig:"R2_ACCOUNT_ID"`
	AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`
	BucketName      string `envconfig:"R2_BUCKET_NAME"`
	PublicBaseURL   string `envconfig:"R2_PUBLIC_BASE_URL"`
	SnapshotPrefix  string `envconfig:"R2_SNAPSHOT_PREFIX" default:"league-standings"`
}

func (r R2) Uploader() storage.CloudflareR2UploaderConfig {
	return storage.CloudflareR2UploaderConfig{
		AccountID:       r.AccountID,
		AccessKeyID:     r.AccessKeyID,
		SecretAccessKey: r.SecretAccessKey,
		BucketName:      r.BucketName,
		PublicBaseURL:   r.PublicBaseURL,
	}
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.Bracket.SlotDuration <= 0 {
		return fmt.Errorf("BRACKET_SLOT_DURATION must be positive, got %s", c.Bracket.SlotDuration)
	}
	if c.LeagueRebuildInterval < time.Minute {
		return fmt.Errorf("LEAGUE_REBUILD_INTERVAL must be at least 1m, got %s", c.LeagueRebuildInterval)
	}
	if c.LinkSimilarity <= 0 || c.LinkSimilarity > 1 {
		return fmt.Errorf("LINK_SIMILARITY_THRESHOLD must be in (0, 1], got %v", c.LinkSimilarity)
	}
	return nil
}
