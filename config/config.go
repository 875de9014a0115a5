package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the client application.
type Config struct {
	Environment string

	// APIBaseURL is the remote events service. Empty means only fixture mode
	// is usable.
	APIBaseURL string

	// BotName is the Telegram bot hosting the mini app; used to build deep links.
	BotName string

	// BotToken, when set, enables client-side init-data verification and the
	// bot-backed notifier. Without it verification is assumed server-side.
	BotToken string

	// InitData is the raw launch-context string supplied by the hosting
	// environment, carried verbatim as the authorization credential.
	InitData string

	UseFixtureData bool
	SnapshotDBPath string
	PageSize       int
}

// Load loads configuration from environment variables.
// It attempts to load from .env file if not in production; in production we
// rely on system environment variables alone, so a missing .env is not an error.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:    env,
		APIBaseURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("API_BASE_URL")), "/"),
		BotName:        strings.TrimSpace(os.Getenv("TELEGRAM_BOT_NAME")),
		BotToken:       strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		InitData:       strings.TrimSpace(os.Getenv("TELEGRAM_INIT_DATA")),
		UseFixtureData: os.Getenv("USE_FIXTURE_DATA") == "true",
		SnapshotDBPath: os.Getenv("SNAPSHOT_DB_PATH"),
		PageSize:       10,
	}

	if cfg.SnapshotDBPath == "" {
		cfg.SnapshotDBPath = "geohod.db"
	}
	if s := os.Getenv("PAGE_SIZE"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			cfg.PageSize = v
		}
	}
	if cfg.BotName == "" {
		cfg.BotName = "geohod_bot"
	}

	return cfg, nil
}
