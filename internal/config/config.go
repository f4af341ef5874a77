// Package config reads the application settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/example/mintin/internal/database"
	"github.com/example/mintin/internal/logging"
	"github.com/example/mintin/internal/session"
)

// Default notification window (UTC hours, inclusive)
const (
	DefaultNotificationStartHour = 4
	DefaultNotificationEndHour   = 18
)

// Config represents the configuration of all commands
type Config struct {
	Database database.Config

	// Telegram bot token, required by the bot command only
	TelegramToken string
	// Catalog drilled by the bot
	CatalogPath string

	// Batch sizes of assessment and learning rounds
	AssessSessions int
	LearnSessions  int
	// Skip the recall check right after learning an entry
	ClassicMode bool

	NotificationStartHour int
	NotificationEndHour   int

	LogLevel  string
	LogFormat string
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Database: database.Config{
			Type: database.TypeSQLite,
			Path: "data/mintin.db",
		},
		CatalogPath:           "catalog.json",
		AssessSessions:        session.DefaultAssessBatch,
		LearnSessions:         session.DefaultLearnBatch,
		NotificationStartHour: DefaultNotificationStartHour,
		NotificationEndHour:   DefaultNotificationEndHour,
		LogLevel:              "info",
		LogFormat:             logging.FormatConsole,
	}
}

// Load reads an optional .env file and then the environment on top of Default
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(err, "failed to read .env file")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the configuration from lookup, typically os.LookupEnv
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	var err error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" || err != nil {
			return
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(v))
		if convErr != nil {
			err = errors.Errorf("%s: %q is not a number", key, v)
			return
		}
		*dst = n
	}
	flag := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || v == "" || err != nil {
			return
		}
		b, convErr := strconv.ParseBool(strings.TrimSpace(v))
		if convErr != nil {
			err = errors.Errorf("%s: %q is not a boolean", key, v)
			return
		}
		*dst = b
	}

	str("DB_TYPE", &cfg.Database.Type)
	str("DB_PATH", &cfg.Database.Path)
	str("DATABASE_URL", &cfg.Database.URL)
	str("TELEGRAM_BOT_TOKEN", &cfg.TelegramToken)
	str("CATALOG_PATH", &cfg.CatalogPath)
	num("ASSESS_SESSIONS", &cfg.AssessSessions)
	num("LEARN_SESSIONS", &cfg.LearnSessions)
	flag("CLASSIC_MODE", &cfg.ClassicMode)
	num("NOTIFICATION_START_HOUR", &cfg.NotificationStartHour)
	num("NOTIFICATION_END_HOUR", &cfg.NotificationEndHour)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every command relies on
func (c *Config) Validate() error {
	switch c.Database.Type {
	case database.TypeSQLite, "sqlite3":
	case database.TypePostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required for postgres")
		}
	default:
		return errors.Errorf("unsupported DB_TYPE %q", c.Database.Type)
	}
	if c.AssessSessions < 1 || c.LearnSessions < 1 {
		return errors.New("ASSESS_SESSIONS and LEARN_SESSIONS must be positive")
	}
	for _, h := range []int{c.NotificationStartHour, c.NotificationEndHour} {
		if h < 0 || h > 23 {
			return errors.Errorf("notification hour %d out of range 0-23", h)
		}
	}
	if c.NotificationStartHour > c.NotificationEndHour {
		return errors.New("NOTIFICATION_START_HOUR is after NOTIFICATION_END_HOUR")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != logging.FormatJSON && c.LogFormat != logging.FormatConsole {
		return errors.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}
