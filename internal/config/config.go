package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultPort             = 5000
	defaultEventLogCapacity = 1000
	defaultClickHousePort   = 9000
)

// Config holds the application configuration
type Config struct {
	Port           int
	LogDevelopment bool

	// Event journal configuration
	EventLogCapacity int
	UseClickHouse    bool

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	// Telegram configuration (optional)
	TelegramToken  string
	TelegramChatID int64
	AllowedUserIDs []int64
	WebhookMode    bool   // If true, Telegram pushes updates to /telegram-webhook; otherwise the bot polls
	WebhookURL     string // Public base URL of this service (required if WebhookMode is true)
}

// TelegramEnabled reports whether the Telegram bot should run
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	port, err := intFromEnv("PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d", port)
	}
	config.Port = port

	config.LogDevelopment = os.Getenv("LOG_DEVELOPMENT") == "true"

	capacity, err := intFromEnv("EVENT_LOG_CAPACITY", defaultEventLogCapacity)
	if err != nil {
		return nil, err
	}
	config.EventLogCapacity = capacity

	// ClickHouse configuration (required if the journal lives in ClickHouse)
	config.UseClickHouse = os.Getenv("USE_CLICKHOUSE") == "true"
	if config.UseClickHouse {
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return nil, fmt.Errorf("CLICKHOUSE_HOST is required when USE_CLICKHOUSE is true")
		}

		config.ClickHousePort, err = intFromEnv("CLICKHOUSE_PORT", defaultClickHousePort)
		if err != nil {
			return nil, err
		}

		config.ClickHouseDatabase = os.Getenv("CLICKHOUSE_DATABASE")
		if config.ClickHouseDatabase == "" {
			config.ClickHouseDatabase = "default"
		}

		config.ClickHouseUser = os.Getenv("CLICKHOUSE_USER")
		if config.ClickHouseUser == "" {
			config.ClickHouseUser = "default"
		}

		// Password is optional, can be empty
		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	}

	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramEnabled() {
		if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
			id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
			}
			config.TelegramChatID = id
		}

		ids, err := parseUserIDs(os.Getenv("ALLOWED_USER_IDS"))
		if err != nil {
			return nil, err
		}
		config.AllowedUserIDs = ids

		config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
		if config.WebhookMode {
			config.WebhookURL = strings.TrimRight(os.Getenv("WEBHOOK_URL"), "/")
			if config.WebhookURL == "" {
				return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
			}
		}
	}

	return config, nil
}

func intFromEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// parseUserIDs parses a comma-separated list of Telegram user IDs
func parseUserIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []int64
	for _, idStr := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in ALLOWED_USER_IDS: %s", idStr)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
