package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Default endpoints of the hosted Digo services.
const (
	defaultAuthURL     = "https://functions.poehali.dev/e6db6005-f0f6-42a4-8242-9c4be52a6be2"
	defaultMessagesURL = "https://functions.poehali.dev/56733cab-f91a-48f3-9a97-2b35ad31018d"
	defaultAdminURL    = "https://functions.poehali.dev/b88575f9-3ba7-42f8-9a58-7008d30b39bc"
)

type Config struct {
	Auth     AuthConfig
	Messages MessagesConfig
	Admin    AdminConfig
	Client   ClientConfig
}

type AuthConfig struct {
	URL string
}

type MessagesConfig struct {
	URL string
}

type AdminConfig struct {
	URL string
}

type ClientConfig struct {
	DataDir      string        // session file, local cache, log file
	PollInterval time.Duration // conversation refresh cadence
	TypingIdle   time.Duration // composer idle window before typing=false
	Environment  string        // "development" or "production"
}

// Load builds the configuration from environment variables, falling
// back to the hosted service endpoints and ~/.digo for local state.
func Load() (*Config, error) {
	cfg := &Config{
		Auth:     AuthConfig{URL: getEnv("DIGO_AUTH_URL", defaultAuthURL)},
		Messages: MessagesConfig{URL: getEnv("DIGO_MESSAGES_URL", defaultMessagesURL)},
		Admin:    AdminConfig{URL: getEnv("DIGO_ADMIN_URL", defaultAdminURL)},
		Client: ClientConfig{
			DataDir:      getEnv("DIGO_DATA_DIR", defaultDataDir()),
			PollInterval: time.Duration(getEnvInt("DIGO_POLL_INTERVAL_MS", 3000)) * time.Millisecond,
			TypingIdle:   time.Duration(getEnvInt("DIGO_TYPING_IDLE_MS", 3000)) * time.Millisecond,
			Environment:  getEnv("DIGO_ENV", "production"),
		},
	}

	if err := os.MkdirAll(cfg.Client.DataDir, 0755); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c ClientConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c ClientConfig) SessionPath() string {
	return filepath.Join(c.DataDir, "session.yml")
}

func (c ClientConfig) CachePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

func (c ClientConfig) LogPath() string {
	return filepath.Join(c.DataDir, "digo.log")
}

func defaultDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".digo")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
