package service

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/loganlanou/phishdesk/internal/attachments"
	"github.com/loganlanou/phishdesk/internal/editor"
)

type Config struct {
	Environment string
	Port        string
	DBPath      string

	Store struct {
		URL     string
		APIKey  string
		Timeout time.Duration
	}

	Editor struct {
		MinLoading        time.Duration
		AttachmentReaders int
	}
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		DBPath:      getEnv("DB_PATH", "./db/phishdesk.db"),
	}

	// Remote store
	config.Store.URL = getEnv("STORE_URL", "http://localhost:3333")
	config.Store.APIKey = getEnv("STORE_API_KEY", "")
	timeout, err := getDuration("STORE_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	config.Store.Timeout = timeout

	// Editor
	minLoading, err := getDuration("AI_MIN_LOADING", editor.DefaultMinLoading)
	if err != nil {
		return nil, err
	}
	config.Editor.MinLoading = minLoading

	readers := getEnv("ATTACHMENT_READERS", strconv.Itoa(attachments.DefaultReaders))
	if n, err := strconv.Atoi(readers); err == nil && n > 0 {
		config.Editor.AttachmentReaders = n
	} else {
		config.Editor.AttachmentReaders = attachments.DefaultReaders
	}

	if config.Store.APIKey == "" {
		slog.Warn("STORE_API_KEY is not set, store requests will be unauthenticated")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
