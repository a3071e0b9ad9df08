package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration for the converter backend.
type Config struct {
	OpenAI  OpenAIConfig
	Upload  UploadConfig
	Session SessionConfig
	Storage StorageConfig
}

type OpenAIConfig struct {
	APIBaseURL string
	Model      string
	Prompt     string
}

type UploadConfig struct {
	MaxFileSize int64
}

type SessionConfig struct {
	ResetDelay time.Duration
}

type StorageConfig struct {
	Dir string
}

// Load resolves configuration from an optional .env file, environment
// variables, and sensible defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	storageDir := strings.TrimSpace(os.Getenv("FILETOTEXT_STORAGE_DIR"))
	if storageDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, errors.New("could not determine user config directory")
		}
		storageDir = filepath.Join(base, "filetotext")
	}

	cfg := Config{
		OpenAI: OpenAIConfig{
			APIBaseURL: envOrDefault("OPENAI_API_BASE", "https://api.openai.com/v1"),
			Model:      envOrDefault("OPENAI_MODEL", "whisper-1"),
			Prompt:     strings.TrimSpace(os.Getenv("FILETOTEXT_PROMPT")),
		},
		Upload: UploadConfig{
			MaxFileSize: int64(envOrDefaultInt("FILETOTEXT_MAX_FILE_SIZE_MB", 50)) << 20,
		},
		Session: SessionConfig{
			ResetDelay: time.Duration(envOrDefaultInt("FILETOTEXT_RESET_DELAY_MS", 500)) * time.Millisecond,
		},
		Storage: StorageConfig{
			Dir: storageDir,
		},
	}

	if cfg.Upload.MaxFileSize <= 0 {
		cfg.Upload.MaxFileSize = 50 << 20
	}
	if cfg.Session.ResetDelay < 0 {
		cfg.Session.ResetDelay = 0
	}

	return cfg, nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
