package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	TokenFile   string
	PrefsFile   string
	HTTPTimeout time.Duration
	Language    string
}

// Load reads the CLI configuration from the environment, after loading an
// optional .env from the working directory.
func Load() Config {
	_ = godotenv.Load()

	stateDir := getenv("CAMPUS_STATE_DIR", defaultStateDir())
	return Config{
		APIBaseURL:  getenv("CAMPUS_API_URL", "http://127.0.0.1:8080/api/v1"),
		TokenFile:   getenv("CAMPUS_TOKEN_FILE", filepath.Join(stateDir, "tokens.json")),
		PrefsFile:   getenv("CAMPUS_PREFS_FILE", filepath.Join(stateDir, "prefs.json")),
		HTTPTimeout: getenvDuration("CAMPUS_HTTP_TIMEOUT", 30*time.Second),
		Language:    getenv("CAMPUS_LANG", ""),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".campus"
	}
	return filepath.Join(home, ".campus")
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
