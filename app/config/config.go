package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process-wide settings. It is loaded once in main and
// injected; nothing reads the environment after startup.
type Config struct {
	Addr      string
	DBPath    string
	UploadDir string
	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads configuration from the environment, with an optional .env
// file. The JWT secret is the only required setting.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	cfg := &Config{
		Addr:      getEnv("ADDR", ":8080"),
		DBPath:    getEnv("DB_PATH", "data/badger"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		JWTSecret: secret,
		TokenTTL:  time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 168)) * time.Hour,
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
