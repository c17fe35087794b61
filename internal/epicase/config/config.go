package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"epicase/internal/epicase/model"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI        string
	Port            string
	DBName          string
	Collections     map[string]string // record kind -> collection name
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	SaveMaxAttempts int
	LogLevel        string
}

// LoadConfig reads the environment. A .env file in the working directory, when
// present, fills in variables that are not already set.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Port:     getEnv("PORT", "8080"),
		DBName:   getEnv("DB_NAME", "epicase"),
		Collections: map[string]string{
			model.KindForma60:      getEnv("COLLECTION_FORMA60", "forma60"),
			model.KindKarta:        getEnv("COLLECTION_KARTA", "karta"),
			model.KindDisinfection: getEnv("COLLECTION_DISINFECTION", "disinfections"),
		},
		ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		SaveMaxAttempts: getEnvInt("SAVE_MAX_ATTEMPTS", 3),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	seen := make(map[string]string, len(c.Collections))
	for kind, name := range c.Collections {
		if name == "" {
			return fmt.Errorf("collection name for %s is required", kind)
		}
		if other, ok := seen[name]; ok {
			return fmt.Errorf("collection %q is used by both %s and %s", name, other, kind)
		}
		seen[name] = kind
	}
	if c.SaveMaxAttempts < 1 {
		return fmt.Errorf("SAVE_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvDuration accepts whole seconds ("10") or a Go duration ("1m30s").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		d, err := time.ParseDuration(valStr)
		if err == nil {
			return d
		}
		return fallback
	}
	return time.Duration(val) * time.Second
}
