package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Host           string `json:"host"`
		Port           int    `json:"port"`
		Subpath        string `json:"subpath"`
		JWTSecret      string `json:"jwtSecret"`
		SessionMinutes int    `json:"sessionMinutes"`
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Log struct {
		Level string `json:"level"`
		File  string `json:"file"`
	} `json:"log"`
	Jobs struct {
		ReconcileSchedule string `json:"reconcileSchedule"`
	} `json:"jobs"`
	RateLimit struct {
		VotesPerMinute int `json:"votesPerMinute"`
	} `json:"rateLimit"`
}

const (
	defaultSessionMinutes    = 30
	defaultReconcileSchedule = "@every 1h"
	defaultLogLevel          = "INFO"
)

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton). Values from the
// environment (and an optional .env next to the binary) override the file.
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		_ = godotenv.Load()
		applyEnv(&c)
		applyDefaults(&c)
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		cfg = &c
	})
	return cfg, cfgErr
}

func applyEnv(c *Config) {
	if v := os.Getenv("HACKS_JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv("HACKS_POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("HACKS_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("HACKS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HACKS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func applyDefaults(c *Config) {
	if c.Server.SessionMinutes <= 0 {
		c.Server.SessionMinutes = defaultSessionMinutes
	}
	if c.Jobs.ReconcileSchedule == "" {
		c.Jobs.ReconcileSchedule = defaultReconcileSchedule
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
