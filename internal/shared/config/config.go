package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string
	LogLevel string
}

var validEnvs = map[string]bool{
	"dev":     true,
	"staging": true,
	"prod":    true,
}

// Numeric levels are accepted by zerolog.ParseLevel but not here.
var validLevels = map[string]bool{
	zerolog.LevelTraceValue: true,
	zerolog.LevelDebugValue: true,
	zerolog.LevelInfoValue:  true,
	zerolog.LevelWarnValue:  true,
	zerolog.LevelErrorValue: true,
	zerolog.LevelFatalValue: true,
	zerolog.LevelPanicValue: true,
	"disabled":              true,
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {

	// 1. Load .env file into the process environment.
	// A missing file is fine; we fall back to OS-set env vars.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// 2. Explicitly bind viper keys to env var names
	v := viper.New()
	if err := v.BindEnv("app.env", "APP_ENV"); err != nil {
		return nil, fmt.Errorf("could not bind app.env: %w", err)
	}
	if err := v.BindEnv("log.level", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("could not bind log.level: %w", err)
	}

	// 3. Set defaults
	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")

	cfg := Config{
		AppEnv:   v.GetString("app.env"),
		LogLevel: v.GetString("log.level"),
	}

	// 4. Validation
	if !validEnvs[cfg.AppEnv] {
		return nil, fmt.Errorf("APP_ENV must be one of dev, staging, prod, but got %q", cfg.AppEnv)
	}
	if !validLevels[cfg.LogLevel] {
		return nil, fmt.Errorf("LOG_LEVEL must be a level name such as debug or info, but got %q", cfg.LogLevel)
	}

	return &cfg, nil
}
