package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads KEY=value pairs from path into the process environment.
// Variables already set win; a missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with environment variables.
func ApplyEnv(cfg *App) error {
	if v := os.Getenv("HUGGINGFACE_API_KEY"); v != "" {
		cfg.Relay.APIKey = v
	}
	if v := os.Getenv("UNITSENSE_RELAY_ENDPOINT"); v != "" {
		cfg.Relay.Endpoint = v
	}
	if v := os.Getenv("UNITSENSE_RELAY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("UNITSENSE_RELAY_TIMEOUT: %w", err)
		}
		cfg.Relay.Timeout = d
	}
	if v := os.Getenv("UNITSENSE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("UNITSENSE_ASK_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("UNITSENSE_ASK_RATE: %w", err)
		}
		cfg.Server.AskRate = f
	}
	if v := os.Getenv("UNITSENSE_ASK_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UNITSENSE_ASK_BURST: %w", err)
		}
		cfg.Server.AskBurst = n
	}
	if v := os.Getenv("UNITSENSE_SESSION_IDLE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("UNITSENSE_SESSION_IDLE: %w", err)
		}
		cfg.Server.SessionIdle = d
	}
	if v := os.Getenv("UNITSENSE_TRUSTED_PROXIES"); v != "" {
		cfg.Server.TrustedProxies = strings.Split(v, ",")
	}
	if v := os.Getenv("UNITSENSE_AUDIT_BACKEND"); v != "" {
		cfg.Audit.Backend = v
	}
	if v := os.Getenv("UNITSENSE_SQLITE_PATH"); v != "" {
		cfg.Audit.SQLitePath = v
	}
	if v := os.Getenv("UNITSENSE_POSTGRES_DSN"); v != "" {
		cfg.Audit.PostgresDSN = v
	}
	if v := os.Getenv("UNITSENSE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then the TOML file,
// then the env file, then the environment.
func Resolve(path, envFile string) (App, error) {
	cfg, err := Load(path)
	if err != nil {
		return App{}, err
	}
	if err := LoadEnvFile(envFile); err != nil {
		return App{}, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return App{}, err
	}
	return cfg, nil
}
