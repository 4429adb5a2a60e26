package config

import (
	"os"
	"path/filepath"
)

func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "unitsense")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "unitsense")
}

func File() string { return filepath.Join(Dir(), "config.toml") }

func AuditDBPath() string { return filepath.Join(Dir(), "audit.db") }
