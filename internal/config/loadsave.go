package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load layers the TOML file at path over Defaults. A missing file is not an
// error.
func Load(path string) (App, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return App{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg App) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := Encode(f, cfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func Encode(w io.Writer, cfg App) error {
	return toml.NewEncoder(w).Encode(cfg)
}
