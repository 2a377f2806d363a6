package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.svyazukha/config.toml.
type Config struct {
	DefaultSession string          `toml:"default_session"`
	Profile        Profile         `toml:"profile"`
	Settings       map[string]bool `toml:"settings"`
}

// Profile is the user's own card shown on the profile tab.
type Profile struct {
	Name   string `toml:"name"`
	Handle string `toml:"handle"`
	About  string `toml:"about"`
	Email  string `toml:"email"`
	Phone  string `toml:"phone"`
	Joined string `toml:"joined"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Profile: Profile{
			Name:   "Иван Петров",
			Handle: "ivan_petrov",
			About:  "Люблю путешествовать и создавать классные проекты! 🚀",
			Email:  "ivan@example.com",
			Phone:  "+7 (999) 123-45-67",
			Joined: "15 января 2024",
		},
		Settings: map[string]bool{},
	}
}

// Load reads config from the given path on top of Default. Keys missing from
// the file keep their default values. Returns an error if the file is missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.Settings == nil {
		cfg.Settings = map[string]bool{}
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
