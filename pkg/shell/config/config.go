// Package config loads and persists the shell's settings file.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the only persisted config file schema.
type Config struct {
	Window WindowConfig `toml:"window"`
	Font   FontConfig   `toml:"font"`
	Shell  ShellConfig  `toml:"shell"`
	TUI    bool         `toml:"tui"`
}

// WindowConfig sizes and titles the main window.
type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// FontConfig selects the text size everything is measured against.
type FontConfig struct {
	Size float64 `toml:"size"`
}

// ShellConfig names the program commands run under. Empty means $SHELL.
type ShellConfig struct {
	Program string `toml:"program"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{Width: 800, Height: 600, Title: "glasshell"},
		Font:   FontConfig{Size: 16},
	}
}

func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "glasshell", "config.toml")
}

// Load reads the file at path, or the default path when empty. A missing
// file is not an error; the defaults come back. Keys absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and no user config dir is set")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return normalize(cfg), nil
}

// normalize backfills values the rest of the program cannot work with.
func normalize(cfg Config) Config {
	def := Default()
	if cfg.Window.Width <= 0 {
		cfg.Window.Width = def.Window.Width
	}
	if cfg.Window.Height <= 0 {
		cfg.Window.Height = def.Window.Height
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = def.Window.Title
	}
	if cfg.Font.Size <= 0 {
		cfg.Font.Size = def.Font.Size
	}
	return cfg
}
