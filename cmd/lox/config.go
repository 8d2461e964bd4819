package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/lox"
	"github.com/midbel/lox/history"
	"gopkg.in/yaml.v3"
)

const configFile = ".loxrc.yaml"

type Config struct {
	Prompt      string `yaml:"prompt"`
	History     string `yaml:"history"`
	HistorySize int    `yaml:"history_size"`
	MaxDepth    int    `yaml:"max_depth"`
	LogLevel    string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Prompt:      "> ",
		History:     expandHome("~/.lox_history.db"),
		HistorySize: history.DefaultLimit,
		MaxDepth:    lox.DefaultMaxDepth,
		LogLevel:    "warn",
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configFile)
}

// loadConfig reads the configuration at path over the default values. A
// missing file is only an error when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.History = expandHome(cfg.History)
	return cfg, nil
}

func (c Config) validate() error {
	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must be positive (got %d)", c.HistorySize)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be positive (got %d)", c.MaxDepth)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
