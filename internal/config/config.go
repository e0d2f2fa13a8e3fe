// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tracklit/internal/constants"
)

// Config holds file-level settings. Zero values mean "use the default".
type Config struct {
	CapacityBytes      int    `yaml:"capacity_bytes"`
	RetentionDays      int    `yaml:"retention_days"`
	ReminderMessage    string `yaml:"reminder_message"`
	DefaultWaterGoal   int    `yaml:"default_water_goal"`
	DefaultProteinGoal int    `yaml:"default_protein_goal"`
	Debug              bool   `yaml:"debug"`
}

func Default() Config {
	return Config{
		CapacityBytes:      constants.DefaultCapacityBytes,
		ReminderMessage:    constants.DefaultReminderMessage,
		DefaultWaterGoal:   constants.DefaultWaterGoal,
		DefaultProteinGoal: constants.DefaultProteinGoal,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	path, err := ExpandPath(path)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.ReminderMessage == "" {
		cfg.ReminderMessage = constants.DefaultReminderMessage
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.CapacityBytes < 0:
		return errors.New("capacity_bytes cannot be negative")
	case c.RetentionDays < 0:
		return errors.New("retention_days cannot be negative")
	case c.DefaultWaterGoal < 0 || c.DefaultProteinGoal < 0:
		return errors.New("default goals cannot be negative")
	}
	return nil
}

// Save writes c to path, creating the directory if needed.
func Save(path string, c Config) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
