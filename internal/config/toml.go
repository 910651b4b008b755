// Package config loads settings from a TOML file and the environment.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig mirrors the TOML config file layout.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Sound    SoundConfig    `toml:"sound"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig covers the [practice] table.
type PracticeConfig struct {
	DelayMin      *int    `toml:"delay-min"`
	DelayMax      *int    `toml:"delay-max"`
	ParryWindowMs *int    `toml:"parry-window"`
	ParryKey      *string `toml:"parry-key"`
	EndOnDeath    *bool   `toml:"end-on-death"`
}

// SoundConfig maps sound-related settings.
type SoundConfig struct {
	Enabled *bool   `toml:"enabled"`
	Command *string `toml:"command"`
	Dir     *string `toml:"dir"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	File   *string `toml:"file"`
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. A missing file
// yields an empty config rather than an error.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, fmt.Errorf("config path is empty")
	}
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
