package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig maps environment variable overrides. Unset variables leave
// the pointers nil.
type EnvConfig struct {
	DelayMin      *int    `env:"DEADLOCK_PARRY_DELAY_MIN"`
	DelayMax      *int    `env:"DEADLOCK_PARRY_DELAY_MAX"`
	ParryWindowMs *int    `env:"DEADLOCK_PARRY_PARRY_WINDOW"`
	ParryKey      *string `env:"DEADLOCK_PARRY_PARRY_KEY"`
	EndOnDeath    *bool   `env:"DEADLOCK_PARRY_END_ON_DEATH"`
	SoundEnabled  *bool   `env:"DEADLOCK_PARRY_SOUND_ENABLED"`
	SoundCommand  *string `env:"DEADLOCK_PARRY_SOUND_COMMAND"`
	SoundDir      *string `env:"DEADLOCK_PARRY_SOUND_DIR"`
	LogFile       *string `env:"DEADLOCK_PARRY_LOG_FILE"`
	LogLevel      *string `env:"DEADLOCK_PARRY_LOG_LEVEL"`
	LogFormat     *string `env:"DEADLOCK_PARRY_LOG_FORMAT"`
	DBPath        *string `env:"DEADLOCK_PARRY_DB_PATH"`
	ConfigPath    *string `env:"DEADLOCK_PARRY_CONFIG"`
}

// ParseEnv loads configuration overrides from the environment.
func ParseEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
