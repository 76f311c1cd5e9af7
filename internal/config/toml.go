// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz   QuizConfig   `toml:"quiz"`
	Data   DataConfig   `toml:"data"`
	Server ServerConfig `toml:"server"`
}

// QuizConfig maps question-related settings.
type QuizConfig struct {
	Dataset          *string  `toml:"dataset"`
	MaxCP            *int     `toml:"max-cp"`
	LevelCap         *float64 `toml:"level-cap"`
	AttackComparison *float64 `toml:"attack-comparison"`
	FastAttack       *float64 `toml:"fast-attack"`
	ChargedMove      *float64 `toml:"charged-move"`
	Seed             *int64   `toml:"seed"`
	FocusWeak        *bool    `toml:"focus-weak"`
	WeakTop          *int     `toml:"weak-top"`
	WeakFactor       *float64 `toml:"weak-factor"`
}

// DataConfig maps data file locations.
type DataConfig struct {
	Dir         *string `toml:"dir"`
	DatasetsDir *string `toml:"datasets-dir"`
}

// ServerConfig maps HTTP shell settings.
type ServerConfig struct {
	Addr              *string `toml:"addr"`
	RedisAddr         *string `toml:"redis-addr"`
	SessionTTLMinutes *int    `toml:"session-ttl-minutes"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
