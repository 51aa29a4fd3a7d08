// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play  PlayConfig  `toml:"play"`
	Rules RulesConfig `toml:"rules"`
	Serve ServeConfig `toml:"serve"`
}

// PlayConfig maps board and player settings.
type PlayConfig struct {
	Player     *string `toml:"player"`
	Width      *int    `toml:"width"`
	Height     *int    `toml:"height"`
	SpawnEvery *string `toml:"spawn-every"`
	FallEvery  *string `toml:"fall-every"`
}

// RulesConfig maps scoring rule settings.
type RulesConfig struct {
	ComboWindowMs *int64 `toml:"combo-window-ms"`
	ComboCap      *int   `toml:"combo-cap"`
	ComboBonus    *int   `toml:"combo-bonus"`
	DefaultValue  *int   `toml:"default-value"`
}

// ServeConfig maps SSH server settings.
type ServeConfig struct {
	Host    *string `toml:"host"`
	Port    *string `toml:"port"`
	HostKey *string `toml:"host-key"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
