// Package config loads server configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Defaults is the configuration every file is layered over.
func Defaults() RawConfig {
	addr := ":8080"
	path := "data/forge.json"
	history := 20
	currency := 100
	return RawConfig{
		Version: "1",
		Server:  ServerConfig{Addr: &addr},
		Storage: StorageConfig{Driver: "file", Path: &path, History: &history},
		Game:    GameConfig{StartingCurrency: &currency},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path (a missing file is fine), merges it over Defaults,
// validates, and applies environment overrides.
func Load(path string) (Config, error) {
	fileCfg, err := readYAML(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	raw := mergeRaw(Defaults(), fileCfg)
	if err := ValidateRaw(raw); err != nil {
		return Config{}, err
	}
	cfg := resolve(raw)
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b onto a: every field set in b wins.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.Server.Addr != nil {
		out.Server.Addr = b.Server.Addr
	}
	if b.Storage.Driver != "" {
		out.Storage.Driver = b.Storage.Driver
	}
	if b.Storage.Path != nil {
		out.Storage.Path = b.Storage.Path
	}
	if b.Storage.History != nil {
		out.Storage.History = b.Storage.History
	}
	if b.Game.StartingCurrency != nil {
		out.Game.StartingCurrency = b.Game.StartingCurrency
	}
	if b.Game.Seed != nil {
		out.Game.Seed = b.Game.Seed
	}
	if b.Log.Level != "" {
		out.Log.Level = b.Log.Level
	}
	return out
}

func resolve(raw RawConfig) Config {
	cfg := Config{
		StorageDriver: raw.Storage.Driver,
		LogLevel:      raw.Log.Level,
		Version:       raw.Version,
	}
	if raw.Server.Addr != nil {
		cfg.Addr = *raw.Server.Addr
	}
	if raw.Storage.Path != nil {
		cfg.StoragePath = *raw.Storage.Path
	}
	if raw.Storage.History != nil {
		cfg.History = *raw.Storage.History
	}
	if raw.Game.StartingCurrency != nil {
		cfg.StartingCurrency = *raw.Game.StartingCurrency
	}
	if raw.Game.Seed != nil {
		cfg.Seed = *raw.Game.Seed
	}
	return cfg
}
