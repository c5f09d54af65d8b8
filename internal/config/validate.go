package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// ValidateRaw checks semantic constraints of a merged RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	switch cfg.Storage.Driver {
	case "file", "sqlite":
		if cfg.Storage.Path == nil || strings.TrimSpace(*cfg.Storage.Path) == "" {
			errs = append(errs, "storage.path is required for driver="+cfg.Storage.Driver)
		}
	case "memory":
	default:
		errs = append(errs, "storage.driver must be one of: file, sqlite, memory")
	}
	if cfg.Storage.History != nil && *cfg.Storage.History < 1 {
		errs = append(errs, "storage.history must be >= 1")
	}
	if cfg.Game.StartingCurrency != nil && *cfg.Game.StartingCurrency < 0 {
		errs = append(errs, "game.starting_currency must be >= 0")
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, "log.level must be one of: debug, info, warn, error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate re-checks a resolved Config after environment overrides.
func Validate(cfg Config) error {
	var errs []string
	switch cfg.StorageDriver {
	case "file", "sqlite":
		if strings.TrimSpace(cfg.StoragePath) == "" {
			errs = append(errs, "storage path is required for driver="+cfg.StorageDriver)
		}
	case "memory":
	default:
		errs = append(errs, "storage driver must be one of: file, sqlite, memory")
	}
	if cfg.History < 1 {
		errs = append(errs, "storage history must be >= 1")
	}
	if cfg.StartingCurrency < 0 {
		errs = append(errs, "starting currency must be >= 0")
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ParseLevel maps a level name onto slog levels. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
