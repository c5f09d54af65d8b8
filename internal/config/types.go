// types.go
package config

// RawConfig is the YAML file layout. Pointer fields distinguish "unset"
// from zero so files can be layered over defaults.
type RawConfig struct {
	Version string        `yaml:"version"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Game    GameConfig    `yaml:"game"`
	Log     LogConfig     `yaml:"log"`
	Notes   string        `yaml:"notes,omitempty"`
}

type ServerConfig struct {
	Addr *string `yaml:"addr"`
}

type StorageConfig struct {
	Driver  string  `yaml:"driver"` // "file" | "sqlite" | "memory"
	Path    *string `yaml:"path,omitempty"`
	History *int    `yaml:"history,omitempty"` // sqlite only
}

type GameConfig struct {
	StartingCurrency *int    `yaml:"starting_currency"`
	Seed             *uint64 `yaml:"seed,omitempty"` // 0 or unset -> crypto RNG
}

type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Config is the resolved configuration used by the binaries.
// Environment variables override file values.
type Config struct {
	Addr             string `env:"FORGE_ADDR"`
	StorageDriver    string `env:"FORGE_STORAGE_DRIVER"`
	StoragePath      string `env:"FORGE_STORAGE_PATH"`
	History          int    `env:"FORGE_STORAGE_HISTORY"`
	StartingCurrency int    `env:"FORGE_STARTING_CURRENCY"`
	Seed             uint64 `env:"FORGE_SEED"`
	LogLevel         string `env:"FORGE_LOG_LEVEL"`
	Version          string // effective config version for tracing
}
