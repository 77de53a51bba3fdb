package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "EGGSIM_"

// ErrInvalid marks a configuration value outside its accepted range.
var ErrInvalid = errors.New("invalid config")

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Transport TransportConfig `yaml:"transport" envPrefix:"TRANSPORT_"`
	Storage   StorageConfig   `yaml:"storage" envPrefix:"STORAGE_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Game      GameConfig      `yaml:"game" envPrefix:"GAME_"`
	Metrics   MetricsConfig   `yaml:"metrics" envPrefix:"METRICS_"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"HOST"`
	Port int    `yaml:"port" env:"PORT"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"MODE"` // stdio or http
}

type StorageConfig struct {
	Backend       string        `yaml:"backend" env:"BACKEND"` // sqlite or redis
	DBPath        string        `yaml:"db_path" env:"DB_PATH"`
	HistoryDepth  int           `yaml:"history_depth" env:"HISTORY_DEPTH"`
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB"`
	RedisTTL      time.Duration `yaml:"redis_ttl" env:"REDIS_TTL"`
	Slot          string        `yaml:"slot" env:"SLOT"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	Path  string `yaml:"path" env:"PATH"`
}

// GameConfig tunes the host loop. A zero AutosaveInterval keeps the catalog value.
type GameConfig struct {
	CatalogPath      string        `yaml:"catalog_path" env:"CATALOG_PATH"`
	TickRate         time.Duration `yaml:"tick_rate" env:"TICK_RATE"`
	MaxFrameDelta    time.Duration `yaml:"max_frame_delta" env:"MAX_FRAME_DELTA"`
	AutosaveInterval time.Duration `yaml:"autosave_interval" env:"AUTOSAVE_INTERVAL"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Path    string `yaml:"path" env:"PATH"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Storage: StorageConfig{
			Backend:      "sqlite",
			DBPath:       "eggsim.db",
			HistoryDepth: 10,
			RedisAddr:    "localhost:6379",
			RedisTTL:     90 * 24 * time.Hour,
			Slot:         "default",
		},
		Log: LogConfig{
			Level: "info",
		},
		Game: GameConfig{
			TickRate:      time.Second / 60,
			MaxFrameDelta: 100 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// Precedence: defaults, then the file named by EGGSIM_CONFIG_PATH, then EGGSIM_* variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Transport.Mode != "stdio" && c.Transport.Mode != "http" {
		return fmt.Errorf("%w: transport mode %q (want stdio or http)", ErrInvalid, c.Transport.Mode)
	}
	if c.Transport.Mode == "http" && (c.Server.Port < 1 || c.Server.Port > 65535) {
		return fmt.Errorf("%w: server port %d (must be 1-65535)", ErrInvalid, c.Server.Port)
	}
	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("%w: storage db_path is required for sqlite", ErrInvalid)
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("%w: storage redis_addr is required for redis", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: storage backend %q (want sqlite or redis)", ErrInvalid, c.Storage.Backend)
	}
	if c.Storage.Slot == "" {
		return fmt.Errorf("%w: storage slot is required", ErrInvalid)
	}
	if c.Storage.HistoryDepth < 0 || c.Storage.RedisTTL < 0 {
		return fmt.Errorf("%w: storage history_depth and redis_ttl must be non-negative", ErrInvalid)
	}
	if c.Game.TickRate <= 0 || c.Game.MaxFrameDelta <= 0 || c.Game.AutosaveInterval < 0 {
		return fmt.Errorf("%w: game tick_rate and max_frame_delta must be positive", ErrInvalid)
	}
	return nil
}
