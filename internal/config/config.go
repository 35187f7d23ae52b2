// Package config holds the operator-facing server configuration. Game
// balance values live in data/config.json and are loaded by the catalog.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RednibCoding/mudden/internal/logger"
)

// ServerConfig holds server-wide configuration settings.
type ServerConfig struct {
	// Listen is the address the websocket listener binds to.
	Listen    string          `yaml:"listen"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Paths     PathsConfig     `yaml:"paths"`
	Logging   logger.Config   `yaml:"logging"`
}

// WebSocketConfig holds websocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins lists origins allowed to connect. Empty enforces
	// same-origin; "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum inbound message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// PathsConfig holds the data and persistence roots.
type PathsConfig struct {
	// DataDir is the static content root (config.json, locations/, ...).
	DataDir string `yaml:"data_dir"`

	// PlayersDir is where per-player records are written.
	PlayersDir string `yaml:"players_dir"`
}

// DefaultConfig returns a ServerConfig with usable defaults.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Listen: ":4000",
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{},
			MaxMessageSize: 4096,
		},
		Paths: PathsConfig{
			DataDir:    "data",
			PlayersDir: "players",
		},
		Logging: logger.DefaultConfig(),
	}
}

// Load reads a ServerConfig from a YAML file, fills unset fields with
// defaults, and applies environment overrides.
func Load(path string) (*ServerConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies MUDDEN_* environment overrides. The environment supplies
// the listening address and optional data roots.
func (c *ServerConfig) applyEnv() {
	if addr := os.Getenv("MUDDEN_ADDR"); addr != "" {
		c.Listen = addr
	}
	if dir := os.Getenv("MUDDEN_DATA_DIR"); dir != "" {
		c.Paths.DataDir = dir
	}
	if dir := os.Getenv("MUDDEN_PLAYERS_DIR"); dir != "" {
		c.Paths.PlayersDir = dir
	}
}

// FromEnv returns the default configuration with environment overrides
// applied, for running without a config file.
func FromEnv() *ServerConfig {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}
