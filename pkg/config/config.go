package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Terrain TerrainConfig `yaml:"terrain"`
	Player  PlayerConfig  `yaml:"player"`
	Network NetworkConfig `yaml:"network"`
	Store   StoreConfig   `yaml:"store"`
	Debug   DebugConfig   `yaml:"debug"`
}

// WindowConfig contains window/render configuration
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	FrameRate int    `yaml:"framerate"`
}

// TerrainConfig controls the procedural arena terrain
type TerrainConfig struct {
	Size      float64 `yaml:"size"`
	Cells     int     `yaml:"cells"`
	Amplitude float64 `yaml:"amplitude"`
	Seed      int64   `yaml:"seed"` // 0 means time-based
}

// PlayerConfig contains character shape and identity
type PlayerConfig struct {
	Name   string  `yaml:"name"`
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

// NetworkConfig contains the arena server connection settings
type NetworkConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServerURL    string  `yaml:"server_url"`
	SendInterval float64 `yaml:"send_interval"` // seconds between position reports
}

// StoreConfig contains persistence settings
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DebugConfig contains diagnostic toggles
type DebugConfig struct {
	ShowCollider bool `yaml:"show_collider"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "arena3d",
			FrameRate: 120,
		},
		Terrain: TerrainConfig{
			Size:      60,
			Cells:     64,
			Amplitude: 1.2,
			Seed:      0,
		},
		Player: PlayerConfig{
			Name:   "player",
			Height: 1.8,
			Radius: 0.3,
		},
		Network: NetworkConfig{
			Enabled:      false,
			ServerURL:    "ws://localhost:8090/ws",
			SendInterval: 0.1,
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    "arena3d.db",
		},
		Debug: DebugConfig{},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error: defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
