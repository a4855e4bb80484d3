// Package config loads lrcvis settings from a TOML file with embedded
// defaults. A handful of environment variables override the file for
// quick one-off runs.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Player     PlayerConfig     `toml:"player"`
	Visualizer VisualizerConfig `toml:"visualizer"`
	Puller     PullerConfig     `toml:"puller"`
	Processor  ProcessorConfig  `toml:"processor"`
}

// PlayerConfig selects which MPRIS player to follow.
type PlayerConfig struct {
	Service string `toml:"service"`
}

// VisualizerConfig contains viewer settings.
type VisualizerConfig struct {
	LyricsDir   string  `toml:"lyrics_dir"`
	SyncOffset  float64 `toml:"sync_offset"`
	WordLevel   bool    `toml:"word_level"`
	Simple      bool    `toml:"simple"`
	RefreshRate float64 `toml:"refresh_rate"`
	Font        string  `toml:"font"`
}

// PullerConfig contains lyrics download settings.
type PullerConfig struct {
	OutputDir  string  `toml:"output_dir"`
	Overwrite  bool    `toml:"overwrite"`
	AllowPlain bool    `toml:"allow_plain"`
	Retries    int     `toml:"retries"`
	Backoff    float64 `toml:"backoff"`
}

// ProcessorConfig contains phrase splitting settings.
type ProcessorConfig struct {
	MaxPhraseDuration float64 `toml:"max_phrase_duration"`
	MinPhraseDuration float64 `toml:"min_phrase_duration"`
	MaxWordsPerPhrase int     `toml:"max_words_per_phrase"`
	SplitOnCommas     bool    `toml:"split_on_commas"`
}

// Default returns a Config built from the embedded example file.
func Default() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// LoadFile reads and parses a TOML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Load resolves the config from the default path when it exists, falls
// back to embedded defaults, and applies environment overrides either
// way.
func Load() (*Config, error) {
	config := Default()

	path := DefaultPath()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	config.applyEnv()
	return config, nil
}

// DefaultPath is the conventional config location under XDG config.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "lrcvis", "config.toml")
}

// WriteExample creates a starter config file at the given path.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Player.Service = getEnvOrDefault("MPRIS_SERVICE", c.Player.Service)
	c.Visualizer.LyricsDir = getEnvOrDefault("LRC_DIR", c.Visualizer.LyricsDir)
}

func getEnvOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
