// Package config loads and validates the YAML startup configuration
// for the synthio CLI. Nothing here runs on the audio thread.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level startup document.
type Config struct {
	SampleRate   float32 `yaml:"sample_rate" validate:"required,oneof=44100 48000 88200 96000"`
	NodeCapacity int     `yaml:"node_capacity" validate:"required,min=17"`
	OutputDevice string  `yaml:"output_device"`
	RecordPath   string  `yaml:"record_path"`
}

var validate = validator.New()

// Default returns the configuration the CLI falls back to when no
// file is given.
func Default() Config {
	return Config{
		SampleRate:   44100,
		NodeCapacity: 64,
	}
}

// Load reads path, parses it as YAML over the default configuration,
// and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field's documented constraints and, if a
// recording path is set, that its directory exists and is a directory.
// Whether the directory is writable is not checked.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	if c.RecordPath != "" {
		dir := filepath.Dir(c.RecordPath)
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("config: record_path directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("config: record_path directory %s is not a directory", dir)
		}
	}
	return nil
}
