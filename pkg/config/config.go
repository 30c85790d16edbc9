/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/stegpng/pkg/compress"
	"github.com/ssargent/stegpng/pkg/pngio"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the stegpng configuration
type Config struct {
	Embedding   Embedding `yaml:"embedding"`
	Compression string    `yaml:"compression"`
	Output      Output    `yaml:"output"`
	Logging     Logging   `yaml:"logging"`
	Metrics     Metrics   `yaml:"metrics"`
}

// Embedding contains the default embedding layout
type Embedding struct {
	BitsPerChannel Bits `yaml:"bits_per_channel"`
	UseAlpha       bool `yaml:"use_alpha"`
	RandomOffset   bool `yaml:"random_offset"`
}

// Bits is a per-channel bit density. AutoBits picks the smallest density
// that fits the payload.
type Bits int

// AutoBits is written as "auto" in config files and on the command line
const AutoBits Bits = 0

// ParseBits accepts "auto" or a non-negative integer
func ParseBits(s string) (Bits, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") {
		return AutoBits, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bits must be auto or a positive integer, got %q", ErrInvalidConfig, s)
	}
	return Bits(n), nil
}

func (b Bits) String() string {
	if b == AutoBits {
		return "auto"
	}
	return strconv.Itoa(int(b))
}

// UnmarshalYAML implements yaml.Unmarshaler
func (b *Bits) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseBits(value.Value)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (b Bits) MarshalYAML() (interface{}, error) {
	if b == AutoBits {
		return "auto", nil
	}
	return int(b), nil
}

// Output controls how carrier images are written
type Output struct {
	PNGCompression string `yaml:"png_compression"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// Metrics contains metrics export configuration
type Metrics struct {
	// Textfile is written in the node_exporter textfile format after each
	// command. Empty disables the export.
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Embedding: Embedding{
			BitsPerChannel: 1,
		},
		Compression: compress.None.String(),
		Output: Output{
			PNGCompression: "default",
		},
		Logging: Logging{
			Level: "warn",
		},
	}
}

// Validate checks that every value can be applied
func (c *Config) Validate() error {
	if c.Embedding.BitsPerChannel < AutoBits || c.Embedding.BitsPerChannel > 16 {
		return fmt.Errorf("%w: bits_per_channel must be auto or between 1 and 16, got %d", ErrInvalidConfig, int(c.Embedding.BitsPerChannel))
	}
	if _, err := compress.ParseType(c.Compression); err != nil {
		return fmt.Errorf("%w: compression: %v", ErrInvalidConfig, err)
	}
	if _, err := pngio.ParseCompressionLevel(c.Output.PNGCompression); err != nil {
		return fmt.Errorf("%w: png_compression: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes the default configuration to configPath. An existing
// file is only replaced when force is set.
func BootstrapConfig(configPath string, force bool) (*Config, error) {
	if ConfigExists(configPath) && !force {
		return nil, fmt.Errorf("config file already exists: %s", configPath)
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./stegpng.yaml"
	}

	// For Linux/macOS, use ~/.config/stegpng/config.yaml
	configDir := filepath.Join(homeDir, ".config", "stegpng")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
