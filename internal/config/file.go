package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "config.yaml"

// FileConfig represents the configuration file structure
type FileConfig struct {
	// ClaudeBinary overrides the AI CLI executable
	ClaudeBinary string `yaml:"claude_binary,omitempty"`

	// Skip appends entries to the interception skip-list
	Skip []string `yaml:"skip,omitempty"`

	// Defaults holds default flag values
	Defaults *DefaultsConfig `yaml:"defaults,omitempty"`
}

// DefaultsConfig holds default flag values
type DefaultsConfig struct {
	Render bool   `yaml:"render,omitempty"`
	Debug  string `yaml:"debug,omitempty"`
}

// GetConfigPaths returns the paths to check for config files (in order of
// priority)
func GetConfigPaths() []string {
	var paths []string

	paths = append(paths, filepath.Join(".", ".ai-shell", ConfigFileName))

	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "ai-shell", ConfigFileName))
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "ai-shell", ConfigFileName))
	}

	return paths
}

// LoadConfigFile attempts to load configuration from the first file found.
func LoadConfigFile() (*FileConfig, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return loadConfigFromPath(path)
		}
	}
	return &FileConfig{}, nil
}

func loadConfigFromPath(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// applyFileConfig applies file configuration beneath env vars and flags.
func (c *Config) applyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if c.ClaudeBinary == "" && os.Getenv(EnvClaudeBin) == "" && fc.ClaudeBinary != "" {
		c.ClaudeBinary = fc.ClaudeBinary
	}

	c.SkipList = append(c.SkipList, fc.Skip...)

	if fc.Defaults != nil {
		if fc.Defaults.Render {
			c.Render = true
		}
		if c.DebugLevel == "" && os.Getenv(EnvDebug) == "" {
			c.DebugLevel = fc.Defaults.Debug
		}
	}
}
