// Package config loads ai-shell configuration from the environment and an
// optional config file. Precedence: CLI flags, then environment variables,
// then the config file, then built-in defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quocvuong92/ai-shell/internal/constants"
)

// Environment variable names
const (
	// EnvClaudeBin substitutes the Claude CLI binary. Tests point it at a
	// deterministic fake so the pipeline runs without the live service.
	EnvClaudeBin = "AI_SHELL_CLAUDE_BIN"

	// EnvSkipList adds comma-separated entries to the interception
	// skip-list.
	EnvSkipList = "AI_SHELL_SKIP"

	// EnvDebug enables diagnostic logging to the state directory. Accepts
	// a level name; "1" means debug.
	EnvDebug = "AI_SHELL_DEBUG"

	// EnvRender enables markdown re-rendering of completed answers.
	EnvRender = "AI_SHELL_RENDER"
)

// Config holds the application configuration
type Config struct {
	// ClaudeBinary is the AI CLI executable name or path
	ClaudeBinary string

	// SkipList holds first tokens never routed to the AI
	SkipList []string

	// Render re-renders the completed answer as styled markdown
	Render bool

	// DebugLevel is the diagnostic log level name, empty when disabled
	DebugLevel string

	// Timeouts
	QueryTimeout time.Duration
	LoginTimeout time.Duration
	GracePeriod  time.Duration
}

// NewConfig creates a Config with zero values; call Validate to populate
// it.
func NewConfig() *Config {
	return &Config{}
}

// Validate fills the config from file, environment, and defaults. Flags
// set before the call are left alone.
func (c *Config) Validate() error {
	// Config file first (lowest priority). Load errors are ignored; env
	// and flags always work without a file.
	if fc, err := LoadConfigFile(); err == nil {
		c.applyFileConfig(fc)
	}

	if c.ClaudeBinary == "" {
		c.ClaudeBinary = os.Getenv(EnvClaudeBin)
	}
	if c.ClaudeBinary == "" {
		c.ClaudeBinary = constants.DefaultClaudeBinary
	}

	c.SkipList = append(c.SkipList, constants.DefaultSkipList...)
	c.SkipList = append(c.SkipList, splitList(os.Getenv(EnvSkipList))...)

	if !c.Render {
		c.Render = boolEnv(EnvRender)
	}

	if c.DebugLevel == "" {
		if v := os.Getenv(EnvDebug); v != "" {
			if v == "1" || strings.EqualFold(v, "true") {
				c.DebugLevel = "debug"
			} else {
				c.DebugLevel = v
			}
		}
	}

	if c.QueryTimeout == 0 {
		c.QueryTimeout = constants.DefaultQueryTimeout
	}
	if c.LoginTimeout == 0 {
		c.LoginTimeout = constants.DefaultLoginTimeout
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = constants.DefaultGracePeriod
	}

	return nil
}

// ShouldSkip reports whether the first token of an unresolved command is
// on the skip-list. Entries match exactly or as * glob patterns.
func (c *Config) ShouldSkip(first string) bool {
	for _, entry := range c.SkipList {
		if matchSkipEntry(first, entry) {
			return true
		}
	}
	return false
}

// StateDir returns the per-user state directory used for diagnostic logs.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "ai-shell"), nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func boolEnv(name string) bool {
	v := os.Getenv(name)
	return v == "1" || strings.EqualFold(v, "true")
}
