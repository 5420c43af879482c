package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvOutputPath   = "CONVERSION_OUTPUT_PATH"
	EnvRaiseOnError = "CONVERSION_RAISE_ON_ERROR"
)

// Config holds the default output policy shared by builds.
//
// It is safe for concurrent use. Builds keep a handle to it and read
// RaiseOnError at each failure, so a change is seen by in-flight runs.
type Config struct {
	mu           sync.RWMutex
	outputPath   string
	raiseOnError bool
}

// Default returns a Config writing to the system temp directory and failing fast.
func Default() *Config {
	return &Config{
		outputPath:   os.TempDir(),
		raiseOnError: true,
	}
}

var (
	sharedOnce sync.Once
	shared     *Config
)

// Shared returns the process-wide Config, created on first use.
func Shared() *Config {
	sharedOnce.Do(func() {
		shared = Default()
	})
	return shared
}

// Load reads .env (if present) and applies environment overrides on top of Default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if raw, ok := os.LookupEnv(EnvOutputPath); ok {
		cfg.SetOutputPath(strings.TrimSpace(raw))
	}

	if raw := strings.TrimSpace(os.Getenv(EnvRaiseOnError)); raw != "" {
		raise, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("%s must be a boolean: %q", EnvRaiseOnError, raw)
		}
		cfg.SetRaiseOnError(raise)
	}

	return cfg, nil
}

// OutputPath returns the default output directory; empty means no default.
func (c *Config) OutputPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.outputPath
}

// SetOutputPath replaces the default output directory. An empty path clears it.
func (c *Config) SetOutputPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputPath = path
}

// RaiseOnError reports whether failures abort a run.
func (c *Config) RaiseOnError() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.raiseOnError
}

// SetRaiseOnError switches between fail-fast and collect-all.
func (c *Config) SetRaiseOnError(raise bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raiseOnError = raise
}
