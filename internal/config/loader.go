package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "FPL_CAPTAIN_"
	EnvConfig = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FPL_CAPTAIN_CONFIG is set
//  3. env (prefix FPL_CAPTAIN_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
		}
	}

	// FPL_CAPTAIN_CACHE_MAX_AGE -> cache_max_age
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoad, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalid)
	case !strings.HasPrefix(c.MCPPath, "/"):
		return fmt.Errorf("%w: mcp_path must start with /", ErrInvalid)
	case c.BaseURL == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalid)
	case c.FetchConcurrency < 1:
		return fmt.Errorf("%w: fetch_concurrency must be at least 1", ErrInvalid)
	case c.FetchTimeout < 0 || c.CacheMaxAge < 0 || c.RequestInterval < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalid)
	case c.MaxRetries < 0:
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalid)
	}
	switch c.CacheBackend {
	case CacheFile:
		if c.RawRoot == "" {
			return fmt.Errorf("%w: raw_root is required for the file cache", ErrInvalid)
		}
	case CacheSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path is required for the sqlite cache", ErrInvalid)
		}
	case CacheNone:
	default:
		return fmt.Errorf("%w: unknown cache_backend %q", ErrInvalid, c.CacheBackend)
	}
	return nil
}

// LoadDotEnv loads the first .env file found in paths into the process
// environment without overriding variables that are already set. It returns
// the path loaded, or "" when none was found.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env", "../.env", "../../.env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}
