// Package config defines service configuration and its loading.
//
// Values are layered (low to high precedence): New() defaults, an optional
// YAML file named by FPL_CAPTAIN_CONFIG, and FPL_CAPTAIN_* environment
// variables.
package config

import (
	"time"

	"github.com/aatrey56/fpl-captain-mcp/internal/fetch"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheSQLite = "sqlite"
	CacheNone   = "none"
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MCPPath is the HTTP path the MCP endpoint is mounted on.
	MCPPath string `koanf:"mcp_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// BaseURL and UserAgent configure the upstream FPL API client.
	BaseURL   string `koanf:"base_url"`
	UserAgent string `koanf:"user_agent"`

	// CacheBackend selects the raw response cache: file, sqlite or none.
	CacheBackend string `koanf:"cache_backend"`
	RawRoot      string `koanf:"raw_root"`
	SQLitePath   string `koanf:"sqlite_path"`

	// CacheMaxAge is how long a cached response is served before refetching.
	// Zero never expires.
	CacheMaxAge time.Duration `koanf:"cache_max_age"`

	// FetchConcurrency bounds in-flight player detail fetches.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// FetchTimeout bounds one player's detail fetch. Zero disables it.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// RequestInterval is the minimum spacing between upstream requests.
	RequestInterval time.Duration `koanf:"request_interval"`

	// MaxRetries is the retry budget for 429/5xx and network errors.
	MaxRetries int `koanf:"max_retries"`

	// RequireAuth, AuthHeader and APIKey guard the MCP endpoint.
	RequireAuth bool   `koanf:"require_auth"`
	AuthHeader  string `koanf:"auth_header"`
	APIKey      string `koanf:"api_key"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Addr:             ":8080",
		MCPPath:          "/mcp",
		LogLevel:         "info",
		LogFormat:        "text",
		BaseURL:          fetch.DefaultBaseURL,
		UserAgent:        fetch.DefaultUserAgent,
		CacheBackend:     CacheFile,
		RawRoot:          "data/raw",
		SQLitePath:       "data/cache.db",
		CacheMaxAge:      30 * time.Minute,
		FetchConcurrency: 5,
		FetchTimeout:     15 * time.Second,
		RequestInterval:  250 * time.Millisecond,
		MaxRetries:       2,
		RequireAuth:      true,
		AuthHeader:       "X-API-Key",
	}
}
