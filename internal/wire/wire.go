// Package wire builds the fetch, aggregation and engine stack from a Config.
// Both the MCP server and the CLI start from Build.
package wire

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/aatrey56/fpl-captain-mcp/internal/aggregate"
	"github.com/aatrey56/fpl-captain-mcp/internal/captaincy"
	"github.com/aatrey56/fpl-captain-mcp/internal/config"
	"github.com/aatrey56/fpl-captain-mcp/internal/fetch"
	"github.com/aatrey56/fpl-captain-mcp/internal/fpl"
	"github.com/aatrey56/fpl-captain-mcp/internal/logging"
	"github.com/aatrey56/fpl-captain-mcp/internal/metrics"
	"github.com/aatrey56/fpl-captain-mcp/internal/store"
)

// Options adjust a single run without touching the config.
type Options struct {
	// Live skips the raw cache entirely: no reads, no writes.
	Live bool
	// Refresh refetches every payload and then updates the cache.
	Refresh bool
}

// Stack is the wired dependency graph. Close releases the cache backend.
type Stack struct {
	Store      store.Store
	Client     *fetch.Client
	Source     *fpl.Source
	Aggregator *aggregate.Aggregator
	Engine     *captaincy.Engine
	Close      func() error
}

func Build(cfg *config.Config, logger *logrus.Logger, m *metrics.Manager, opts Options) (*Stack, error) {
	var (
		st        store.Store
		closeFunc = func() error { return nil }
	)
	if !opts.Live {
		s, c, err := OpenStore(cfg)
		if err != nil {
			return nil, err
		}
		st, closeFunc = s, c
	}

	client := NewClient(cfg, st, m)
	client.DisableWrite = opts.Live

	src := fpl.NewSource(client)
	src.Force = opts.Refresh

	agg := aggregate.New(src, logging.Component(logger, "aggregate"))
	agg.Width = cfg.FetchConcurrency
	agg.Timeout = cfg.FetchTimeout
	agg.Metrics = m

	return &Stack{
		Store:      st,
		Client:     client,
		Source:     src,
		Aggregator: agg,
		Engine:     captaincy.NewEngine(src, agg, logging.Component(logger, "captaincy"), m),
		Close:      closeFunc,
	}, nil
}

// OpenStore returns the raw cache selected by cache_backend. The store is nil
// for "none".
func OpenStore(cfg *config.Config) (store.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.CacheBackend {
	case config.CacheFile:
		return store.NewJSONStore(cfg.RawRoot), noop, nil
	case config.CacheSQLite:
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return s, s.Close, nil
	case config.CacheNone:
		return nil, noop, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown cache_backend %q", config.ErrInvalid, cfg.CacheBackend)
	}
}

// NewClient configures a fetch client from cfg. A zero request_interval
// disables rate limiting.
func NewClient(cfg *config.Config, st store.Store, m *metrics.Manager) *fetch.Client {
	c := fetch.NewClient(st)
	c.BaseURL = cfg.BaseURL
	c.UserAgent = cfg.UserAgent
	c.MaxRetries = cfg.MaxRetries
	c.MaxAge = cfg.CacheMaxAge
	c.Metrics = m
	c.UseCache = st != nil
	c.Limiter = nil
	if cfg.RequestInterval > 0 {
		c.Limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}
	return c
}
