package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/aatrey56/fpl-captain-mcp/internal/metrics"
	"github.com/aatrey56/fpl-captain-mcp/internal/store"
)

const (
	DefaultBaseURL   = "https://fantasy.premierleague.com/api"
	DefaultUserAgent = "fpl-captain/1.0"

	maxBackoff = 16 * time.Second
)

// ErrStatus marks a non-2xx upstream response.
var ErrStatus = errors.New("unexpected upstream status")

type Client struct {
	HTTP         *http.Client
	Store        store.Store
	Metrics      *metrics.Manager
	Limiter      *rate.Limiter
	BaseURL      string
	UserAgent    string
	MaxRetries   int
	Backoff      time.Duration
	MaxAge       time.Duration
	PrettyWrite  bool
	UseCache     bool
	DisableWrite bool
}

func NewClient(st store.Store) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 20 * time.Second},
		Store:       st,
		Limiter:     rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
		BaseURL:     DefaultBaseURL,
		UserAgent:   DefaultUserAgent,
		MaxRetries:  2,
		Backoff:     500 * time.Millisecond,
		PrettyWrite: true,
		UseCache:    true,
	}
}

// FetchRaw downloads urlPath (like "/bootstrap-static/") and writes it to
// relPath. Returns raw bytes (from cache or network). endpoint labels the
// request in metrics.
func (c *Client) FetchRaw(ctx context.Context, endpoint, urlPath, relPath string, force bool) ([]byte, error) {
	if !force && c.UseCache && c.Store != nil && store.Fresh(c.Store, relPath, c.MaxAge, time.Now()) {
		if b, err := c.Store.ReadRaw(relPath); err == nil {
			c.Metrics.ObserveUpstream(endpoint, metrics.OutcomeCache, 0)
			return b, nil
		}
	}

	start := time.Now()
	body, err := c.get(ctx, urlPath)
	if err != nil {
		c.Metrics.ObserveUpstream(endpoint, metrics.OutcomeError, time.Since(start))
		return nil, err
	}
	c.Metrics.ObserveUpstream(endpoint, metrics.OutcomeOK, time.Since(start))

	if !c.DisableWrite && c.Store != nil {
		if err := c.Store.WriteRaw(relPath, body, c.PrettyWrite); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// get performs the GET with rate limiting, retrying network errors, 429s and
// 5xx responses with exponential backoff.
func (c *Client) get(ctx context.Context, urlPath string) ([]byte, error) {
	backoff := c.Backoff
	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff = min(backoff*2, maxBackoff)
		}
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		body, retry, err := c.do(ctx, urlPath)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, fmt.Errorf("GET %s: retries exhausted: %w", urlPath, lastErr)
}

func (c *Client) do(ctx context.Context, urlPath string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+urlPath, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, err
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("GET %s: %w %d body=%s", urlPath, ErrStatus, resp.StatusCode, string(body))
	}
	return body, false, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
