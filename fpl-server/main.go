package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/aatrey56/fpl-captain-mcp/internal/config"
	"github.com/aatrey56/fpl-captain-mcp/internal/logging"
	"github.com/aatrey56/fpl-captain-mcp/internal/metrics"
)

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func main() {
	envFile := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if envFile != "" {
		logger.WithField("path", envFile).Info("loaded .env")
	}

	if cfg.RequireAuth && strings.TrimSpace(cfg.APIKey) == "" {
		logger.Fatal("FPL_CAPTAIN_API_KEY is required (set it or FPL_CAPTAIN_REQUIRE_AUTH=false)")
	}

	m := metrics.NewManager()
	a, err := newApp(cfg, logger, m)
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}
	defer a.close()

	server, registry := newMCPServer(a)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(a, server, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithFields(logrus.Fields{
		"addr":  cfg.Addr,
		"path":  cfg.MCPPath,
		"cache": cfg.CacheBackend,
		"auth":  cfg.RequireAuth,
	}).Info("MCP HTTP server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server stopped")
	}
}

func newMCPServer(a *app) (*mcp.Server, []toolInfo) {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fpl-captain-mcp",
			Version: "0.1.0",
		},
		nil,
	)

	registry := make([]toolInfo, 0, 4)

	addTool(server, &registry, &mcp.Tool{
		Name:        "captaincy_recommendations",
		Description: "Rank an entry's starting eleven for captaincy with per-signal score breakdowns and reasons",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CaptaincyArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildCaptaincy(ctx, a, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "squad_form",
		Description: "Split an entry's starting eleven into in-form and out-of-form buckets with last-5 point averages",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SquadFormArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildSquadForm(ctx, a, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "player_lookup",
		Description: "Lookup a player by element id or name (team, position, form, threat, availability)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerLookupArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildPlayerLookup(ctx, a, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out), nil, nil
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "next_fixture",
		Description: "Resolve a player's next fixture: opponent, home/away and difficulty (1-5)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerLookupArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildNextFixture(ctx, a, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(out), nil, nil
	})

	return server, registry
}

func newMux(a *app, server *mcp.Server, registry []toolInfo) *http.ServeMux {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	apiKey := ""
	if a.cfg.RequireAuth {
		apiKey = strings.TrimSpace(a.cfg.APIKey)
	}
	withAuth := authMiddleware(apiKey, a.cfg.AuthHeader, a.log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))

	mux.HandleFunc("/tools", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	}))

	mux.HandleFunc("/metrics", withAuth(a.metrics.Handler().ServeHTTP))

	mux.HandleFunc(a.cfg.MCPPath, withAuth(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	return mux
}

// authMiddleware checks the API key from header, falling back to an
// Authorization bearer token. An empty apiKey disables the check.
func authMiddleware(apiKey, header string, log *logrus.Entry) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(header))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				log.WithFields(logrus.Fields{
					"path":   r.URL.Path,
					"remote": r.RemoteAddr,
				}).Warn("unauthorized request")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next(w, r)
		}
	}
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

// toolJSON encodes out as indented JSON. An encoding failure becomes an error
// result rather than an empty success.
func toolJSON(out any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return toolError(fmt.Errorf("encode result: %w", err))
	}
	return toolJSONBytes(b)
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
