package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/aatrey56/fpl-captain-mcp/internal/config"
	"github.com/aatrey56/fpl-captain-mcp/internal/logging"
	"github.com/aatrey56/fpl-captain-mcp/internal/metrics"
	"github.com/aatrey56/fpl-captain-mcp/internal/squadform"
	"github.com/aatrey56/fpl-captain-mcp/internal/wire"
)

func main() {
	var (
		entryID   = flag.Int("entry", 0, "classic FPL entry id (required)")
		gw        = flag.Int("gw", 0, "gameweek (0 = current)")
		squadForm = flag.Bool("squad-form", false, "print the in-form/out-of-form split instead of captaincy picks")
		sortKey   = flag.String("sort", "form", "squad form order: form|position|average")
		top       = flag.Int("top", 0, "print only the top N captaincy candidates (0 = all)")
		live      = flag.Bool("live", false, "disable cache reads and disk writes")
		refresh   = flag.Bool("refresh", false, "refetch every payload, then update the cache")
	)
	flag.Parse()

	config.LoadDotEnv()
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
	if *entryID <= 0 {
		logger.Fatal("-entry is required")
	}
	key, err := squadform.ParseSortKey(*sortKey)
	if err != nil {
		logger.WithError(err).Fatal("invalid -sort")
	}

	stack, err := wire.Build(cfg, logger, metrics.NewManager(), wire.Options{Live: *live, Refresh: *refresh})
	if err != nil {
		logger.WithError(err).Fatal("wire engine")
	}
	defer stack.Close()
	engine := stack.Engine

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var out any
	if *squadForm {
		r, err := engine.SquadForm(ctx, *entryID, *gw)
		if err != nil {
			logger.WithError(err).Fatal("squad form failed")
		}
		r.Report = r.Report.Sorted(key)
		out = r
	} else {
		r, err := engine.RecommendForEntry(ctx, *entryID, *gw)
		if err != nil {
			logger.WithError(err).Fatal("captaincy failed")
		}
		if *top > 0 && *top < len(r.Recommendations) {
			r.Recommendations = r.Recommendations[:*top]
		}
		logger.WithFields(logrus.Fields{
			"entry":   r.EntryID,
			"gw":      r.Gameweek,
			"captain": r.RecommendedCaptain,
			"change":  r.ChangeSuggested,
		}).Info("captaincy ranked")
		out = r
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.WithError(err).Fatal("write output")
	}
}
