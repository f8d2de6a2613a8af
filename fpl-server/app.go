package main

import (
	"github.com/sirupsen/logrus"

	"github.com/aatrey56/fpl-captain-mcp/internal/captaincy"
	"github.com/aatrey56/fpl-captain-mcp/internal/config"
	"github.com/aatrey56/fpl-captain-mcp/internal/fpl"
	"github.com/aatrey56/fpl-captain-mcp/internal/logging"
	"github.com/aatrey56/fpl-captain-mcp/internal/metrics"
	"github.com/aatrey56/fpl-captain-mcp/internal/wire"
)

// app holds the wired dependencies shared by every tool.
type app struct {
	cfg     *config.Config
	log     *logrus.Entry
	metrics *metrics.Manager
	source  *fpl.Source
	engine  *captaincy.Engine
	close   func() error
}

func newApp(cfg *config.Config, logger *logrus.Logger, m *metrics.Manager) (*app, error) {
	stack, err := wire.Build(cfg, logger, m, wire.Options{})
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		log:     logging.Component(logger, "server"),
		metrics: m,
		source:  stack.Source,
		engine:  stack.Engine,
		close:   stack.Close,
	}, nil
}
