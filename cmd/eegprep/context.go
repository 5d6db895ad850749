package main

import (
	"context"
	"strings"
	"sync"

	"eegprep/internal/batch"
	"eegprep/internal/config"
	"eegprep/internal/infrastructure"
)

// commandContext lazily loads configuration and initializes logging once
// per invocation, shared by every subcommand.
type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	setupOnce    sync.Once
	config       *config.Config
	orchestrator *batch.Orchestrator
	setupErr     error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

// setup loads the configuration, applies command-line overrides and
// initializes the logger and orchestrator.
func (c *commandContext) setup() error {
	c.setupOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.setupErr = err
			return
		}
		if c.logLevelFlag != nil && *c.logLevelFlag != "" {
			cfg.Logging.Level = *c.logLevelFlag
		}
		logger, err := infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			c.setupErr = err
			return
		}
		c.config = cfg
		c.orchestrator = batch.New(cfg, logger)
	})
	return c.setupErr
}

// runContext tags the command context with a fresh run ID for log
// correlation.
func (c *commandContext) runContext(ctx context.Context) context.Context {
	return infrastructure.WithRunID(ctx, infrastructure.NewRunID())
}
