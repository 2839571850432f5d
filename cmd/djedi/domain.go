package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/djedi/internal/api"
	"github.com/JaimeStill/djedi/internal/infrastructure"
	"github.com/JaimeStill/djedi/pkg/logging"
)

// logger writes command logs to stderr so stdout carries only results.
func (c *cli) logger(cmd *cobra.Command) *slog.Logger {
	return logging.NewWithWriter(&c.cfg.Logging, cmd.ErrOrStderr())
}

// openDomain connects the database and builds the node domain on top of it.
// The returned func releases the connection.
func (c *cli) openDomain(cmd *cobra.Command) (*api.Domain, func(), error) {
	infra, err := infrastructure.NewWithLogger(c.cfg, c.logger(cmd))
	if err != nil {
		return nil, nil, err
	}
	if err := infra.Start(); err != nil {
		infra.Database.Close()
		return nil, nil, err
	}

	domain := api.NewDomain(api.NewRuntime(c.cfg, infra), &c.cfg.Auth)
	release := func() {
		infra.Lifecycle.Shutdown(c.cfg.ShutdownTimeoutDuration())
	}
	return domain, release, nil
}
