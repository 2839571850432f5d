package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/djedi/internal/migrations"
	"github.com/JaimeStill/djedi/internal/server"
)

func (c *cli) newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrate {
				if err := migrations.Up(&c.cfg.Database, c.logger(cmd)); err != nil {
					return err
				}
			}
			return c.runServe()
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")

	return cmd
}

func (c *cli) runServe() error {
	srv, err := server.New(c.cfg)
	if err != nil {
		return fmt.Errorf("service init failed: %w", err)
	}

	if err := srv.Start(); err != nil {
		return fmt.Errorf("service start failed: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(c.cfg.ShutdownTimeoutDuration()); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
