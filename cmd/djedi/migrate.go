package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/djedi/internal/migrations"
)

func (c *cli) newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the node schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrations.Up(&c.cfg.Database, c.logger(cmd))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrations.Down(&c.cfg.Database, c.logger(cmd))
		},
	})

	return cmd
}
