// Command djedi runs the content node service and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/djedi/internal/config"
)

// cli carries state shared by all subcommands.
type cli struct {
	configPath string
	cfg        *config.Config
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "djedi",
		Short: "Djedi content node service",
		Long: `djedi serves the REST endpoints that resolve content nodes and embed the
CMS toolbar, and manages the node store behind them.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Configuration file (default config.toml)")

	rootCmd.AddCommand(c.newServeCommand())
	rootCmd.AddCommand(c.newMigrateCommand())
	rootCmd.AddCommand(c.newSeedCommand())
	rootCmd.AddCommand(c.newNodeCommand())
	rootCmd.AddCommand(c.newRoutesCommand())
	rootCmd.AddCommand(c.newTokenCommand())

	return rootCmd
}

func (c *cli) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}
