package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/djedi/internal/api"
	"github.com/JaimeStill/djedi/internal/infrastructure"
)

func (c *cli) newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the REST routing table",
		Args:  cobra.NoArgs,
		RunE:  c.runRoutes,
	}
}

// runRoutes builds the API module without connecting to the database and
// prints each route with the path its name reverses to.
func (c *cli) runRoutes(cmd *cobra.Command, args []string) error {
	infra, err := infrastructure.NewWithLogger(c.cfg, c.logger(cmd))
	if err != nil {
		return err
	}
	defer infra.Database.Close()

	m, err := api.NewModule(c.cfg, infra)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMETHOD\tPATTERN\tREVERSE")
	for _, e := range m.Routes.Entries() {
		reverse, err := m.Routes.Reverse(e.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Method, e.Pattern, reverse)
	}
	return tw.Flush()
}
