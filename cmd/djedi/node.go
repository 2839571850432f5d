package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/djedi/internal/nodes"
)

func (c *cli) newNodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Inspect and manage stored nodes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <uri>",
		Short: "Print a node: the version in the URI, or the published one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withNodes(cmd, func(sys nodes.System) error {
				node, err := sys.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s#%s\n%s\n", node.Key, node.Version, node.Content)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "versions <uri>",
		Short: "List every stored version of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withNodes(cmd, func(sys nodes.System) error {
				versions, err := sys.Versions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tPLUGIN\tPUBLISHED\tMODIFIED")
				for _, n := range versions {
					fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", n.Version, n.Plugin, n.Published, n.ModifiedAt.Format("2006-01-02 15:04:05"))
				}
				return tw.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "publish <uri#version>",
		Short: "Publish a node version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withNodes(cmd, func(sys nodes.System) error {
				node, err := sys.Publish(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "published %s#%s\n", node.Key, node.Version)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <uri#version>",
		Short: "Delete a node version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withNodes(cmd, func(sys nodes.System) error {
				if err := sys.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

func (c *cli) withNodes(cmd *cobra.Command, fn func(nodes.System) error) error {
	domain, release, err := c.openDomain(cmd)
	if err != nil {
		return err
	}
	defer release()
	return fn(domain.Nodes)
}
