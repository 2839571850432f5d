package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/djedi/internal/auth"
)

func (c *cli) newTokenCommand() *cobra.Command {
	var (
		subject   string
		groups    []string
		superuser bool
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a CMS permission token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.New(&c.cfg.Auth).Issue(subject, groups, superuser, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "Token subject")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Group membership (repeatable)")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "Grant superuser")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	cmd.MarkFlagRequired("sub")

	return cmd
}
