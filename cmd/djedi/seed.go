package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/djedi/internal/nodes"
)

// seedFile is the YAML layout read by the seed command:
//
//	nodes:
//	  - uri: i18n://en-us@page/title.txt
//	    content: Welcome
//	    publish: true
type seedFile struct {
	Nodes []nodes.SaveCommand `yaml:"nodes"`
}

func (c *cli) newSeedCommand() *cobra.Command {
	var (
		file    string
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load nodes from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSeed(cmd, file, publish)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed file")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish every seeded node")
	cmd.MarkFlagRequired("file")

	return cmd
}

func readSeedFile(path string) ([]nodes.SaveCommand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return sf.Nodes, nil
}

func (c *cli) runSeed(cmd *cobra.Command, file string, publish bool) error {
	cmds, err := readSeedFile(file)
	if err != nil {
		return err
	}

	domain, release, err := c.openDomain(cmd)
	if err != nil {
		return err
	}
	defer release()

	for i, sc := range cmds {
		if publish {
			sc.Publish = true
		}
		node, err := domain.Nodes.Save(cmd.Context(), sc)
		if err != nil {
			return fmt.Errorf("seed node %d (%s): %w", i, sc.URI, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s#%s\n", node.Key, node.Version)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d nodes\n", len(cmds))
	return nil
}
