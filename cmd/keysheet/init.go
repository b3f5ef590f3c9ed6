package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(g *globals) *cobra.Command {
	var writeConfig bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Seed the bundled shortcut lists and optionally a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			seeded, err := store.InitializeDefaults()
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintf(cmd.OutOrStdout(), "seeded default shortcut lists in %s\n", store.Dir())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "shortcut lists already present in %s\n", store.Dir())
			}

			if !writeConfig {
				return nil
			}
			res, err := g.loadConfig()
			if err != nil {
				return err
			}
			path, err := g.configFile()
			if err != nil {
				return err
			}
			if len(res.Files) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "config already present at %s\n", path)
				return nil
			}
			if err := res.Config.SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "Also write the default config file when none exists")
	return cmd
}
