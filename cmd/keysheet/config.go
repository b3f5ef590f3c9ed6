package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/keysheet/internal/config"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate, print and edit the configuration",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Check the config file and its includes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if _, err := g.loadConfig(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "config: ok")
				return nil
			},
		},
		newConfigPrintCmd(g),
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := g.configFile()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "explain <yaml.path>",
			Short: "Show an effective value and where it was set",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := g.loadConfig()
				if err != nil {
					return err
				}
				value, src, err := config.Explain(res, args[0])
				if err != nil {
					return err
				}
				out, err := yaml.Marshal(value)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "path: %s\n", args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "source: %s\n", formatSource(src))
				fmt.Fprintf(cmd.OutOrStdout(), "value:\n%s", string(out))
				return nil
			},
		},
		newConfigSetCmd(g),
	)
	return cmd
}

func newConfigPrintCmd(g *globals) *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultConfig()
			if !defaults {
				res, err := g.loadConfig()
				if err != nil {
					return err
				}
				cfg = res.Config
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print built-in defaults (no files)")
	return cmd
}

func newConfigSetCmd(g *globals) *cobra.Command {
	var reload bool
	cmd := &cobra.Command{
		Use:   "set <yaml.path> <value>",
		Short: "Change one setting and save the config file",
		Long: "Change one setting and save the config file. The file is rewritten\n" +
			"from the effective config, so comments and includes are not kept.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err := res.Config.Set(args[0], args[1]); err != nil {
				return err
			}
			path, err := g.configFile()
			if err != nil {
				return err
			}
			if err := res.Config.SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])

			if reload {
				if err := g.client().Reload(); err != nil {
					return fmt.Errorf("saved, but the daemon did not reload: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reload, "reload", true, "Ask a running daemon to reload afterwards")
	return cmd
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
