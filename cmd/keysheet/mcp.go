package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/keysheet/internal/mcp"
)

func newMCPCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: "Start the MCP server on stdio. Designed to be invoked by MCP clients,\n" +
			"for example:\n\n  claude mcp add keysheet -- keysheet mcp serve",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			return mcp.NewServer(store, g.client()).Run(cmd.Context())
		},
	})
	return cmd
}
