package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/keysheet/internal/config"
	"github.com/1broseidon/keysheet/internal/ipc"
	"github.com/1broseidon/keysheet/internal/storage"
)

var version = "dev"

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	socketPath string
	dataDir    string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "keysheet",
		Short:         "Keyboard shortcut cheat sheet for the focused application",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "",
		"Config file path (default: $KEYSHEET_CONFIG or ~/.config/keysheet/config.yaml)")
	root.PersistentFlags().StringVar(&g.socketPath, "socket", "",
		"Daemon socket path (default: $XDG_RUNTIME_DIR/keysheet.sock)")
	root.PersistentFlags().StringVar(&g.dataDir, "data-dir", "",
		"Directory holding applications.json and lists.json (default: $XDG_DATA_HOME/keysheet)")

	root.AddCommand(
		newDaemonCmd(g),
		newToggleCmd(g),
		newStatusCmd(g),
		newReloadCmd(g),
		newSettingsCmd(g),
		newActiveCmd(g),
		newMonitorsCmd(g),
		newAppsCmd(g),
		newListsCmd(g),
		newInitCmd(g),
		newConfigCmd(g),
		newMCPCmd(g),
		newVersionCmd(),
	)
	return root
}

func (g *globals) loadConfig() (*config.LoadResult, error) {
	if g.configPath != "" {
		return config.LoadFromPath(g.configPath)
	}
	return config.LoadWithSources()
}

func (g *globals) configFile() (string, error) {
	if g.configPath != "" {
		return g.configPath, nil
	}
	return config.DefaultConfigPath()
}

func (g *globals) client() *ipc.Client {
	if g.socketPath != "" {
		return ipc.NewClientWithPath(g.socketPath)
	}
	return ipc.NewClient()
}

func (g *globals) store() (*storage.Store, error) {
	if g.dataDir != "" {
		return storage.New(g.dataDir), nil
	}
	return storage.Open()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the keysheet version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keysheet %s\n", version)
		},
	}
}
