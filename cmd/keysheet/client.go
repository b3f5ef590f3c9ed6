package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newToggleCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Show or hide the overlay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.client().Toggle()
		},
	}
}

func newReloadCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the daemon configuration and rebind the hotkey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := g.client().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
			return nil
		},
	}
}

func newStatusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := g.client().GetStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "daemon_running:   %v\n", status.DaemonRunning)
			fmt.Fprintf(out, "state:            %s\n", status.State)
			fmt.Fprintf(out, "settings_visible: %v\n", status.SettingsVisible)
			fmt.Fprintf(out, "last_app:         %s\n", status.LastApp)
			fmt.Fprintf(out, "hotkey:           %s\n", status.Hotkey)
			fmt.Fprintf(out, "anchor:           %s\n", status.Anchor)
			fmt.Fprintf(out, "taskbar_reserve:  %d\n", status.Offsets.TaskbarReserve)
			fmt.Fprintf(out, "border_comp:      %d\n", status.Offsets.BorderCompensation)
			fmt.Fprintf(out, "uptime_seconds:   %d\n", status.UptimeSeconds)
			return nil
		},
	}
}

func newSettingsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Open or close the settings panel",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Open the settings panel",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.client().ShowSettings()
			},
		},
		&cobra.Command{
			Use:   "hide",
			Short: "Close the settings panel",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.client().HideSettings()
			},
		},
	)
	return cmd
}

func newActiveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the application behind the focused window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := g.client().GetActiveApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:     %s\n", app.Name)
			fmt.Fprintf(out, "matched:  %v\n", app.Matched)
			if app.ApplicationID != "" {
				fmt.Fprintf(out, "id:       %s\n", app.ApplicationID)
			}
			fmt.Fprintf(out, "process:  %s\n", app.ProcessIdentity)
			fmt.Fprintf(out, "title:    %s\n", app.Title)
			fmt.Fprintf(out, "bounds:   %s\n", app.Bounds)
			if app.Monitor != "" {
				fmt.Fprintf(out, "monitor:  %s\n", app.Monitor)
			}
			return nil
		},
	}
}

func newMonitorsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List the monitors the daemon sees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := g.client().GetMonitors()
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "NAME", "GEOMETRY")
			for _, m := range data.Monitors {
				t.Row(strconv.Itoa(m.ID), m.Name, m.Bounds.String())
			}
			return t.Flush()
		},
	}
}
