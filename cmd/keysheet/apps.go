package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/keysheet/internal/registry"
	"github.com/1broseidon/keysheet/internal/storage"
)

func newAppsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Inspect and edit the application registry",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	cmd.AddCommand(newAppsListCmd(g), newAppsLookupCmd(g), newAppsSaveCmd(g))
	return cmd
}

func newAppsListCmd(g *globals) *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the effective applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			user, err := store.LoadUserApplications()
			if err != nil {
				return err
			}
			bundled := registry.BundledApplications()
			reg := registry.Resolve(bundled, user)

			if debug {
				return writeJSON(cmd, applicationsDump{
					DataDir:   store.Dir(),
					Bundled:   bundled,
					User:      nonNilApps(user),
					Effective: nonNilApps(reg),
				})
			}

			lists, err := store.LoadLists()
			if err != nil {
				return err
			}
			counts := make(map[string]int)
			for _, l := range lists {
				counts[l.ApplicationID]++
			}

			t := newTable(cmd.OutOrStdout(), "ID", "NAME", "PROCESS", "SOURCE", "LISTS")
			for _, app := range reg {
				t.Row(app.ID, app.Name, app.ProcessName, appSource(app, bundled, user), strconv.Itoa(counts[app.ID]))
			}
			return t.Flush()
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Dump bundled, user and effective applications as JSON")
	return cmd
}

type applicationsDump struct {
	DataDir   string                 `json:"data_dir"`
	Bundled   []registry.Application `json:"bundled"`
	User      []registry.Application `json:"user"`
	Effective []registry.Application `json:"effective"`
}

// appSource labels where an effective entry came from.
func appSource(app registry.Application, bundled, user []registry.Application) string {
	fromUser := false
	for _, u := range user {
		if u.ID == app.ID && registry.SameProcess(u.ProcessName, app.ProcessName) {
			fromUser = true
			break
		}
	}
	if !fromUser {
		return "bundled"
	}
	for _, b := range bundled {
		if registry.SameProcess(b.ProcessName, app.ProcessName) {
			return "override"
		}
	}
	return "user"
}

func nonNilApps(apps []registry.Application) []registry.Application {
	if apps == nil {
		return []registry.Application{}
	}
	return apps
}

func newAppsLookupCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <process>",
		Short: "Resolve a process identity against the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			reg, err := store.Applications()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			app, ok := reg.Lookup(args[0])
			if ok {
				fmt.Fprintf(out, "name:    %s\n", app.Name)
				fmt.Fprintf(out, "id:      %s\n", app.ID)
				fmt.Fprintf(out, "process: %s\n", app.ProcessName)
				return nil
			}

			err = fmt.Errorf("no application registered for %q", args[0])
			if hint := suggestionHint(registry.Suggest(reg, args[0], 3)); hint != "" {
				err = fmt.Errorf("%w (did you mean %s?)", err, hint)
			}
			return err
		},
	}
}

func suggestionHint(suggestions []registry.Suggestion) string {
	names := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		names = append(names, fmt.Sprintf("%q", s.Application.ProcessName))
	}
	return strings.Join(names, " or ")
}

func newAppsSaveCmd(g *globals) *cobra.Command {
	var app registry.Application
	var icon string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Add or override an application",
		Long: "Add a user application, or override a bundled one by giving the\n" +
			"same process name. An existing entry is replaced when --id matches.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			if existing, ok := existingApplication(store, app); ok {
				app.ID = existing.ID
				if app.LastUsedListID == nil {
					app.LastUsedListID = existing.LastUsedListID
				}
			}
			if icon != "" {
				app.Icon = &icon
			}
			if app.Name == "" {
				app.Name = app.ProcessName
			}
			saved, err := store.SaveApplication(app)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", saved.Name, saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&app.ID, "id", "", "Application ID (default: reuse the entry with the same process, or generate one)")
	cmd.Flags().StringVar(&app.Name, "name", "", "Display name (default: the process name)")
	cmd.Flags().StringVar(&app.ProcessName, "process", "", "Process name, e.g. code or Code.exe")
	cmd.Flags().StringVar(&icon, "icon", "", "Optional icon path")
	_ = cmd.MarkFlagRequired("process")
	return cmd
}

// existingApplication finds the effective entry app replaces: the one with
// its ID, or with its process when no ID was given.
func existingApplication(store *storage.Store, app registry.Application) (registry.Application, bool) {
	reg, err := store.Applications()
	if err != nil {
		return registry.Application{}, false
	}
	if app.ID != "" {
		return reg.ByID(app.ID)
	}
	return reg.Lookup(app.ProcessName)
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
