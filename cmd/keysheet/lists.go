package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/keysheet/internal/registry"
	"github.com/1broseidon/keysheet/internal/storage"
)

func newListsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Inspect and manage shortcut lists",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	cmd.AddCommand(
		newListsListCmd(g),
		newListsShowCmd(g),
		newListsDeleteCmd(g),
		newListsUseCmd(g),
	)
	return cmd
}

func newListsListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list [application]",
		Short: "List shortcut lists, optionally for one application",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			reg, err := store.Applications()
			if err != nil {
				return err
			}

			var lists []storage.ShortcutList
			if len(args) == 1 {
				app, err := findApplication(reg, args[0])
				if err != nil {
					return err
				}
				lists, err = store.ListsFor(app.ID)
				if err != nil {
					return err
				}
			} else {
				lists, err = store.LoadLists()
				if err != nil {
					return err
				}
			}

			t := newTable(cmd.OutOrStdout(), "ID", "NAME", "APPLICATION", "SHORTCUTS", "UPDATED")
			for _, l := range lists {
				appName := l.ApplicationID
				if app, ok := reg.ByID(l.ApplicationID); ok {
					appName = app.Name
				}
				t.Row(l.ID, l.Name, appName, strconv.Itoa(len(l.Shortcuts)), l.UpdatedAt.Local().Format(time.DateTime))
			}
			return t.Flush()
		},
	}
}

func newListsShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id|application>",
		Short: "Print the shortcuts of a list, or the preferred list of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			list, err := resolveList(store, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n\n", list.Name, list.ID)
			t := newTable(cmd.OutOrStdout(), "KEYS", "DESCRIPTION")
			for _, s := range orderedShortcuts(list.Shortcuts) {
				t.Row(s.KeyCombo, s.Description)
			}
			return t.Flush()
		},
	}
}

func newListsDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a shortcut list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			if err := store.DeleteList(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted list %s\n", args[0])
			return nil
		},
	}
}

func newListsUseCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "use <application> <list-id>",
		Short: "Make a list the one shown for an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.store()
			if err != nil {
				return err
			}
			reg, err := store.Applications()
			if err != nil {
				return err
			}
			app, err := findApplication(reg, args[0])
			if err != nil {
				return err
			}
			lists, err := store.ListsFor(app.ID)
			if err != nil {
				return err
			}
			for _, l := range lists {
				if l.ID == args[1] {
					if err := store.SetLastUsedList(app.ID, l.ID); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s now shows %q\n", app.Name, l.Name)
					return nil
				}
			}
			return fmt.Errorf("list %q does not belong to %s: %w", args[1], app.Name, storage.ErrNotFound)
		},
	}
}

func findApplication(reg registry.Registry, ref string) (registry.Application, error) {
	if app, ok := reg.Find(ref); ok {
		return app, nil
	}
	err := fmt.Errorf("application %q: %w", ref, storage.ErrNotFound)
	if hint := suggestionHint(registry.Suggest(reg, ref, 3)); hint != "" {
		err = fmt.Errorf("%w (did you mean %s?)", err, hint)
	}
	return registry.Application{}, err
}

// resolveList accepts a list ID or an application reference. For an
// application its preferred list is returned.
func resolveList(store *storage.Store, ref string) (storage.ShortcutList, error) {
	lists, err := store.LoadLists()
	if err != nil {
		return storage.ShortcutList{}, err
	}
	for _, l := range lists {
		if l.ID == ref {
			return l, nil
		}
	}

	reg, err := store.Applications()
	if err != nil {
		return storage.ShortcutList{}, err
	}
	app, err := findApplication(reg, ref)
	if err != nil {
		return storage.ShortcutList{}, err
	}
	list, ok, err := store.PreferredList(app)
	if err != nil {
		return storage.ShortcutList{}, err
	}
	if !ok {
		return storage.ShortcutList{}, fmt.Errorf("%s has no shortcut lists: %w", app.Name, storage.ErrNotFound)
	}
	return list, nil
}

func orderedShortcuts(shortcuts []storage.Shortcut) []storage.Shortcut {
	out := append([]storage.Shortcut(nil), shortcuts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
