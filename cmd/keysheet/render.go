package main

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/1broseidon/keysheet/internal/config"
	"github.com/1broseidon/keysheet/internal/overlay"
	"github.com/1broseidon/keysheet/internal/storage"
)

// panelNotifier fills the overlay panel with the shortcuts of the detected
// application before it is shown.
type panelNotifier struct {
	store  *storage.Store
	panel  contentSink
	logger *slog.Logger
}

var _ overlay.Notifier = (*panelNotifier)(nil)

func (n *panelNotifier) ActiveAppDetected(d overlay.Detection) {
	n.logger.Debug("active application", "name", d.Name, "matched", d.Matched, "process", d.Snapshot.ProcessIdentity)
	title, lines := n.render(d)
	n.panel.SetContent(title, lines)
}

func (n *panelNotifier) PopupHidden(hidden bool) {
	n.logger.Debug("popup hidden", "hidden", hidden)
}

func (n *panelNotifier) render(d overlay.Detection) (string, []string) {
	title := d.Name
	if title == "" {
		title = "Unknown application"
	}
	if !d.Matched {
		lines := []string{"No shortcuts registered for this application."}
		if d.Snapshot.ProcessIdentity != "" {
			lines = append(lines, "", "Register it with:",
				"  keysheet apps save --process "+d.Snapshot.ProcessIdentity)
		}
		return title, lines
	}

	list, ok, err := n.store.PreferredList(d.Application)
	if err != nil {
		n.logger.Warn("failed to load shortcut lists", "application", d.Application.ID, "error", err)
		return title, []string{"Shortcut lists could not be loaded."}
	}
	if !ok {
		return title, []string{"No shortcut lists yet."}
	}
	return fmt.Sprintf("%s: %s", title, list.Name), shortcutLines(list.Shortcuts)
}

// shortcutLines renders shortcuts in display order with the key combos
// padded to a common width.
func shortcutLines(shortcuts []storage.Shortcut) []string {
	ordered := orderedShortcuts(shortcuts)
	width := 0
	for _, s := range ordered {
		width = max(width, utf8.RuneCountInString(s.KeyCombo))
	}
	lines := make([]string, 0, len(ordered))
	for _, s := range ordered {
		pad := width - utf8.RuneCountInString(s.KeyCombo)
		lines = append(lines, fmt.Sprintf("%s%*s  %s", s.KeyCombo, pad, "", s.Description))
	}
	return lines
}

func settingsLines(cfg *config.Config, hotkey string) []string {
	if hotkey == "" {
		hotkey = cfg.GlobalHotkey + " (not bound)"
	}
	ks := cfg.KeyboardShortcuts
	return []string{
		"Hotkey:              " + hotkey,
		"Anchor corner:       " + string(cfg.Anchor()),
		fmt.Sprintf("Taskbar reserve:     %d px", cfg.Placement.TaskbarReserve),
		fmt.Sprintf("Border compensation: %d px", cfg.Placement.BorderCompensation),
		fmt.Sprintf("Overlay size:        %dx%d", cfg.Overlay.Width, cfg.Overlay.Height),
		fmt.Sprintf("Always on top:       %v", cfg.AlwaysOnTop),
		fmt.Sprintf("Run on startup:      %v", cfg.RunOnStartup),
		"",
		"List editing keys:",
		"  Move up    " + ks.MoveUp,
		"  Move down  " + ks.MoveDown,
		"  Duplicate  " + ks.Duplicate,
		"  Delete     " + ks.Delete,
		"  Add new    " + ks.AddNew,
		"",
		"Change with: keysheet config set <path> <value>",
	}
}
