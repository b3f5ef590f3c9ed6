package main

import (
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/keysheet/internal/config"
	"github.com/1broseidon/keysheet/internal/overlay"
	"github.com/1broseidon/keysheet/internal/platform"
	"github.com/1broseidon/keysheet/internal/storage"
)

type fakeSink struct {
	title string
	lines []string
	calls int
}

func (s *fakeSink) SetContent(title string, lines []string) {
	s.title = title
	s.lines = lines
	s.calls++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestShortcutLinesOrdersAndPads(t *testing.T) {
	got := shortcutLines([]storage.Shortcut{
		{KeyCombo: "Ctrl+Shift+T", Description: "Reopen Closed Tab", Order: 2},
		{KeyCombo: "Ctrl+T", Description: "New Tab", Order: 0},
		{KeyCombo: "Ctrl+W", Description: "Close Tab", Order: 1},
	})
	want := []string{
		"Ctrl+T        New Tab",
		"Ctrl+W        Close Tab",
		"Ctrl+Shift+T  Reopen Closed Tab",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("shortcutLines = %q, want %q", got, want)
	}
	if lines := shortcutLines(nil); len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestPanelNotifierRendersPreferredList(t *testing.T) {
	store := storage.New(t.TempDir())
	if _, err := store.InitializeDefaults(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	reg, err := store.Applications()
	if err != nil {
		t.Fatalf("applications: %v", err)
	}
	app, ok := reg.Lookup("code")
	if !ok {
		t.Fatalf("bundled VS Code entry missing")
	}

	sink := &fakeSink{}
	n := &panelNotifier{store: store, panel: sink, logger: discardLogger()}
	n.ActiveAppDetected(overlay.Detection{Name: app.Name, Application: app, Matched: true})

	if sink.title != "Visual Studio Code: General" {
		t.Fatalf("unexpected title %q", sink.title)
	}
	if len(sink.lines) != 5 || sink.lines[0] != "Ctrl+Shift+P  Command Palette" {
		t.Fatalf("unexpected lines %q", sink.lines)
	}
}

func TestPanelNotifierUnmatchedApplication(t *testing.T) {
	sink := &fakeSink{}
	n := &panelNotifier{store: storage.New(t.TempDir()), panel: sink, logger: discardLogger()}
	n.ActiveAppDetected(overlay.Detection{
		Name:     "gimp-2.10",
		Snapshot: platform.Snapshot{ProcessIdentity: "gimp-2.10"},
	})

	if sink.title != "gimp-2.10" {
		t.Fatalf("unexpected title %q", sink.title)
	}
	last := sink.lines[len(sink.lines)-1]
	if last != "  keysheet apps save --process gimp-2.10" {
		t.Fatalf("expected registration hint, got %q", sink.lines)
	}

	n.ActiveAppDetected(overlay.Detection{})
	if sink.title != "Unknown application" || len(sink.lines) != 1 {
		t.Fatalf("unexpected rendering for an empty detection: %q %q", sink.title, sink.lines)
	}
}

func TestPanelNotifierMatchedWithoutLists(t *testing.T) {
	store := storage.New(t.TempDir())
	reg, err := store.Applications()
	if err != nil {
		t.Fatalf("applications: %v", err)
	}
	app, _ := reg.Lookup("chrome")

	sink := &fakeSink{}
	n := &panelNotifier{store: store, panel: sink, logger: discardLogger()}
	n.ActiveAppDetected(overlay.Detection{Name: app.Name, Application: app, Matched: true})

	if sink.title != "Google Chrome" || !reflect.DeepEqual(sink.lines, []string{"No shortcut lists yet."}) {
		t.Fatalf("unexpected rendering %q %q", sink.title, sink.lines)
	}
}

func TestSettingsLines(t *testing.T) {
	cfg := config.DefaultConfig()

	lines := settingsLines(cfg, "control-shift-k")
	if lines[0] != "Hotkey:              control-shift-k" {
		t.Fatalf("unexpected hotkey line %q", lines[0])
	}
	if !strings.Contains(strings.Join(lines, "\n"), "Taskbar reserve:     40 px") {
		t.Fatalf("missing taskbar reserve in %q", lines)
	}

	lines = settingsLines(cfg, "")
	if lines[0] != "Hotkey:              Control-Shift-k (not bound)" {
		t.Fatalf("unexpected unbound hotkey line %q", lines[0])
	}
}
