package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/1broseidon/keysheet/internal/config"
	"github.com/1broseidon/keysheet/internal/overlay"
	"github.com/1broseidon/keysheet/internal/placement"
	"github.com/1broseidon/keysheet/internal/platform"
	"github.com/1broseidon/keysheet/internal/storage"
)

type fakeIntrospector struct {
	snap     platform.Snapshot
	snapErr  error
	monitors []placement.Monitor
}

func (f *fakeIntrospector) ActiveWindow() (platform.Snapshot, error) {
	return f.snap, f.snapErr
}

func (f *fakeIntrospector) Monitors() ([]placement.Monitor, error) {
	return f.monitors, nil
}

func newTestDaemon(t *testing.T, intro *fakeIntrospector) *daemon {
	t.Helper()
	store := storage.New(t.TempDir())
	cfg := config.DefaultConfig()
	logger := discardLogger()
	return &daemon{
		g:      &globals{configPath: filepath.Join(t.TempDir(), "config.yaml")},
		logger: logger,
		level:  new(slog.LevelVar),
		intro:  intro,
		store:  store,
		events: make(chan overlay.Event, 1),
		cfg:    cfg,
		coord: overlay.New(overlay.Options{
			Introspector: intro,
			Catalog:      store,
			Anchor:       cfg.Anchor(),
			Offsets:      cfg.Offsets(),
			Logger:       logger,
		}),
	}
}

func TestDaemonActiveAppMatched(t *testing.T) {
	intro := &fakeIntrospector{
		snap: platform.Snapshot{
			ProcessIdentity: "code",
			Title:           "main.go - keysheet",
			Bounds:          placement.Rect{X: 2000, Y: 100, Width: 800, Height: 600},
		},
		monitors: []placement.Monitor{
			{ID: 0, Name: "DP-1", Bounds: placement.Rect{Width: 1920, Height: 1080}},
			{ID: 1, Name: "HDMI-1", Bounds: placement.Rect{X: 1920, Width: 2560, Height: 1440}},
		},
	}
	d := newTestDaemon(t, intro)

	got, err := d.ActiveApp()
	if err != nil {
		t.Fatalf("ActiveApp: %v", err)
	}
	if !got.Matched || got.Name != "Visual Studio Code" || got.ApplicationID == "" {
		t.Fatalf("expected VS Code match, got %+v", got)
	}
	if got.Monitor != "HDMI-1" {
		t.Fatalf("expected HDMI-1, got %q", got.Monitor)
	}
	if got.Title != "main.go - keysheet" {
		t.Fatalf("unexpected title %q", got.Title)
	}
}

func TestDaemonActiveAppUnmatched(t *testing.T) {
	d := newTestDaemon(t, &fakeIntrospector{snap: platform.Snapshot{ProcessIdentity: "gimp"}})

	got, err := d.ActiveApp()
	if err != nil {
		t.Fatalf("ActiveApp: %v", err)
	}
	if got.Matched || got.Name != "gimp" || got.Monitor != "" {
		t.Fatalf("expected raw identity without monitor, got %+v", got)
	}
}

func TestDaemonActiveAppQueryError(t *testing.T) {
	queryErr := &platform.QueryError{Op: "active window", Err: errors.New("no focus")}
	d := newTestDaemon(t, &fakeIntrospector{snapErr: queryErr})

	if _, err := d.ActiveApp(); !errors.Is(err, queryErr) {
		t.Fatalf("expected query error, got %v", err)
	}
}

func TestDaemonReloadAppliesPlacementAndPanels(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	d := newTestDaemon(t, &fakeIntrospector{})
	writeTestFile(t, d.g.configPath, "anchor_corner: TopLeft\nplacement:\n  taskbar_reserve: 0\noverlay:\n  width: 320\nlog_level: debug\n")

	var applied *config.Config
	d.applyPanels = func(cfg *config.Config) { applied = cfg }

	if err := d.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	st := d.Status()
	if st.Anchor != placement.TopLeft || st.Offsets.TaskbarReserve != 0 {
		t.Fatalf("placement not applied: %+v", st)
	}
	if st.State != "hidden" || st.Hotkey != "" {
		t.Fatalf("unexpected status %+v", st)
	}
	if applied == nil || applied.Overlay.Width != 320 {
		t.Fatalf("panels not resized: %+v", applied)
	}
	if d.level.Level() != slog.LevelDebug {
		t.Fatalf("log level not applied: %v", d.level.Level())
	}
	if d.config().AnchorCorner != "TopLeft" {
		t.Fatalf("config not swapped")
	}
}

func TestDaemonReloadKeepsConfigOnError(t *testing.T) {
	d := newTestDaemon(t, &fakeIntrospector{})
	writeTestFile(t, d.g.configPath, "anchor_corner: Middle\n")

	if err := d.Reload(); err == nil {
		t.Fatalf("expected validation error")
	}
	if d.Status().Anchor != placement.BottomRight {
		t.Fatalf("placement changed after a failed reload")
	}
}

func TestLockOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keysheet.lock")

	if _, err := lockOwner(path); err == nil {
		t.Fatalf("expected error for missing lock file")
	}

	writeTestFile(t, path, strconv.Itoa(os.Getpid())+"\n")
	pid, err := lockOwner(path)
	if err != nil || pid != os.Getpid() {
		t.Fatalf("lockOwner = %d, %v", pid, err)
	}

	writeTestFile(t, path, "garbage")
	if _, err := lockOwner(path); err == nil {
		t.Fatalf("expected error for a lock without PID")
	}
}
