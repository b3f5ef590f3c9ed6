package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/allan-simon/go-singleinstance"
	"github.com/spf13/cobra"

	"github.com/1broseidon/keysheet/internal/config"
	"github.com/1broseidon/keysheet/internal/hotkeys"
	"github.com/1broseidon/keysheet/internal/ipc"
	"github.com/1broseidon/keysheet/internal/overlay"
	"github.com/1broseidon/keysheet/internal/placement"
	"github.com/1broseidon/keysheet/internal/platform"
	"github.com/1broseidon/keysheet/internal/registry"
	"github.com/1broseidon/keysheet/internal/runtimepath"
	"github.com/1broseidon/keysheet/internal/storage"
	"github.com/1broseidon/keysheet/internal/x11"
)

const (
	settingsPanelWidth  = 440
	settingsPanelHeight = 340
	eventQueueSize      = 16
)

func newDaemonCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the overlay daemon",
		Long: "Run the overlay daemon: grab the global hotkey, serve IPC requests and\n" +
			"show the shortcut overlay for the focused application. Starting a second\n" +
			"daemon toggles the overlay of the one already running.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), g)
		},
	}
}

// contentSink receives the text drawn in a panel.
type contentSink interface {
	SetContent(title string, lines []string)
}

// daemon ties the coordinator to its collaborators and serves IPC requests.
type daemon struct {
	g      *globals
	logger *slog.Logger
	level  *slog.LevelVar

	intro    platform.Introspector
	store    *storage.Store
	coord    *overlay.Coordinator
	hotkeys  *hotkeys.Manager
	events   chan overlay.Event
	settings contentSink

	// applyPanels pushes size and stacking settings to the X panels.
	applyPanels func(cfg *config.Config)

	mu  sync.Mutex
	cfg *config.Config
}

var _ ipc.Handler = (*daemon)(nil)

func runDaemon(ctx context.Context, g *globals) error {
	res, err := g.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := res.Config

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	lockPath, err := runtimepath.LockPath()
	if err != nil {
		return err
	}
	lockFile, err := singleinstance.CreateLockFile(lockPath)
	if err != nil {
		pid, perr := lockOwner(lockPath)
		if perr != nil {
			return fmt.Errorf("another keysheet daemon holds %s: %w", lockPath, err)
		}
		log.Printf("keysheet daemon already running (pid %d), toggling its overlay", pid)
		return syscall.Kill(pid, syscall.SIGUSR1)
	}
	defer lockFile.Close()

	store, err := g.store()
	if err != nil {
		return err
	}
	if seeded, err := store.InitializeDefaults(); err != nil {
		logger.Warn("failed to seed default shortcut lists", "dir", store.Dir(), "error", err)
	} else if seeded {
		log.Printf("Seeded default shortcut lists in %s", store.Dir())
	}

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return err
	}
	defer backend.Disconnect()
	conn := backend.Connection()
	log.Println("Connected to X server")

	size := cfg.OverlaySize()
	overlayPanel := x11.NewPanel(conn, size.Width, size.Height)
	settingsPanel := x11.NewPanel(conn, settingsPanelWidth, settingsPanelHeight)
	defer overlayPanel.Destroy()
	defer settingsPanel.Destroy()

	events := make(chan overlay.Event, eventQueueSize)
	overlayPanel.OnClosed(func() { overlay.Post(events, overlay.EventWindowClosed) })
	settingsPanel.OnClosed(func() { overlay.Post(events, overlay.EventHideSettings) })

	d := &daemon{
		g:        g,
		logger:   logger,
		level:    level,
		intro:    backend,
		store:    store,
		events:   events,
		settings: settingsPanel,
		cfg:      cfg,
		applyPanels: func(cfg *config.Config) {
			size := cfg.OverlaySize()
			overlayPanel.SetSize(size.Width, size.Height)
			overlayPanel.SetAlwaysOnTop(cfg.AlwaysOnTop)
			settingsPanel.SetAlwaysOnTop(cfg.AlwaysOnTop)
		},
	}
	d.applyPanels(cfg)

	d.coord = overlay.New(overlay.Options{
		Introspector: backend,
		Catalog:      store,
		Overlay:      platform.NewPanelSurface(overlayPanel),
		Settings:     platform.NewPanelSurface(settingsPanel),
		Notifier:     &panelNotifier{store: store, panel: overlayPanel, logger: logger},
		Anchor:       cfg.Anchor(),
		Offsets:      cfg.Offsets(),
		Logger:       logger.With("component", "overlay"),
	})

	registrar := hotkeys.NewX11Registrar(backend.XUtil(), backend.RootWindow())
	d.hotkeys = hotkeys.NewManager(registrar, func() {
		if !overlay.Post(events, overlay.EventToggle) {
			logger.Warn("overlay event queue full, dropping toggle")
		}
	}, logger.With("component", "hotkeys"))
	if err := d.hotkeys.Rebind(cfg.GlobalHotkey); err != nil {
		// The overlay stays reachable through `keysheet toggle`.
		log.Printf("Warning: %v", err)
	}
	defer d.hotkeys.Unbind()

	d.syncAutostart(cfg)

	ipcServer, err := ipc.NewServer(g.socketPath, d, logger.With("component", "ipc"))
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer ipcServer.Stop()
	log.Printf("IPC server listening on %s", ipcServer.SocketPath())

	go func() {
		if err := d.coord.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("overlay loop stopped", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Println("Shutting down keysheet daemon...")
				conn.Quit()
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGUSR1:
					overlay.Post(events, overlay.EventToggle)
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					if err := d.Reload(); err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					log.Println("Config reloaded successfully")
				}
			}
		}
	}()

	log.Printf("keysheet daemon running, hotkey %s", d.hotkeys.Active())
	conn.EventLoop()
	return nil
}

// lockOwner reads the PID stored in the lock file by the running daemon.
func lockOwner(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("lock file %s holds no PID", path)
	}
	return pid, nil
}

func (d *daemon) config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *daemon) Toggle(ctx context.Context) error {
	return overlay.Send(ctx, d.events, overlay.EventToggle)
}

func (d *daemon) ShowSettings(ctx context.Context) error {
	if d.settings != nil {
		d.settings.SetContent("keysheet settings", settingsLines(d.config(), d.activeHotkey()))
	}
	return overlay.Send(ctx, d.events, overlay.EventShowSettings)
}

func (d *daemon) HideSettings(ctx context.Context) error {
	return overlay.Send(ctx, d.events, overlay.EventHideSettings)
}

func (d *daemon) Status() ipc.StatusData {
	st := d.coord.Status()
	return ipc.StatusData{
		State:           st.StateName,
		SettingsVisible: st.SettingsVisible,
		LastApp:         st.LastApp,
		Hotkey:          d.activeHotkey(),
		Anchor:          st.Anchor,
		Offsets:         st.Offsets,
	}
}

func (d *daemon) Monitors() ([]placement.Monitor, error) {
	return d.intro.Monitors()
}

func (d *daemon) ActiveApp() (ipc.ActiveAppData, error) {
	snap, err := d.intro.ActiveWindow()
	if err != nil {
		return ipc.ActiveAppData{}, err
	}

	reg, err := d.store.Applications()
	if err != nil {
		d.logger.Warn("failed to load applications, using bundled catalog", "error", err)
		reg = registry.Resolve(registry.BundledApplications(), nil)
	}

	data := ipc.ActiveAppData{
		ProcessIdentity: snap.ProcessIdentity,
		Title:           snap.Title,
		Bounds:          snap.Bounds,
		Name:            snap.ProcessIdentity,
	}
	if app, ok := reg.Lookup(snap.ProcessIdentity); ok {
		data.Name = app.Name
		data.Matched = true
		data.ApplicationID = app.ID
	}
	if monitors, err := d.intro.Monitors(); err == nil {
		if mon, ok := placement.FindContainingMonitor(snap.Bounds, monitors); ok {
			data.Monitor = mon.Name
		}
	}
	return data, nil
}

// Reload re-reads the config file and applies it. The hotkey is rebound
// last; a rebind failure is reported after everything else was applied.
func (d *daemon) Reload() error {
	res, err := d.g.loadConfig()
	if err != nil {
		return err
	}
	cfg := res.Config

	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()

	d.level.Set(cfg.SlogLevel())
	d.coord.SetPlacement(cfg.Anchor(), cfg.Offsets())
	if d.applyPanels != nil {
		d.applyPanels(cfg)
	}
	d.syncAutostart(cfg)

	if d.hotkeys != nil {
		if err := d.hotkeys.Rebind(cfg.GlobalHotkey); err != nil {
			return fmt.Errorf("failed to rebind hotkey: %w", err)
		}
	}
	return nil
}

func (d *daemon) activeHotkey() string {
	if d.hotkeys == nil {
		return ""
	}
	return d.hotkeys.Active()
}

func (d *daemon) syncAutostart(cfg *config.Config) {
	dir, err := autostartDir()
	if err != nil {
		d.logger.Warn("failed to resolve autostart directory", "error", err)
		return
	}
	exe, err := os.Executable()
	if err != nil {
		d.logger.Warn("failed to resolve executable path", "error", err)
		return
	}
	changed, err := syncAutostart(dir, exe, cfg.RunOnStartup)
	if err != nil {
		d.logger.Warn("failed to update autostart entry", "error", err)
		return
	}
	if changed {
		d.logger.Info("autostart entry updated", "enabled", cfg.RunOnStartup, "dir", dir)
	}
}
