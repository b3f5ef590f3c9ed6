// Package overlay owns the overlay's visibility state. A single Coordinator
// consumes toggle, settings and window-close events one at a time and drives
// the platform surfaces through the show and hide sequences.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/keysheet/internal/placement"
	"github.com/1broseidon/keysheet/internal/platform"
	"github.com/1broseidon/keysheet/internal/registry"
)

// State is the overlay visibility.
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// ErrBusy is returned when an event arrives while another is being handled.
var ErrBusy = errors.New("overlay: toggle already in progress")

// ErrNoSettingsSurface is returned by settings events when no settings
// surface was configured.
var ErrNoSettingsSurface = errors.New("overlay: no settings surface")

// Catalog supplies the effective application registry.
type Catalog interface {
	Applications() (registry.Registry, error)
}

// Detection describes the application found behind the overlay.
type Detection struct {
	// Name is the registered display name, or the raw process identity when
	// no entry matched.
	Name        string
	Application registry.Application
	Matched     bool
	Snapshot    platform.Snapshot
}

// Notifier receives the coordinator's outbound notifications. Calls happen
// on the coordinator goroutine.
type Notifier interface {
	ActiveAppDetected(d Detection)
	PopupHidden(hidden bool)
}

// Options configures a Coordinator. Introspector, Catalog and Overlay are
// required.
type Options struct {
	Introspector platform.Introspector
	Catalog      Catalog
	Overlay      platform.Surface
	Settings     platform.Surface
	Notifier     Notifier
	Anchor       placement.Anchor
	Offsets      placement.Offsets
	Logger       *slog.Logger
}

// Status is a point-in-time view of the coordinator.
type Status struct {
	State           State             `json:"-"`
	StateName       string            `json:"state"`
	SettingsVisible bool              `json:"settings_visible"`
	LastApp         string            `json:"last_app,omitempty"`
	Anchor          placement.Anchor  `json:"anchor"`
	Offsets         placement.Offsets `json:"offsets"`
}

// Coordinator is the only writer of the overlay state.
type Coordinator struct {
	intro    platform.Introspector
	catalog  Catalog
	overlay  platform.Surface
	settings platform.Surface
	notifier Notifier
	logger   *slog.Logger

	busy atomic.Bool

	mu              sync.Mutex
	state           State
	settingsVisible bool
	anchor          placement.Anchor
	offsets         placement.Offsets
	lastApp         string
}

// New creates a coordinator in the Hidden state.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		intro:    opts.Introspector,
		catalog:  opts.Catalog,
		overlay:  opts.Overlay,
		settings: opts.Settings,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		anchor:   opts.Anchor,
		offsets:  opts.Offsets,
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.anchor == "" {
		c.anchor = placement.DefaultAnchor
	}
	return c
}

// SetPlacement updates the anchor and offsets used by the next show.
func (c *Coordinator) SetPlacement(anchor placement.Anchor, offsets placement.Offsets) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = anchor
	c.offsets = offsets
}

// Status returns the current state.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:           c.state,
		StateName:       c.state.String(),
		SettingsVisible: c.settingsVisible,
		LastApp:         c.lastApp,
		Anchor:          c.anchor,
		Offsets:         c.offsets,
	}
}

// Run handles events until ctx is cancelled or events is closed. Each
// event's error is delivered on its Done channel when one is set.
func (c *Coordinator) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			err := c.Handle(ev)
			if ev.Done != nil {
				ev.Done <- err
			} else if err != nil {
				c.logger.Warn("overlay event failed", "event", ev.Kind.String(), "error", err)
			}
		}
	}
}

// Handle processes a single event. It rejects events that would interleave
// with one already in flight.
func (c *Coordinator) Handle(ev Event) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	switch ev.Kind {
	case EventToggle:
		return c.toggle()
	case EventWindowClosed:
		c.windowClosed()
		return nil
	case EventShowSettings:
		return c.showSettings()
	case EventHideSettings:
		return c.hideSettings()
	default:
		return fmt.Errorf("overlay: unknown event %d", ev.Kind)
	}
}

// Toggle flips the overlay visibility.
func (c *Coordinator) Toggle() error {
	return c.Handle(Event{Kind: EventToggle})
}

func (c *Coordinator) toggle() error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	if state == Visible {
		return c.hide()
	}
	return c.show()
}

func (c *Coordinator) show() error {
	// The snapshot must be taken before anything changes focus.
	snap, err := c.intro.ActiveWindow()
	haveSnap := err == nil
	if err != nil {
		c.logger.Debug("active window unavailable", "error", err)
		snap = platform.Snapshot{}
	}

	reg, err := c.catalog.Applications()
	if err != nil {
		c.logger.Warn("failed to load applications, using empty registry", "error", err)
		reg = nil
	}
	app, matched := registry.Lookup(reg, snap.ProcessIdentity)
	det := Detection{
		Name:        snap.ProcessIdentity,
		Application: app,
		Matched:     matched,
		Snapshot:    snap,
	}
	if matched && app.Name != "" {
		det.Name = app.Name
	}
	c.logger.Debug("active application", "process", snap.ProcessIdentity, "name", det.Name, "matched", matched)
	c.notifier.ActiveAppDetected(det)

	c.reposition(snap, haveSnap)

	if err := c.overlay.Show(); err != nil {
		return fmt.Errorf("failed to show overlay: %w", err)
	}
	if err := c.overlay.Focus(); err != nil {
		c.logger.Warn("failed to focus overlay", "error", err)
	}

	c.mu.Lock()
	c.state = Visible
	c.lastApp = det.Name
	c.mu.Unlock()
	return nil
}

// reposition moves the overlay onto the monitor of the snapshot window,
// falling back to the monitor the overlay already occupies. When neither is
// known the overlay keeps its last position.
func (c *Coordinator) reposition(snap platform.Snapshot, haveSnap bool) {
	monitors, err := c.intro.Monitors()
	if err != nil {
		c.logger.Warn("monitor query failed, keeping last position", "error", err)
		return
	}

	var (
		mon   placement.Monitor
		found bool
	)
	if haveSnap {
		mon, found = placement.FindContainingMonitor(snap.Bounds, monitors)
	}
	if !found {
		if r, ok := c.overlay.Bounds(); ok {
			mon, found = placement.FindContainingMonitor(r, monitors)
		}
	}
	if !found {
		c.logger.Debug("no monitor resolved, keeping last position")
		return
	}

	c.mu.Lock()
	anchor, offsets := c.anchor, c.offsets
	c.mu.Unlock()

	pos := placement.ComputePosition(mon.Bounds, c.overlay.Size(), anchor, offsets)
	if err := c.overlay.Move(pos); err != nil {
		c.logger.Warn("failed to move overlay", "monitor", mon.Name, "position", pos, "error", err)
	}
}

func (c *Coordinator) hide() error {
	c.hideSettingsSurface()
	c.notifier.PopupHidden(true)

	if err := c.overlay.Hide(); err != nil {
		// The overlay is still on screen; tell the UI it was not hidden.
		c.notifier.PopupHidden(false)
		return fmt.Errorf("failed to hide overlay: %w", err)
	}

	c.mu.Lock()
	c.state = Hidden
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) windowClosed() {
	c.hideSettingsSurface()

	c.mu.Lock()
	prev := c.state
	c.state = Hidden
	c.mu.Unlock()

	if prev == Visible {
		c.logger.Info("overlay closed externally")
	}
}

func (c *Coordinator) hideSettingsSurface() {
	c.mu.Lock()
	shown := c.settingsVisible
	c.settingsVisible = false
	c.mu.Unlock()

	if !shown || c.settings == nil {
		return
	}
	if err := c.settings.Hide(); err != nil {
		c.logger.Warn("failed to hide settings", "error", err)
	}
}

func (c *Coordinator) showSettings() error {
	if c.settings == nil {
		return ErrNoSettingsSurface
	}

	if monitors, err := c.intro.Monitors(); err != nil {
		c.logger.Warn("monitor query failed, keeping settings position", "error", err)
	} else if mon, ok := c.settingsMonitor(monitors); ok {
		pos := placement.Centered(mon.Bounds, c.settings.Size())
		if err := c.settings.Move(pos); err != nil {
			c.logger.Warn("failed to move settings", "error", err)
		}
	}

	if err := c.settings.Show(); err != nil {
		return fmt.Errorf("failed to show settings: %w", err)
	}
	if err := c.settings.Focus(); err != nil {
		c.logger.Warn("failed to focus settings", "error", err)
	}

	c.mu.Lock()
	c.settingsVisible = true
	c.mu.Unlock()
	return nil
}

// settingsMonitor prefers the monitor holding the visible overlay, then the
// first monitor.
func (c *Coordinator) settingsMonitor(monitors []placement.Monitor) (placement.Monitor, bool) {
	if c.overlay.Visible() {
		if r, ok := c.overlay.Bounds(); ok {
			if mon, found := placement.FindContainingMonitor(r, monitors); found {
				return mon, true
			}
		}
	}
	if len(monitors) > 0 {
		return monitors[0], true
	}
	return placement.Monitor{}, false
}

func (c *Coordinator) hideSettings() error {
	if c.settings == nil {
		return ErrNoSettingsSurface
	}

	c.mu.Lock()
	shown := c.settingsVisible
	c.mu.Unlock()
	if !shown {
		return nil
	}

	if err := c.settings.Hide(); err != nil {
		return fmt.Errorf("failed to hide settings: %w", err)
	}
	c.mu.Lock()
	c.settingsVisible = false
	c.mu.Unlock()
	return nil
}

type nopNotifier struct{}

func (nopNotifier) ActiveAppDetected(Detection) {}
func (nopNotifier) PopupHidden(bool)            {}
