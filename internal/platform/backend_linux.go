//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/keysheet/internal/placement"
	"github.com/1broseidon/keysheet/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind Introspector.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Introspector = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay opens a fresh X11 connection to display, or
// $DISPLAY when display is empty.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnectionTo(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Connection returns the underlying connection for X11-specific operations.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// XUtil returns the underlying xgbutil connection.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// ActiveWindow snapshots the focused window.
func (b *LinuxBackend) ActiveWindow() (Snapshot, error) {
	conn, err := b.connection()
	if err != nil {
		return Snapshot{}, &QueryError{Op: "active window", Err: err}
	}

	info, err := conn.ActiveWindow()
	if err != nil {
		return Snapshot{}, &QueryError{Op: "active window", Err: err}
	}

	return Snapshot{
		ProcessIdentity: info.Process,
		Title:           info.Title,
		Bounds: placement.Rect{
			X:      info.X,
			Y:      info.Y,
			Width:  info.Width,
			Height: info.Height,
		},
	}, nil
}

// Monitors returns all active monitors ordered by ID.
func (b *LinuxBackend) Monitors() ([]placement.Monitor, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, &QueryError{Op: "monitors", Err: err}
	}

	raw, err := conn.GetMonitors()
	if err != nil {
		return nil, &QueryError{Op: "monitors", Err: err}
	}

	monitors := make([]placement.Monitor, 0, len(raw))
	for _, m := range raw {
		monitors = append(monitors, placement.Monitor{
			ID:   m.ID,
			Name: m.Name,
			Bounds: placement.Rect{
				X:      m.X,
				Y:      m.Y,
				Width:  m.Width,
				Height: m.Height,
			},
		})
	}

	sort.Slice(monitors, func(i, j int) bool {
		return monitors[i].ID < monitors[j].ID
	})
	return monitors, nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// PanelSurface adapts an x11.Panel to Surface.
type PanelSurface struct {
	*x11.Panel
}

var _ Surface = PanelSurface{}

// NewPanelSurface wraps panel.
func NewPanelSurface(panel *x11.Panel) PanelSurface {
	return PanelSurface{Panel: panel}
}

func (s PanelSurface) Size() placement.Size {
	w, h := s.Panel.Size()
	return placement.Size{Width: w, Height: h}
}

func (s PanelSurface) Bounds() (placement.Rect, bool) {
	x, y, w, h, ok := s.Panel.Bounds()
	return placement.Rect{X: x, Y: y, Width: w, Height: h}, ok
}

func (s PanelSurface) Move(p placement.Point) error {
	return s.Panel.Move(p.X, p.Y)
}
