package x11

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// ErrNoActiveWindow is returned when _NET_ACTIVE_WINDOW is unset or points
// at the root window.
var ErrNoActiveWindow = errors.New("no active window")

// WindowInfo describes a top-level client window.
type WindowInfo struct {
	ID xproto.Window
	// PID is 0 when the client does not set _NET_WM_PID.
	PID int
	// Process is the executable name of the owning process, falling back to
	// the WM_CLASS instance when the PID is unknown.
	Process string
	Class   string
	Title   string
	X       int
	Y       int
	Width   int
	Height  int
}

// procRoot is swapped in tests.
var procRoot = "/proc"

// ActiveWindow returns the focused client window with its outer geometry,
// including window manager decorations when the WM reports them.
func (c *Connection) ActiveWindow() (WindowInfo, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return WindowInfo{}, fmt.Errorf("failed to read _NET_ACTIVE_WINDOW: %w", err)
	}
	if win == 0 || win == c.Root {
		return WindowInfo{}, ErrNoActiveWindow
	}
	return c.WindowInfo(win)
}

// WindowInfo collects identity and geometry for a single client window.
func (c *Connection) WindowInfo(win xproto.Window) (WindowInfo, error) {
	x, y, w, h, err := c.WindowGeometry(win)
	if err != nil {
		return WindowInfo{}, err
	}

	left, right, top, bottom, _ := c.GetFrameExtents(win)
	info := WindowInfo{
		ID:     win,
		X:      x - left,
		Y:      y - top,
		Width:  w + left + right,
		Height: h + top + bottom,
		Title:  c.windowTitle(win),
	}

	var instance string
	if wmClass, err := icccm.WmClassGet(c.XUtil, win); err == nil {
		info.Class = strings.TrimSpace(wmClass.Class)
		instance = strings.TrimSpace(wmClass.Instance)
	}

	if pid, err := ewmh.WmPidGet(c.XUtil, win); err == nil {
		info.PID = int(pid)
		info.Process = ProcessName(info.PID)
	}
	if info.Process == "" {
		info.Process = instance
	}
	if info.Process == "" {
		info.Process = info.Class
	}
	return info, nil
}

// WindowGeometry returns the root-relative position and size of win.
func (c *Connection) WindowGeometry(win xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry of window %d: %w", win, err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		win,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates of window %d: %w", win, err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int, err error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0, nil
	}

	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom), nil
}

func (c *Connection) windowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// ProcessName resolves a PID to its executable name. The /proc/<pid>/exe
// link is preferred since comm is truncated to 15 bytes; comm covers
// processes owned by other users. Returns "" when neither is readable.
func ProcessName(pid int) string {
	if pid <= 0 {
		return ""
	}
	dir := filepath.Join(procRoot, strconv.Itoa(pid))
	if target, err := os.Readlink(filepath.Join(dir, "exe")); err == nil {
		target = strings.TrimSuffix(target, " (deleted)")
		if base := filepath.Base(target); base != "." && base != "/" {
			return base
		}
	}
	if comm, err := os.ReadFile(filepath.Join(dir, "comm")); err == nil {
		return strings.TrimSpace(string(comm))
	}
	return ""
}
