package platform

import (
	"fmt"

	"github.com/1broseidon/keysheet/internal/placement"
)

// Snapshot captures the foreground window at the instant the overlay was
// requested.
type Snapshot struct {
	// ProcessIdentity is the executable name of the owning process.
	ProcessIdentity string
	Title           string
	// Bounds is the outer window rectangle in screen coordinates.
	Bounds placement.Rect
}

// QueryError reports a failed window-system query. Callers on the toggle
// path treat it as "information unavailable" and fall back.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Introspector answers questions about the desktop.
type Introspector interface {
	ActiveWindow() (Snapshot, error)
	Monitors() ([]placement.Monitor, error)
}

// Surface is a window the application owns and positions itself.
type Surface interface {
	Size() placement.Size
	// Bounds returns the last known geometry; ok is false before the
	// surface has ever been placed.
	Bounds() (r placement.Rect, ok bool)
	Move(p placement.Point) error
	Show() error
	Focus() error
	Hide() error
	Visible() bool
}
