package placement

import (
	"fmt"
	"strings"
)

// Anchor selects the monitor corner the overlay is pinned to.
type Anchor string

const (
	TopLeft     Anchor = "TopLeft"
	TopRight    Anchor = "TopRight"
	BottomLeft  Anchor = "BottomLeft"
	BottomRight Anchor = "BottomRight"
)

// DefaultAnchor is used when no corner is configured.
const DefaultAnchor = BottomRight

// Anchors lists every supported corner in display order.
func Anchors() []Anchor {
	return []Anchor{TopLeft, TopRight, BottomLeft, BottomRight}
}

// ParseAnchor accepts the corner names case-insensitively, with or without
// separators ("bottom-right", "bottom_right", "BottomRight").
func ParseAnchor(s string) (Anchor, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.TrimSpace(s))
	if key == "" {
		return DefaultAnchor, nil
	}
	for _, a := range Anchors() {
		if strings.EqualFold(key, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown anchor corner %q (want one of TopLeft, TopRight, BottomLeft, BottomRight)", s)
}

// Offsets compensates for platform chrome the overlay cannot measure.
type Offsets struct {
	// TaskbarReserve is kept free along the bottom edge for a panel or dock.
	TaskbarReserve int `json:"taskbar_reserve" yaml:"taskbar_reserve"`
	// BorderCompensation pushes the overlay outward horizontally to hide the
	// invisible resize border some window managers add.
	BorderCompensation int `json:"border_compensation" yaml:"border_compensation"`
}

const (
	DefaultTaskbarReserve     = 40
	DefaultBorderCompensation = 8
)

// DefaultOffsets returns the stock chrome offsets.
func DefaultOffsets() Offsets {
	return Offsets{
		TaskbarReserve:     DefaultTaskbarReserve,
		BorderCompensation: DefaultBorderCompensation,
	}
}

// ComputePosition returns the top-left origin for an overlay of the given
// size pinned to anchor on monitor. The taskbar area is never queried, so
// bottom anchors always subtract the fixed reserve. The result is not clamped
// and may fall slightly outside the monitor on the horizontal axis.
func ComputePosition(monitor Rect, overlay Size, anchor Anchor, off Offsets) Point {
	left := monitor.X - off.BorderCompensation
	right := monitor.X + monitor.Width - overlay.Width + off.BorderCompensation
	top := monitor.Y
	bottom := monitor.Y + monitor.Height - overlay.Height - off.TaskbarReserve

	switch anchor {
	case TopLeft:
		return Point{X: left, Y: top}
	case TopRight:
		return Point{X: right, Y: top}
	case BottomLeft:
		return Point{X: left, Y: bottom}
	default:
		return Point{X: right, Y: bottom}
	}
}

// Centered returns the origin that centers a window of the given size on
// monitor.
func Centered(monitor Rect, size Size) Point {
	return Point{
		X: monitor.X + (monitor.Width-size.Width)/2,
		Y: monitor.Y + (monitor.Height-size.Height)/2,
	}
}
