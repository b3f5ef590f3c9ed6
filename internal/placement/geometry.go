// Package placement resolves which monitor a window lives on and where the
// overlay should be anchored on it.
package placement

import "fmt"

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is a screen position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Monitor describes a physical display.
type Monitor struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Bounds Rect   `json:"bounds"`
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Center returns the center point of r. The midpoint is computed in floating
// point and truncated toward zero, so odd sizes round down for positive
// coordinates.
func (r Rect) Center() Point {
	cx := float64(r.X) + float64(r.Width)/2
	cy := float64(r.Y) + float64(r.Height)/2
	return Point{X: int(cx), Y: int(cy)}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so adjacent monitors never both claim a shared edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// FindContainingMonitor returns the first monitor, in the given order, whose
// bounds contain the center of window.
func FindContainingMonitor(window Rect, monitors []Monitor) (Monitor, bool) {
	center := window.Center()
	for _, mon := range monitors {
		if mon.Bounds.Contains(center) {
			return mon, true
		}
	}
	return Monitor{}, false
}
