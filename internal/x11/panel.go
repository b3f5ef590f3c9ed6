package x11

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Panel colors
const (
	ColorPanelText   = 0xf5f7fa
	ColorPanelBg     = 0x1f2933
	ColorPanelAccent = 0x7dd3fc
)

const (
	panelPaddingX   = 10
	panelPaddingY   = 8
	panelLineHeight = 16
	panelCharWidth  = 7
)

var panelFonts = []string{"fixed", "9x15", "8x13", "6x13"}

// ErrPanelUnavailable is returned once the panel failed to allocate its X
// resources (no usable core font, window creation refused).
var ErrPanelUnavailable = errors.New("panel unavailable")

// Panel is an override-redirect text window. It bypasses the window manager
// so it can be placed at exact coordinates, including slightly off-screen.
type Panel struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	mu          sync.Mutex
	window      xproto.Window
	gc          xproto.Gcontext
	font        xproto.Font
	created     bool
	disabled    bool
	mapped      bool
	x, y        int
	width       int
	height      int
	alwaysOnTop bool
	title       string
	lines       []string
	onClosed    func()
	releaser    releaser
}

// NewPanel prepares a panel of the given size. X resources are allocated on
// first Show.
func NewPanel(c *Connection, width, height int) *Panel {
	return &Panel{
		xu:          c.XUtil,
		root:        c.Root,
		width:       max(width, 1),
		height:      max(height, 1),
		alwaysOnTop: true,
	}
}

// SetAlwaysOnTop controls whether Show raises the panel above its siblings.
func (p *Panel) SetAlwaysOnTop(onTop bool) {
	p.mu.Lock()
	p.alwaysOnTop = onTop
	p.mu.Unlock()
}

// SetSize changes the panel size. It takes effect on the next Show.
func (p *Panel) SetSize(width, height int) {
	p.mu.Lock()
	p.width = max(width, 1)
	p.height = max(height, 1)
	p.mu.Unlock()
}

// OnClosed registers fn to run when the panel is unmapped or destroyed by
// another client. fn runs on the X event loop goroutine.
func (p *Panel) OnClosed(fn func()) {
	p.mu.Lock()
	p.onClosed = fn
	p.mu.Unlock()
}

// SetContent replaces the text drawn in the panel and redraws it if mapped.
func (p *Panel) SetContent(title string, lines []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
	p.lines = append([]string(nil), lines...)
	if p.mapped {
		p.drawLocked()
	}
}

// Size returns the panel size in pixels.
func (p *Panel) Size() (width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// Bounds returns the last known geometry. ok is false until the panel has
// been positioned at least once.
func (p *Panel) Bounds() (x, y, width, height int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y, p.width, p.height, p.created
}

// Visible reports whether the panel is mapped.
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mapped
}

// Move positions the panel's top-left corner in root coordinates.
func (p *Panel) Move(x, y int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureResourcesLocked(); err != nil {
		return err
	}
	p.x, p.y = x, y
	return xproto.ConfigureWindowChecked(
		p.xu.Conn(),
		p.window,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(x), uint32(y)},
	).Check()
}

// Show maps the panel at its current position and draws its content.
func (p *Panel) Show() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureResourcesLocked(); err != nil {
		return err
	}

	conn := p.xu.Conn()
	mask := uint16(xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(p.width), uint32(p.height)}
	if p.alwaysOnTop {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, xproto.StackModeAbove)
	}
	xproto.ConfigureWindow(conn, p.window, mask, values)

	if err := xproto.MapWindowChecked(conn, p.window).Check(); err != nil {
		return fmt.Errorf("failed to map panel: %w", err)
	}
	p.mapped = true
	p.drawLocked()
	return nil
}

// Focus gives the panel keyboard focus. Override-redirect windows are never
// focused by the window manager, so focus is set directly.
func (p *Panel) Focus() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mapped {
		return fmt.Errorf("panel is not mapped")
	}
	return xproto.SetInputFocusChecked(
		p.xu.Conn(),
		xproto.InputFocusPointerRoot,
		p.window,
		xproto.TimeCurrentTime,
	).Check()
}

// Hide unmaps the panel. Hiding an unmapped panel is a no-op.
func (p *Panel) Hide() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mapped || !p.created {
		p.mapped = false
		return nil
	}
	// Cleared before the request so the resulting UnmapNotify is not
	// mistaken for an external close.
	p.mapped = false
	if err := xproto.UnmapWindowChecked(p.xu.Conn(), p.window).Check(); err != nil {
		return fmt.Errorf("failed to unmap panel: %w", err)
	}
	return nil
}

// Destroy releases all X resources held by the panel.
func (p *Panel) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.created {
		return
	}
	p.releaseLocked(true)
}

// releaser frees the server-side resources of a panel.
type releaser interface {
	Detach(w xproto.Window)
	FreeGC(gc xproto.Gcontext)
	CloseFont(f xproto.Font)
	DestroyWindow(w xproto.Window)
}

type xReleaser struct {
	xu *xgbutil.XUtil
}

func (r xReleaser) Detach(w xproto.Window) { xevent.Detach(r.xu, w) }
func (r xReleaser) FreeGC(gc xproto.Gcontext) { xproto.FreeGC(r.xu.Conn(), gc) }
func (r xReleaser) CloseFont(f xproto.Font) { xproto.CloseFont(r.xu.Conn(), f) }
func (r xReleaser) DestroyWindow(w xproto.Window) { xproto.DestroyWindow(r.xu.Conn(), w) }

// releaseLocked frees the GC and font and forgets the window. The window is
// destroyed only when it still exists on the server.
func (p *Panel) releaseLocked(destroyWindow bool) {
	var r releaser = xReleaser{xu: p.xu}
	if p.releaser != nil {
		r = p.releaser
	}
	r.Detach(p.window)
	if p.gc != 0 {
		r.FreeGC(p.gc)
	}
	if p.font != 0 {
		r.CloseFont(p.font)
	}
	if destroyWindow {
		r.DestroyWindow(p.window)
	}
	p.window, p.gc, p.font = 0, 0, 0
	p.created = false
	p.mapped = false
}

func (p *Panel) ensureResourcesLocked() error {
	if p.disabled {
		return ErrPanelUnavailable
	}
	if p.created {
		return nil
	}

	conn := p.xu.Conn()
	window, err := p.createOverrideRedirectWindow()
	if err != nil {
		p.disabled = true
		return fmt.Errorf("%w: %v", ErrPanelUnavailable, err)
	}

	font, err := xproto.NewFontId(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		p.disabled = true
		return fmt.Errorf("%w: %v", ErrPanelUnavailable, err)
	}

	opened := false
	for _, fontName := range panelFonts {
		if xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		xproto.DestroyWindow(conn, window)
		p.disabled = true
		return fmt.Errorf("%w: no core font available", ErrPanelUnavailable)
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		xproto.DestroyWindow(conn, window)
		p.disabled = true
		return fmt.Errorf("%w: %v", ErrPanelUnavailable, err)
	}

	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(window),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			ColorPanelText, // foreground
			ColorPanelBg,   // background
			uint32(font),   // font
			0,              // graphics_exposures=false
		},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		xproto.DestroyWindow(conn, window)
		p.disabled = true
		return fmt.Errorf("%w: %v", ErrPanelUnavailable, err)
	}

	p.window = window
	p.gc = gc
	p.font = font
	p.created = true

	xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count != 0 {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.mapped {
			p.drawLocked()
		}
	}).Connect(p.xu, window)
	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		p.closedExternally(false)
	}).Connect(p.xu, window)
	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		p.closedExternally(true)
	}).Connect(p.xu, window)

	return nil
}

func (p *Panel) closedExternally(destroyed bool) {
	p.mu.Lock()
	wasMapped := p.mapped
	p.mapped = false
	if destroyed && p.created {
		p.releaseLocked(false)
	}
	fn := p.onClosed
	p.mu.Unlock()

	if wasMapped && fn != nil {
		fn()
	}
}

func (p *Panel) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := p.xu.Conn()
	screen := p.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		p.root,
		int16(p.x), int16(p.y),
		uint16(p.width), uint16(p.height),
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		// Value order follows the mask bit positions (low to high).
		[]uint32{
			ColorPanelBg,
			1, // override_redirect
			xproto.EventMaskExposure | xproto.EventMaskStructureNotify | xproto.EventMaskKeyPress,
		},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

func (p *Panel) drawLocked() {
	conn := p.xu.Conn()
	xproto.ClearArea(conn, false, p.window, 0, 0, 0, 0)

	baseline := panelPaddingY + panelLineHeight - 4
	for i, line := range layoutPanelLines(p.title, p.lines, p.width, p.height) {
		if line == "" {
			continue
		}
		fg := uint32(ColorPanelText)
		if i == 0 && p.title != "" {
			fg = ColorPanelAccent
		}
		xproto.ChangeGC(conn, p.gc, xproto.GcForeground, []uint32{fg})
		xproto.ImageText8(
			conn,
			byte(len(line)),
			xproto.Drawable(p.window),
			p.gc,
			int16(panelPaddingX),
			int16(baseline+i*panelLineHeight),
			line,
		)
	}
}

// layoutPanelLines fits title and lines into a panel of the given pixel
// size: lines are cut to the available columns and the last visible row
// becomes "..." when rows run out. A non-empty title is followed by a blank
// separator row.
func layoutPanelLines(title string, lines []string, width, height int) []string {
	cols := (width - 2*panelPaddingX) / panelCharWidth
	rows := (height - 2*panelPaddingY) / panelLineHeight
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cols = min(cols, 255)

	var all []string
	if title != "" {
		all = append(all, title, "")
	}
	all = append(all, lines...)

	out := make([]string, 0, min(len(all), rows))
	for i, line := range all {
		if i == rows-1 && len(all) > rows {
			out = append(out, "...")
			break
		}
		out = append(out, truncateColumns(line, cols))
	}
	return out
}

func truncateColumns(s string, cols int) string {
	s = strings.Map(func(r rune) rune {
		// ImageText8 only renders single-byte characters.
		if r == '\t' {
			return ' '
		}
		if r > 0xff {
			return '?'
		}
		return r
	}, s)
	// Latin-1 range runes may still be multi-byte in UTF-8; encode as bytes.
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	if len(b) <= cols {
		return string(b)
	}
	if cols <= 3 {
		return string(b[:cols])
	}
	return string(b[:cols-3]) + "..."
}
