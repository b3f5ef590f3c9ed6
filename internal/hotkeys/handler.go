package hotkeys

import (
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// X11Registrar grabs bindings on the root window so they fire regardless of
// which client has focus. Callbacks run on the xevent main loop goroutine.
type X11Registrar struct {
	xu   *xgbutil.XUtil
	root xproto.Window
}

var _ Registrar = (*X11Registrar)(nil)

var ignoreModsOnce sync.Once

// NewX11Registrar creates a registrar bound to the root window.
func NewX11Registrar(xu *xgbutil.XUtil, root xproto.Window) *X11Registrar {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &X11Registrar{xu: xu, root: root}
}

// Register grabs b and attaches onPress to it. A grab refused with BadAccess
// means another client owns the combination.
func (r *X11Registrar) Register(b Binding, onPress func()) error {
	keyStr := b.String()
	mods, keycodes, err := keybind.ParseString(r.xu, keyStr)
	if err != nil {
		return &BindError{Kind: KindInvalidSyntax, Binding: keyStr, Err: err}
	}

	grab := func(kc xproto.Keycode) error { return keybind.GrabChecked(r.xu, r.root, mods, kc) }
	ungrab := func(kc xproto.Keycode) { keybind.Ungrab(r.xu, r.root, mods, kc) }

	if err := grabAll(keycodes, grab, ungrab); err != nil {
		var access xproto.AccessError
		if errors.As(err, &access) {
			return &BindError{Kind: KindAlreadyBound, Binding: keyStr, Err: err}
		}
		return fmt.Errorf("failed to grab %q: %w", keyStr, err)
	}

	// The grab is already in place, so Connect only attaches the callback.
	err = keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		onPress()
	}).Connect(r.xu, r.root, keyStr, false)
	if err != nil {
		for _, kc := range keycodes {
			ungrab(kc)
		}
		return fmt.Errorf("failed to attach %q: %w", keyStr, err)
	}
	return nil
}

// grabAll grabs every keycode or none. GrabChecked stops at the first
// refused lock-modifier variant and may leave others of the same keycode
// grabbed, so the failing keycode is released along with the earlier ones.
func grabAll(keycodes []xproto.Keycode, grab func(xproto.Keycode) error, ungrab func(xproto.Keycode)) error {
	for i, keycode := range keycodes {
		if err := grab(keycode); err != nil {
			for _, kc := range keycodes[:i+1] {
				ungrab(kc)
			}
			return err
		}
	}
	return nil
}

// Unregister releases b and drops the key press callbacks on the root
// window.
func (r *X11Registrar) Unregister(b Binding) error {
	mods, keycodes, err := keybind.ParseString(r.xu, b.String())
	if err != nil {
		return err
	}
	keybind.DetachPress(r.xu, r.root)
	for _, keycode := range keycodes {
		keybind.Ungrab(r.xu, r.root, mods, keycode)
	}
	return nil
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
