package hotkeys

import (
	"fmt"
	"strconv"
	"strings"
)

// BindErrorKind classifies hotkey registration failures.
type BindErrorKind int

const (
	// KindInvalidSyntax means the binding string could not be parsed.
	KindInvalidSyntax BindErrorKind = iota + 1
	// KindAlreadyBound means another client holds the key combination.
	KindAlreadyBound
)

func (k BindErrorKind) String() string {
	switch k {
	case KindInvalidSyntax:
		return "invalid syntax"
	case KindAlreadyBound:
		return "already bound"
	default:
		return "unknown"
	}
}

// BindError reports why a binding could not be registered.
type BindError struct {
	Kind    BindErrorKind
	Binding string
	Err     error
}

func (e *BindError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hotkey %q: %s: %v", e.Binding, e.Kind, e.Err)
	}
	return fmt.Sprintf("hotkey %q: %s", e.Binding, e.Kind)
}

func (e *BindError) Unwrap() error { return e.Err }

// Binding is a parsed key combination in X keysym terms.
type Binding struct {
	// Mods holds canonical modifier names in a fixed order.
	Mods []string
	// Key is an X keysym name.
	Key string
}

// String renders the binding in xgbutil keybind syntax, e.g. "control-shift-k".
func (b Binding) String() string {
	parts := append(append([]string{}, b.Mods...), b.Key)
	return strings.Join(parts, "-")
}

var modifierOrder = []string{"control", "shift", "mod1", "mod2", "mod3", "mod4", "mod5"}

var modifierAliases = map[string]string{
	"control":          "control",
	"ctrl":             "control",
	"commandorcontrol": "control",
	"cmdorctrl":        "control",
	"cmdorcontrol":     "control",
	"commandorctrl":    "control",
	"shift":            "shift",
	"alt":              "mod1",
	"option":           "mod1",
	"mod1":             "mod1",
	"mod2":             "mod2",
	"mod3":             "mod3",
	"super":            "mod4",
	"meta":             "mod4",
	"win":              "mod4",
	"cmd":              "mod4",
	"command":          "mod4",
	"mod4":             "mod4",
	"mod5":             "mod5",
}

var namedKeys = map[string]string{
	"space":     "space",
	"enter":     "Return",
	"return":    "Return",
	"esc":       "Escape",
	"escape":    "Escape",
	"tab":       "Tab",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"del":       "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pageup":    "Prior",
	"pagedown":  "Next",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
}

var punctuationKeys = map[string]string{
	"`": "grave",
	"/": "slash",
	`\`: "backslash",
	"-": "minus",
	"+": "plus",
	"=": "equal",
	",": "comma",
	".": "period",
	";": "semicolon",
	"'": "apostrophe",
	"[": "bracketleft",
	"]": "bracketright",
}

// ParseBinding accepts both xgbutil syntax ("Mod4-Shift-k") and accelerator
// syntax ("CommandOrControl+Shift+K"). Exactly one non-modifier key is
// required. Whether the key exists on the current keyboard is only known
// once the binding is registered with the X server.
func ParseBinding(s string) (Binding, error) {
	raw := s
	s = strings.TrimSpace(s)
	invalid := func(format string, args ...any) (Binding, error) {
		return Binding{}, &BindError{Kind: KindInvalidSyntax, Binding: raw, Err: fmt.Errorf(format, args...)}
	}
	if s == "" {
		return invalid("binding is empty")
	}

	// A trailing "+" may be the key itself, as in "Control-+".
	sep := "-"
	if strings.Contains(strings.TrimSuffix(s, "+"), "+") {
		sep = "+"
	}

	var key string
	if s == sep {
		key = sep
		s = ""
	} else if strings.HasSuffix(s, sep+sep) {
		key = sep
		s = strings.TrimSuffix(s, sep+sep)
	}

	seen := make(map[string]bool)
	if s != "" {
		for _, tok := range strings.Split(s, sep) {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				return invalid("empty key in %q", raw)
			}
			if mod, ok := modifierAliases[strings.ToLower(tok)]; ok {
				seen[mod] = true
				continue
			}
			if key != "" {
				return invalid("more than one key (%q and %q)", key, tok)
			}
			key = tok
		}
	}
	if key == "" {
		return invalid("no key given, only modifiers")
	}

	keysym, err := canonicalKey(key)
	if err != nil {
		return invalid("%v", err)
	}

	b := Binding{Key: keysym}
	for _, mod := range modifierOrder {
		if seen[mod] {
			b.Mods = append(b.Mods, mod)
		}
	}
	return b, nil
}

func canonicalKey(key string) (string, error) {
	if name, ok := punctuationKeys[key]; ok {
		return name, nil
	}
	if len(key) == 1 {
		c := key[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return strings.ToLower(key), nil
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return key, nil
		}
		return "", fmt.Errorf("unsupported key %q", key)
	}
	lower := strings.ToLower(key)
	if name, ok := namedKeys[lower]; ok {
		return name, nil
	}
	if len(lower) >= 2 && lower[0] == 'f' {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 24 && strconv.Itoa(n) == lower[1:] {
			return "F" + lower[1:], nil
		}
	}
	for _, r := range key {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "", fmt.Errorf("unsupported key %q", key)
		}
	}
	return key, nil
}
