// Package registry merges the bundled application catalog with user edits and
// resolves process identities against the result.
package registry

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Application describes a program keysheet has shortcut lists for.
type Application struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	ProcessName    string  `json:"process_name"`
	Icon           *string `json:"icon,omitempty"`
	LastUsedListID *string `json:"last_used_list_id,omitempty"`
}

// Registry is the effective, ordered application catalog. No two entries
// share a normalized process identity.
type Registry []Application

// NormalizeProcessIdentity reduces a process name to the form used for
// matching: surrounding whitespace and any directory prefix are dropped, a
// trailing ".exe" is stripped and the result is case-folded. Two names
// normalize equally exactly when they differ only in simple case folding.
func NormalizeProcessIdentity(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".exe") {
		name = name[:len(name)-len(ext)]
	}
	return strings.Map(foldRune, name)
}

// foldRune maps r to the lower-case form of the smallest rune in its simple
// folding orbit, so every member of the orbit maps to the same rune.
func foldRune(r rune) rune {
	lowest := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < lowest {
			lowest = f
		}
	}
	return unicode.ToLower(lowest)
}

// SameProcess reports whether a and b name the same process.
func SameProcess(a, b string) bool {
	return NormalizeProcessIdentity(a) == NormalizeProcessIdentity(b)
}

// Resolve builds the effective registry. Every override whose process
// identity matches an existing entry replaces it in place; other overrides
// are appended in order. Duplicates within either input collapse so the last
// one wins. Inputs are never modified.
func Resolve(bundled, overrides []Application) Registry {
	out := make(Registry, 0, len(bundled)+len(overrides))
	index := make(map[string]int, len(bundled)+len(overrides))

	merge := func(apps []Application) {
		for _, app := range apps {
			key := NormalizeProcessIdentity(app.ProcessName)
			if i, ok := index[key]; ok {
				out[i] = app
				continue
			}
			index[key] = len(out)
			out = append(out, app)
		}
	}
	merge(bundled)
	merge(overrides)

	return out
}

// Lookup finds the entry for a running process. An empty identity never
// matches.
func Lookup(reg Registry, processIdentity string) (Application, bool) {
	key := NormalizeProcessIdentity(processIdentity)
	if key == "" {
		return Application{}, false
	}
	for _, app := range reg {
		if NormalizeProcessIdentity(app.ProcessName) == key {
			return app, true
		}
	}
	return Application{}, false
}

// Lookup is a convenience wrapper around the package-level Lookup.
func (r Registry) Lookup(processIdentity string) (Application, bool) {
	return Lookup(r, processIdentity)
}

// ByID returns the entry with the given ID.
func (r Registry) ByID(id string) (Application, bool) {
	for _, app := range r {
		if app.ID == id {
			return app, true
		}
	}
	return Application{}, false
}

// DisplayName returns the registered name for processIdentity, or the raw
// identity when the process is unknown.
func DisplayName(reg Registry, processIdentity string) string {
	if app, ok := Lookup(reg, processIdentity); ok && app.Name != "" {
		return app.Name
	}
	return processIdentity
}

// Suggestion is a near-miss entry for an identity Lookup could not match.
type Suggestion struct {
	Application Application `json:"application"`
	Distance    int         `json:"distance"`
}

// Suggest ranks entries whose process identity or display name is within a
// small edit distance of processIdentity. At most limit results are returned,
// closest first.
func Suggest(reg Registry, processIdentity string, limit int) []Suggestion {
	key := NormalizeProcessIdentity(processIdentity)
	if key == "" || limit <= 0 {
		return nil
	}
	threshold := len(key) / 3
	if threshold < 2 {
		threshold = 2
	}

	var out []Suggestion
	for _, app := range reg {
		d := levenshtein.ComputeDistance(key, NormalizeProcessIdentity(app.ProcessName))
		if nd := levenshtein.ComputeDistance(key, strings.Map(foldRune, app.Name)); nd < d {
			d = nd
		}
		if d == 0 || d > threshold {
			continue
		}
		out = append(out, Suggestion{Application: app, Distance: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Application.Name < out[j].Application.Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Find resolves a user-supplied reference: an exact ID first, then a process
// identity, then a case-insensitive display name.
func (r Registry) Find(ref string) (Application, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Application{}, false
	}
	if app, ok := r.ByID(ref); ok {
		return app, true
	}
	if app, ok := Lookup(r, ref); ok {
		return app, true
	}
	for _, app := range r {
		if strings.EqualFold(app.Name, ref) {
			return app, true
		}
	}
	return Application{}, false
}
