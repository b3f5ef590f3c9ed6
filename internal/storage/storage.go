// Package storage persists user applications and shortcut lists as JSON
// blobs in the keysheet data directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/keysheet/internal/registry"
	"github.com/1broseidon/keysheet/internal/runtimepath"
	"github.com/google/uuid"
)

const (
	applicationsFile = "applications.json"
	listsFile        = "lists.json"
)

// ErrNotFound is returned when an ID does not name a stored record.
var ErrNotFound = errors.New("not found")

// Error reports a failed read, write or decode of a blob file.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Shortcut is one key combination and what it does.
type Shortcut struct {
	ID          string `json:"id"`
	KeyCombo    string `json:"key_combo"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// ShortcutList is a named group of shortcuts for one application.
type ShortcutList struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	ApplicationID string     `json:"application_id"`
	Shortcuts     []Shortcut `json:"shortcuts"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Store reads and writes the blob files under a single directory.
type Store struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

// New returns a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Open returns a store rooted at the default data directory.
func Open() (*Store, error) {
	dir, err := runtimepath.DataDir()
	if err != nil {
		return nil, err
	}
	return New(dir), nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string { return s.dir }

// LoadUserApplications returns the user's application overrides. A missing
// file yields an empty slice.
func (s *Store) LoadUserApplications() ([]registry.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadApplications()
}

// SaveUserApplications replaces the stored overrides.
func (s *Store) SaveUserApplications(apps []registry.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(applicationsFile, apps)
}

// SaveApplication upserts one override by ID. An empty ID is assigned a new
// one, which is returned.
func (s *Store) SaveApplication(app registry.Application) (registry.Application, error) {
	if strings.TrimSpace(app.ProcessName) == "" {
		return app, fmt.Errorf("application process name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.loadApplications()
	if err != nil {
		return app, err
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	apps = upsert(apps, app, func(a registry.Application) string { return a.ID })
	if err := s.writeJSON(applicationsFile, apps); err != nil {
		return app, err
	}
	return app, nil
}

// Applications returns the effective registry: the bundled catalog merged
// with the stored overrides. Load failures are returned unchanged so callers
// can decide whether to fall back to the bundled catalog alone.
func (s *Store) Applications() (registry.Registry, error) {
	user, err := s.LoadUserApplications()
	if err != nil {
		return nil, err
	}
	return registry.Resolve(registry.BundledApplications(), user), nil
}

// SetLastUsedList records listID as the preferred list of the application
// with appID. Bundled entries are copied into the overrides on first use.
func (s *Store) SetLastUsedList(appID, listID string) error {
	reg, err := s.Applications()
	if err != nil {
		return err
	}
	app, ok := reg.ByID(appID)
	if !ok {
		return fmt.Errorf("application %q: %w", appID, ErrNotFound)
	}
	app.LastUsedListID = &listID
	_, err = s.SaveApplication(app)
	return err
}

// LoadLists returns every stored shortcut list. A missing file yields an
// empty slice.
func (s *Store) LoadLists() ([]ShortcutList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLists()
}

// SaveLists replaces every stored list.
func (s *Store) SaveLists(lists []ShortcutList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(listsFile, lists)
}

// SaveList upserts a list by ID, stamping its timestamps. An empty ID is
// assigned a new one.
func (s *Store) SaveList(list ShortcutList) (ShortcutList, error) {
	if strings.TrimSpace(list.Name) == "" {
		return list, fmt.Errorf("list name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.loadLists()
	if err != nil {
		return list, err
	}

	now := s.now().UTC()
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = now
	}
	list.UpdatedAt = now
	for i := range list.Shortcuts {
		if list.Shortcuts[i].ID == "" {
			list.Shortcuts[i].ID = uuid.NewString()
		}
	}

	lists = upsert(lists, list, func(l ShortcutList) string { return l.ID })
	if err := s.writeJSON(listsFile, lists); err != nil {
		return list, err
	}
	return list, nil
}

// DeleteList removes the list with the given ID.
func (s *Store) DeleteList(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.loadLists()
	if err != nil {
		return err
	}
	kept := lists[:0]
	for _, l := range lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(lists) {
		return fmt.Errorf("list %q: %w", id, ErrNotFound)
	}
	return s.writeJSON(listsFile, kept)
}

// ListsFor returns the lists attached to an application in stored order.
func (s *Store) ListsFor(appID string) ([]ShortcutList, error) {
	lists, err := s.LoadLists()
	if err != nil {
		return nil, err
	}
	var out []ShortcutList
	for _, l := range lists {
		if l.ApplicationID == appID {
			out = append(out, l)
		}
	}
	return out, nil
}

// PreferredList picks the list to show for app: its last used list when that
// still exists, otherwise the first list attached to it.
func (s *Store) PreferredList(app registry.Application) (ShortcutList, bool, error) {
	lists, err := s.ListsFor(app.ID)
	if err != nil {
		return ShortcutList{}, false, err
	}
	if len(lists) == 0 {
		return ShortcutList{}, false, nil
	}
	if app.LastUsedListID != nil {
		for _, l := range lists {
			if l.ID == *app.LastUsedListID {
				return l, true, nil
			}
		}
	}
	return lists[0], true, nil
}

// InitializeDefaults seeds the bundled shortcut lists when no lists exist.
// It reports whether anything was written.
func (s *Store) InitializeDefaults() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.loadLists()
	if err != nil {
		return false, err
	}
	if len(lists) > 0 {
		return false, nil
	}
	if err := s.writeJSON(listsFile, DefaultLists()); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) loadApplications() ([]registry.Application, error) {
	apps := []registry.Application{}
	if err := s.readJSON(applicationsFile, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *Store) loadLists() ([]ShortcutList, error) {
	lists := []ShortcutList{}
	if err := s.readJSON(listsFile, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *Store) readJSON(name string, out any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &Error{Op: "read", Path: path, Err: err}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: "decode", Path: path, Err: err}
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &Error{Op: "mkdir", Path: s.dir, Err: err}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0644); err != nil {
		return &Error{Op: "write", Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &Error{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func upsert[T any](items []T, item T, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}
