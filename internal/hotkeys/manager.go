package hotkeys

import (
	"errors"
	"log/slog"
	"sync"
)

// Registrar performs the platform side of a global key grab.
type Registrar interface {
	Register(b Binding, onPress func()) error
	Unregister(b Binding) error
}

// Manager owns the single global hotkey that toggles the overlay.
type Manager struct {
	mu      sync.Mutex
	reg     Registrar
	onPress func()
	logger  *slog.Logger
	active  *Binding
}

// NewManager creates a manager that calls onPress whenever the active
// binding fires.
func NewManager(reg Registrar, onPress func(), logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{reg: reg, onPress: onPress, logger: logger}
}

// Active returns the active binding in canonical form, or "" when nothing is
// bound.
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return ""
	}
	return m.active.String()
}

// Rebind replaces the active binding. The new string is parsed before the
// old binding is released, so a syntax error leaves the old binding in
// place. If the new binding cannot be registered the old one is restored
// when possible. Rebinding to the binding already active is a no-op.
func (m *Manager) Rebind(binding string) error {
	next, err := ParseBinding(binding)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && m.active.String() == next.String() {
		return nil
	}

	prev := m.active
	if prev != nil {
		if err := m.reg.Unregister(*prev); err != nil {
			m.logger.Warn("failed to release hotkey", "binding", prev.String(), "error", err)
		}
		m.active = nil
	}

	if err := m.reg.Register(next, m.onPress); err != nil {
		var bindErr *BindError
		if !errors.As(err, &bindErr) {
			err = &BindError{Kind: KindAlreadyBound, Binding: binding, Err: err}
		}
		if prev != nil {
			if rerr := m.reg.Register(*prev, m.onPress); rerr == nil {
				m.active = prev
			} else {
				m.logger.Error("failed to restore previous hotkey", "binding", prev.String(), "error", rerr)
			}
		}
		return err
	}

	m.active = &next
	m.logger.Info("hotkey bound", "binding", next.String())
	return nil
}

// Unbind releases the active binding, if any.
func (m *Manager) Unbind() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	err := m.reg.Unregister(*m.active)
	m.active = nil
	return err
}
