package overlay

import (
	"context"
	"fmt"
)

// EventKind identifies an inbound coordinator event.
type EventKind int

const (
	EventToggle EventKind = iota + 1
	// EventWindowClosed reports that the overlay was closed by something
	// other than the coordinator.
	EventWindowClosed
	EventShowSettings
	EventHideSettings
)

func (k EventKind) String() string {
	switch k {
	case EventToggle:
		return "toggle"
	case EventWindowClosed:
		return "window-closed"
	case EventShowSettings:
		return "show-settings"
	case EventHideSettings:
		return "hide-settings"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a request for the coordinator. Done, when set, must have room
// for one value; it receives the handling error.
type Event struct {
	Kind EventKind
	Done chan error
}

// Post enqueues an event without waiting for it to be handled. It returns
// false when the queue is full.
func Post(events chan<- Event, kind EventKind) bool {
	select {
	case events <- Event{Kind: kind}:
		return true
	default:
		return false
	}
}

// Send enqueues an event and waits for its result.
func Send(ctx context.Context, events chan<- Event, kind EventKind) error {
	done := make(chan error, 1)
	select {
	case events <- Event{Kind: kind, Done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
