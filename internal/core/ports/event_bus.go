package ports

import (
	"context"
	"eventdispatch/internal/core/domain"
)

// EventBus defines the type-erased registry behind the typed helpers in
// package dispatch. Callers normally go through dispatch.AddListener,
// dispatch.RemoveListener and dispatch.Dispatch instead of calling it directly.
type EventBus interface {
	// AddListener appends l to the listeners of t and returns its handle.
	AddListener(t domain.EventType, l domain.Listener) domain.Handle

	// RemoveListener drops the listener behind h. Unknown handles are ignored.
	RemoveListener(h domain.Handle)

	// Dispatch calls every listener of t, in registration order, with event.
	// The first listener error stops the dispatch and is returned as is.
	Dispatch(ctx context.Context, t domain.EventType, event any) error

	// Listeners returns a snapshot of the listeners of t.
	Listeners(t domain.EventType) []domain.Listener

	// Len returns the number of listeners registered for t.
	Len(t domain.EventType) int

	// Reset drops every registered listener.
	Reset()
}
