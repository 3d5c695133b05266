package dispatch

import (
	"context"
	"eventdispatch/internal/core/domain"
	"eventdispatch/internal/core/ports"
)

// AddListener registers fn for events of type E and returns the handle that
// removes it again. Registering the same function twice yields two handles.
func AddListener[E any](bus ports.EventBus, fn domain.ListenerFunc[E]) domain.Handle {
	return bus.AddListener(domain.EventTypeOf[E](), domain.Erase(fn))
}

// RemoveListener removes the listener behind h.
func RemoveListener(bus ports.EventBus, h domain.Handle) {
	bus.RemoveListener(h)
}

// Dispatch delivers event to every listener registered for E.
func Dispatch[E any](ctx context.Context, bus ports.EventBus, event *E) error {
	return bus.Dispatch(ctx, domain.EventTypeOf[E](), event)
}

// Typed binds a registry to a single event type.
type Typed[E any] struct {
	bus ports.EventBus
	et  domain.EventType
}

// For returns the typed view of bus for events of type E. It is cheap to
// create and does not need to be kept around.
func For[E any](bus ports.EventBus) Typed[E] {
	return Typed[E]{bus: bus, et: domain.EventTypeOf[E]()}
}

func (t Typed[E]) AddListener(fn domain.ListenerFunc[E]) domain.Handle {
	return t.bus.AddListener(t.et, domain.Erase(fn))
}

// RemoveListener removes the listener behind h if it was registered for E.
// Handles of other event types are ignored.
func (t Typed[E]) RemoveListener(h domain.Handle) {
	if h.Type != t.et {
		return
	}
	t.bus.RemoveListener(h)
}

func (t Typed[E]) Dispatch(ctx context.Context, event *E) error {
	return t.bus.Dispatch(ctx, t.et, event)
}

// Len returns the number of listeners registered for E.
func (t Typed[E]) Len() int {
	return t.bus.Len(t.et)
}
