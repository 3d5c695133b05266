package domain

import (
	"context"
	"reflect"

	"github.com/google/uuid"
)

// EventType is the runtime identity of a concrete event type.
// It is only ever used as a lookup key.
type EventType struct {
	t reflect.Type
}

// EventTypeOf returns the identity of E.
func EventTypeOf[E any]() EventType {
	return EventType{t: reflect.TypeFor[E]()}
}

// IsZero reports whether et identifies no type at all.
func (et EventType) IsZero() bool {
	return et.t == nil
}

func (et EventType) String() string {
	if et.t == nil {
		return "<nil>"
	}
	return et.t.String()
}

// Handle identifies one registered listener. It is returned by AddListener
// and is the only way to remove that listener again.
type Handle struct {
	Type EventType
	ID   uuid.UUID
}

// NewHandle creates a fresh handle for a listener of type et.
func NewHandle(et EventType) Handle {
	return Handle{Type: et, ID: uuid.New()}
}

// IsZero reports whether h was never returned by a registration.
func (h Handle) IsZero() bool {
	return h.ID == uuid.Nil
}

// Listener is the type-erased form every registry stores.
type Listener func(ctx context.Context, event any) error

// ListenerFunc is a callback for events of type E. It may mutate any state it
// captures; the registry calls it with a pointer to the dispatched value.
type ListenerFunc[E any] func(ctx context.Context, event *E) error

// Erase wraps fn so it can be stored next to listeners of other types.
// If the value handed to the wrapper is not a *E, fn is not called and the
// wrapper returns nil.
func Erase[E any](fn ListenerFunc[E]) Listener {
	return func(ctx context.Context, event any) error {
		e, ok := event.(*E)
		if !ok {
			return nil
		}
		return fn(ctx, e)
	}
}
