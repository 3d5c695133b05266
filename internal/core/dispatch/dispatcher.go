package dispatch

import (
	"context"
	"eventdispatch/internal/core/domain"
	"eventdispatch/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// bucket holds the listeners of one event type. Both slices are replaced,
// never modified in place, so a bucket read at the start of a dispatch is a
// stable snapshot.
type bucket struct {
	ids []uuid.UUID
	fns []domain.Listener
}

// Dispatcher is the single-owner registry. The zero value is ready to use.
type Dispatcher struct {
	log       zerolog.Logger
	listeners map[domain.EventType]bucket
}

var _ ports.EventBus = (*Dispatcher)(nil)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger derives the dispatcher's component logger from baseLogger.
func WithLogger(baseLogger *zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = baseLogger.With().Str("component", "dispatcher").Logger()
	}
}

// New creates an empty Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:       zerolog.Nop(),
		listeners: make(map[domain.EventType]bucket),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddListener appends l to the listeners of t.
func (d *Dispatcher) AddListener(t domain.EventType, l domain.Listener) domain.Handle {
	if d.listeners == nil {
		d.listeners = make(map[domain.EventType]bucket)
	}

	h := domain.NewHandle(t)
	b := d.listeners[t]
	n := len(b.ids)

	ids := make([]uuid.UUID, n, n+1)
	copy(ids, b.ids)
	fns := make([]domain.Listener, n, n+1)
	copy(fns, b.fns)

	d.listeners[t] = bucket{
		ids: append(ids, h.ID),
		fns: append(fns, l),
	}

	d.log.Debug().
		Str("event_type", t.String()).
		Str("listener_id", h.ID.String()).
		Int("listeners", n+1).
		Msg("Listener added")
	return h
}

// RemoveListener drops the listener behind h. Removing a listener that is not
// registered, or removing it twice, does nothing.
func (d *Dispatcher) RemoveListener(h domain.Handle) {
	if h.IsZero() {
		return
	}
	b, ok := d.listeners[h.Type]
	if !ok {
		return
	}

	idx := -1
	for i, id := range b.ids {
		if id == h.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	n := len(b.ids)
	if n == 1 {
		delete(d.listeners, h.Type)
	} else {
		ids := make([]uuid.UUID, 0, n-1)
		ids = append(append(ids, b.ids[:idx]...), b.ids[idx+1:]...)
		fns := make([]domain.Listener, 0, n-1)
		fns = append(append(fns, b.fns[:idx]...), b.fns[idx+1:]...)
		d.listeners[h.Type] = bucket{ids: ids, fns: fns}
	}

	d.log.Debug().
		Str("event_type", h.Type.String()).
		Str("listener_id", h.ID.String()).
		Int("listeners", n-1).
		Msg("Listener removed")
}

// Dispatch calls every listener of t with event, in registration order.
func (d *Dispatcher) Dispatch(ctx context.Context, t domain.EventType, event any) error {
	fns := d.Listeners(t)
	if len(fns) == 0 {
		d.log.Debug().Str("event_type", t.String()).Msg("Dispatched event with no listeners")
		return nil
	}

	if err := Invoke(ctx, fns, event); err != nil {
		d.log.Warn().Err(err).Str("event_type", t.String()).Msg("Listener failed, dispatch stopped")
		return err
	}

	d.log.Debug().Str("event_type", t.String()).Int("listeners", len(fns)).Msg("Event dispatched")
	return nil
}

// Listeners returns the listeners of t in registration order. The returned
// slice is shared with the dispatcher and must not be modified; later
// registrations and removals do not affect it.
func (d *Dispatcher) Listeners(t domain.EventType) []domain.Listener {
	fns := d.listeners[t].fns
	return fns[:len(fns):len(fns)]
}

// Len returns the number of listeners registered for t.
func (d *Dispatcher) Len(t domain.EventType) int {
	return len(d.listeners[t].ids)
}

// Reset drops every listener, releasing whatever they captured.
func (d *Dispatcher) Reset() {
	n := len(d.listeners)
	d.listeners = make(map[domain.EventType]bucket)
	d.log.Debug().Int("event_types", n).Msg("Dispatcher reset")
}

// Invoke calls each listener in order and stops at the first error, which is
// returned unwrapped.
func Invoke(ctx context.Context, listeners []domain.Listener, event any) error {
	for _, l := range listeners {
		if err := l(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
