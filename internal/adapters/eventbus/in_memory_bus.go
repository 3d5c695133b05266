package eventbus

import (
	"context"
	"eventdispatch/internal/core/dispatch"
	"eventdispatch/internal/core/domain"
	"eventdispatch/internal/core/ports"
	"sync"

	"github.com/rs/zerolog"
)

// inMemoryEventBus implements the ports.EventBus interface for registries
// shared between goroutines. Listeners still run synchronously on the
// dispatching goroutine.
type inMemoryEventBus struct {
	log   zerolog.Logger
	inner *dispatch.Dispatcher
	mu    sync.RWMutex
}

// NewInMemoryEventBus creates a new, empty event bus
func NewInMemoryEventBus(baseLogger *zerolog.Logger) ports.EventBus {
	return &inMemoryEventBus{
		log:   baseLogger.With().Str("component", "in_memory_bus").Logger(),
		inner: dispatch.New(),
	}
}

// AddListener registers a listener for a specific event type
func (b *inMemoryEventBus) AddListener(t domain.EventType, l domain.Listener) domain.Handle {
	b.mu.Lock() // Lock for writing to the map
	defer b.mu.Unlock()

	h := b.inner.AddListener(t, l)
	b.log.Info().Str("event_type", t.String()).Str("listener_id", h.ID.String()).Msg("New listener subscribed to event type")
	return h
}

// RemoveListener unsubscribes the listener behind h, if it is still there
func (b *inMemoryEventBus) RemoveListener(h domain.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inner.RemoveListener(h)
}

// Dispatch sends an event to all listeners of its type
func (b *inMemoryEventBus) Dispatch(ctx context.Context, t domain.EventType, event any) error {
	// Only the snapshot is taken under the lock, so listeners may
	// subscribe, unsubscribe or dispatch without deadlocking.
	b.mu.RLock()
	listeners := b.inner.Listeners(t)
	b.mu.RUnlock()

	if len(listeners) == 0 {
		// No subscribers for this event type, which is fine
		b.log.Debug().Str("event_type", t.String()).Msg("Dispatched event with no subscribers")
		return nil
	}

	if err := dispatch.Invoke(ctx, listeners, event); err != nil {
		b.log.Error().Err(err).Str("event_type", t.String()).Msg("Event listener failed")
		return err
	}

	b.log.Debug().Str("event_type", t.String()).Int("listeners", len(listeners)).Msg("Event dispatched")
	return nil
}

func (b *inMemoryEventBus) Listeners(t domain.EventType) []domain.Listener {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.inner.Listeners(t)
}

func (b *inMemoryEventBus) Len(t domain.EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.inner.Len(t)
}

// Reset drops every listener
func (b *inMemoryEventBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inner.Reset()
	b.log.Info().Msg("All listeners removed")
}
