package eventbus

import (
	"bytes"
	"context"
	"errors"
	"eventdispatch/internal/core/dispatch"
	"eventdispatch/internal/core/domain"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

// MockRegisteredListener records UserRegistered deliveries
type MockRegisteredListener struct {
	mock.Mock
}

func (m *MockRegisteredListener) Handle(ctx context.Context, ev *domain.UserRegistered) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// --- Tests ---

func TestInMemoryBus_Dispatch(t *testing.T) {
	// 1. Setup
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(&nopLogger)

	listener := new(MockRegisteredListener)
	dispatch.AddListener(bus, listener.Handle)

	ev := &domain.UserRegistered{UserID: uuid.New(), TelegramID: 789}
	listener.On("Handle", mock.Anything, ev).Return(nil).Once()

	// 2. Run
	err := dispatch.Dispatch(ctx, bus, ev)

	// 3. Assert
	require.NoError(t, err)
	listener.AssertExpectations(t)
}

func TestInMemoryBus_OnlyMatchingTypeIsCalled(t *testing.T) {
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(&nopLogger)

	listener := new(MockRegisteredListener)
	dispatch.AddListener(bus, listener.Handle)

	// UserDeleted has the same fields as UserRegistered.
	err := dispatch.Dispatch(ctx, bus, &domain.UserDeleted{UserID: uuid.New()})
	require.NoError(t, err)
	err = dispatch.Dispatch(ctx, bus, &domain.UserVerified{UserID: uuid.New()})
	require.NoError(t, err)

	listener.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestInMemoryBus_RemoveListener(t *testing.T) {
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(&nopLogger)

	listener := new(MockRegisteredListener)
	h := dispatch.AddListener(bus, listener.Handle)
	require.Equal(t, 1, bus.Len(domain.EventTypeOf[domain.UserRegistered]()))

	dispatch.RemoveListener(bus, h)
	dispatch.RemoveListener(bus, h)
	dispatch.RemoveListener(bus, domain.Handle{})

	require.NoError(t, dispatch.Dispatch(ctx, bus, &domain.UserRegistered{}))
	listener.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	assert.Equal(t, 0, bus.Len(domain.EventTypeOf[domain.UserRegistered]()))
}

func TestInMemoryBus_ErrorIsReturnedUnchanged(t *testing.T) {
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(&nopLogger)
	errBoom := errors.New("handler failed")

	first := new(MockRegisteredListener)
	second := new(MockRegisteredListener)
	dispatch.AddListener(bus, first.Handle)
	dispatch.AddListener(bus, second.Handle)

	first.On("Handle", mock.Anything, mock.Anything).Return(errBoom).Once()

	err := dispatch.Dispatch(ctx, bus, &domain.UserRegistered{})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, errBoom, err)

	first.AssertExpectations(t)
	second.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestInMemoryBus_ReentrantListenerDoesNotDeadlock(t *testing.T) {
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(&nopLogger)

	var verified atomic.Int32
	dispatch.AddListener(bus, func(ctx context.Context, ev *domain.UserRegistered) error {
		// Subscribe, dispatch and unsubscribe from inside a listener.
		h := dispatch.AddListener(bus, func(ctx context.Context, ev *domain.UserVerified) error {
			verified.Add(1)
			return nil
		})
		err := dispatch.Dispatch(ctx, bus, &domain.UserVerified{UserID: ev.UserID})
		dispatch.RemoveListener(bus, h)
		return err
	})

	done := make(chan error, 1)
	go func() {
		done <- dispatch.Dispatch(ctx, bus, &domain.UserRegistered{UserID: uuid.New()})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("re-entrant dispatch deadlocked")
	}
	assert.Equal(t, int32(1), verified.Load())
	assert.Equal(t, 0, bus.Len(domain.EventTypeOf[domain.UserVerified]()))
}

func TestInMemoryBus_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(&nopLogger)

	var calls atomic.Int64
	const workers = 8
	const rounds = 50

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				h := dispatch.AddListener(bus, func(ctx context.Context, ev *domain.UserVerified) error {
					calls.Add(1)
					return nil
				})
				assert.NoError(t, dispatch.Dispatch(ctx, bus, &domain.UserVerified{}))
				dispatch.RemoveListener(bus, h)
			}
		}()
	}
	wg.Wait()

	// Each dispatch sees at least the listener its own goroutine added.
	assert.GreaterOrEqual(t, calls.Load(), int64(workers*rounds))
	assert.Equal(t, 0, bus.Len(domain.EventTypeOf[domain.UserVerified]()))
}

func TestInMemoryBus_Reset(t *testing.T) {
	ctx := context.Background()
	nopLogger := zerolog.Nop()
	bus := NewInMemoryEventBus(&nopLogger)

	listener := new(MockRegisteredListener)
	dispatch.AddListener(bus, listener.Handle)
	dispatch.For[domain.UserVerified](bus).AddListener(func(ctx context.Context, ev *domain.UserVerified) error {
		return nil
	})

	bus.Reset()

	require.NoError(t, dispatch.Dispatch(ctx, bus, &domain.UserRegistered{}))
	listener.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	assert.Empty(t, bus.Listeners(domain.EventTypeOf[domain.UserRegistered]()))
	assert.Equal(t, 0, bus.Len(domain.EventTypeOf[domain.UserVerified]()))
}

func TestInMemoryBus_LogsEachSubscriptionOnce(t *testing.T) {
	var buf bytes.Buffer
	baseLogger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	bus := NewInMemoryEventBus(&baseLogger)

	h := dispatch.AddListener(bus, func(ctx context.Context, ev *domain.UserRegistered) error {
		return nil
	})
	dispatch.RemoveListener(bus, h)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, h.ID.String()))
	assert.Contains(t, out, `"component":"in_memory_bus"`)
	assert.NotContains(t, out, `"component":"dispatcher"`)
}
