// Package dispatch implements a typed, in-process event dispatcher.
//
// Listeners are registered against the Go type of the event they accept, and
// a dispatch only reaches the listeners registered for the exact type of the
// dispatched value. Type identity is nominal: two named types with the same
// fields are different events, and a listener registered for an interface
// type only sees events dispatched as that interface type.
//
// # Registering and dispatching
//
//	d := dispatch.New()
//	h := dispatch.AddListener(d, func(ctx context.Context, ev *UserRegistered) error {
//	    fmt.Println("registered:", ev.UserID)
//	    return nil
//	})
//	err := dispatch.Dispatch(ctx, d, &UserRegistered{UserID: id})
//	dispatch.RemoveListener(d, h)
//
// For[E] bundles the same operations for a single event type:
//
//	registered := dispatch.For[UserRegistered](d)
//	h := registered.AddListener(onRegistered)
//	err := registered.Dispatch(ctx, &UserRegistered{UserID: id})
//
// # Ordering, re-entrancy and errors
//
// Listeners of one type run synchronously on the calling goroutine, in
// registration order. Each dispatch iterates over the listener set as it was
// when the dispatch started; listeners that add or remove listeners while
// running only change what later dispatches see.
//
// The first listener to return an error stops the dispatch, and that error is
// returned unchanged. Panics are not recovered.
//
// A Dispatcher is owned by one goroutine at a time. Use
// eventbus.NewInMemoryEventBus when several goroutines share a registry.
package dispatch
