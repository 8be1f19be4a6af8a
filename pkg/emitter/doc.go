// Package emitter provides the topic-keyed publish/subscribe channel that
// carries overlay commands from call sites to the component holding state.
//
// A Bus is created per overlay system and injected into both the command
// API and the provider, so independent systems never share handlers.
// Topics are opaque strings, conventionally "{namespace}:{event}".
//
// Delivery is synchronous: Emit calls every handler registered for the exact
// topic, in registration order, on the caller's goroutine. The handler list
// is snapshotted when Emit starts, so handlers added during an emission are
// not invoked for it. A handler error stops the emission and is returned to
// the Emit caller unchanged.
//
//	bus := emitter.New()
//	sub := bus.On("app/ovan:open", func(payload any) error {
//	    fmt.Println("open", payload)
//	    return nil
//	})
//	defer sub.Unsubscribe()
//
//	_ = bus.Emit("app/ovan:open", "confirm")
package emitter
