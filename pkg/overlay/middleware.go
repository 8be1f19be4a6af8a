package overlay

import "context"

// DispatchContext describes one action moving through a provider.
type DispatchContext struct {
	// Ctx is the context passed to Dispatch.
	Ctx context.Context

	// Namespace is the event prefix of the dispatching system.
	Namespace string

	Action Action

	// Prev and Next are the registry before and after Reduce. Both are nil
	// until the inner handler has run; Next equals Prev for a no-op.
	Prev *State
	Next *State
}

// Changed reports whether the action produced a new registry.
func (dc *DispatchContext) Changed() bool {
	return dc.Next != nil && dc.Next != dc.Prev
}

// Middleware wraps every dispatch. Handle must call next exactly once to
// let the action reach the registry, or return without calling it to drop it.
type Middleware interface {
	Handle(dc *DispatchContext, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(dc *DispatchContext, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(dc *DispatchContext, next func() error) error {
	return f(dc, next)
}

// ComposeMiddleware runs mw in order with handler innermost.
func ComposeMiddleware(dc *DispatchContext, mw []Middleware, handler func() error) error {
	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(dc, next)
		}
	}
	return chain()
}

// Chain combines several middleware into one.
func Chain(mw ...Middleware) Middleware {
	return MiddlewareFunc(func(dc *DispatchContext, next func() error) error {
		return ComposeMiddleware(dc, mw, next)
	})
}

// Only runs mw for actions of the given types.
func Only(mw Middleware, types ...ActionType) Middleware {
	return MiddlewareFunc(func(dc *DispatchContext, next func() error) error {
		for _, t := range types {
			if dc.Action.Type == t {
				return mw.Handle(dc, next)
			}
		}
		return next()
	})
}
