// Package scope provides the component-lifetime plumbing the overlay engine
// runs on: an owner tree with cleanup and scoped values, typed contexts that
// are threaded down that tree, and a frame scheduler for deferred work.
//
// # Owners
//
// Every mounted component (a provider, a slot, an overlay's content) gets an
// Owner whose parent is the component it was mounted under. Disposing an
// owner disposes its children first, then runs its cleanups in reverse
// registration order.
//
// # Contexts
//
// A Context is a typed key whose value is set on one owner and read by any
// descendant. Lookups walk up the parent chain, so the nearest provider wins:
//
//	var Theme = scope.CreateContext("app/Theme", "light")
//
//	root := scope.NewOwner(nil)
//	Theme.Provide(root, "dark")
//	child := scope.NewOwner(root)
//	Theme.Use(child) // "dark"
//
// Require reports a missing provider as an error naming the context.
//
// # Scheduler
//
// A Scheduler queues tasks to run on the next frame. The host drives frames
// by calling Flush (for example after each render is sent to the client) or
// by running Run with a frame interval. Tasks are cancellable until they run.
package scope
