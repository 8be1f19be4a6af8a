package scope

import (
	"fmt"

	"github.com/vango-dev/ovan/internal/errors"
)

// Context is a typed value threaded down the owner tree.
type Context[T any] struct {
	name         string
	defaultValue T
	key          *contextKey
}

// contextKey gives every Context a distinct map key even when T matches.
type contextKey struct{ name string }

// CreateContext creates a Context with a display name and default value.
func CreateContext[T any](name string, defaultValue T) *Context[T] {
	return &Context[T]{
		name:         name,
		defaultValue: defaultValue,
		key:          &contextKey{name: name},
	}
}

// Name returns the display name used in error messages.
func (c *Context[T]) Name() string {
	return c.name
}

// Provide sets the context value for o and its descendants.
func (c *Context[T]) Provide(o *Owner, value T) {
	if o == nil {
		return
	}
	o.SetValue(c.key, value)
}

// Lookup returns the nearest provided value and whether one was found.
func (c *Context[T]) Lookup(o *Owner) (T, bool) {
	if o == nil {
		return c.defaultValue, false
	}
	v, ok := o.LookupValue(c.key)
	if !ok {
		return c.defaultValue, false
	}
	typed, ok := v.(T)
	if !ok {
		return c.defaultValue, false
	}
	return typed, true
}

// Use returns the nearest provided value, or the default value.
func (c *Context[T]) Use(o *Owner) T {
	v, _ := c.Lookup(o)
	return v
}

// Require returns the nearest provided value, or an E101 error naming the
// context when no ancestor provides it.
func (c *Context[T]) Require(o *Owner) (T, error) {
	v, ok := c.Lookup(o)
	if !ok {
		return v, errors.New("E101").WithDetail(fmt.Sprintf("[%s]: Provider not found", c.name))
	}
	return v, nil
}
