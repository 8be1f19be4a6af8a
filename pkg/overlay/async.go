package overlay

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/vango-dev/ovan/internal/errors"
	"github.com/vango-dev/ovan/pkg/vdom"
)

// ErrRejected is the rejection reason when Reject is called with nil.
var ErrRejected = stderrors.New("overlay: rejected")

// Pending is the result of an overlay opened with OpenAsync. It settles
// exactly once, when the content calls Close(value) or Reject(reason).
type Pending[T any] struct {
	id    string
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

// ID returns the overlay id.
func (p *Pending[T]) ID() string {
	return p.id
}

// Done is closed once the result is settled.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the result is available.
func (p *Pending[T]) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the result settles or ctx is done.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// settle records the first outcome; later calls are ignored.
func (p *Pending[T]) settle(value T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.value = value
		p.err = err
		settled = true
		close(p.done)
	})
	return settled
}

// OpenAsync opens an overlay whose content reports a result. Close(value)
// resolves the returned Pending with value; Reject(reason) rejects it. Both
// also close the overlay, even when the result was already settled.
func OpenAsync[T any](c Commands, controller AsyncController[T], opts ...OpenOption) (*Pending[T], error) {
	if controller == nil {
		return nil, errors.New("E103")
	}

	p := newPending[T]()
	wrapper := func(props ControllerProps) *vdom.VNode {
		return controller(AsyncProps[T]{
			OverlayID: props.OverlayID,
			IsOpen:    props.IsOpen,
			Close: func(value T) {
				p.settle(value, nil)
				props.Close()
			},
			Reject: func(reason error) {
				if reason == nil {
					reason = ErrRejected
				}
				var zero T
				p.settle(zero, reason)
				props.Close()
			},
			Unmount: props.Unmount,
			Owner:   props.Owner,
		})
	}

	overlayID, err := c.Open(wrapper, opts...)
	if err != nil {
		return nil, err
	}
	p.id = overlayID
	return p, nil
}
