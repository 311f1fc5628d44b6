package dynamic

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrMethodNotFound is returned by an Invoker when the target has no callable
// member with the requested name.
var ErrMethodNotFound = errors.New("method not found")

// Invoker calls a method by name on an opaque engine value.
type Invoker interface {
	// Invoke looks up method on target and calls it with args bound to target.
	// A missing method yields an error wrapping ErrMethodNotFound; any other
	// error means the method was found but the call failed.
	Invoke(ctx context.Context, target Value, method string, args ...Value) (Value, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, target Value, method string, args ...Value) (Value, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, target Value, method string, args ...Value) (Value, error) {
	return f(ctx, target, method, args...)
}

// Promise is a pending engine result.
type Promise interface {
	// Await blocks until the engine settles the result or ctx is done.
	Await(ctx context.Context) (Value, error)
}

// Resolve awaits v if it is a Promise and returns it unchanged otherwise.
func Resolve(ctx context.Context, v Value) (Value, error) {
	p, ok := v.(Promise)
	if !ok {
		return v, nil
	}
	return p.Await(ctx)
}

// Settled is a Promise that is already resolved or rejected.
type Settled struct {
	Value Value
	Err   error
}

// Await returns the settled value.
func (s Settled) Await(context.Context) (Value, error) {
	return s.Value, s.Err
}

// Deferred is a Promise settled later by its producer. Create it with NewDeferred.
type Deferred struct {
	once  sync.Once
	done  chan struct{}
	value Value
	err   error
}

// NewDeferred creates an unsettled Deferred.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Settle resolves (err == nil) or rejects the promise. Only the first call has effect.
func (d *Deferred) Settle(v Value, err error) {
	d.once.Do(func() {
		d.value = v
		d.err = err
		close(d.done)
	})
}

// Await waits for Settle or ctx cancellation.
func (d *Deferred) Await(ctx context.Context) (Value, error) {
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		return nil, fmt.Errorf("await: %w", ctx.Err())
	}
}
