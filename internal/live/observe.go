package live

import (
	"context"

	"classdumper/internal/dumper"
)

// Result is one value delivered by a live view.
type Result[T any] struct {
	Value  T
	Change dumper.Change
	Err    error
}

// Query computes a view's value from the committed state of the store.
type Query[T any] func(r dumper.Reader) (T, error)

// Observe evaluates q immediately and again after every committed change,
// delivering each value on the returned channel until ctx is done.
//
// The change channel is grabbed before the query runs, so a write that
// commits while the query is running triggers another evaluation. Changes
// that commit while the consumer is busy are coalesced into the next value.
func Observe[T any](ctx context.Context, r dumper.Reader, view string, q Query[T]) <-chan Result[T] {
	out := make(chan Result[T])

	go func() {
		defer close(out)
		for {
			ch, change := r.Watch()
			value, err := q(r)
			if err != nil {
				queryErrorsTotal.WithLabelValues(view).Inc()
			}

			select {
			case <-ctx.Done():
				return
			case out <- Result[T]{Value: value, Change: change, Err: err}:
				deliveriesTotal.WithLabelValues(view).Inc()
			}

			select {
			case <-ctx.Done():
				return
			case <-ch:
			}
		}
	}()

	return out
}
