// Package iterx adapts channels and slices to the value-and-error sequences
// that textpipe pipes are built on.
package iterx

import (
	"iter"
)

// Result is a value or an error passed between goroutines.
type Result[T any] struct {
	V   T
	Err error
}

// Ok yields the items of in with nil errors.
func Ok[T any](in []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range in {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Recv yields the results received from ch until it is closed, the consumer
// stops, or a result carries an error. The error result is yielded last.
func Recv[T any](ch <-chan Result[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for r := range ch {
			if !yield(r.V, r.Err) || r.Err != nil {
				return
			}
		}
	}
}

// Send ranges over seq and sends every result on ch. It gives up as soon as
// done is closed and reports whether seq ran to its end.
func Send[T any](seq iter.Seq2[T, error], ch chan<- Result[T], done <-chan struct{}) bool {
	for v, err := range seq {
		select {
		case ch <- Result[T]{V: v, Err: err}:
		case <-done:
			return false
		}
	}
	return true
}
