package textpipe

import (
	"iter"
	"sync"

	"github.com/KasperOmsK/textpipe/internal/iterx"
)

type (

	// MapFunc converts one value. It must not fail; use TryMapFunc for
	// conversions that can.
	MapFunc[In, Out any] func(in In) Out

	// TryMapFunc is a mapping function that may return an error.
	//
	// The first error ends the Pipe.
	TryMapFunc[In, Out any] func(in In) (Out, error)

	// Predicate reports whether Filter keeps a value.
	Predicate[T any] func(item T) bool
)

// Map returns a Pipe of fn applied to every value of p.
//
// An error from p ends the result with the same error.
func Map[In, Out any](p Pipe[In], fn MapFunc[In, Out]) Pipe[Out] {
	return Pipe[Out]{
		seq: func(yield func(Out, error) bool) {
			for in, err := range p.all() {
				if err != nil {
					var zero Out
					yield(zero, err)
					return
				}
				if !yield(fn(in), nil) {
					return
				}
			}
		},
	}
}

// FlatMap returns a Pipe of the elements of the slices fn returns for the
// values of p.
//
// It is Flatten(Map(p, fn)).
func FlatMap[In, Out any](p Pipe[In], fn MapFunc[In, []Out]) Pipe[Out] {
	return Flatten(Map(p, fn))
}

// TryMap transforms each input value using fn. The first non-nil error
// returned by fn ends the Pipe with a *PipelineError carrying the input that
// caused it.
//
// An error from p ends the result with the same error.
func TryMap[In, Out any](p Pipe[In], fn TryMapFunc[In, Out]) Pipe[Out] {
	return Pipe[Out]{
		seq: func(yield func(Out, error) bool) {
			var zero Out
			for in, err := range p.all() {
				if err != nil {
					yield(zero, err)
					return
				}
				result, err := fn(in)
				if err != nil {
					yield(zero, wrap("map", in, err))
					return
				}
				if !yield(result, nil) {
					return
				}
			}
		},
	}
}

// FlatTryMap returns a Pipe of the elements of the slices fn returns for the
// values of p. The first error from fn ends the Pipe, as in TryMap.
//
// It is Flatten(TryMap(p, fn)).
func FlatTryMap[In, Out any](p Pipe[In], fn TryMapFunc[In, []Out]) Pipe[Out] {
	return Flatten(TryMap(p, fn))
}

// Filter keeps the values of p that satisfy predicate, in order.
//
// An error from p ends the result with the same error.
func Filter[T any](p Pipe[T], predicate Predicate[T]) Pipe[T] {
	return Pipe[T]{
		seq: func(yield func(T, error) bool) {
			for in, err := range p.all() {
				if err != nil {
					yield(in, err)
					return
				}
				if predicate(in) {
					if !yield(in, nil) {
						return
					}
				}
			}
		},
	}
}

// Flatten returns the elements of every slice of p, slice by slice.
//
// An error from p ends the result with the same error.
func Flatten[T any](p Pipe[[]T]) Pipe[T] {
	return Pipe[T]{
		seq: func(yield func(T, error) bool) {
			for slice, err := range p.all() {
				if err != nil {
					var zero T
					yield(zero, err)
					return
				}
				for _, item := range slice {
					if !yield(item, nil) {
						return
					}
				}
			}
		},
	}
}

// Chunk groups incoming values into slices of the given size and returns a
// Pipe producing those slices. Every slice has its own backing array, so
// callers may keep them.
//
// The final chunk may be smaller than chunkSize. When the input fails, the
// partial chunk is emitted before the error.
//
// Chunk panics if chunkSize is not positive.
func Chunk[T any](p Pipe[T], chunkSize int) Pipe[[]T] {
	if chunkSize <= 0 {
		panic("textpipe.Chunk: chunkSize must be positive")
	}

	return Pipe[[]T]{
		seq: func(yield func([]T, error) bool) {
			accum := make([]T, 0, chunkSize)
			for v, err := range p.all() {
				if err != nil {
					if len(accum) > 0 && !yield(accum, nil) {
						return
					}
					yield(nil, err)
					return
				}

				if len(accum) >= chunkSize {
					if !yield(accum, nil) {
						return
					}
					accum = make([]T, 0, chunkSize)
				}
				accum = append(accum, v)
			}

			if len(accum) > 0 {
				yield(accum, nil)
			}
		},
	}
}

// GroupBy collects runs of consecutive values that share a key into slices.
//
// A group is emitted as soon as a value with a different key arrives, so
// the input A, A, B, B, A gives [A, A], [B, B], [A].
//
// When the input fails, the open group is emitted before the error.
func GroupBy[T any, K comparable](p Pipe[T], keyFunc func(T) K) Pipe[[]T] {
	return Pipe[[]T]{
		seq: func(yield func([]T, error) bool) {
			var accum []T
			var currentGroupKey K
			for v, err := range p.all() {
				if err != nil {
					if len(accum) > 0 && !yield(accum, nil) {
						return
					}
					yield(nil, err)
					return
				}

				k := keyFunc(v)
				if k != currentGroupKey && len(accum) > 0 {
					if !yield(accum, nil) {
						return
					}
					accum = nil
				}
				currentGroupKey = k
				accum = append(accum, v)
			}

			if len(accum) > 0 {
				yield(accum, nil)
			}
		},
	}
}

// GroupByAggregate groups consecutive input values by key and folds each group
// into one output value, without allocating a slice per group.
//
// initFunc is called when a new group starts. It receives the first value of the
// group and returns the initial accumulator for that group.
//
// updateFunc is called for each value in the current group, the first one
// included. It receives a pointer to the accumulator and updates it in place.
//
// For example, to count repeated lines:
//
//	counts := textpipe.GroupByAggregate(lines,
//		func(l string) string { return l },
//		func(first string) Count { return Count{Text: first} },
//		func(acc *Count, l string) { acc.N++ })
//
// Like GroupBy, GroupByAggregate does not reorder input values, and emits
// the open group before an input error.
func GroupByAggregate[In any, K comparable, Out any](
	p Pipe[In],
	keyFunc func(In) K,
	initFunc func(first In) Out,
	updateFunc func(acc *Out, item In)) Pipe[Out] {

	return Pipe[Out]{
		seq: func(yield func(Out, error) bool) {
			var acc *Out
			var currentGroupKey K
			for v, err := range p.all() {
				if err != nil {
					if acc != nil && !yield(*acc, nil) {
						return
					}
					var zero Out
					yield(zero, err)
					return
				}

				k := keyFunc(v)
				if k != currentGroupKey && acc != nil {
					if !yield(*acc, nil) {
						return
					}
					acc = nil
				}

				if acc == nil {
					newAcc := initFunc(v)
					acc = &newAcc
				}

				currentGroupKey = k
				updateFunc(acc, v)
			}

			if acc != nil {
				yield(*acc, nil)
			}
		},
	}
}

// Merge combines multiple pipes into a single pipe that yields all values
// produced by the input pipes. Each input is drained on its own goroutine.
//
// Values from different pipes may appear in any order. The first error from
// any input ends the merged Pipe and stops the other inputs.
func Merge[T any](pipes ...Pipe[T]) Pipe[T] {
	if len(pipes) == 0 {
		return FromSlice[T]()
	}

	if len(pipes) == 1 {
		return pipes[0]
	}

	all := make([]iter.Seq2[T, error], 0, len(pipes))
	for _, p := range pipes {
		all = append(all, p.all())
	}

	return Pipe[T]{seq: mergeIterators(all...)}
}

func mergeIterators[T any](ins ...iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		merged := make(chan iterx.Result[T])
		done := make(chan struct{})
		var wg sync.WaitGroup

		wg.Add(len(ins))
		go func() {
			wg.Wait()
			close(merged)
		}()

		for _, in := range ins {
			go func(it iter.Seq2[T, error]) {
				defer wg.Done()
				iterx.Send(it, merged, done)
			}(in)
		}

		// Recv ends early on an error or when yield stops. Either way the
		// inputs are told to stop and what is in flight is drained so that
		// every goroutine exits.
		defer func() {
			close(done)
			go func() {
				for range merged {
				}
			}()
		}()

		for v, err := range iterx.Recv(merged) {
			if !yield(v, err) {
				return
			}
		}
	}
}
