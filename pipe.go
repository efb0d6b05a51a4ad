package textpipe

import (
	"context"
	"io"
	"iter"

	"github.com/KasperOmsK/textpipe/internal/iterx"
)

// DefaultChunkSize is the chunk size FromReader callers use when they have no
// better figure.
const DefaultChunkSize = 8 * 1024

// Pipe is a lazily evaluated stream of values of type T that may end with an
// error.
//
// Each range over a Pipe is an independent subscription: operators build their
// state when iteration starts and drop it when iteration ends. A non-nil error
// is terminal; it is the last pair the stream yields.
type Pipe[T any] struct {
	seq iter.Seq2[T, error]
}

// From wraps an iter.Seq into a Pipe that never fails.
func From[T any](seq iter.Seq[T]) Pipe[T] {
	return Pipe[T]{
		seq: func(yield func(T, error) bool) {
			for v := range seq {
				if !yield(v, nil) {
					return
				}
			}
		},
	}
}

// FromSlice returns a Pipe over items.
func FromSlice[T any](items ...T) Pipe[T] {
	return Pipe[T]{seq: iterx.Ok(items)}
}

// FromResults wraps an iter.Seq2 of values and errors. The first non-nil
// error ends the stream; its value is discarded.
func FromResults[T any](seq iter.Seq2[T, error]) Pipe[T] {
	return Pipe[T]{
		seq: func(yield func(T, error) bool) {
			for v, err := range seq {
				if err != nil {
					var zero T
					yield(zero, wrap("source", nil, err))
					return
				}
				if !yield(v, nil) {
					return
				}
			}
		},
	}
}

// Fail returns a Pipe that yields no values and ends with err.
func Fail[T any](err error) Pipe[T] {
	return failed[T]("source", err)
}

// Concat returns a Pipe that yields the values of each pipe in turn. It stops
// at the first pipe that fails.
func Concat[T any](pipes ...Pipe[T]) Pipe[T] {
	return Pipe[T]{
		seq: func(yield func(T, error) bool) {
			for _, p := range pipes {
				for v, err := range p.all() {
					if !yield(v, err) || err != nil {
						return
					}
				}
			}
		},
	}
}

// FromReader returns a Pipe of the bytes read from r, in chunks of at most
// size bytes. Each chunk has its own backing array. io.EOF ends the stream;
// any other read error fails it.
//
// FromReader panics if size is not positive.
func FromReader(r io.Reader, size int) Pipe[[]byte] {
	if size <= 0 {
		panic("textpipe.FromReader: size must be positive")
	}

	return Pipe[[]byte]{
		seq: func(yield func([]byte, error) bool) {
			for {
				buf := make([]byte, size)
				n, err := r.Read(buf)
				if n > 0 {
					if !yield(buf[:n], nil) {
						return
					}
				}
				if err == io.EOF {
					return
				}
				if err != nil {
					yield(nil, wrap("read", nil, err))
					return
				}
			}
		},
	}
}

// WithContext returns a Pipe that ends with ctx.Err() once ctx is done. The
// context is checked before each value is passed on.
func WithContext[T any](ctx context.Context, p Pipe[T]) Pipe[T] {
	return Pipe[T]{
		seq: func(yield func(T, error) bool) {
			if err := ctx.Err(); err != nil {
				var zero T
				yield(zero, wrap("context", nil, err))
				return
			}
			for v, err := range p.all() {
				if err == nil {
					if cerr := ctx.Err(); cerr != nil {
						var zero T
						yield(zero, wrap("context", nil, cerr))
						return
					}
				}
				if !yield(v, err) || err != nil {
					return
				}
			}
		},
	}
}

func (p Pipe[T]) all() iter.Seq2[T, error] {
	if p.seq == nil {
		return func(func(T, error) bool) {}
	}
	return p.seq
}

// All returns the stream as value and error pairs. Values are paired with a
// nil error; the terminal error, if any, comes last with the zero value.
func (p Pipe[T]) All() iter.Seq2[T, error] {
	return p.all()
}

// Values returns the values of the stream and ignores its error.
func (p Pipe[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for v, err := range p.all() {
			if err != nil || !yield(v) {
				return
			}
		}
	}
}

// Results returns the values of the stream and a function reporting the error
// that ended the most recent iteration of the returned sequence, or nil.
func (p Pipe[T]) Results() (iter.Seq[T], func() error) {
	var last error
	seq := func(yield func(T) bool) {
		last = nil
		for v, err := range p.all() {
			if err != nil {
				last = err
				return
			}
			if !yield(v) {
				return
			}
		}
	}
	return seq, func() error { return last }
}

// Collect drains the stream. It returns the values received before the
// terminal error along with that error.
func (p Pipe[T]) Collect() ([]T, error) {
	var out []T
	for v, err := range p.all() {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Tap returns a Pipe that calls fn with every value before passing it on.
//
// Tap panics if fn is nil.
func (p Pipe[T]) Tap(fn func(T)) Pipe[T] {
	if fn == nil {
		panic("textpipe.Tap: fn must not be nil")
	}
	return Pipe[T]{
		seq: func(yield func(T, error) bool) {
			for v, err := range p.all() {
				if err == nil {
					fn(v)
				}
				if !yield(v, err) || err != nil {
					return
				}
			}
		},
	}
}
