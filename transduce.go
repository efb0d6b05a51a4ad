package textpipe

// Transducer is the per-subscription state of a stateful operator. Step
// consumes one input and returns the outputs that are now final; Flush is
// called once at the end of input, or when the upstream fails, and returns
// what is left.
//
// An error from Step or Flush ends the stream. Outputs returned alongside it
// are emitted first.
type Transducer[In, Out any] interface {
	Step(in In) ([]Out, error)
	Flush() ([]Out, error)
}

// Transduce drives a Transducer over p. newT is called once per iteration of
// the returned Pipe, so no state is shared between subscriptions.
//
// When p fails, the transducer is flushed before the failure is passed on. If
// the flush itself fails, its error is delivered instead of the upstream one.
// Otherwise the flushed outputs are emitted and the upstream error follows
// unchanged.
func Transduce[In, Out any](p Pipe[In], stage string, newT func() Transducer[In, Out]) Pipe[Out] {
	return Pipe[Out]{
		seq: func(yield func(Out, error) bool) {
			t := newT()

			emit := func(outs []Out, err error) bool {
				for _, o := range outs {
					if !yield(o, nil) {
						return false
					}
				}
				if err != nil {
					var zero Out
					yield(zero, wrap(stage, nil, err))
					return false
				}
				return true
			}

			for in, err := range p.all() {
				if err != nil {
					outs, ferr := t.Flush()
					if ferr != nil {
						emit(nil, ferr)
						return
					}
					if emit(outs, nil) {
						var zero Out
						yield(zero, wrap(stage, nil, err))
					}
					return
				}

				outs, serr := t.Step(in)
				if !emit(outs, serr) {
					return
				}
			}

			emit(t.Flush())
		},
	}
}

// chunker adapts a pair of step and flush functions that produce at most one
// output each to a Transducer. Empty outputs are dropped.
type chunker[In any, Out ~string | ~[]byte] struct {
	step  func(In) (Out, error)
	flush func() (Out, error)
}

func (c chunker[In, Out]) Step(in In) ([]Out, error) {
	out, err := c.step(in)
	return one(out, err)
}

func (c chunker[In, Out]) Flush() ([]Out, error) {
	out, err := c.flush()
	return one(out, err)
}

func one[Out ~string | ~[]byte](out Out, err error) ([]Out, error) {
	if len(out) == 0 {
		return nil, err
	}
	return []Out{out}, err
}
