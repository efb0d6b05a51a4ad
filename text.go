package textpipe

import (
	"strings"

	"go.uber.org/zap"
)

// StringConcat emits the concatenation of all text in p as one string.
func StringConcat(p Pipe[string]) Pipe[string] {
	return Join(p, "")
}

// Join emits one string: the elements of p separated by sep. Empty input
// yields the empty string. When p fails, only the error is delivered.
func Join(p Pipe[string], sep string) Pipe[string] {
	return Pipe[string]{
		seq: func(yield func(string, error) bool) {
			var sb strings.Builder
			first := true
			for s, err := range p.all() {
				if err != nil {
					yield("", err)
					return
				}
				if !first {
					sb.WriteString(sep)
				}
				first = false
				sb.WriteString(s)
			}
			yield(sb.String(), nil)
		},
	}
}

// Logged passes p through unchanged while logging to logger under the given
// stage name: every value at debug level, the end of the stream at info with
// the number of values, and a terminal error at warn. A nil logger logs
// nothing.
func Logged[T any](p Pipe[T], logger *zap.Logger, stage string) Pipe[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("stage", stage))

	return Pipe[T]{
		seq: func(yield func(T, error) bool) {
			count := 0
			for v, err := range p.all() {
				if err != nil {
					logger.Warn("stream failed", zap.Int("count", count), zap.Error(err))
					yield(v, err)
					return
				}
				if ce := logger.Check(zap.DebugLevel, "value"); ce != nil {
					ce.Write(zap.Int("index", count), zap.Any("value", v))
				}
				count++
				if !yield(v, nil) {
					logger.Debug("stream cancelled", zap.Int("count", count))
					return
				}
			}
			logger.Info("stream complete", zap.Int("count", count))
		},
	}
}
