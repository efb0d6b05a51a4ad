package textpipe

import (
	"github.com/KasperOmsK/textpipe/split"
)

// LineBreak is the delimiter ByLine splits on.
const LineBreak = `\r?\n`

var lineBreak = split.MustCompile(LineBreak)

// Split cuts the concatenated text of p at every match of the RE2 expression
// expr and emits the segments in between. Trailing empty segments are
// dropped. A match straddling two chunks is found as if the text had arrived
// in one piece.
//
// An invalid expr fails the Pipe.
func Split(p Pipe[string], expr string) Pipe[string] {
	return SplitN(p, expr, 0)
}

// SplitN is Split with a limit. limit > 0 emits at most limit segments, the
// last holding the rest of the text. limit < 0 keeps trailing empty segments.
// See package split for the exact rules.
func SplitN(p Pipe[string], expr string, limit int) Pipe[string] {
	pat, err := split.Compile(expr)
	if err != nil {
		return failed[string]("split", err)
	}
	return SplitPattern(p, pat, limit)
}

// SplitPattern is SplitN with an already compiled pattern, for example one
// from split.CompileRegexp2 or split.Literal.
//
// When p fails, the buffered text is split as the end of input and its
// segments are emitted before the error.
func SplitPattern(p Pipe[string], pat split.Pattern, limit int) Pipe[string] {
	return Transduce(p, "split", func() Transducer[string, string] {
		return splitter{split.New(pat, limit)}
	})
}

type splitter struct {
	s *split.Splitter
}

func (t splitter) Step(chunk string) ([]string, error) { return t.s.Split(chunk) }
func (t splitter) Flush() ([]string, error)            { return t.s.Flush() }

// Line is one line of text and its zero-based position.
type Line struct {
	Number int
	Text   string
}

// ByLine splits text into lines at "\n" or "\r\n". A final line break does
// not start an empty last line.
func ByLine(p Pipe[string]) Pipe[Line] {
	lines := SplitPattern(p, lineBreak, 0)
	return Pipe[Line]{
		seq: func(yield func(Line, error) bool) {
			n := 0
			for text, err := range lines.all() {
				if err != nil {
					yield(Line{}, err)
					return
				}
				if !yield(Line{Number: n, Text: text}, nil) {
					return
				}
				n++
			}
		},
	}
}
