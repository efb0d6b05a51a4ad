// Package split cuts text into segments at delimiter matches, either over a
// whole string (Strings) or incrementally over a sequence of chunks
// (Splitter).
//
// Both follow the same rules:
//
//   - a zero-width match at the very start of the input never produces a
//     leading empty segment;
//   - after a zero-width match the next search starts one rune further on;
//   - limit > 0 caps the number of segments at limit, the last one holding
//     the rest of the input, delimiters included;
//   - limit == 0 splits without bound and drops trailing empty segments;
//   - limit < 0 splits without bound and keeps them.
//
// Empty input has no segments at all, in every limit mode.
package split

import "unicode/utf8"

// Splitter is the incremental form of Strings. Feed it chunks with Split and
// finish with Flush; the segments it returns, concatenated in order, equal
// Strings over the concatenated chunks whatever the chunk boundaries.
//
// A match is committed only once at least one rune follows it in the buffer;
// a match touching the end of the buffer might grow, or be replaced by a
// different match, when the next chunk arrives. Flush commits tail matches.
// Patterns whose preferred alternative fails only for lack of input (for
// example `abc|a` on a buffer ending in "ab") are still committed early.
//
// One rune of already consumed text is kept in front of the buffer. Patterns
// from CompileRegexp2 see it, so a one-rune lookbehind or `\b` behaves as it
// would over the whole input.
//
// A Splitter belongs to a single stream and is not safe for concurrent use.
type Splitter struct {
	pat   Pattern
	limit int

	buf  string // context rune, then unresolved text
	off  int    // start of the unresolved text in buf
	from int    // search start in buf

	seen    bool // any input text at all
	started bool // a match has been committed
	count   int  // segments produced, including held-back empties
	empties int  // empty segments held back while limit == 0
	done    bool
}

// New returns a Splitter for pat that produces at most limit segments when
// limit is positive. See the package documentation for limit 0 and below.
func New(pat Pattern, limit int) *Splitter {
	return &Splitter{pat: searcher(pat), limit: limit}
}

// Split appends chunk to the buffered text and returns the segments that are
// now final.
func (s *Splitter) Split(chunk string) ([]string, error) {
	if chunk == "" || s.done {
		return nil, nil
	}
	s.seen = true
	s.buf += chunk
	return s.scan(nil, false)
}

// Flush resolves the buffered text as the end of input and returns the
// remaining segments. Later calls return nothing.
func (s *Splitter) Flush() ([]string, error) {
	if s.done {
		return nil, nil
	}
	s.done = true

	out, err := s.scan(nil, true)
	if err != nil {
		return out, err
	}
	if s.seen && (s.limit <= 0 || s.count < s.limit) {
		out = s.emit(out, s.buf[s.off:])
	}
	s.buf, s.off, s.from = "", 0, 0
	return out, nil
}

// Buffered returns the number of bytes of text not yet resolved.
func (s *Splitter) Buffered() int {
	return len(s.buf) - s.off
}

func (s *Splitter) scan(out []string, final bool) ([]string, error) {
	for s.from <= len(s.buf) {
		if s.limit > 0 && s.count >= s.limit-1 {
			break
		}

		loc, err := s.pat.FindIndex(s.buf, s.from)
		if err != nil {
			return out, err
		}
		if loc == nil {
			break
		}
		start, end := loc[0], loc[1]
		if !final && end >= len(s.buf) {
			break
		}

		if !s.started && start == 0 && end == 0 {
			s.from = nextRune(s.buf, 0)
			continue
		}

		out = s.emit(out, s.buf[s.off:start])
		s.started = true
		s.from = end
		if start == end {
			s.from = nextRune(s.buf, end)
		}
		s.consume(end)
	}
	return out, nil
}

// consume drops buf up to end, keeping the rune before end as context.
func (s *Splitter) consume(end int) {
	_, size := utf8.DecodeLastRuneInString(s.buf[:end])
	cut := end - size
	s.buf = s.buf[cut:]
	s.off = end - cut
	s.from -= cut
}

func (s *Splitter) emit(out []string, seg string) []string {
	s.count++
	if s.limit != 0 {
		return append(out, seg)
	}
	if seg == "" {
		s.empties++
		return out
	}
	for ; s.empties > 0; s.empties-- {
		out = append(out, "")
	}
	return append(out, seg)
}

// nextRune returns the offset just past the rune at i, or len(s)+1 when i is
// at the end of s.
func nextRune(s string, i int) int {
	if i >= len(s) {
		return len(s) + 1
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return i + size
}

// Strings splits s around the matches of pat in one pass.
func Strings(s string, pat Pattern, limit int) ([]string, error) {
	if s == "" {
		return nil, nil
	}

	pat = searcher(pat)
	var parts []string
	index, from := 0, 0
	for from <= len(s) {
		if limit > 0 && len(parts) >= limit-1 {
			break
		}

		loc, err := pat.FindIndex(s, from)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			break
		}
		start, end := loc[0], loc[1]

		if index == 0 && start == 0 && end == 0 {
			from = nextRune(s, 0)
			continue
		}

		parts = append(parts, s[index:start])
		index = end
		from = end
		if start == end {
			from = nextRune(s, end)
		}
	}
	parts = append(parts, s[index:])

	if limit == 0 {
		n := len(parts)
		for n > 0 && parts[n-1] == "" {
			n--
		}
		if n == 0 {
			return nil, nil
		}
		parts = parts[:n]
	}
	return parts, nil
}
