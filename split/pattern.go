package split

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/dlclark/regexp2"
)

// Pattern finds delimiter matches in text.
type Pattern interface {
	// FindIndex returns the byte offsets [start, end) of the leftmost match
	// in s that starts at or after from, or nil if there is none. from is a
	// byte offset in [0, len(s)] at a rune boundary. An empty match at from
	// is allowed.
	FindIndex(s string, from int) ([]int, error)

	String() string
}

// Compile parses a delimiter in Go regexp (RE2) syntax.
//
// The search for a match after a consumed delimiter starts at the end of
// that delimiter, so `^` and `\b` see no text to their left there.
func Compile(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return re2{re: re}, nil
}

// MustCompile is like Compile but panics if expr cannot be parsed.
func MustCompile(expr string) Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// CompileRegexp2 parses a delimiter with github.com/dlclark/regexp2, which
// accepts Perl and .NET constructs RE2 lacks: lookahead, lookbehind and
// backreferences. Its searches keep the text to the left of the search start,
// so lookbehind works across consumed delimiters.
//
// An invalid byte in the searched text matches as U+FFFD.
func CompileRegexp2(expr string, opts regexp2.RegexOptions) (Pattern, error) {
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, err
	}
	return backtracking{re: re}, nil
}

// Literal returns a Pattern matching sep exactly. An empty sep matches
// between every pair of runes.
func Literal(sep string) Pattern {
	return literal(sep)
}

type re2 struct {
	re *regexp.Regexp
}

func (p re2) FindIndex(s string, from int) ([]int, error) {
	loc := p.re.FindStringIndex(s[from:])
	if loc == nil {
		return nil, nil
	}
	return []int{loc[0] + from, loc[1] + from}, nil
}

func (p re2) String() string {
	return p.re.String()
}

type backtracking struct {
	re *regexp2.Regexp
}

func (p backtracking) FindIndex(s string, from int) ([]int, error) {
	return p.cursor().FindIndex(s, from)
}

func (p backtracking) String() string {
	return p.re.String()
}

func (p backtracking) cursor() Pattern {
	return &runeCursor{re: p.re}
}

// runeCursor searches with a regexp2 pattern, which works on runes. It keeps
// the runes of the last text it saw and their byte offsets, so that a search
// over the same text, a suffix of it, or an extension of it does not decode
// the whole text again. An invalid byte is one rune, U+FFFD, one byte long.
type runeCursor struct {
	re    *regexp2.Regexp
	text  string
	runes []rune
	// offs[i] - base is the byte offset of runes[i] in text; the last entry
	// is base + len(text).
	offs []int
	base int
}

func (c *runeCursor) FindIndex(s string, from int) ([]int, error) {
	c.sync(s)
	start, ok := c.runeAt(from)
	if !ok {
		c.rebuild(s)
		start, _ = c.runeAt(from)
	}

	m, err := c.re.FindRunesMatchStartingAt(c.runes, start)
	if err != nil || m == nil {
		return nil, err
	}
	return []int{c.offs[m.Index] - c.base, c.offs[m.Index+m.Length] - c.base}, nil
}

func (c *runeCursor) String() string {
	return c.re.String()
}

// runeAt returns the index of the rune starting at byte offset b.
func (c *runeCursor) runeAt(b int) (int, bool) {
	return slices.BinarySearch(c.offs, c.base+b)
}

func (c *runeCursor) sync(s string) {
	switch {
	case sameText(s, c.text):
	case len(s) < len(c.text) && sameText(s, c.text[len(c.text)-len(s):]):
		i, ok := c.runeAt(len(c.text) - len(s))
		if !ok {
			c.rebuild(s)
			return
		}
		c.base += len(c.text) - len(s)
		c.runes, c.offs, c.text = c.runes[i:], c.offs[i:], s
	case len(c.text) > 0 && len(s) > len(c.text) && s[:len(c.text)] == c.text:
		// Trailing bytes that were invalid on their own may start a rune
		// that the new text completes.
		n := len(c.runes)
		for k := 1; k < utf8.UTFMax && n > 0 && c.runes[n-1] == utf8.RuneError && c.offs[n]-c.offs[n-1] == 1; k++ {
			n--
		}
		pos := c.offs[n] - c.base
		c.runes, c.offs = c.runes[:n], c.offs[:n]
		c.index(s, pos)
	default:
		c.rebuild(s)
	}
}

func (c *runeCursor) rebuild(s string) {
	c.runes, c.offs, c.base = c.runes[:0], c.offs[:0], 0
	c.index(s, 0)
}

// index decodes s from byte pos on and appends to the table.
func (c *runeCursor) index(s string, pos int) {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		c.runes = append(c.runes, r)
		c.offs = append(c.offs, c.base+pos)
		pos += size
	}
	c.offs = append(c.offs, c.base+len(s))
	c.text = s
}

// sameText reports whether a and b are the same bytes in memory.
func sameText(a, b string) bool {
	return len(a) == len(b) && (len(a) == 0 || unsafe.StringData(a) == unsafe.StringData(b))
}

// cursorPattern is implemented by patterns that search faster with state
// kept across calls. A cursor belongs to one goroutine.
type cursorPattern interface {
	cursor() Pattern
}

// searcher returns a Pattern for one search session over pat.
func searcher(pat Pattern) Pattern {
	if cp, ok := pat.(cursorPattern); ok {
		return cp.cursor()
	}
	return pat
}

type literal string

func (p literal) FindIndex(s string, from int) ([]int, error) {
	i := strings.Index(s[from:], string(p))
	if i < 0 {
		return nil, nil
	}
	return []int{from + i, from + i + len(p)}, nil
}

func (p literal) String() string {
	return regexp.QuoteMeta(string(p))
}
