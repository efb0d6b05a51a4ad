// Package charset resolves character encodings by their IANA names and
// provides the stateful decoder and encoder that textpipe runs over chunked
// streams.
//
// A Charset is immutable and may be shared. A Codec pairs a Charset with an
// error Policy; it is also immutable, and every call to NewDecoder or
// NewEncoder builds fresh per-stream state.
package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// ErrUnsupportedCharset is returned by Lookup for names that are unknown or
// that have no decoder.
var ErrUnsupportedCharset = errors.New("unsupported charset")

// Policy selects what a Decoder or Encoder does with input it cannot convert.
type Policy int

const (
	// Replace substitutes a replacement for bad input and carries on.
	// Decoders produce one U+FFFD for each maximal invalid subsequence.
	// Encoders produce the charset's own replacement byte.
	Replace Policy = iota
	// Report fails on the first bad input.
	Report
)

func (p Policy) String() string {
	switch p {
	case Replace:
		return "replace"
	case Report:
		return "report"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "replace" or "report", ignoring case. The empty string
// is Replace.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "replace":
		return Replace, nil
	case "report":
		return Report, nil
	}
	return Replace, fmt.Errorf("unknown error policy %q", s)
}

// widths holds the longest byte sequence of one character for the multi-byte
// charsets x/text supports. Single-byte charmaps are detected separately.
var widths = map[string]int{
	"UTF-8":       4,
	"UTF-16":      4,
	"UTF-16BE":    4,
	"UTF-16LE":    4,
	"UTF-32":      4,
	"UTF-32BE":    4,
	"UTF-32LE":    4,
	"US-ASCII":    1,
	"SHIFT_JIS":   2,
	"EUC-JP":      3,
	"ISO-2022-JP": 4,
	"EUC-KR":      2,
	"GBK":         2,
	"GB2312":      2,
	"GB18030":     4,
	"HZ-GB-2312":  2,
	"BIG5":        2,
}

// byteDecoder is implemented by the single-byte charmaps of x/text.
type byteDecoder interface {
	DecodeByte(b byte) rune
}

// Charset is a named character encoding.
type Charset struct {
	name     string
	enc      encoding.Encoding
	maxWidth int
	bytes    byteDecoder
}

// Lookup returns the Charset registered under name or one of its IANA
// aliases, for example "UTF-8", "latin1", "ISO-8859-15" or "Shift_JIS".
// Names IANA does not know are tried as WHATWG labels ("utf8", "x-sjis").
func Lookup(name string) (*Charset, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		enc, err = htmlindex.Get(name)
	}
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, name)
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}

	cs := &Charset{
		name:     canonical,
		enc:      enc,
		maxWidth: 4,
	}
	if w, ok := widths[strings.ToUpper(canonical)]; ok {
		cs.maxWidth = w
	}
	if bd, ok := enc.(byteDecoder); ok {
		cs.bytes = bd
		cs.maxWidth = 1
	}
	return cs, nil
}

// MustLookup is like Lookup but panics if name is not supported.
func MustLookup(name string) *Charset {
	cs, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return cs
}

// Name returns the canonical IANA name.
func (c *Charset) Name() string {
	return c.name
}

func (c *Charset) String() string {
	return c.name
}

// MaxWidth returns the number of bytes in the longest encoded character.
// A Decoder never carries MaxWidth or more bytes between chunks.
func (c *Charset) MaxWidth() int {
	return c.maxWidth
}

// Encoding returns the underlying x/text encoding.
func (c *Charset) Encoding() encoding.Encoding {
	return c.enc
}

// WithPolicy returns a Codec for c.
func (c *Charset) WithPolicy(p Policy) Codec {
	return Codec{Charset: c, Policy: p}
}

func (c *Charset) isUTF8() bool {
	return c.name == "UTF-8"
}

// Codec is a Charset together with the Policy applied to bad input.
type Codec struct {
	Charset *Charset
	Policy  Policy
}

// NewCodec looks up name and pairs it with p.
func NewCodec(name string, p Policy) (Codec, error) {
	cs, err := Lookup(name)
	if err != nil {
		return Codec{}, err
	}
	return cs.WithPolicy(p), nil
}

func (c Codec) String() string {
	if c.Charset == nil {
		return "<nil>/" + c.Policy.String()
	}
	return c.Charset.name + "/" + c.Policy.String()
}
