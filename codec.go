package textpipe

import (
	"errors"

	"golang.org/x/text/unicode/norm"

	"github.com/KasperOmsK/textpipe/charset"
	"github.com/KasperOmsK/textpipe/internal/xform"
)

var errNilCharset = errors.New("codec has no charset")

// Decode converts byte chunks in the named charset to text, replacing
// malformed input with U+FFFD. An unknown name fails the Pipe with
// charset.ErrUnsupportedCharset.
func Decode(p Pipe[[]byte], charsetName string) Pipe[string] {
	codec, err := charset.NewCodec(charsetName, charset.Replace)
	if err != nil {
		return failed[string]("decode", err)
	}
	return DecodeWith(p, codec)
}

// DecodeWith converts byte chunks to text with codec. A character split
// across chunks is decoded once its last byte arrives, so the output does
// not depend on how the input is chunked.
//
// Under charset.Report the first malformed or unmappable input ends the Pipe;
// the text decoded before it is emitted first. Input that ends inside a
// character is malformed under either policy: Replace emits U+FFFD, Report
// fails.
//
// When p fails, the held-back bytes are decoded as the end of input first. A
// failure there is delivered instead of the upstream error.
func DecodeWith(p Pipe[[]byte], codec charset.Codec) Pipe[string] {
	if codec.Charset == nil {
		return failed[string]("decode", errNilCharset)
	}
	return Transduce(p, "decode", func() Transducer[[]byte, string] {
		d := codec.NewDecoder()
		return chunker[[]byte, string]{step: d.Decode, flush: d.Flush}
	})
}

// Encode converts text chunks to bytes in the named charset, substituting the
// charset's replacement byte for runes it cannot represent.
func Encode(p Pipe[string], charsetName string) Pipe[[]byte] {
	codec, err := charset.NewCodec(charsetName, charset.Replace)
	if err != nil {
		return failed[[]byte]("encode", err)
	}
	return EncodeWith(p, codec)
}

// EncodeWith converts text chunks to bytes with codec. Under charset.Report
// the first rune the charset cannot represent ends the Pipe with a
// *charset.UnmappableCharacterError.
func EncodeWith(p Pipe[string], codec charset.Codec) Pipe[[]byte] {
	if codec.Charset == nil {
		return failed[[]byte]("encode", errNilCharset)
	}
	return Transduce(p, "encode", func() Transducer[string, []byte] {
		e := codec.NewEncoder()
		return chunker[string, []byte]{step: e.Encode, flush: e.Flush}
	})
}

// Normalize puts the text in Unicode normalization form f. Combining marks at
// the start of a chunk are composed with the end of the previous one.
func Normalize(p Pipe[string], f norm.Form) Pipe[string] {
	return Transduce(p, "normalize", func() Transducer[string, string] {
		x := xform.New(f, 64)
		return chunker[string, string]{
			step: func(s string) (string, error) {
				out, err := x.Write([]byte(s))
				return string(out), err
			},
			flush: func() (string, error) {
				out, err := x.Close()
				return string(out), err
			},
		}
	})
}
