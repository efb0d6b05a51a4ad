package charset

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"

	"github.com/KasperOmsK/textpipe/internal/xform"
)

// Encoder converts UTF-8 text chunks into bytes of a charset. Encoder state
// such as a byte order mark that has already been written lives for the
// whole stream.
//
// An Encoder belongs to a single stream and is not safe for concurrent use.
type Encoder struct {
	cs  *Charset
	x   *xform.Stream
	err error
}

// NewEncoder returns an Encoder in its initial state.
func (c Codec) NewEncoder() *Encoder {
	enc := c.Charset.enc.NewEncoder()
	if c.Policy == Replace {
		enc = encoding.ReplaceUnsupported(enc)
	}
	return &Encoder{
		cs: c.Charset,
		x:  xform.New(enc, utf8.UTFMax),
	}
}

// Encode encodes text. Under Report, a rune the charset cannot represent
// fails with an *UnmappableCharacterError and the bytes encoded before it are
// returned with the error.
func (e *Encoder) Encode(text string) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	out, err := e.x.Write([]byte(text))
	return e.finish(out, err, false)
}

// Flush encodes anything held back and ends the stream.
func (e *Encoder) Flush() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	out, err := e.x.Close()
	return e.finish(out, err, true)
}

func (e *Encoder) finish(out []byte, err error, atEOF bool) ([]byte, error) {
	if err == nil {
		return out, nil
	}

	pending := e.x.Pending()
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		e.err = &MalformedSequenceError{
			Charset: "UTF-8",
			Offset:  e.x.Offset(),
			Bytes:   bytes.Clone(pending[:min(1, len(pending))]),
			AtEOF:   atEOF,
		}
		return out, e.err
	}

	_, size := utf8.DecodeRune(pending)
	e.err = &UnmappableCharacterError{
		Charset: e.cs.name,
		Offset:  e.x.Offset(),
		Bytes:   bytes.Clone(pending[:size]),
	}
	return out, e.err
}
