package charset

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/KasperOmsK/textpipe/internal/xform"
)

// Decoder converts a stream of byte chunks into UTF-8 text.
//
// Bytes at the end of a chunk that may be the start of a character are kept
// until the next call to Decode, so the concatenated output is the same for
// every way of splitting the input into chunks. Flush ends the stream.
//
// A Decoder belongs to a single stream and is not safe for concurrent use.
// Once it has returned an error it returns the same error forever.
type Decoder struct {
	cs     *Charset
	policy Policy
	x      *xform.Stream
	err    error
}

// NewDecoder returns a Decoder in its initial state.
func (c Codec) NewDecoder() *Decoder {
	var t transform.Transformer
	switch {
	case c.Policy == Report && c.Charset.isUTF8():
		// The validator stops at the first bad byte instead of replacing it.
		t = encoding.UTF8Validator
	case c.Policy == Report && c.Charset.bytes == nil:
		t = newStrictDecoder(c.Charset.enc)
	default:
		t = c.Charset.enc.NewDecoder()
	}
	return &Decoder{
		cs:     c.Charset,
		policy: c.Policy,
		x:      xform.New(t, c.Charset.maxWidth),
	}
}

// Decode decodes chunk, preceded by any bytes held back from the previous
// call. On error the text decoded before the bad input is returned with it.
func (d *Decoder) Decode(chunk []byte) (string, error) {
	if d.err != nil {
		return "", d.err
	}

	if d.policy == Report && d.cs.bytes != nil {
		if i := d.unmapped(chunk); i >= 0 {
			out, _ := d.x.Write(chunk[:i])
			return d.fail(out, &UnmappableCharacterError{
				Charset: d.cs.name,
				Offset:  d.x.Offset(),
				Bytes:   []byte{chunk[i]},
			})
		}
	}

	out, err := d.x.Write(chunk)
	return d.finish(out, err, false)
}

// Flush decodes the held-back bytes as the end of input. Bytes that do not
// complete a character are malformed: under Replace they become U+FFFD,
// under Report Flush fails with a *MalformedSequenceError.
func (d *Decoder) Flush() (string, error) {
	if d.err != nil {
		return "", d.err
	}
	out, err := d.x.Close()
	return d.finish(out, err, true)
}

// Pending returns the number of bytes held back for the next call.
func (d *Decoder) Pending() int {
	return len(d.x.Pending())
}

// Charset returns the charset being decoded.
func (d *Decoder) Charset() *Charset {
	return d.cs
}

func (d *Decoder) finish(out []byte, err error, atEOF bool) (string, error) {
	if err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return d.fail(out, d.malformed(atEOF))
		}
		var bad *invalidSequence
		if errors.As(err, &bad) {
			return d.fail(out, &MalformedSequenceError{
				Charset: d.cs.name,
				Offset:  d.x.Offset(),
				Bytes:   bad.bytes,
				AtEOF:   atEOF,
			})
		}
		return d.fail(out, err)
	}
	return string(out), nil
}

func (d *Decoder) malformed(atEOF bool) *MalformedSequenceError {
	pending := d.x.Pending()
	n := 1
	if atEOF {
		n = len(pending)
	}
	n = min(n, len(pending))
	return &MalformedSequenceError{
		Charset: d.cs.name,
		Offset:  d.x.Offset(),
		Bytes:   bytes.Clone(pending[:n]),
		AtEOF:   atEOF,
	}
}

// unmapped returns the index of the first byte of chunk with no mapping in
// a single-byte charset, or -1.
func (d *Decoder) unmapped(chunk []byte) int {
	for i, b := range chunk {
		if d.cs.bytes.DecodeByte(b) == utf8.RuneError {
			return i
		}
	}
	return -1
}

func (d *Decoder) fail(out []byte, err error) (string, error) {
	d.err = err
	return string(out), err
}
