package charset

import (
	"errors"
	"fmt"
)

// MalformedSequenceError reports input bytes that do not form a valid
// character in the charset, or text that is not valid UTF-8 when encoding.
type MalformedSequenceError struct {
	Charset string
	// Offset is the position of the first bad byte in the input stream.
	Offset int64
	// Bytes holds the offending bytes, when known.
	Bytes []byte
	// AtEOF is set when the sequence was cut short by the end of input.
	AtEOF bool
}

func (e *MalformedSequenceError) Error() string {
	msg := fmt.Sprintf("malformed %s input at offset %d", e.Charset, e.Offset)
	if len(e.Bytes) > 0 {
		msg += fmt.Sprintf(" [% x]", e.Bytes)
	}
	if e.AtEOF {
		msg += ": incomplete sequence at end of input"
	}
	return msg
}

// UnmappableCharacterError reports a well-formed character that has no
// representation on the other side of the conversion: a byte with no
// mapping in a single-byte charset, or a rune outside the charset's
// repertoire.
type UnmappableCharacterError struct {
	Charset string
	// Offset is the position of the character in the input stream, in bytes.
	Offset int64
	// Bytes is the unmapped input: the byte itself when decoding, the UTF-8
	// encoding of the rune when encoding.
	Bytes []byte
}

func (e *UnmappableCharacterError) Error() string {
	return fmt.Sprintf("unmappable character [% x] for %s at offset %d", e.Bytes, e.Charset, e.Offset)
}

// IsMalformed reports whether err is or wraps a *MalformedSequenceError.
func IsMalformed(err error) bool {
	var me *MalformedSequenceError
	return errors.As(err, &me)
}

// IsUnmappable reports whether err is or wraps an *UnmappableCharacterError.
func IsUnmappable(err error) bool {
	var ue *UnmappableCharacterError
	return errors.As(err, &ue)
}
