// Package xform drives a golang.org/x/text transform.Transformer over a
// sequence of chunks.
//
// A Transformer reports an incomplete trailing unit (half a multi-byte
// character, an unfinished normalization segment) with transform.ErrShortSrc
// when it is not told that the input has ended. Stream keeps those bytes and
// prepends them to the next chunk, so the concatenated output does not depend
// on where the chunk boundaries fall.
package xform

import (
	"errors"

	"golang.org/x/text/transform"
)

// minDst is the smallest destination buffer handed to a Transformer. Some
// transformers refuse to make progress unless a full rune fits.
const minDst = 64

// Stream feeds chunks to a Transformer, carrying the undecided tail of each
// chunk over to the next call. A Stream is not safe for concurrent use.
type Stream struct {
	t       transform.Transformer
	pending []byte
	dst     []byte
	offset  int64
}

// New returns a Stream over t. capHint pre-sizes the pending buffer; it is
// usually the longest unit t can leave unconsumed.
func New(t transform.Transformer, capHint int) *Stream {
	return &Stream{
		t:       t,
		pending: make([]byte, 0, capHint),
	}
}

// Write transforms the pending bytes followed by chunk, without marking the
// end of input. Bytes the transformer leaves behind with transform.ErrShortSrc
// are kept for the next call and are not an error.
//
// Any other error is returned together with the output produced before it.
// Offset then reports the input position where the transformer stopped and
// Pending holds the bytes from that position on.
//
// chunk is never retained.
func (s *Stream) Write(chunk []byte) ([]byte, error) {
	return s.run(chunk, false)
}

// Close transforms the pending bytes as the end of input.
func (s *Stream) Close() ([]byte, error) {
	return s.run(nil, true)
}

// Pending returns the bytes carried over to the next call. The returned slice
// is only valid until the next Write or Close.
func (s *Stream) Pending() []byte {
	return s.pending
}

// Offset returns the number of input bytes consumed so far.
func (s *Stream) Offset() int64 {
	return s.offset
}

func (s *Stream) run(chunk []byte, atEOF bool) ([]byte, error) {
	src := chunk
	if len(s.pending) > 0 {
		src = append(s.pending, chunk...)
	}

	out, n, err := s.transform(src, atEOF)
	s.offset += int64(n)

	// src may share its backing array with pending; append copies with
	// memmove semantics so the overlap is fine.
	s.pending = append(s.pending[:0], src[n:]...)

	if errors.Is(err, transform.ErrShortSrc) && !atEOF {
		err = nil
	}
	return out, err
}

// transform runs t until it stops asking for a larger destination.
func (s *Stream) transform(src []byte, atEOF bool) ([]byte, int, error) {
	if want := 3*len(src) + minDst; len(s.dst) < want {
		s.dst = make([]byte, want)
	}

	var out []byte
	nSrc := 0
	for {
		nd, ns, err := s.t.Transform(s.dst, src[nSrc:], atEOF)
		out = append(out, s.dst[:nd]...)
		nSrc += ns
		if !errors.Is(err, transform.ErrShortDst) {
			return out, nSrc, err
		}
		if nd == 0 && ns == 0 {
			s.dst = make([]byte, 2*len(s.dst))
		}
	}
}
