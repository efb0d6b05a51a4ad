package charset

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

var replacementChar = []byte(string(utf8.RuneError))

// invalidSequence is returned by strictDecoder for the bytes behind a
// substituted U+FFFD.
type invalidSequence struct {
	bytes []byte
}

func (e *invalidSequence) Error() string {
	return fmt.Sprintf("invalid sequence [% x]", e.bytes)
}

// strictDecoder wraps an x/text decoder that signals bad input only by
// writing U+FFFD. It runs the decoder one rune at a time and stops at a
// U+FFFD unless the source bytes end with the charset's own encoding of
// U+FFFD.
type strictDecoder struct {
	dec  transform.Transformer
	fffd []byte
	buf  [utf8.UTFMax]byte
}

func newStrictDecoder(enc encoding.Encoding) *strictDecoder {
	return &strictDecoder{
		dec:  enc.NewDecoder(),
		fffd: encodedReplacement(enc),
	}
}

// encodedReplacement returns the bytes enc writes for U+FFFD after the
// first character, which leaves out any byte order mark. It is nil when
// enc cannot represent U+FFFD.
func encodedReplacement(enc encoding.Encoding) []byte {
	one, err := enc.NewEncoder().Bytes(replacementChar)
	if err != nil {
		return nil
	}
	two, err := enc.NewEncoder().Bytes(bytes.Repeat(replacementChar, 2))
	if err != nil || len(two) <= len(one) {
		return nil
	}
	return two[len(one):]
}

func (s *strictDecoder) Reset() {
	s.dec.Reset()
}

func (s *strictDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for {
		// The inner decoder cannot be rewound, so it only runs when a whole
		// rune fits in dst.
		if len(dst)-nDst < utf8.UTFMax {
			return nDst, nSrc, transform.ErrShortDst
		}

		// Three bytes hold one U+FFFD and nothing before it; a rune that
		// needs four bytes gets the whole buffer.
		nd, ns, err := s.dec.Transform(s.buf[:utf8.UTFMax-1], src[nSrc:], atEOF)
		if nd == 0 && ns == 0 && errors.Is(err, transform.ErrShortDst) {
			nd, ns, err = s.dec.Transform(s.buf[:], src[nSrc:], atEOF)
		}

		out := s.buf[:nd]
		if bytes.Equal(out, replacementChar) {
			consumed := src[nSrc : nSrc+ns]
			if len(s.fffd) == 0 || !bytes.HasSuffix(consumed, s.fffd) {
				return nDst, nSrc, &invalidSequence{bytes: bytes.Clone(consumed)}
			}
		}
		nDst += copy(dst[nDst:], out)
		nSrc += ns

		switch {
		case errors.Is(err, transform.ErrShortDst):
			if nd == 0 && ns == 0 {
				return nDst, nSrc, err
			}
		case err != nil:
			return nDst, nSrc, err
		case nSrc == len(src), nd == 0 && ns == 0:
			return nDst, nSrc, nil
		}
	}
}
