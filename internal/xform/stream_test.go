package xform

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

func TestStream_CarriesIncompleteRune(t *testing.T) {
	s := New(unicode.UTF8.NewDecoder(), 4)

	out, err := s.Write([]byte{0xe2, 0x82})
	require.NoError(t, err)
	require.Empty(t, out)
	require.Equal(t, []byte{0xe2, 0x82}, s.Pending())
	require.EqualValues(t, 0, s.Offset())

	out, err = s.Write([]byte{0xac, 'x'})
	require.NoError(t, err)
	require.Equal(t, "€x", string(out))
	require.Empty(t, s.Pending())
	require.EqualValues(t, 4, s.Offset())

	out, err = s.Close()
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestStream_DoesNotRetainChunk(t *testing.T) {
	s := New(unicode.UTF8.NewDecoder(), 4)

	chunk := []byte{'a', 0xc3}
	_, err := s.Write(chunk)
	require.NoError(t, err)

	chunk[1] = 'z'
	out, err := s.Write([]byte{0xa9})
	require.NoError(t, err)
	require.Equal(t, "é", string(out))
}

func TestStream_ReportsErrorWithOffset(t *testing.T) {
	s := New(encoding.UTF8Validator, 4)

	out, err := s.Write([]byte("ok"))
	require.NoError(t, err)
	require.Equal(t, "ok", string(out))

	out, err = s.Write([]byte{'!', 0xc2, 'A'})
	require.ErrorIs(t, err, encoding.ErrInvalidUTF8)
	require.Equal(t, "!", string(out))
	require.EqualValues(t, 3, s.Offset())
	require.Equal(t, []byte{0xc2, 'A'}, s.Pending())
}

func TestStream_CloseFlushesTail(t *testing.T) {
	s := New(unicode.UTF8.NewDecoder(), 4)

	_, err := s.Write([]byte{'a', 0xc3})
	require.NoError(t, err)
	require.Equal(t, []byte{0xc3}, s.Pending())

	out, err := s.Close()
	require.NoError(t, err)
	require.Equal(t, "\ufffd", string(out))
	require.Empty(t, s.Pending())
}

func TestStream_ExpandingOutput(t *testing.T) {
	// Every input byte expands to a three byte replacement.
	in := make([]byte, 1000)
	for i := range in {
		in[i] = 0xff
	}

	s := New(unicode.UTF8.NewDecoder(), 4)
	out, err := s.Write(in)
	require.NoError(t, err)
	require.Len(t, out, 3000)
}

func TestStream_NormalizationAcrossChunks(t *testing.T) {
	s := New(norm.NFC, 0)

	// "e" followed by a combining acute accent in the next chunk.
	a, err := s.Write([]byte("cafe"))
	require.NoError(t, err)
	b, err := s.Write([]byte("\u0301!"))
	require.NoError(t, err)
	c, err := s.Close()
	require.NoError(t, err)

	require.Equal(t, "caf\u00e9!", string(a)+string(b)+string(c))
}
