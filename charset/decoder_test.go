package charset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KasperOmsK/textpipe/charset"
)

// decodeChunks runs chunks through a fresh decoder and flushes it.
func decodeChunks(t *testing.T, codec charset.Codec, chunks ...[]byte) (string, error) {
	t.Helper()

	d := codec.NewDecoder()
	var sb strings.Builder
	for _, c := range chunks {
		out, err := d.Decode(c)
		sb.WriteString(out)
		if err != nil {
			return sb.String(), err
		}
		require.Less(t, d.Pending(), codec.Charset.MaxWidth(), "residual exceeds max width")
	}
	out, err := d.Flush()
	sb.WriteString(out)
	return sb.String(), err
}

func utf8Codec(p charset.Policy) charset.Codec {
	return charset.MustLookup("UTF-8").WithPolicy(p)
}

func TestDecoder_MultibyteSpanningTwoChunks(t *testing.T) {
	out, err := decodeChunks(t, utf8Codec(charset.Replace), []byte{0xc2}, []byte{0xa1})
	require.NoError(t, err)
	require.Equal(t, "¡", out)
}

func TestDecoder_MalformedAtTheEndReplace(t *testing.T) {
	out, err := decodeChunks(t, utf8Codec(charset.Replace), []byte{0xc2})
	require.NoError(t, err)
	require.Equal(t, "�", out)
}

func TestDecoder_MalformedInTheMiddleReplace(t *testing.T) {
	out, err := decodeChunks(t, utf8Codec(charset.Replace), []byte{0xc2, 'A'})
	require.NoError(t, err)
	require.Equal(t, "�A", out)
}

func TestDecoder_MalformedAtTheEndReport(t *testing.T) {
	out, err := decodeChunks(t, utf8Codec(charset.Report), []byte{'x', 0xc2})
	require.Equal(t, "x", out)

	var me *charset.MalformedSequenceError
	require.ErrorAs(t, err, &me)
	require.True(t, me.AtEOF)
	require.EqualValues(t, 1, me.Offset)
	require.Equal(t, []byte{0xc2}, me.Bytes)
	require.Equal(t, "UTF-8", me.Charset)
}

func TestDecoder_MalformedInTheMiddleReport(t *testing.T) {
	d := utf8Codec(charset.Report).NewDecoder()

	out, err := d.Decode([]byte{'o', 'k', 0xc2, 'A'})
	require.Equal(t, "ok", out)

	var me *charset.MalformedSequenceError
	require.ErrorAs(t, err, &me)
	require.False(t, me.AtEOF)
	require.EqualValues(t, 2, me.Offset)
	require.Equal(t, []byte{0xc2}, me.Bytes)

	// The decoder stays failed.
	out, err = d.Decode([]byte("more"))
	require.Empty(t, out)
	require.ErrorAs(t, err, &me)
	_, err = d.Flush()
	require.ErrorAs(t, err, &me)
}

func TestDecoder_MalformedAcrossChunksReport(t *testing.T) {
	out, err := decodeChunks(t, utf8Codec(charset.Report), []byte("ab"), []byte{0xc2}, []byte("A"))
	require.Equal(t, "ab", out)
	require.True(t, charset.IsMalformed(err))
}

func TestDecoder_ChunkInvariance(t *testing.T) {
	const text = "Grüße, 世界! Ελληνικά — ½ € 🙂 done"

	for _, name := range []string{"UTF-8", "UTF-16BE", "UTF-16LE", "GB18030"} {
		t.Run(name, func(t *testing.T) {
			cs := charset.MustLookup(name)
			encoded, err := cs.Encoding().NewEncoder().Bytes([]byte(text))
			require.NoError(t, err)

			for _, p := range []charset.Policy{charset.Replace, charset.Report} {
				codec := cs.WithPolicy(p)
				for i := 0; i <= len(encoded); i++ {
					for j := i; j <= len(encoded); j += 3 {
						out, err := decodeChunks(t, codec, encoded[:i], encoded[i:j], encoded[j:])
						require.NoError(t, err)
						require.Equal(t, text, out, "split at %d and %d", i, j)
					}
				}
			}
		})
	}
}

func TestDecoder_ChunkInvarianceShiftJIS(t *testing.T) {
	const text = "日本語のテキスト、ｶﾀｶﾅ and ASCII"

	cs := charset.MustLookup("Shift_JIS")
	encoded, err := cs.Encoding().NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	for i := 0; i <= len(encoded); i++ {
		out, err := decodeChunks(t, cs.WithPolicy(charset.Report), encoded[:i], encoded[i:])
		require.NoError(t, err)
		require.Equal(t, text, out, "split at %d", i)
	}
}

func TestDecoder_SingleByteCharset(t *testing.T) {
	cs := charset.MustLookup("ISO-8859-1")

	out, err := decodeChunks(t, cs.WithPolicy(charset.Report), []byte{'c', 'a', 'f', 0xe9})
	require.NoError(t, err)
	require.Equal(t, "café", out)
}

func TestDecoder_UnmappableByteReport(t *testing.T) {
	// 0xA5 is unassigned in ISO-8859-3.
	cs := charset.MustLookup("ISO-8859-3")

	out, err := decodeChunks(t, cs.WithPolicy(charset.Report), []byte("ab"), []byte{'c', 0xa5, 'd'})
	require.Equal(t, "abc", out)

	var ue *charset.UnmappableCharacterError
	require.ErrorAs(t, err, &ue)
	require.EqualValues(t, 3, ue.Offset)
	require.Equal(t, []byte{0xa5}, ue.Bytes)
	require.True(t, charset.IsUnmappable(err))
	require.False(t, charset.IsMalformed(err))
}

func TestDecoder_UnmappableByteReplace(t *testing.T) {
	cs := charset.MustLookup("ISO-8859-3")

	out, err := decodeChunks(t, cs.WithPolicy(charset.Replace), []byte{'c', 0xa5, 'd'})
	require.NoError(t, err)
	require.Equal(t, "c�d", out)
}

func TestDecoder_InvalidMultibyteReport(t *testing.T) {
	// 0x81 is a Shift_JIS lead byte; a space cannot follow it.
	cs := charset.MustLookup("Shift_JIS")
	in := []byte{'A', 0x81, ' ', 'B'}

	out, err := decodeChunks(t, cs.WithPolicy(charset.Replace), in)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "A\ufffd"), "got %q", out)
	require.True(t, strings.HasSuffix(out, "B"), "got %q", out)

	out, err = decodeChunks(t, cs.WithPolicy(charset.Report), in)
	require.Equal(t, "A", out)

	var me *charset.MalformedSequenceError
	require.ErrorAs(t, err, &me)
	require.EqualValues(t, 1, me.Offset)
	require.Equal(t, byte(0x81), me.Bytes[0])
	require.False(t, me.AtEOF)
}

func TestDecoder_EncodedReplacementCharReport(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"UTF-16BE", []byte{0x00, 'a', 0xff, 0xfd, 0x00, 'b'}},
		{"UTF-16LE", []byte{'a', 0x00, 0xfd, 0xff, 'b', 0x00}},
		{"GB18030", []byte{'a', 0x84, 0x31, 0xa4, 0x37, 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := charset.MustLookup(tt.name).WithPolicy(charset.Report)

			out, err := decodeChunks(t, codec, tt.in)
			require.NoError(t, err)
			require.Equal(t, "a\ufffdb", out)

			chunks := make([][]byte, len(tt.in))
			for i := range tt.in {
				chunks[i] = tt.in[i : i+1]
			}
			out, err = decodeChunks(t, codec, chunks...)
			require.NoError(t, err)
			require.Equal(t, "a\ufffdb", out)
		})
	}
}

func TestDecoder_UnpairedSurrogateReport(t *testing.T) {
	codec := charset.MustLookup("UTF-16BE").WithPolicy(charset.Report)

	out, err := decodeChunks(t, codec, []byte{0x00, 'a', 0xdc, 0x00, 0x00, 'b'})
	require.Equal(t, "a", out)

	var me *charset.MalformedSequenceError
	require.ErrorAs(t, err, &me)
	require.EqualValues(t, 2, me.Offset)
	require.Equal(t, []byte{0xdc, 0x00}, me.Bytes)
}

func TestDecoder_TruncatedUTF16Report(t *testing.T) {
	codec := charset.MustLookup("UTF-16BE").WithPolicy(charset.Report)

	out, err := decodeChunks(t, codec, []byte{0x00, 'a', 0x00})
	require.Equal(t, "a", out)

	var me *charset.MalformedSequenceError
	require.ErrorAs(t, err, &me)
	require.EqualValues(t, 2, me.Offset)
	require.True(t, me.AtEOF)
}

func TestDecoder_ReplacesMaximalSubpartOnce(t *testing.T) {
	codec := utf8Codec(charset.Replace)

	out, err := decodeChunks(t, codec, []byte{0xe2, 0x82})
	require.NoError(t, err)
	require.Equal(t, "�", out)

	out, err = decodeChunks(t, codec, []byte{0xe2}, []byte{0x82, 'A'})
	require.NoError(t, err)
	require.Equal(t, "�A", out)

	out, err = decodeChunks(t, codec, []byte{0xff, 0xfe})
	require.NoError(t, err)
	require.Equal(t, "��", out)
}
