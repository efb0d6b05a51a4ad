package textpipe_test

import (
	"errors"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/require"

	"github.com/KasperOmsK/textpipe"
	"github.com/KasperOmsK/textpipe/split"
)

func testSplit(t *testing.T, text, expr string, limit int, want ...string) {
	t.Helper()

	for i := 0; i <= len(text); i++ {
		src := textpipe.FromSlice(text[:i], text[i:])
		got, err := textpipe.SplitN(src, expr, limit).Collect()
		require.NoError(t, err)
		require.Equal(t, want, got, "split at %d", i)
	}
}

func TestSplit_OnColon(t *testing.T) {
	testSplit(t, "boo:and:foo", ":", 0, "boo", "and", "foo")
}

func TestSplit_OnOh(t *testing.T) {
	testSplit(t, "boo:and:foo", "o", 0, "b", "", ":and:f")
}

func TestSplit_Limits(t *testing.T) {
	testSplit(t, "boo:and:foo", ":", 2, "boo", "and:foo")
	testSplit(t, "boo:and:foo", "o", -1, "b", "", ":and:f", "", "")
	testSplit(t, "boo:and:foo", "o", 5, "b", "", ":and:f", "", "")
}

func TestSplit_EmptyInput(t *testing.T) {
	got, err := textpipe.Split(textpipe.FromSlice("", ""), ":").Collect()
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = textpipe.Split(textpipe.FromSlice[string](), ":").Collect()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSplit_InvalidExpression(t *testing.T) {
	_, err := textpipe.Split(textpipe.FromSlice("a"), "(").Collect()

	var pe *textpipe.PipelineError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "split", pe.Stage)
}

func TestSplit_EmitsBufferedSegmentsBeforeUpstreamError(t *testing.T) {
	boom := errors.New("boom")
	src := textpipe.Concat(textpipe.FromSlice("a:b:c"), textpipe.Fail[string](boom))

	got, err := textpipe.Split(src, ":").Collect()

	require.Equal(t, []string{"a", "b", "c"}, got)
	require.ErrorIs(t, err, boom)
}

func TestSplitPattern_Regexp2(t *testing.T) {
	pat, err := split.CompileRegexp2(`(?<=\d)(?=[a-z])`, regexp2.None)
	require.NoError(t, err)

	src := textpipe.FromSlice("12ab3", "4cd5e")
	got, err := textpipe.SplitPattern(src, pat, 0).Collect()

	require.NoError(t, err)
	require.Equal(t, []string{"12", "ab34", "cd5", "e"}, got)
}

func TestSplit_AfterDecode(t *testing.T) {
	raw := []byte("α,β,,γ,,")
	src := textpipe.FromSlice(raw[:1], raw[1:5], raw[5:])

	got, err := textpipe.Split(textpipe.Decode(src, "UTF-8"), ",").Collect()

	require.NoError(t, err)
	require.Equal(t, []string{"α", "β", "", "γ"}, got)
}

func TestByLine(t *testing.T) {
	src := textpipe.FromSlice("first\r", "\nsecond\n\nfou", "rth\n")

	got, err := textpipe.ByLine(src).Collect()

	require.NoError(t, err)
	require.Equal(t, []textpipe.Line{
		{Number: 0, Text: "first"},
		{Number: 1, Text: "second"},
		{Number: 2, Text: ""},
		{Number: 3, Text: "fourth"},
	}, got)
}
