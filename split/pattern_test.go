package split

import (
	"strings"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/require"
)

func TestRuneCursor_ReusesTable(t *testing.T) {
	c := &runeCursor{re: regexp2.MustCompile(",", regexp2.None)}
	text := "añ,b,c"

	loc, err := c.FindIndex(text, 0)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, loc)
	require.Len(t, c.runes, 6)

	// A suffix of the last text is found by moving the base.
	loc, err = c.FindIndex(text[3:], 1)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, loc)
	require.Equal(t, 3, c.base)
	require.Len(t, c.runes, 4)

	// An extension only decodes the new bytes.
	longer := text[3:] + ",d"
	loc, err = c.FindIndex(longer, 3)
	require.NoError(t, err)
	require.Equal(t, []int{4, 5}, loc)
	require.Equal(t, 3, c.base)
	require.Len(t, c.runes, 6)
}

func TestSplitter_Regexp2ManyMatchesInOneChunk(t *testing.T) {
	pat, err := CompileRegexp2(",", regexp2.None)
	require.NoError(t, err)

	const n = 20000
	s := New(pat, -1)
	out, err := s.Split(strings.Repeat("a,", n))
	require.NoError(t, err)
	// The last delimiter touches the end of the buffer and waits.
	require.Len(t, out, n-1)

	// The table follows the buffer instead of being rebuilt per match.
	c := s.pat.(*runeCursor)
	require.Equal(t, 2*n-3, c.base)
	require.Len(t, c.runes, 3)
}
