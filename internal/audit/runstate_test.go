package audit

import (
	"testing"

	"github.com/ostafen/extfix/internal/classify"
	"github.com/stretchr/testify/require"
)

func TestRunStateQuiet(t *testing.T) {
	s := NewRunState(false)

	require.True(t, s.ShouldLog(classify.Unknown, "xyz"))
	require.False(t, s.ShouldLog(classify.Unknown, "xyz"))
	require.True(t, s.ShouldLog(classify.Unknown, "abc"))

	key := WarningKey("png", "text/utf8")
	require.Equal(t, "png:text/utf8", key)
	require.True(t, s.ShouldLog(classify.MatchedCategoryWarn, key))
	require.False(t, s.ShouldLog(classify.MatchedCategoryWarn, key))

	// unknown and warning keys live in separate sets
	require.True(t, s.ShouldLog(classify.MatchedCategoryWarn, "xyz"))

	require.True(t, s.ShouldLog(classify.MismatchSuggestRename, ""))
	require.True(t, s.ShouldLog(classify.MismatchSuggestRename, ""))

	require.False(t, s.ShouldLog(classify.MatchedCorrect, ""))
	require.False(t, s.ShouldLog(classify.MatchedCategoryOk, ""))
}

func TestRunStateVerbose(t *testing.T) {
	s := NewRunState(true)

	for range 3 {
		require.True(t, s.ShouldLog(classify.Unknown, "xyz"))
		require.True(t, s.ShouldLog(classify.MatchedCategoryWarn, "png:text/utf8"))
		require.True(t, s.ShouldLog(classify.MatchedCorrect, ""))
		require.True(t, s.ShouldLog(classify.MatchedCategoryOk, ""))
		require.True(t, s.ShouldLog(classify.MismatchSuggestRename, ""))
	}
}

func TestAsciiDump(t *testing.T) {
	require.Equal(t, `a\nb\nc\nd`, asciiDump([]byte("a\r\nb\nc\rd")))
	require.Equal(t, "\x00\x07?", asciiDump([]byte{0x00, 0x07, 0xC3}))
	require.Equal(t, "", hexDump(nil))
	require.Equal(t, "00 7F FF", hexDump([]byte{0x00, 0x7F, 0xFF}))
}
