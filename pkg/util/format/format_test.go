package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "512B", FormatBytes(512))
	require.Equal(t, "2KB", FormatBytes(2048))
	require.Equal(t, "1.50KB", FormatBytes(1536))
	require.Equal(t, "3MB", FormatBytes(3*MB))
	require.Equal(t, "1TB", FormatBytes(TB))
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "0.25s", FormatDuration(250*time.Millisecond))
	require.Equal(t, "00:01:05", FormatDuration(65*time.Second))
	require.Equal(t, "26:00:01", FormatDuration(26*time.Hour+time.Second))
}
