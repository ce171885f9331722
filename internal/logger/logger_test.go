package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	require.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	cleared := 0
	l.BeforeWrite(func() { cleared++ })

	l.Log("! a.png - should be jpg")
	l.Infof("files: %d", 3)
	l.Errorf("boom")

	require.Equal(t, "! a.png - should be jpg\n[INFO] files: 3\n[ERROR] boom\n", buf.String())
	require.Equal(t, 3, cleared)
}

func TestSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")

	log, closer, err := Setup(path, slog.LevelInfo)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("file renamed", "path", "a.png")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `msg="file renamed" path=a.png`)
	require.NotContains(t, string(data), "hidden")
}

func TestSetupDiscard(t *testing.T) {
	log, closer, err := Setup("", slog.LevelDebug)
	require.NoError(t, err)
	log.Info("nowhere")
	require.NoError(t, closer.Close())
}
