package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(l *Logger) {
	l.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }
}

func TestLogStampsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "engine.txt")
	l := New(path, 8)
	fixedClock(l)

	l.Log("hello")
	l.Log("world")

	assert.Equal(t, []string{"[2024-03-01 12:30:00] hello", "[2024-03-01 12:30:00] world"}, l.Lines())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2024-03-01 12:30:00] hello\n[2024-03-01 12:30:00] world\n", string(data))
}

func TestRingKeepsNewest(t *testing.T) {
	l := New("", 3)
	fixedClock(l)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		l.Log(s)
	}
	lines := l.Lines()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], " c"))
	assert.True(t, strings.HasSuffix(lines[2], " e"))

	l.Clear()
	assert.Empty(t, l.Lines())
}

func TestHandlerFormatsCategoryAndAttrs(t *testing.T) {
	l := New("", 0)
	fixedClock(l)
	log := Category(l.Slog(slog.LevelInfo), "render")

	log.Debug("hidden")
	log.Warn("shader failed", "name", "default")
	log.WithGroup("tex").Info("loaded", "w", 4)

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "[2024-03-01 12:30:00] WARN [render] shader failed name=default", lines[0])
	assert.Equal(t, "[2024-03-01 12:30:00] INFO [render] loaded tex.w=4", lines[1])
}

func TestDiscardAndParseLevel(t *testing.T) {
	assert.NotPanics(t, func() { Category(nil, "x").Error("dropped") })
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}
