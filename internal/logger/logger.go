// Package logger keeps a bounded in-memory copy of engine log lines for the editor
// console and mirrors them to a file on disk. It plugs into log/slog as a handler.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/engine.txt"

// DefaultCapacity bounds the in-memory history.
const DefaultCapacity = 512

const stampLayout = "2006-01-02 15:04:05"

// Logger stores stamped lines in a ring and appends them to a file. A zero path keeps
// lines in memory only.
type Logger struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
	path  string
	echo  io.Writer
	now   func() time.Time
}

// New returns a Logger writing to path (may be empty) and keeping up to capacity lines.
// The parent directory of path is created if missing.
func New(path string, capacity int) *Logger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Logger{lines: make([]string, capacity), path: path, now: time.Now}
}

// SetEcho also copies every line to w (stderr in the binary).
func (l *Logger) SetEcho(w io.Writer) {
	l.mu.Lock()
	l.echo = w
	l.mu.Unlock()
}

// Log appends a line prefixed with [timestamp].
func (l *Logger) Log(line string) {
	stamped := "[" + l.now().Format(stampLayout) + "] " + line

	l.mu.Lock()
	l.lines[l.next] = stamped
	l.next = (l.next + 1) % len(l.lines)
	if l.next == 0 {
		l.full = true
	}
	echo := l.echo
	path := l.path
	l.mu.Unlock()

	if echo != nil {
		_, _ = io.WriteString(echo, stamped+"\n")
	}
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Lines returns the stored lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.full {
		out := make([]string, l.next)
		copy(out, l.lines[:l.next])
		return out
	}
	out := make([]string, 0, len(l.lines))
	out = append(out, l.lines[l.next:]...)
	return append(out, l.lines[:l.next]...)
}

// Clear drops the in-memory history. The file is left alone.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.lines)
	l.next = 0
	l.full = false
}

// Handler formats slog records as "LEVEL [category] msg key=value ..." lines into a Logger.
type Handler struct {
	l     *Logger
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewHandler returns a slog handler that records at level and above.
func NewHandler(l *Logger, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{l: l, level: level}
}

// Slog is shorthand for slog.New(NewHandler(l, level)).
func (l *Logger) Slog(level slog.Leveler) *slog.Logger {
	return slog.New(NewHandler(l, level))
}

func (h *Handler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	var cat string
	rest := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		if a.Key == CategoryKey {
			cat = a.Value.String()
			continue
		}
		rest = append(rest, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		rest = append(rest, a)
		return true
	})
	if cat != "" {
		b.WriteString("[" + cat + "] ")
	}
	b.WriteString(r.Message)
	for _, a := range rest {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fmt.Fprintf(&b, " %s=%v", key, a.Value.Resolve().Any())
	}
	h.l.Log(b.String())
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := *h
	n.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &n
}

func (h *Handler) WithGroup(name string) slog.Handler {
	n := *h
	if n.group != "" {
		name = n.group + "." + name
	}
	n.group = name
	return &n
}

// CategoryKey tags log lines with the subsystem that emitted them.
const CategoryKey = "category"

// Category returns a child logger tagged with name. A nil l yields a discarding logger.
func Category(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l.With(CategoryKey, name)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 100}))
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels; anything else is info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
