// Package terminal is the editor console bar: a line editor with history over a log view.
// It holds no graphics state; the panel layer feeds it keystrokes and draws Visible.
package terminal

import (
	"strings"
	"unicode/utf8"
)

const (
	Prompt = "> "
	// MaxLineWidth truncates long log lines on screen.
	MaxLineWidth = 200
)

// LineSource is the log the terminal shows above its input bar.
type LineSource interface {
	Lines() []string
}

// Terminal is shown and hidden with Toggle. While open it captures typing; Submit runs
// the line through exec.
type Terminal struct {
	log      LineSource
	exec     func(line string) error
	inputBuf string
	open     bool
	history  []string
	histPos  int
}

// New returns a closed terminal that shows log and runs submitted lines with exec.
func New(log LineSource, exec func(line string) error) *Terminal {
	return &Terminal{log: log, exec: exec}
}

// IsOpen returns true when the terminal is visible and capturing input.
func (t *Terminal) IsOpen() bool { return t.open }

func (t *Terminal) SetOpen(open bool) { t.open = open }
func (t *Terminal) Toggle()           { t.open = !t.open }

// Input is the line being typed.
func (t *Terminal) Input() string { return t.inputBuf }

// Type appends a printable rune. Control characters are dropped.
func (t *Terminal) Type(r rune) {
	if !t.open || r < 0x20 || r == 0x7f {
		return
	}
	t.inputBuf += string(r)
}

// Paste appends the first line of s.
func (t *Terminal) Paste(s string) {
	if !t.open {
		return
	}
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	t.inputBuf += s
}

// Backspace removes the last rune.
func (t *Terminal) Backspace() {
	if len(t.inputBuf) == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(t.inputBuf)
	t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
}

// Submit runs the current line and clears it. Blank lines are ignored.
func (t *Terminal) Submit() error {
	line := strings.TrimSpace(t.inputBuf)
	t.inputBuf = ""
	if line == "" {
		return nil
	}
	t.history = append(t.history, line)
	t.histPos = len(t.history)
	if t.exec == nil {
		return nil
	}
	return t.exec(line)
}

// HistoryPrev recalls the previous submitted line.
func (t *Terminal) HistoryPrev() {
	if t.histPos > 0 {
		t.histPos--
		t.inputBuf = t.history[t.histPos]
	}
}

// HistoryNext steps forward through history, ending on an empty line.
func (t *Terminal) HistoryNext() {
	if t.histPos >= len(t.history) {
		return
	}
	t.histPos++
	if t.histPos == len(t.history) {
		t.inputBuf = ""
		return
	}
	t.inputBuf = t.history[t.histPos]
}

// Visible returns at most n of the newest log lines, oldest first, truncated for display.
func (t *Terminal) Visible(n int) []string {
	if t.log == nil || n <= 0 {
		return nil
	}
	lines := t.log.Lines()
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) > MaxLineWidth {
			l = l[:MaxLineWidth-3] + "..."
		}
		out[i] = l
	}
	return out
}

// PromptLine is the input bar text with a caret.
func (t *Terminal) PromptLine() string { return Prompt + t.inputBuf + "|" }
