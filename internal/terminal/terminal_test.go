package terminal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lines []string

func (l lines) Lines() []string { return l }

func TestTypingOnlyWhileOpen(t *testing.T) {
	term := New(nil, nil)
	term.Type('a')
	assert.Empty(t, term.Input())

	term.Toggle()
	require.True(t, term.IsOpen())
	for _, r := range "spawn é" {
		term.Type(r)
	}
	term.Type('\n')
	assert.Equal(t, "spawn é", term.Input())

	term.Backspace()
	assert.Equal(t, "spawn ", term.Input(), "backspace removes a whole rune")
	assert.Equal(t, "> spawn |", term.PromptLine())
}

func TestSubmitRunsAndRecordsHistory(t *testing.T) {
	var ran []string
	fail := errors.New("boom")
	term := New(nil, func(line string) error {
		ran = append(ran, line)
		if line == "bad" {
			return fail
		}
		return nil
	})
	term.SetOpen(true)

	term.Paste("  list\nignored")
	require.NoError(t, term.Submit())
	term.Paste("bad")
	assert.ErrorIs(t, term.Submit(), fail)
	require.NoError(t, term.Submit(), "blank line is a no-op")

	assert.Equal(t, []string{"list", "bad"}, ran)
	assert.Empty(t, term.Input())

	term.HistoryPrev()
	assert.Equal(t, "bad", term.Input())
	term.HistoryPrev()
	assert.Equal(t, "list", term.Input())
	term.HistoryPrev()
	assert.Equal(t, "list", term.Input())
	term.HistoryNext()
	assert.Equal(t, "bad", term.Input())
	term.HistoryNext()
	assert.Empty(t, term.Input())
}

func TestVisibleKeepsNewestAndTruncates(t *testing.T) {
	long := strings.Repeat("x", MaxLineWidth+10)
	term := New(lines{"one", "two", long}, nil)

	vis := term.Visible(2)
	require.Len(t, vis, 2)
	assert.Equal(t, "two", vis[0])
	assert.Len(t, vis[1], MaxLineWidth)
	assert.True(t, strings.HasSuffix(vis[1], "..."))

	assert.Len(t, term.Visible(10), 3)
	assert.Nil(t, term.Visible(0))
}
