package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func newPlainConsole() (*Console, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return New(&buf), &buf
}

func TestSubmissionHeader(t *testing.T) {
	c, buf := newPlainConsole()
	c.SubmissionHeader(42, "Jane Doe", 7, "upload")
	require.Equal(t, "42 Jane Doe (7) upload\n", buf.String())
}

func TestWarningBox(t *testing.T) {
	c, buf := newPlainConsole()
	c.Warning("disk almost full")

	out := buf.String()
	require.Contains(t, out, "WARNING - disk almost full")
	require.Contains(t, out, "╭")
	require.Contains(t, out, "╰")
}

func TestErrorBox(t *testing.T) {
	c, buf := newPlainConsole()
	c.ErrorBox("something broke")
	require.Contains(t, buf.String(), "ERROR - something broke")
}

func TestBoxWrapsLongMessages(t *testing.T) {
	c, buf := newPlainConsole()
	c.Warning(strings.Repeat("word ", 40))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Top border, at least two content lines, bottom border.
	require.GreaterOrEqual(t, len(lines), 4)
	for _, line := range lines[1 : len(lines)-1] {
		require.True(t, strings.HasPrefix(line, "│"))
		require.True(t, strings.HasSuffix(line, "│"))
	}
}

func TestSummaryLine(t *testing.T) {
	c, buf := newPlainConsole()
	c.Summary("3 files | 1.2 kB", false)
	require.Equal(t, "\t 3 files | 1.2 kB\n", buf.String())
}

func TestTable(t *testing.T) {
	c, buf := newPlainConsole()
	c.Table([]string{"ID", "Name"}, [][]string{
		{"1", "Doe, Jane"},
		{"2", "Ada, Al"},
	})

	out := buf.String()
	require.Contains(t, out, "ID")
	require.Contains(t, out, "Doe, Jane")
	require.Contains(t, out, "Ada, Al")
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected []string
	}{
		{
			name:     "fits on one line",
			text:     "short text",
			width:    20,
			expected: []string{"short text"},
		},
		{
			name:     "breaks between words",
			text:     "alpha beta gamma",
			width:    10,
			expected: []string{"alpha beta", "gamma"},
		},
		{
			name:     "empty text still yields a line",
			text:     "",
			width:    10,
			expected: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, wrap(tt.text, tt.width))
		})
	}
}
