// Package ui renders the interactive console surface: colored progress
// lines, warning and error boxes, separators and tables. It is the only
// place that knows about colors; everything else hands it plain strings.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Console writes user-facing output to a single writer.
type Console struct {
	out io.Writer
}

func New(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// SubmissionHeader prints the one-line banner preceding each processed
// submission: id, student name, student id, submission type label.
func (c *Console) SubmissionHeader(submissionID int, studentName string, studentID int, typeLabel string) {
	fmt.Fprintf(c.out, "%d %s (%d) %s\n", submissionID, studentName, studentID, color.BlueString(typeLabel))
}

// AttachmentLine prints one attachment's name, human size and content type.
func (c *Console) AttachmentLine(name string, size int64, contentType string) {
	fmt.Fprintf(c.out, "\t%s %s %s\n",
		color.GreenString(name),
		color.YellowString("(%s)", humanize.Bytes(uint64(size))),
		contentType)
}

// EntryLine prints one kept archive entry with its human-readable size.
func (c *Console) EntryLine(name string, size int64) {
	fmt.Fprintf(c.out, "\t%s %s\n",
		color.GreenString(name),
		color.YellowString("(%s)", humanize.Bytes(uint64(size))))
}

// Summary prints an extraction summary line, red when anything was skipped.
func (c *Console) Summary(line string, skipped bool) {
	if skipped {
		fmt.Fprintf(c.out, "\t %s\n", color.RedString(line))
	} else {
		fmt.Fprintf(c.out, "\t %s\n", color.CyanString(line))
	}
}

func (c *Console) Info(msg string) {
	fmt.Fprintf(c.out, "\t%s\n", color.CyanString(msg))
}

func (c *Console) Success(msg string) {
	fmt.Fprintf(c.out, "\t%s\n", color.GreenString(msg))
}

func (c *Console) Notice(msg string) {
	fmt.Fprintf(c.out, "\t%s\n", color.YellowString(msg))
}

func (c *Console) Problem(msg string) {
	fmt.Fprintf(c.out, "\t%s\n", color.RedString(msg))
}

// Warning prints a boxed, yellow warning message.
func (c *Console) Warning(msg string) {
	fmt.Fprintln(c.out, box(color.New(color.FgYellow), "WARNING", msg))
}

// ErrorBox prints a boxed, red error message.
func (c *Console) ErrorBox(msg string) {
	fmt.Fprintln(c.out, box(color.New(color.FgRed), "ERROR", msg))
}

// Separator prints the blue rule used between interactive grading rounds.
func (c *Console) Separator() {
	fmt.Fprintln(c.out, color.BlueString(strings.Repeat("-", 80)))
}

// Table renders rows with the given headers. Pass nil headers for a bare
// grid.
func (c *Console) Table(headers []string, rows [][]string) {
	t := tablewriter.NewWriter(c.out)
	if len(headers) > 0 {
		t.SetHeader(headers)
	}
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	t.SetBorder(false)
	t.SetColumnSeparator(" ")
	t.AppendBulk(rows)
	t.Render()
}

const boxWidth = 76

// box draws a rounded-corner box around the wrapped "PREFIX - message" text.
func box(col *color.Color, prefix, msg string) string {
	lines := wrap(fmt.Sprintf("%s - %s", prefix, msg), boxWidth)

	width := 0
	for _, line := range lines {
		if len(line) > width {
			width = len(line)
		}
	}

	var b strings.Builder
	b.WriteString(col.Sprint("╭" + strings.Repeat("─", width+2) + "╮"))
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(col.Sprintf("│ %-*s │", width, line))
		b.WriteString("\n")
	}
	b.WriteString(col.Sprint("╰" + strings.Repeat("─", width+2) + "╯"))
	return b.String()
}

// wrap word-wraps text to the given width, never breaking words.
func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
