package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input was
// read, the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetToken prompts for the Canvas API token and reads it from the terminal
// without echo.
func GetToken(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter Canvas API token: "); err != nil {
		return "", err
	}
	tok, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(tok)), nil
}

// Confirm asks a yes/no question; "y" and "yes" (any case) mean yes.
func Confirm(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	answer, err := GetSimpleText(reader, prompt+" (y/n)", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ChooseIndex prints a numbered list and reads the user's pick, reprompting
// on invalid input. Returns the zero-based index of the chosen item.
func ChooseIndex(reader *bufio.Reader, prompt string, items []string, w io.Writer) (int, error) {
	if len(items) == 0 {
		return 0, errors.New("nothing to choose from")
	}

	fmt.Fprintln(w, prompt)
	for i, item := range items {
		fmt.Fprintf(w, "%3d. %s\n", i+1, item)
	}

	for {
		line, err := GetSimpleText(reader, fmt.Sprintf("Enter a number (1-%d)", len(items)), w)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(items) {
			fmt.Fprintln(w, "Not a valid choice")
			continue
		}
		return n - 1, nil
	}
}

// ChooseMulti prints a numbered list and reads a space- or comma-separated
// set of picks. An empty line selects nothing. Returns zero-based indexes.
func ChooseMulti(reader *bufio.Reader, prompt string, items []string, w io.Writer) ([]int, error) {
	if len(items) == 0 {
		return nil, nil
	}

	fmt.Fprintln(w, prompt)
	for i, item := range items {
		fmt.Fprintf(w, "%3d. %s\n", i+1, item)
	}

	for {
		line, err := GetSimpleText(reader, "Enter numbers separated by spaces (empty for none)", w)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}

		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
		picks := make([]int, 0, len(fields))
		valid := true
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil || n < 1 || n > len(items) {
				valid = false
				break
			}
			picks = append(picks, n-1)
		}
		if !valid {
			fmt.Fprintln(w, "Not a valid choice")
			continue
		}
		return picks, nil
	}
}
