package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	require.Contains(t, out.String(), "Name?")
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEmptyEOF(t *testing.T) {
	var out bytes.Buffer
	_, err := GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetToken_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetToken(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetToken_TrimsWhitespace(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return []byte("  tok-123  "), nil
	}
	var out bytes.Buffer
	tok, err := GetToken(&out)
	require.NoError(t, err)
	require.Equal(t, "tok-123", tok)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "y", input: "y\n", expected: true},
		{name: "yes", input: "yes\n", expected: true},
		{name: "uppercase", input: "YES\n", expected: true},
		{name: "n", input: "n\n", expected: false},
		{name: "anything else", input: "maybe\n", expected: false},
		{name: "empty", input: "\n", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(rdr(tt.input), "Post?", &out)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestChooseIndex(t *testing.T) {
	var out bytes.Buffer
	idx, err := ChooseIndex(rdr("2\n"), "Which?", []string{"a", "b", "c"}, &out)
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	require.Contains(t, out.String(), "  1. a")
}

func TestChooseIndex_RepromptsOnInvalid(t *testing.T) {
	var out bytes.Buffer
	idx, err := ChooseIndex(rdr("zero\n0\n9\n3\n"), "Which?", []string{"a", "b", "c"}, &out)
	require.NoError(t, err)
	require.Equal(t, 2, idx)
	require.Contains(t, out.String(), "Not a valid choice")
}

func TestChooseIndex_EmptyList(t *testing.T) {
	var out bytes.Buffer
	_, err := ChooseIndex(rdr(""), "Which?", nil, &out)
	require.Error(t, err)
}

func TestChooseMulti(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int
	}{
		{name: "spaces", input: "1 3\n", expected: []int{0, 2}},
		{name: "commas", input: "1,2\n", expected: []int{0, 1}},
		{name: "mixed", input: "1, 3\n", expected: []int{0, 2}},
		{name: "empty means none", input: "\n", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := ChooseMulti(rdr(tt.input), "Which?", []string{"a", "b", "c"}, &out)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestChooseMulti_RepromptsOnInvalid(t *testing.T) {
	var out bytes.Buffer
	got, err := ChooseMulti(rdr("1 9\n2\n"), "Which?", []string{"a", "b", "c"}, &out)
	require.NoError(t, err)
	require.Equal(t, []int{1}, got)
	require.Contains(t, out.String(), "Not a valid choice")
}
