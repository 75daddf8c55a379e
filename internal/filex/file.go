// Package filex holds small filesystem and path-segment helpers.
package filex

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	illegalChars  = regexp.MustCompile(`[^-_.a-zA-Z0-9\s]`)
	separatorRuns = regexp.MustCompile(`[\s_-]+`)
)

// Sanitize converts an arbitrary string (course code, assignment name, student
// sortable name) into a filesystem-safe path segment. Every character that is
// not a letter, digit, space, hyphen, underscore or period is stripped; runs
// of whitespace, hyphens and underscores collapse into a single hyphen; the
// result is lower-cased and has no leading or trailing hyphen.
//
// Sanitize is pure, total and idempotent.
func Sanitize(s string) string {
	s = illegalChars.ReplaceAllString(s, "")
	s = separatorRuns.ReplaceAllString(s, "-")
	return strings.Trim(strings.ToLower(s), "-")
}

// EnsureDir creates dir (and any missing parents). An already-existing
// directory is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
