// Package buildinfo carries version metadata injected at build time via
// -ldflags, e.g.:
//
//	go build -ldflags "-X github.com/dmitrijs2005/canvasctl/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Commit  = "N/A"
	Date    = "N/A"
)

// Short returns a one-line version string suitable for cobra's Version field.
func Short() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// Print writes the full build metadata to w.
func Print(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
	fmt.Fprintf(w, "Build date: %s\n", Date)
}
