// Package archive extracts submission archives while separating student work
// from noise (dependency folders, VCS metadata, OS droppings) and tallying
// what was kept and what was skipped.
package archive

import "strings"

// SkipRules is the list of path markers that identify noise entries. The
// default set is a policy choice, not a technical constraint; callers may
// supply their own.
type SkipRules []string

// DefaultSkipRules returns the standard noise markers: dependency and
// virtual-env directories, VCS and IDE metadata, and macOS artifacts.
func DefaultSkipRules() SkipRules {
	return SkipRules{
		"node_modules/",
		".git/",
		".idea/",
		"/.DS_Store",
		"/._",
		"/venv/",
	}
}

// Skip reports whether the entry path contains any noise marker.
func (r SkipRules) Skip(name string) bool {
	for _, marker := range r {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
