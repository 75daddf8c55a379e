package archive

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
)

type tally struct {
	extracted int64
	skipped   int64
}

// Report classifies archive entries as kept or skipped and accumulates file
// and byte counters plus the list of kept files. One Report covers one
// attachment; it is discarded after rendering its summary.
//
// Directory entries must be filtered by the caller and never passed to Add.
type Report struct {
	rules    SkipRules
	files    tally
	bytes    tally
	kept     []models.FileInfo
	progress func(models.FileInfo)
}

func NewReport(rules SkipRules) *Report {
	return &Report{rules: rules}
}

// SetProgress registers a callback invoked once per kept entry, for per-file
// progress output.
func (r *Report) SetProgress(fn func(models.FileInfo)) {
	r.progress = fn
}

// Skip reports whether name matches the noise rules, without recording
// anything. Extractors use it to decide whether to write an entry at all.
func (r *Report) Skip(name string) bool {
	return r.rules.Skip(name)
}

// Add classifies one non-directory entry. A skipped entry only bumps the
// skipped counters; a kept entry bumps the extracted counters, is appended to
// the kept list, and triggers the progress callback. Add reports whether the
// entry was kept.
func (r *Report) Add(name string, size int64) bool {
	if r.rules.Skip(name) {
		r.files.skipped++
		r.bytes.skipped += size
		return false
	}
	r.files.extracted++
	r.bytes.extracted += size
	fi := models.FileInfo{Name: name, Size: size}
	r.kept = append(r.kept, fi)
	if r.progress != nil {
		r.progress(fi)
	}
	return true
}

// Exclude force-counts an entry as skipped regardless of the rules. Used for
// entries rejected for safety reasons (paths escaping the target directory).
func (r *Report) Exclude(name string, size int64) {
	r.files.skipped++
	r.bytes.skipped += size
}

// Kept returns the accumulated list of kept files.
func (r *Report) Kept() []models.FileInfo {
	return r.kept
}

// KeptCount returns how many entries were kept.
func (r *Report) KeptCount() int { return int(r.files.extracted) }

// SkippedCount returns how many entries were skipped.
func (r *Report) SkippedCount() int { return int(r.files.skipped) }

// Summary renders the single human-readable result line. With nothing
// skipped: "3 files | 1.2 kB". With skips, both ratios appear:
// "2/3 files, 1 skipped | 900 B/1.2 kB, 300 B skipped".
func (r *Report) Summary() string {
	var segments []string

	if r.files.skipped == 0 {
		segments = append(segments, fmt.Sprintf("%d %s", r.files.extracted, pluralize("file", r.files.extracted)))
	} else {
		total := r.files.extracted + r.files.skipped
		segments = append(segments, fmt.Sprintf("%d/%d files, %d skipped", r.files.extracted, total, r.files.skipped))
	}

	if r.bytes.skipped == 0 {
		segments = append(segments, humanize.Bytes(uint64(r.bytes.extracted)))
	} else {
		total := r.bytes.extracted + r.bytes.skipped
		segments = append(segments, fmt.Sprintf("%s/%s, %s skipped",
			humanize.Bytes(uint64(r.bytes.extracted)),
			humanize.Bytes(uint64(total)),
			humanize.Bytes(uint64(r.bytes.skipped))))
	}

	return strings.Join(segments, " | ")
}

func pluralize(word string, n int64) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
