package download

import (
	"fmt"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
)

// Result aggregates the outcome of processing one submission: the files that
// ended up recorded for the student, the number of entries skipped as noise,
// and every recoverable condition encountered along the way. Callers can
// print it, sum it over a run, and assert against it in tests.
type Result struct {
	SubmissionID int
	StudentID    int
	Files        []models.FileInfo
	Skipped      int
	Warnings     []string
}

// Warnf records one recoverable condition.
func (r *Result) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// BytesKept sums the sizes of the recorded files.
func (r *Result) BytesKept() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}
