// Package paths derives the on-disk layout for downloaded submissions:
// <scratch>/<course>/<assignment>/<student>, every segment produced by
// filex.Sanitize. The mapping depends only on the three sanitized name
// fragments, so recomputing it is deterministic and idempotent.
package paths

import (
	"path/filepath"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
	"github.com/dmitrijs2005/canvasctl/internal/filex"
)

// Resolver composes submission directories for one course/assignment pair.
type Resolver struct {
	base       string
	course     string
	assignment string
}

// NewResolver builds a Resolver from the raw course code and assignment name;
// both are sanitized here, callers pass them as-is.
func NewResolver(baseDir, courseCode, assignmentName string) *Resolver {
	return &Resolver{
		base:       baseDir,
		course:     filex.Sanitize(courseCode),
		assignment: filex.Sanitize(assignmentName),
	}
}

// BaseDir returns the configured scratch root.
func (r *Resolver) BaseDir() string { return r.base }

// CourseDir returns <base>/<course>.
func (r *Resolver) CourseDir() string {
	return filepath.Join(r.base, r.course)
}

// AssignmentDir returns <base>/<course>/<assignment>.
func (r *Resolver) AssignmentDir() string {
	return filepath.Join(r.CourseDir(), r.assignment)
}

// StudentDir returns <base>/<course>/<assignment>/<student> without touching
// the filesystem.
func (r *Resolver) StudentDir(student models.Student) string {
	return filepath.Join(r.AssignmentDir(), filex.Sanitize(student.SortableName))
}

// EnsureStudentDir returns StudentDir after creating it (and any parents).
// Creation is idempotent; filesystem errors propagate.
func (r *Resolver) EnsureStudentDir(student models.Student) (string, error) {
	dir := r.StudentDir(student)
	if err := filex.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// SubmissionPath returns the full path for fileName inside the student's
// directory, creating the directory on demand.
func (r *Resolver) SubmissionPath(student models.Student, fileName string) (string, error) {
	dir, err := r.EnsureStudentDir(student)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}
