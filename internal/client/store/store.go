// Package store persists the CLI's working state in a local SQLite database:
// the current term/course/assignment selection, the course roster, group
// memberships, cached submission projections, per-student file lists and the
// assignment's reusable comment bank.
//
// The rest of the code depends only on the Store interface and its typed
// accessors; no key-path strings leak out of this package.
package store

import (
	"context"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
)

// StudentStatus pairs a roster entry with its cached grading state, for the
// interactive grading loop.
type StudentStatus struct {
	Student    models.Student
	Submission *models.SubmissionProjection
	FileCount  int
}

// Store is the typed persistence surface. Missing values surface as
// common.ErrNotFound, wrapped in the matching ErrNoCurrent* sentinel for the
// selection accessors.
type Store interface {
	// Current selections.
	Term(ctx context.Context) (*models.Term, error)
	SetTerm(ctx context.Context, term models.Term) error
	Course(ctx context.Context) (*models.Course, error)
	// SetCourse replaces the current course along with its roster, assignment
	// groups and group categories in one transaction.
	SetCourse(ctx context.Context, course models.Course, students []models.Student, groups []models.AssignmentGroup, categories []models.GroupCategory) error
	Assignment(ctx context.Context) (*models.Assignment, error)
	// SetAssignment replaces the current assignment and its submission
	// summary, and resets the assignment's comment bank.
	SetAssignment(ctx context.Context, assignment models.Assignment, summary models.SubmissionSummary) error
	SubmissionSummary(ctx context.Context) (*models.SubmissionSummary, error)

	// Roster and groups for the current course.
	Students(ctx context.Context) ([]models.Student, error)
	Student(ctx context.Context, id int) (*models.Student, error)
	AssignmentGroups(ctx context.Context) ([]models.AssignmentGroup, error)
	GroupCategories(ctx context.Context) ([]models.GroupCategory, error)

	// Cached grading state.
	CacheSubmission(ctx context.Context, submission *models.Submission) error
	Submission(ctx context.Context, studentID int) (*models.SubmissionProjection, error)
	StudentStatuses(ctx context.Context) ([]StudentStatus, error)

	// Per-student file lists. ReplaceStudentFiles swaps the old list for the
	// new one atomically; there is no window where the list is cleared but
	// not yet repopulated.
	StudentFiles(ctx context.Context, studentID int) ([]models.FileInfo, error)
	ReplaceStudentFiles(ctx context.Context, studentID int, files []models.FileInfo) error

	// Assignment comment bank.
	Comments(ctx context.Context) ([]string, error)
	AddComment(ctx context.Context, comment string) error

	Close() error
}
