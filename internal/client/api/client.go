// Package api implements the Canvas REST client: bearer-token auth,
// RFC 5988 Link-header pagination, and the handful of endpoints the grading
// workflow needs. The client is stateless with respect to the current
// term/course/assignment selection; callers pass ids explicitly.
package api

import (
	"context"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
)

// Client is the surface of the Canvas API consumed by the CLI. The concrete
// implementation is HTTPClient; tests substitute fakes.
type Client interface {
	// GetTerms lists enrollment terms for the configured account in reverse
	// chronological order.
	GetTerms(ctx context.Context) ([]models.Term, error)

	// GetCourses lists the caller's courses belonging to the given term.
	GetCourses(ctx context.Context, termID int) ([]models.Course, error)

	// GetStudents lists the full roster of a course (paginated).
	GetStudents(ctx context.Context, courseID int) ([]models.Student, error)

	// GetOneStudent fetches a single enrolled user.
	GetOneStudent(ctx context.Context, courseID, userID int) (*models.Student, error)

	// GetAssignments lists a course's assignments (paginated).
	GetAssignments(ctx context.Context, courseID int) ([]models.Assignment, error)

	// GetOneAssignment fetches a single assignment.
	GetOneAssignment(ctx context.Context, courseID, assignmentID int) (*models.Assignment, error)

	// GetAssignmentGroups lists a course's assignment groups (paginated).
	GetAssignmentGroups(ctx context.Context, courseID int) ([]models.AssignmentGroup, error)

	// GetGroupCategories assembles group categories with their groups and
	// members from the separate category/group/membership endpoints.
	GetGroupCategories(ctx context.Context, courseID int) ([]models.GroupCategory, error)

	// GetSubmissions lists all submissions for an assignment (paginated),
	// each including its owning user.
	GetSubmissions(ctx context.Context, courseID, assignmentID int) ([]models.Submission, error)

	// GetOneSubmission fetches one student's submission for an assignment.
	GetOneSubmission(ctx context.Context, courseID, assignmentID, userID int) (*models.Submission, error)

	// GetSubmissionSummary fetches the graded/ungraded/not-submitted counts
	// for an assignment.
	GetSubmissionSummary(ctx context.Context, courseID, assignmentID int) (*models.SubmissionSummary, error)

	// GradeSubmission posts a score and an optional comment for one student.
	GradeSubmission(ctx context.Context, courseID, assignmentID, userID int, score float64, comment string) error
}
