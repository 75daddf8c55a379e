package models

import "time"

// SubmissionType is the Canvas-reported kind of a submission.
type SubmissionType string

const (
	SubmissionTypeUpload    SubmissionType = "online_upload"
	SubmissionTypeQuiz      SubmissionType = "online_quiz"
	SubmissionTypeTextEntry SubmissionType = "online_text_entry"
	SubmissionTypeURL       SubmissionType = "online_url"
	SubmissionTypeNone      SubmissionType = "none"
)

// Label returns the short human label used in progress output.
func (t SubmissionType) Label() string {
	switch t {
	case SubmissionTypeUpload:
		return "upload"
	case SubmissionTypeQuiz:
		return "quiz"
	case SubmissionTypeTextEntry:
		return "text"
	case SubmissionTypeURL:
		return "url"
	case SubmissionTypeNone, "":
		return "[none]"
	default:
		return string(t)
	}
}

// Workflow states reported by the API.
const (
	WorkflowStateUnsubmitted = "unsubmitted"
	WorkflowStateSubmitted   = "submitted"
	WorkflowStateGraded      = "graded"
)

// Submission is one student's work for one assignment, fetched fresh from
// the API per download or grade action. Only the Projection is persisted.
type Submission struct {
	ID             int                 `json:"id"`
	Body           string              `json:"body,omitempty"`
	URL            string              `json:"url,omitempty"`
	Grade          string              `json:"grade,omitempty"`
	Score          *float64            `json:"score,omitempty"`
	SubmissionType SubmissionType      `json:"submission_type"`
	WorkflowState  string              `json:"workflow_state"`
	GraderID       int                 `json:"grader_id,omitempty"`
	GradedAt       *time.Time          `json:"graded_at,omitempty"`
	Attachments    []Attachment        `json:"attachments,omitempty"`
	Comments       []SubmissionComment `json:"submission_comments,omitempty"`
	User           Student             `json:"user"`
}

// SubmissionComment is one grading comment already on the submission.
type SubmissionComment struct {
	ID         int        `json:"id"`
	AuthorName string     `json:"author_name"`
	Comment    string     `json:"comment"`
	CreatedAt  *time.Time `json:"created_at"`
}

// Attachment is one remote file of an upload-type submission. Read-only
// projection of API data; exists only transiently during processing.
type Attachment struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	ContentType string `json:"content-type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

// SubmissionProjection is the small slice of a submission kept in the local
// store, keyed by student id.
type SubmissionProjection struct {
	ID            int        `json:"id"`
	Grade         string     `json:"grade,omitempty"`
	Score         *float64   `json:"score,omitempty"`
	GraderID      int        `json:"grader_id,omitempty"`
	GradedAt      *time.Time `json:"graded_at,omitempty"`
	WorkflowState string     `json:"workflow_state"`
}

// Projection returns the persisted subset of s.
func (s *Submission) Projection() SubmissionProjection {
	return SubmissionProjection{
		ID:            s.ID,
		Grade:         s.Grade,
		Score:         s.Score,
		GraderID:      s.GraderID,
		GradedAt:      s.GradedAt,
		WorkflowState: s.WorkflowState,
	}
}

// FileInfo is the durable record of one file that ended up on disk for a
// student after download and extraction.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}
