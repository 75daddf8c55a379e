package models

import "time"

// Assignment is one gradeable assignment within a course.
type Assignment struct {
	ID                int        `json:"id"`
	Name              string     `json:"name"`
	DueAt             *time.Time `json:"due_at"`
	HTMLURL           string     `json:"html_url"`
	NeedsGradingCount int        `json:"needs_grading_count"`
	SubmissionTypes   []string   `json:"submission_types"`
	PointsPossible    float64    `json:"points_possible"`
	AssignmentGroupID int        `json:"assignment_group_id"`
}

// SubmissionSummary is the per-assignment grading progress breakdown.
type SubmissionSummary struct {
	Graded       int `json:"graded"`
	Ungraded     int `json:"ungraded"`
	NotSubmitted int `json:"not_submitted"`
}
