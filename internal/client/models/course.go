package models

// Course is one course as returned by the courses endpoint. Term is only
// populated when the request asks for include[]=term.
type Course struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
	Term       *Term  `json:"term,omitempty"`
}

// AssignmentGroup is the named bucket an assignment belongs to.
type AssignmentGroup struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
