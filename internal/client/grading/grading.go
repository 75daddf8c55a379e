// Package grading holds the grading schemes (points, pass/fail, letter) and
// score validation shared by the grade command.
package grading

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/dmitrijs2005/canvasctl/internal/common"
)

// Scheme selects how a score is chosen interactively.
type Scheme string

const (
	SchemePoints   Scheme = "points"
	SchemePassFail Scheme = "passfail"
	SchemeLetter   Scheme = "letter"
)

// ParseScheme validates a --scheme flag value.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case SchemePoints, SchemePassFail, SchemeLetter:
		return Scheme(s), nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnknownScheme, s)
	}
}

// Level is one choice on a grading scale, expressed as a percentage of the
// assignment's maximum points.
type Level struct {
	Grade       string
	Percent     float64
	Description string
}

// Points converts the level to concrete points for the given maximum.
func (l Level) Points(maxPoints float64) float64 {
	return l.Percent / 100.0 * maxPoints
}

// PassFailScale is the two-level scale for pass/fail grading.
var PassFailScale = []Level{
	{Grade: "Pass", Percent: 100.0},
	{Grade: "Fail", Percent: 0.0},
}

// LetterScale maps letter grades to percentages.
var LetterScale = []Level{
	{Grade: "A", Percent: 100.0, Description: "Exceeds"},
	{Grade: "A-", Percent: 95.0, Description: "Fully meets"},
	{Grade: "B+", Percent: 87.0},
	{Grade: "B", Percent: 85.0, Description: "Meets"},
	{Grade: "B-", Percent: 83.0},
	{Grade: "C+", Percent: 77.0},
	{Grade: "C", Percent: 75.0, Description: "Minimally meets"},
	{Grade: "C-", Percent: 73.0},
	{Grade: "D+", Percent: 67.0},
	{Grade: "D", Percent: 65.0, Description: "Partially meets"},
	{Grade: "D-", Percent: 63.0},
	{Grade: "F", Percent: 60.0, Description: "Shows effort"},
	{Grade: "1/3", Percent: 33.3},
	{Grade: "0", Percent: 0.0, Description: "No credit"},
}

// ValidScore reports whether score lies within [0, maxScore].
func ValidScore(score, maxScore float64) bool {
	return score >= 0 && score <= maxScore
}

// InvalidScoreMessage renders the standard out-of-range complaint.
func InvalidScoreMessage(score, maxScore float64) string {
	return fmt.Sprintf("invalid score [0 <= %v <= %v]", score, maxScore)
}

var scorePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]*)?$`)

// ParseScore parses a user-entered score and range-checks it against
// maxScore. Both failures map to common.ErrInvalidScore.
func ParseScore(entry string, maxScore float64) (float64, error) {
	if !scorePattern.MatchString(entry) {
		return 0, fmt.Errorf("%w: %q is not a valid score", common.ErrInvalidScore, entry)
	}
	value, err := strconv.ParseFloat(entry, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", common.ErrInvalidScore, entry, err)
	}
	if !ValidScore(value, maxScore) {
		return 0, fmt.Errorf("%w: %s", common.ErrInvalidScore, InvalidScoreMessage(value, maxScore))
	}
	return value, nil
}
