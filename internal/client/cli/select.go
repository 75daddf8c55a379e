package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
)

// newSelectCmd builds the selection subtree. Each subcommand fetches the
// candidates from the API, prompts for a pick and persists it, pulling the
// dependent data (roster, groups, summary) in the same step so later
// commands can run offline.
func newSelectCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select the term, course or assignment to work on",
	}
	cmd.AddCommand(
		newSelectTermCmd(a),
		newSelectCourseCmd(a),
		newSelectAssignmentCmd(a),
	)
	return cmd
}

func newSelectTermCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "term",
		Short: "Select the enrollment term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.selectTerm(cmd.Context())
		},
	}
}

func newSelectCourseCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "course",
		Short: "Select the course within the current term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.selectCourse(cmd.Context())
		},
	}
}

func newSelectAssignmentCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assignment",
		Short: "Select the assignment within the current course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.selectAssignment(cmd.Context())
		},
	}
}

func (a *App) selectTerm(ctx context.Context) error {
	terms, err := a.api.GetTerms(ctx)
	if err != nil {
		return fmt.Errorf("fetch terms: %w", err)
	}
	if len(terms) == 0 {
		return fmt.Errorf("no terms found")
	}

	labels := make([]string, len(terms))
	for i, t := range terms {
		labels[i] = fmt.Sprintf("%s (%s)", t.Name, t.Date().Format("2006-01-02"))
	}

	idx, err := ChooseIndex(a.reader, "Which term?", labels, os.Stdout)
	if err != nil {
		return err
	}

	if err := a.store.SetTerm(ctx, terms[idx]); err != nil {
		return fmt.Errorf("save term: %w", err)
	}
	a.console.Success(fmt.Sprintf("Selected term %s", terms[idx].Name))
	return nil
}

func (a *App) selectCourse(ctx context.Context) error {
	term, err := a.store.Term(ctx)
	if err != nil {
		return err
	}

	courses, err := a.api.GetCourses(ctx, term.ID)
	if err != nil {
		return fmt.Errorf("fetch courses: %w", err)
	}
	if len(courses) == 0 {
		return fmt.Errorf("no courses found in term %s", term.Name)
	}

	labels := make([]string, len(courses))
	for i, c := range courses {
		labels[i] = fmt.Sprintf("%s (%s)", c.Name, c.CourseCode)
	}

	idx, err := ChooseIndex(a.reader, "Which course?", labels, os.Stdout)
	if err != nil {
		return err
	}
	course := courses[idx]

	// Pull everything later commands need while we are online.
	students, err := a.api.GetStudents(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("fetch roster: %w", err)
	}
	groups, err := a.api.GetAssignmentGroups(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("fetch assignment groups: %w", err)
	}
	categories, err := a.api.GetGroupCategories(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("fetch group categories: %w", err)
	}

	if err := a.store.SetCourse(ctx, course, students, groups, categories); err != nil {
		return fmt.Errorf("save course: %w", err)
	}
	a.console.Success(fmt.Sprintf("Selected course %s with %d students", course.Name, len(students)))
	return nil
}

func (a *App) selectAssignment(ctx context.Context) error {
	course, err := a.store.Course(ctx)
	if err != nil {
		return err
	}

	assignments, err := a.api.GetAssignments(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("fetch assignments: %w", err)
	}
	if len(assignments) == 0 {
		return fmt.Errorf("no assignments found in course %s", course.Name)
	}

	labels := make([]string, len(assignments))
	for i, as := range assignments {
		labels[i] = assignmentLabel(as)
	}

	idx, err := ChooseIndex(a.reader, "Which assignment?", labels, os.Stdout)
	if err != nil {
		return err
	}
	assignment := assignments[idx]

	summary, err := a.api.GetSubmissionSummary(ctx, course.ID, assignment.ID)
	if err != nil {
		return fmt.Errorf("fetch submission summary: %w", err)
	}

	if err := a.store.SetAssignment(ctx, assignment, *summary); err != nil {
		return fmt.Errorf("save assignment: %w", err)
	}
	a.console.Success(fmt.Sprintf("Selected assignment %s", assignment.Name))
	return nil
}

func assignmentLabel(a models.Assignment) string {
	due := "no due date"
	if a.DueAt != nil {
		due = "due " + a.DueAt.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s (%s, %.0f pts)", a.Name, due, a.PointsPossible)
}
