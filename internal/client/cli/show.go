package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
	"github.com/dmitrijs2005/canvasctl/internal/common"
)

// newShowCmd builds the inspection subtree.
func newShowCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show details of the current selection or a student",
	}
	cmd.AddCommand(
		newShowAssignmentCmd(a),
		newShowStudentCmd(a),
		newShowSubmissionCmd(a),
		newShowPathsCmd(a),
		newShowTreeCmd(a),
	)
	return cmd
}

func newShowAssignmentCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assignment",
		Short: "Show the current assignment and its grading progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assignment, err := a.store.Assignment(ctx)
			if err != nil {
				return err
			}

			a.console.Println(assignment.Name)
			if assignment.DueAt != nil {
				a.console.Info("due " + assignment.DueAt.Format("2006-01-02 15:04"))
			}
			a.console.Info(fmt.Sprintf("%v points possible", assignment.PointsPossible))
			a.console.Info(assignment.HTMLURL)

			summary, err := a.store.SubmissionSummary(ctx)
			if errors.Is(err, common.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			a.console.Table([]string{"Graded", "Ungraded", "Not submitted"}, [][]string{{
				strconv.Itoa(summary.Graded),
				strconv.Itoa(summary.Ungraded),
				strconv.Itoa(summary.NotSubmitted),
			}})
			return nil
		},
	}
}

func newShowStudentCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "student <id>",
		Short: "Show a roster entry with its cached submission and files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}

			student, err := a.store.Student(ctx, id)
			if err != nil {
				return err
			}
			a.console.Println(fmt.Sprintf("%s (%d) %s", student.SortableName, student.ID, student.LoginID))

			sub, err := a.store.Submission(ctx, id)
			switch {
			case errors.Is(err, common.ErrNotFound):
				a.console.Notice("no cached submission; run download first")
			case err != nil:
				return err
			default:
				a.console.Info(fmt.Sprintf("submission %d: %s", sub.ID, gradeSummary(sub)))
			}

			files, err := a.store.StudentFiles(ctx, id)
			if err != nil {
				return err
			}
			for _, f := range files {
				a.console.EntryLine(f.Name, f.Size)
			}
			return nil
		},
	}
}

func newShowSubmissionCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "submission <student-id>",
		Short: "Fetch and dump a student's submission as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}

			course, err := a.store.Course(ctx)
			if err != nil {
				return err
			}
			assignment, err := a.store.Assignment(ctx)
			if err != nil {
				return err
			}

			sub, err := a.api.GetOneSubmission(ctx, course.ID, assignment.ID, id)
			if err != nil {
				return fmt.Errorf("fetch submission: %w", err)
			}

			details, err := json.MarshalIndent(sub, "", "  ")
			if err != nil {
				return err
			}
			a.console.Println(string(details))
			return nil
		},
	}
}

func newShowPathsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "paths [student-id]",
		Short: "Show where downloads for the current selection land",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, _, _, err := a.resolver(ctx)
			if err != nil {
				return err
			}
			a.console.Info("scratch:    " + res.BaseDir())
			a.console.Info("course:     " + res.CourseDir())
			a.console.Info("assignment: " + res.AssignmentDir())

			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid student id %q", args[0])
				}
				student, err := a.store.Student(ctx, id)
				if err != nil {
					return err
				}
				a.console.Info("student:    " + res.StudentDir(*student))
			}
			return nil
		},
	}
}

func newShowTreeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <student-id>",
		Short: "Walk a student's downloaded files on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}

			res, _, _, err := a.resolver(ctx)
			if err != nil {
				return err
			}
			student, err := a.store.Student(ctx, id)
			if err != nil {
				return err
			}

			root := res.StudentDir(*student)
			a.console.Println(root)
			return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if path == root {
					return nil
				}
				rel, err := filepath.Rel(root, path)
				if err != nil {
					return err
				}
				if d.IsDir() {
					a.console.Println("\t" + rel + "/")
					return nil
				}
				info, err := d.Info()
				if err != nil {
					return err
				}
				a.console.EntryLine(rel, info.Size())
				return nil
			})
		},
	}
}

// gradeSummary renders the cached grading state of one submission.
func gradeSummary(sub *models.SubmissionProjection) string {
	if sub == nil || sub.WorkflowState != models.WorkflowStateGraded {
		return "not graded"
	}
	score := ""
	if sub.Score != nil {
		score = fmt.Sprintf(" (%v)", *sub.Score)
	}
	when := ""
	if sub.GradedAt != nil {
		when = " " + humanize.Time(*sub.GradedAt)
	}
	return fmt.Sprintf("graded %s%s%s", sub.Grade, score, when)
}
