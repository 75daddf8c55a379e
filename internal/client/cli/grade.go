package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/canvasctl/internal/client/grading"
	"github.com/dmitrijs2005/canvasctl/internal/client/models"
	"github.com/dmitrijs2005/canvasctl/internal/client/paths"
	"github.com/dmitrijs2005/canvasctl/internal/client/store"
)

// errQuit aborts the grading loop without failing the command.
var errQuit = errors.New("quit")

// newGradeCmd runs the interactive grading loop over the current assignment.
// Students are taken from the locally cached statuses, so `download` should
// run first; grades are posted to the API and the cache refreshed per
// student.
func newGradeCmd(a *App) *cobra.Command {
	var (
		schemeFlag  string
		includeDone bool
	)

	cmd := &cobra.Command{
		Use:   "grade [student-id] [score]",
		Short: "Grade submissions interactively",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme, err := grading.ParseScheme(schemeFlag)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			res, course, assignment, err := a.resolver(ctx)
			if err != nil {
				return err
			}

			statuses, err := a.store.StudentStatuses(ctx)
			if err != nil {
				return err
			}

			// A preset score short-circuits the interactive score selection
			// for the named student.
			var preset *float64
			if len(args) >= 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid student id %q", args[0])
				}
				statuses = filterStatus(statuses, id)
				if len(statuses) == 0 {
					return fmt.Errorf("student %d is not on the cached roster", id)
				}
				includeDone = true

				if len(args) == 2 {
					score, err := grading.ParseScore(args[1], assignment.PointsPossible)
					if err != nil {
						return err
					}
					preset = &score
				}
			}

			graded := 0
			for _, status := range statuses {
				if !includeDone && isGraded(status.Submission) {
					continue
				}

				a.console.Separator()
				err := a.gradeOne(ctx, res, course.ID, assignment, scheme, status, preset)
				if errors.Is(err, errQuit) {
					break
				}
				if err != nil {
					return err
				}
				graded++
			}

			a.console.Info(fmt.Sprintf("Graded %d students this session", graded))
			return nil
		},
	}

	cmd.Flags().StringVar(&schemeFlag, "scheme", string(grading.SchemePoints), "grading scheme: points, passfail or letter")
	cmd.Flags().BoolVar(&includeDone, "all", false, "include students that are already graded")
	cmd.Flags().StringVar(&a.pager, "pager", "", "pager program for viewing files (default $PAGER, then less)")
	cmd.Flags().StringVar(&a.editor, "editor", "", "editor program for opening the student folder (default $EDITOR, then code)")
	return cmd
}

func filterStatus(statuses []store.StudentStatus, id int) []store.StudentStatus {
	for _, s := range statuses {
		if s.Student.ID == id {
			return []store.StudentStatus{s}
		}
	}
	return nil
}

func isGraded(sub *models.SubmissionProjection) bool {
	return sub != nil && sub.WorkflowState == models.WorkflowStateGraded
}

// gradeOne walks one student through the flow: show cached files, optionally
// open them, pick a score per the scheme (unless preset), pick a comment,
// confirm, post.
func (a *App) gradeOne(ctx context.Context, res *paths.Resolver, courseID int, assignment *models.Assignment, scheme grading.Scheme, status store.StudentStatus, preset *float64) error {
	student := status.Student
	a.console.Println(fmt.Sprintf("%s (%d) %s", student.SortableName, student.ID, gradeSummary(status.Submission)))

	files, err := a.store.StudentFiles(ctx, student.ID)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		a.console.Notice("No downloaded files for this student")
	}
	for _, f := range files {
		a.console.EntryLine(f.Name, f.Size)
	}

	if len(files) > 0 {
		if err := a.offerViewer(res.StudentDir(student), files); err != nil {
			return err
		}
	}

	var score float64
	if preset != nil {
		score = *preset
	} else {
		var skip bool
		score, skip, err = a.chooseScore(scheme, assignment.PointsPossible)
		if err != nil {
			return err
		}
		if skip {
			a.console.Notice("Skipped")
			return nil
		}
	}

	comment, err := a.chooseComment(ctx)
	if err != nil {
		return err
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Post %v/%v for %s?", score, assignment.PointsPossible, student.Name), os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		a.console.Notice("Not posted")
		return nil
	}

	if err := a.api.GradeSubmission(ctx, courseID, assignment.ID, student.ID, score, comment); err != nil {
		return fmt.Errorf("post grade for student %d: %w", student.ID, err)
	}

	// Refetch so the cache reflects what Canvas actually recorded.
	sub, err := a.api.GetOneSubmission(ctx, courseID, assignment.ID, student.ID)
	if err != nil {
		return fmt.Errorf("refetch submission: %w", err)
	}
	if err := a.store.CacheSubmission(ctx, sub); err != nil {
		return fmt.Errorf("cache submission: %w", err)
	}

	a.console.Success(fmt.Sprintf("Posted %s for %s", sub.Grade, student.Name))
	return nil
}

// offerViewer optionally pages through selected files, or opens the whole
// student directory in the configured editor.
func (a *App) offerViewer(dir string, files []models.FileInfo) error {
	open, err := Confirm(a.reader, "View files?", os.Stdout)
	if err != nil {
		return err
	}
	if !open {
		return nil
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}

	picks, err := ChooseMulti(a.reader, "Which files? (empty opens the folder in your editor)", names, os.Stdout)
	if err != nil {
		return err
	}

	if len(picks) == 0 {
		return a.openInEditor(dir)
	}
	for _, i := range picks {
		if err := a.pageFile(filepath.Join(dir, files[i].Name)); err != nil {
			a.console.Problem(fmt.Sprintf("viewer failed: %v", err))
		}
	}
	return nil
}

func (a *App) pageFile(path string) error {
	pager := a.pager
	if pager == "" {
		pager = os.Getenv("PAGER")
	}
	if pager == "" {
		pager = "less"
	}
	cmd := exec.Command(pager, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (a *App) openInEditor(dir string) error {
	editor := a.editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "code"
	}
	// Editors like VS Code detach; do not wait for them.
	return exec.Command(editor, dir).Start()
}

// chooseScore picks a score per the grading scheme. For points the score is
// typed in and validated; for the scaled schemes a level is chosen and
// converted against the assignment maximum. Returns skip=true when the
// grader wants to move on without posting.
func (a *App) chooseScore(scheme grading.Scheme, maxPoints float64) (score float64, skip bool, err error) {
	if scheme == grading.SchemePoints {
		for {
			entry, err := GetSimpleText(a.reader, fmt.Sprintf("Score (0-%v, empty skips, q quits)", maxPoints), os.Stdout)
			if err != nil {
				return 0, false, err
			}
			switch entry {
			case "":
				return 0, true, nil
			case "q":
				return 0, false, errQuit
			}
			score, err := grading.ParseScore(entry, maxPoints)
			if err != nil {
				a.console.Problem(err.Error())
				continue
			}
			return score, false, nil
		}
	}

	scale := grading.PassFailScale
	if scheme == grading.SchemeLetter {
		scale = grading.LetterScale
	}

	items := make([]string, 0, len(scale)+2)
	for _, level := range scale {
		label := fmt.Sprintf("%-4s %v", level.Grade, level.Points(maxPoints))
		if level.Description != "" {
			label += "  " + level.Description
		}
		items = append(items, label)
	}
	items = append(items, "(skip this student)", "(quit)")

	idx, err := ChooseIndex(a.reader, "Grade?", items, os.Stdout)
	if err != nil {
		return 0, false, err
	}
	switch idx {
	case len(scale):
		return 0, true, nil
	case len(scale) + 1:
		return 0, false, errQuit
	}
	return scale[idx].Points(maxPoints), false, nil
}

// chooseComment picks a comment from the assignment's bank or records a new
// one into it. Empty string means no comment.
func (a *App) chooseComment(ctx context.Context) (string, error) {
	bank, err := a.store.Comments(ctx)
	if err != nil {
		return "", err
	}

	items := make([]string, 0, len(bank)+2)
	items = append(items, "(no comment)", "(new comment)")
	items = append(items, bank...)

	idx, err := ChooseIndex(a.reader, "Comment?", items, os.Stdout)
	if err != nil {
		return "", err
	}
	switch idx {
	case 0:
		return "", nil
	case 1:
		comment, err := GetSimpleText(a.reader, "Enter comment", os.Stdout)
		if err != nil {
			return "", err
		}
		if comment != "" {
			if err := a.store.AddComment(ctx, comment); err != nil {
				return "", err
			}
		}
		return comment, nil
	default:
		return bank[idx-2], nil
	}
}
