package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/canvasctl/internal/common"
)

// newCurrentCmd reports the active term, course and assignment selection.
func newCurrentCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "current",
		Aliases: []string{"status"},
		Short:   "Show the current term, course and assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			term, err := a.store.Term(ctx)
			switch {
			case errors.Is(err, common.ErrNoCurrentTerm):
				a.console.Notice("term: none selected")
			case err != nil:
				return err
			default:
				a.console.Info(fmt.Sprintf("term: %s (%d)", term.Name, term.ID))
			}

			course, err := a.store.Course(ctx)
			switch {
			case errors.Is(err, common.ErrNoCurrentCourse):
				a.console.Notice("course: none selected")
			case err != nil:
				return err
			default:
				a.console.Info(fmt.Sprintf("course: %s (%d)", course.Name, course.ID))
			}

			assignment, err := a.store.Assignment(ctx)
			switch {
			case errors.Is(err, common.ErrNoCurrentAssignment):
				a.console.Notice("assignment: none selected")
			case err != nil:
				return err
			default:
				a.console.Info(fmt.Sprintf("assignment: %s (%d)", assignment.Name, assignment.ID))
				if assignment.HTMLURL != "" {
					a.console.Info(assignment.HTMLURL)
				}
			}

			return nil
		},
	}
}
