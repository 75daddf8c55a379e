package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// newListCmd builds the listing subtree. Lists render from the local store;
// run `select course` again to refresh them.
func newListCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments, students or groups of the current course",
	}
	cmd.AddCommand(
		newListAssignmentsCmd(a),
		newListStudentsCmd(a),
		newListGroupsCmd(a),
	)
	return cmd
}

func newListAssignmentsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"assignment"},
		Short:   "List the course's assignments grouped by assignment group",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			course, err := a.store.Course(ctx)
			if err != nil {
				return err
			}
			groups, err := a.store.AssignmentGroups(ctx)
			if err != nil {
				return err
			}
			assignments, err := a.api.GetAssignments(ctx, course.ID)
			if err != nil {
				return fmt.Errorf("fetch assignments: %w", err)
			}

			groupName := make(map[int]string, len(groups))
			for _, g := range groups {
				groupName[g.ID] = g.Name
			}

			rows := make([][]string, 0, len(assignments))
			for _, as := range assignments {
				due := ""
				if as.DueAt != nil {
					due = as.DueAt.Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{
					strconv.Itoa(as.ID),
					groupName[as.AssignmentGroupID],
					as.Name,
					due,
					strconv.FormatFloat(as.PointsPossible, 'f', -1, 64),
					strconv.Itoa(as.NeedsGradingCount),
					strings.Join(as.SubmissionTypes, ","),
				})
			}
			sort.Slice(rows, func(i, j int) bool {
				if rows[i][1] != rows[j][1] {
					return rows[i][1] < rows[j][1]
				}
				return rows[i][3] < rows[j][3]
			})

			a.console.Table([]string{"ID", "Group", "Name", "Due", "Points", "Needs grading", "Types"}, rows)
			return nil
		},
	}
}

func newListStudentsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "students",
		Aliases: []string{"roster"},
		Short:   "List the course roster",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			students, err := a.store.Students(ctx)
			if err != nil {
				return err
			}
			sort.Slice(students, func(i, j int) bool {
				return students[i].SortableName < students[j].SortableName
			})

			rows := make([][]string, 0, len(students))
			for _, s := range students {
				rows = append(rows, []string{
					strconv.Itoa(s.ID),
					s.SortableName,
					s.LoginID,
				})
			}
			a.console.Table([]string{"ID", "Name", "Login"}, rows)
			a.console.Info(fmt.Sprintf("%d students", len(students)))
			return nil
		},
	}
}

func newListGroupsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List group categories with their groups and members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			categories, err := a.store.GroupCategories(ctx)
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				a.console.Notice("No group categories in this course")
				return nil
			}

			for _, cat := range categories {
				a.console.Println(fmt.Sprintf("%s (%d)", cat.Name, cat.ID))
				for _, g := range cat.Groups {
					a.console.Info(fmt.Sprintf("%s: %d members", g.Name, len(g.Members)))
					for _, m := range g.Members {
						a.console.Println("\t\t" + m.SortableName)
					}
				}
				a.console.Separator()
			}
			return nil
		},
	}
}
