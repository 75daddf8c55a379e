package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
)

// maxFindResults caps the hit list; beyond this the query is too vague to be
// useful anyway.
const maxFindResults = 10

// studentSource adapts the roster for fuzzy matching across name,
// sortable name, short name and login id.
type studentSource []models.Student

func (s studentSource) String(i int) string {
	st := s[i]
	return strings.ToLower(strings.Join([]string{st.Name, st.SortableName, st.ShortName, st.LoginID}, " "))
}

func (s studentSource) Len() int { return len(s) }

// newFindCmd fuzzy-searches the cached roster.
func newFindCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "find <query>",
		Aliases: []string{"search"},
		Short:   "Fuzzy-find a student in the current course",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			students, err := a.store.Students(ctx)
			if err != nil {
				return err
			}

			query := strings.ToLower(strings.Join(args, " "))
			matches := fuzzy.FindFrom(query, studentSource(students))
			if len(matches) == 0 {
				a.console.Notice(fmt.Sprintf("No students matching %q", query))
				return nil
			}
			if len(matches) > maxFindResults {
				matches = matches[:maxFindResults]
			}

			rows := make([][]string, 0, len(matches))
			for _, m := range matches {
				s := students[m.Index]
				rows = append(rows, []string{
					strconv.Itoa(s.ID),
					strconv.Itoa(m.Score),
					s.SortableName,
					s.LoginID,
				})
			}
			a.console.Table([]string{"ID", "Score", "Name", "Login"}, rows)
			return nil
		},
	}
}
