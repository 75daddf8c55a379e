package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/canvasctl/internal/client/download"
	"github.com/dmitrijs2005/canvasctl/internal/client/models"
)

// newDownloadCmd fetches and unpacks submissions for the current assignment.
// With a student id only that one submission is processed; without it the
// whole assignment is walked, one submission at a time.
func newDownloadCmd(a *App) *cobra.Command {
	var opts download.Options

	cmd := &cobra.Command{
		Use:   "download [student-id]",
		Short: "Download submissions for the current assignment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			res, course, assignment, err := a.resolver(ctx)
			if err != nil {
				return err
			}

			proc := download.NewProcessor(a.store, res, download.NewFetcher(nil), a.console, a.log)

			var submissions []models.Submission
			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid student id %q", args[0])
				}
				sub, err := a.api.GetOneSubmission(ctx, course.ID, assignment.ID, id)
				if err != nil {
					return fmt.Errorf("fetch submission: %w", err)
				}
				submissions = []models.Submission{*sub}
			} else {
				submissions, err = a.api.GetSubmissions(ctx, course.ID, assignment.ID)
				if err != nil {
					return fmt.Errorf("fetch submissions: %w", err)
				}
			}

			var files, skipped, warned int
			for i := range submissions {
				result, err := proc.ProcessSubmission(ctx, &submissions[i], opts)
				if err != nil {
					return err
				}
				files += len(result.Files)
				skipped += result.Skipped
				warned += len(result.Warnings)
				a.console.Separator()
			}

			a.console.Info(fmt.Sprintf("%d submissions, %d files kept, %d entries skipped", len(submissions), files, skipped))
			if warned > 0 {
				a.console.Notice(fmt.Sprintf("%d warnings; see output above", warned))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.MaxSize, "max-size", 0, "skip attachments larger than this many bytes (0 = no limit)")
	cmd.Flags().BoolVar(&opts.ShowDetails, "show-details", false, "dump each submission as JSON before processing")
	return cmd
}
