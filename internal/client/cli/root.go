package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/canvasctl/internal/buildinfo"
)

// NewRootCmd assembles the full command tree over an already-built App.
// The --config flag is declared here for help output, but its value is
// consumed before cobra runs (see internal/flagx).
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "canvasctl",
		Short:         "Manage Canvas grading workflows from the terminal",
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")

	root.AddCommand(
		newCurrentCmd(a),
		newSelectCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newFindCmd(a),
		newGradeCmd(a),
		newDownloadCmd(a),
	)

	return root
}

// Execute runs the command tree. Errors are rendered as a red box; the
// caller decides the exit code.
func (a *App) Execute(ctx context.Context) error {
	root := NewRootCmd(a)
	if err := root.ExecuteContext(ctx); err != nil {
		a.console.ErrorBox(err.Error())
		return err
	}
	return nil
}
