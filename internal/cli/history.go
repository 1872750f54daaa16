package cli

import (
	"context"

	"github.com/spf13/cobra"

	"GoMergeSort/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the runs recorded with --db, newest first, or print the
results of one run.

Examples:
  sortbench history --db ./sortbench.db
  sortbench history --db ./sortbench.db --run 6f1c... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "print the results of this run")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return commandError("failed to open database", err)
	}
	defer st.Close()

	out := opts.formatter(cmd)
	if opts.RunID != "" {
		run, err := st.GetRun(ctx, opts.RunID)
		if err != nil {
			return commandError("failed to load run", err)
		}
		return out.Results(RunOutput{RunID: run.ID, Results: run.Results})
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return commandError("failed to list runs", err)
	}
	return out.Runs(runs)
}
