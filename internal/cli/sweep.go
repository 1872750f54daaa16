package cli

import (
	"context"
	"errors"
	"os"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"GoMergeSort/internal/bench"
	"GoMergeSort/internal/store"
)

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	Config   string
	CSV      string
	Database string
	Label    string
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the threshold by processor count grid",
		Long: `Run every threshold on every processor count listed in a YAML
config and collect the results into one table.

Example config:
  size: 10000000
  iterations: 5
  thresholds: [4, 8, 16, 32, 64, 128, 256, 512]
  processors: [1, 2, 4, 8, 16]

Examples:
  sortbench sweep --config sweep.yaml --csv results.csv
  sortbench sweep --config sweep.yaml --db ./sortbench.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to the sweep config (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "write results as CSV to this file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the sweep in this SQLite database")
	cmd.Flags().StringVar(&opts.Label, "label", "sweep", "label for the recorded sweep")

	return cmd
}

func runSweep(ctx context.Context, opts *SweepOptions, cmd *cobra.Command) (err error) {
	cfg, err := bench.LoadSweepConfig(opts.Config)
	if err != nil {
		return commandError("failed to load sweep config", err)
	}

	// Cells are recorded as they finish so an interrupted sweep keeps its
	// completed cells.
	var sinks []func([]bench.Result) error
	if opts.CSV != "" {
		f, ferr := os.Create(opts.CSV)
		if ferr != nil {
			return commandError("failed to write CSV", trace.ConvertSystemError(ferr))
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = commandError("failed to write CSV", trace.ConvertSystemError(cerr))
			}
		}()
		csv := bench.NewCSVWriter(f)
		sinks = append(sinks, func(cell []bench.Result) error {
			return commandError("failed to write CSV", csv.Write(cell))
		})
	}
	var runID string
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return commandError("failed to open database", err)
		}
		defer st.Close()
		runID, err = st.SaveRun(ctx, store.Run{Label: opts.Label, CreatedAt: opts.clock().Now()})
		if err != nil {
			return commandError("failed to record run", err)
		}
		log.WithField("run", runID).Debug("Recording sweep.")
		// A cell that finished just before an interrupt is still recorded.
		storeCtx := context.WithoutCancel(ctx)
		sinks = append(sinks, func(cell []bench.Result) error {
			return commandError("failed to record run", st.AppendResults(storeCtx, runID, cell))
		})
	}

	cells := len(cfg.Thresholds) * len(cfg.Processors)
	done := 0
	results, err := bench.Sweep(ctx, *cfg, opts.clock(), func(cell []bench.Result) error {
		done++
		log.WithField("cell", done).Debugf("Finished %v of %v cells.", done, cells)
		for _, sink := range sinks {
			if err := sink(cell); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithField("cells", done).Warn("Sweep stopped early, finished cells were kept.")
		var exitErr *ExitError
		if errors.As(trace.Unwrap(err), &exitErr) {
			return exitErr
		}
		return commandError("sweep failed", err)
	}
	return opts.formatter(cmd).Results(RunOutput{RunID: runID, Results: results})
}
