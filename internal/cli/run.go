package cli

import (
	"context"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"GoMergeSort/internal/bench"
	"GoMergeSort/internal/store"
)

// DefaultRunSize is the number of elements sorted by the run command.
const DefaultRunSize = 1000000

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Size        int
	Capacity    int
	Threshold   int
	Iterations  int
	Backend     string
	Processors  int
	NoCheck     bool
	Database    string
	Label       string
	MetricsFile string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Time one array size under each backend",
		Long: `Fill an array with consecutive integers, scramble it and time
the parallel merge sort of it under each selected backend. The first
sort of every backend is checked against the expected sequence.

Examples:
  sortbench run --size 10000000 --capacity 8
  sortbench run --size 100000 --threshold 64 --backend bounded --procs 2
  sortbench run --size 100000 --db ./sortbench.db --metrics-file ./sortbench.prom`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Size, "size", DefaultRunSize, "number of elements to sort")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "bounded pool capacity (default: processor count)")
	cmd.Flags().IntVar(&opts.Threshold, "threshold", 0, "parallel cut-off (default: 512)")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", bench.DefaultIterations, "timed sorts per backend")
	cmd.Flags().StringVar(&opts.Backend, "backend", "all", "backends to run (unbounded|bounded|all)")
	cmd.Flags().IntVar(&opts.Processors, "procs", 0, "GOMAXPROCS for the run (default: unchanged)")
	cmd.Flags().BoolVar(&opts.NoCheck, "no-check", false, "skip verifying the sorted output")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.Label, "label", "run", "label for the recorded run")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus text metrics to this file")

	return cmd
}

func runRun(ctx context.Context, opts *RunOptions, cmd *cobra.Command) error {
	backends, err := bench.ParseBackends(opts.Backend)
	if err != nil {
		return commandError("invalid flags", err)
	}
	runner, err := bench.NewRunner(bench.Config{
		Size:       opts.Size,
		Capacity:   opts.Capacity,
		Threshold:  opts.Threshold,
		Iterations: opts.Iterations,
		Processors: opts.Processors,
		Check:      !opts.NoCheck,
		Backends:   backends,
		Clock:      opts.clock(),
	})
	if err != nil {
		return commandError("invalid flags", err)
	}

	results, err := runner.Run(ctx)
	if err != nil {
		return commandError("run failed", err)
	}

	out := RunOutput{Results: results}
	if err := finishRun(ctx, opts.RootOptions, opts.Database, opts.Label, opts.MetricsFile, &out); err != nil {
		return trace.Wrap(err)
	}
	return opts.formatter(cmd).Results(out)
}

// finishRun records results in the database and metrics file when asked to.
func finishRun(ctx context.Context, opts *RootOptions, database, label, metricsFile string, out *RunOutput) error {
	if metricsFile != "" {
		if err := bench.WriteMetrics(metricsFile, out.Results); err != nil {
			return commandError("failed to write metrics", err)
		}
	}
	if database == "" {
		return nil
	}
	st, err := store.Open(database)
	if err != nil {
		return commandError("failed to open database", err)
	}
	defer st.Close()
	id, err := st.SaveRun(ctx, store.Run{
		Label:     label,
		CreatedAt: opts.clock().Now(),
		Results:   out.Results,
	})
	if err != nil {
		return commandError("failed to record run", err)
	}
	log.WithField("run", id).Debug("Recorded run.")
	out.RunID = id
	return nil
}
