package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/olekukonko/tablewriter"

	"GoMergeSort/MergeSort"
	"GoMergeSort/internal/bench"
	"GoMergeSort/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Sort or verification failure
	ExitCommandError = 2 // Bad flags, unreadable config, database errors
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) || errors.As(trace.Unwrap(err), &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// commandError picks the exit code for err: sort failures exit with
// ExitFailure, everything else is a usage or environment problem.
func commandError(message string, err error) error {
	if err == nil {
		return nil
	}
	var sortErr *MergeSort.SortError
	if errors.As(trace.Unwrap(err), &sortErr) || trace.IsCompareFailed(err) {
		return WrapExitError(ExitFailure, message, err)
	}
	return WrapExitError(ExitCommandError, message, err)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
	Clock  clockwork.Clock
}

// CLIResponse is the JSON envelope for command output.
type CLIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

// RunOutput is the payload of the run and sweep commands.
type RunOutput struct {
	RunID   string         `json:"run_id,omitempty"`
	Results []bench.Result `json:"results"`
}

func (f *OutputFormatter) json(data interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return trace.Wrap(enc.Encode(CLIResponse{Status: "ok", Data: data}))
}

// Results prints benchmark results.
func (f *OutputFormatter) Results(out RunOutput) error {
	if out.Results == nil {
		out.Results = []bench.Result{}
	}
	if f.Format == "json" {
		return f.json(out)
	}
	bench.RenderText(f.Writer, out.Results)
	if out.RunID != "" {
		fmt.Fprintf(f.Writer, "Run %v\n", out.RunID)
	}
	return nil
}

// Runs prints a listing of stored runs.
func (f *OutputFormatter) Runs(runs []store.RunInfo) error {
	if runs == nil {
		runs = []store.RunInfo{}
	}
	if f.Format == "json" {
		return f.json(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(f.Writer, "No runs recorded.")
		return nil
	}
	now := f.Clock.Now()
	table := tablewriter.NewWriter(f.Writer)
	table.SetHeader([]string{"ID", "Label", "Created", "Results"})
	table.SetAutoWrapText(false)
	for _, r := range runs {
		table.Append([]string{
			r.ID,
			r.Label,
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			humanize.Comma(int64(r.Results)),
		})
	}
	table.Render()
	return nil
}
