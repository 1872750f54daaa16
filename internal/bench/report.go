package bench

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gravitational/trace"
	"github.com/olekukonko/tablewriter"
)

var csvHeader = []string{
	"threshold",
	"processor_count",
	"capacity",
	"number_elements",
	"backend",
	"avg_time",
	"std_dev_time",
	"std_dev_percentage",
	"min_time",
	"max_time",
	"spawned",
	"inlined",
	"peak",
	"verified",
}

// CSVWriter writes results as CSV rows, the header first. Every Write is
// flushed, so rows written before a failure are kept.
type CSVWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewCSVWriter returns a CSVWriter writing to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// Write writes one row per result. Times are in seconds.
func (c *CSVWriter) Write(results []Result) error {
	if !c.wroteHeader {
		if err := c.w.Write(csvHeader); err != nil {
			return trace.Wrap(err)
		}
		c.wroteHeader = true
	}
	for _, r := range results {
		if err := c.w.Write(csvRow(r)); err != nil {
			return trace.Wrap(err)
		}
	}
	c.w.Flush()
	return trace.Wrap(c.w.Error())
}

// WriteCSV writes a header and one row per result.
func WriteCSV(w io.Writer, results []Result) error {
	return NewCSVWriter(w).Write(results)
}

func csvRow(r Result) []string {
	return []string{
		strconv.Itoa(r.Threshold),
		strconv.Itoa(r.Processors),
		strconv.Itoa(r.Capacity),
		strconv.Itoa(r.Size),
		string(r.Backend),
		seconds(r.Timing.Mean),
		seconds(r.Timing.StdDev),
		strconv.FormatFloat(r.Timing.StdDevPercent, 'f', 3, 64),
		seconds(r.Timing.Min),
		seconds(r.Timing.Max),
		strconv.FormatUint(r.Pool.Spawned, 10),
		strconv.FormatUint(r.Pool.Inlined, 10),
		strconv.FormatInt(r.Pool.Peak, 10),
		strconv.FormatBool(r.Verified),
	}
}

// WriteJSON writes results as an indented JSON array.
func WriteJSON(w io.Writer, results []Result) error {
	if results == nil {
		results = []Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return trace.Wrap(enc.Encode(results))
}

// RenderText writes results as a human readable table.
func RenderText(w io.Writer, results []Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Backend", "Threshold", "Procs", "Capacity", "Elements",
		"Avg", "Std Dev", "Min", "Max", "Spawned", "Inlined", "Peak", "Verified",
	})
	table.SetAutoWrapText(false)
	for _, r := range results {
		capacity := "-"
		if r.Capacity > 0 {
			capacity = strconv.Itoa(r.Capacity)
		}
		table.Append([]string{
			string(r.Backend),
			strconv.Itoa(r.Threshold),
			strconv.Itoa(r.Processors),
			capacity,
			humanize.Comma(int64(r.Size)),
			r.Timing.Mean.String(),
			fmt.Sprintf("%v (%.3f%%)", r.Timing.StdDev, r.Timing.StdDevPercent),
			r.Timing.Min.String(),
			r.Timing.Max.String(),
			humanize.Comma(int64(r.Pool.Spawned)),
			humanize.Comma(int64(r.Pool.Inlined)),
			strconv.FormatInt(r.Pool.Peak, 10),
			strconv.FormatBool(r.Verified),
		})
	}
	table.Render()
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}
