package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/gravitational/trace"

	"GoMergeSort/MergeSort/fork_join"
	"GoMergeSort/internal/bench"
)

// Run is a set of results recorded together.
type Run struct {
	// ID is assigned by SaveRun when empty.
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	CreatedAt time.Time      `json:"created_at"`
	Results   []bench.Result `json:"results,omitempty"`
}

// RunInfo describes a stored run without its results.
type RunInfo struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Results   int       `json:"results"`
}

// SaveRun stores run and its results in one transaction and returns the
// run id.
func (s *Store) SaveRun(ctx context.Context, run Run) (id string, err error) {
	if run.CreatedAt.IsZero() {
		return "", trace.BadParameter("missing run creation time")
	}
	id = run.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", trace.Wrap(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, created_at) VALUES (?, ?, ?)`,
		id, run.Label, run.CreatedAt.UnixNano())
	if err != nil {
		return "", trace.Wrap(err, "failed to insert run")
	}

	if err = insertResults(ctx, tx, id, 0, run.Results); err != nil {
		return "", trace.Wrap(err)
	}
	if err = tx.Commit(); err != nil {
		return "", trace.Wrap(err)
	}
	return id, nil
}

// AppendResults adds results to the end of an existing run, so a long run
// can be recorded as it progresses.
func (s *Store) AppendResults(ctx context.Context, runID string, results []bench.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return trace.Wrap(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var exists bool
	var next int
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM runs WHERE id = ?),
		       COALESCE((SELECT MAX(position) + 1 FROM results WHERE run_id = ?), 0)
	`, runID, runID).Scan(&exists, &next)
	if err != nil {
		return trace.Wrap(err)
	}
	if !exists {
		return trace.NotFound("run %q not found", runID)
	}
	if err = insertResults(ctx, tx, runID, next, results); err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(tx.Commit())
}

// insertResults writes results at positions first, first+1, ...
func insertResults(ctx context.Context, tx *sql.Tx, runID string, first int, results []bench.Result) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results
		(run_id, position, backend, threshold, processors, capacity, size, iterations, verified,
		 mean_ns, std_dev_ns, std_dev_percent, min_ns, max_ns, median_ns, spawned, inlined, peak)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return trace.Wrap(err)
	}
	defer stmt.Close()

	for i, r := range results {
		_, err := stmt.ExecContext(ctx,
			runID, first+i,
			string(r.Backend), r.Threshold, r.Processors, r.Capacity, r.Size, r.Iterations, r.Verified,
			int64(r.Timing.Mean), int64(r.Timing.StdDev), r.Timing.StdDevPercent,
			int64(r.Timing.Min), int64(r.Timing.Max), int64(r.Timing.Median),
			int64(r.Pool.Spawned), int64(r.Pool.Inlined), r.Pool.Peak,
		)
		if err != nil {
			return trace.Wrap(err, "failed to insert result %v", first+i)
		}
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.label, r.created_at, COUNT(res.run_id)
		FROM runs r
		LEFT JOIN results res ON res.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			info      RunInfo
			createdAt int64
		)
		if err := rows.Scan(&info.ID, &info.Label, &createdAt, &info.Results); err != nil {
			return nil, trace.Wrap(err)
		}
		info.CreatedAt = time.Unix(0, createdAt).UTC()
		runs = append(runs, info)
	}
	return runs, trace.Wrap(rows.Err())
}

// GetRun returns the run with the given id together with its results in
// the order they were saved.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	run := Run{ID: id}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT label, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.Label, &createdAt)
	if err == sql.ErrNoRows {
		return nil, trace.NotFound("run %q not found", id)
	}
	if err != nil {
		return nil, trace.Wrap(err)
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()

	run.Results, err = s.Results(ctx, id)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &run, nil
}

// Results returns the results stored for the run with the given id.
func (s *Store) Results(ctx context.Context, runID string) ([]bench.Result, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM runs WHERE id = ?)`, runID,
	).Scan(&exists)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if !exists {
		return nil, trace.NotFound("run %q not found", runID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT backend, threshold, processors, capacity, size, iterations, verified,
		       mean_ns, std_dev_ns, std_dev_percent, min_ns, max_ns, median_ns, spawned, inlined, peak
		FROM results
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer rows.Close()

	var results []bench.Result
	for rows.Next() {
		var r bench.Result
		var backend string
		var mean, stdDev, minNs, maxNs, median, spawned, inlined int64
		err := rows.Scan(
			&backend, &r.Threshold, &r.Processors, &r.Capacity, &r.Size, &r.Iterations, &r.Verified,
			&mean, &stdDev, &r.Timing.StdDevPercent, &minNs, &maxNs, &median,
			&spawned, &inlined, &r.Pool.Peak,
		)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		r.Backend = bench.Backend(backend)
		r.Timing.Mean = time.Duration(mean)
		r.Timing.StdDev = time.Duration(stdDev)
		r.Timing.Min = time.Duration(minNs)
		r.Timing.Max = time.Duration(maxNs)
		r.Timing.Median = time.Duration(median)
		r.Pool = fork_join.Stats{Spawned: uint64(spawned), Inlined: uint64(inlined), Peak: r.Pool.Peak}
		results = append(results, r)
	}
	return results, trace.Wrap(rows.Err())
}
