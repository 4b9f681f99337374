package timing

import (
	"context"

	"github.com/statref/uscite/pkg/graph"

	"github.com/jackc/pgx/v5/pgxpool"
)

const insertIndexRunSQL = `
INSERT INTO index_runs (
	job_id,
	files_indexed,
	files_failed,
	citations_found,
	citations_inserted,
	duration_ms
) VALUES ($1, $2, $3, $4, $5, $6)`

// RecordIndexRun persists the outcome of one graph build so operators can
// track indexing throughput across runs.
func RecordIndexRun(
	ctx context.Context,
	conn *pgxpool.Pool,
	jobID string,
	report *graph.Report,
	durationMs int64,
) error {
	_, err := conn.Exec(
		ctx,
		insertIndexRunSQL,
		jobID,
		report.FilesIndexed,
		report.FilesFailed,
		report.CitationsFound,
		report.CitationsInserted,
		durationMs,
	)
	return err
}

// LastIndexDuration returns the duration of the most recent index run in
// milliseconds, or 0 when no run has been recorded yet.
func LastIndexDuration(ctx context.Context, conn *pgxpool.Pool) (int64, error) {
	var durationMs int64
	err := conn.QueryRow(
		ctx,
		`SELECT COALESCE(
			(SELECT duration_ms FROM index_runs ORDER BY finished_at DESC LIMIT 1),
			0
		)`,
	).Scan(&durationMs)
	if err != nil {
		return 0, err
	}
	return durationMs, nil
}
