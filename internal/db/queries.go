package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// CheckRun represents a row in the check_runs table.
type CheckRun struct {
	ID           int64
	CheckName    string
	Target       string
	Passed       bool
	ToolExitCode int
	DurationMs   int
	Summary      string
	Matches      []string
	CreatedAt    time.Time
}

// LogCheckRun inserts a check run and returns its id.
func (d *DB) LogCheckRun(ctx context.Context, run CheckRun) (int64, error) {
	matches := run.Matches
	if matches == nil {
		matches = []string{}
	}
	var id int64
	err := d.pool.QueryRow(ctx,
		`INSERT INTO check_runs (check_name, target, passed, tool_exit_code, duration_ms, summary, matches)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		run.CheckName, run.Target, run.Passed, run.ToolExitCode, run.DurationMs, run.Summary, matches,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("log check run: %w", err)
	}
	return id, nil
}

// GetCheckHistory returns recorded runs, newest first. An empty target
// returns runs for every target; limit <= 0 means no limit.
func (d *DB) GetCheckHistory(ctx context.Context, target string, limit int) ([]CheckRun, error) {
	query := `SELECT id, check_name, target, passed, tool_exit_code, duration_ms, summary, matches, created_at
		FROM check_runs
		WHERE ($1::text = '' OR target = $1)
		ORDER BY created_at DESC, id DESC`
	args := []any{target}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get check history: %w", err)
	}
	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (CheckRun, error) {
		var r CheckRun
		err := row.Scan(&r.ID, &r.CheckName, &r.Target, &r.Passed, &r.ToolExitCode,
			&r.DurationMs, &r.Summary, &r.Matches, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan check history: %w", err)
	}
	return runs, nil
}

// GetLatestCheckRun returns the most recent run for target, or nil if none.
func (d *DB) GetLatestCheckRun(ctx context.Context, target string) (*CheckRun, error) {
	runs, err := d.GetCheckHistory(ctx, target, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
