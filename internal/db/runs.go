package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepository handles tagging run database operations.
type RunRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new run. A nil ID is replaced with a fresh UUID and
// StartedAt is set from the database clock.
func (r *RunRepository) Create(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	query := `
		INSERT INTO tagging_runs (id, source, pattern, force, started_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING started_at
	`
	err := r.pool.QueryRow(ctx, query, run.ID, run.Source, run.Pattern, run.Force).Scan(&run.StartedAt)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Finish records the outcome counts of a run and marks it finished.
func (r *RunRepository) Finish(ctx context.Context, id uuid.UUID, counts RunCounts) error {
	query := `
		UPDATE tagging_runs
		SET finished_at = NOW(), tagged = $2, skipped = $3, no_genres = $4, failed = $5
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, counts.Tagged, counts.Skipped, counts.NoGenres, counts.Failed)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, source, pattern, force, started_at, finished_at, tagged, skipped, no_genres, failed
		FROM tagging_runs
		WHERE id = $1
	`
	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return run, nil
}

// Recent returns the latest runs, newest first.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, source, pattern, force, started_at, finished_at, tagged, skipped, no_genres, failed
		FROM tagging_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	err := row.Scan(
		&run.ID,
		&run.Source,
		&run.Pattern,
		&run.Force,
		&run.StartedAt,
		&run.FinishedAt,
		&run.Counts.Tagged,
		&run.Counts.Skipped,
		&run.Counts.NoGenres,
		&run.Counts.Failed,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
