package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProcessedTrackRepository handles processed track database operations.
// It satisfies seen.Set.
type ProcessedTrackRepository struct {
	pool  *pgxpool.Pool
	runID uuid.UUID
}

// Has reports whether path was processed by any run.
func (r *ProcessedTrackRepository) Has(ctx context.Context, path string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM processed_tracks WHERE path = $1)`, path,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking processed track: %w", err)
	}
	return exists, nil
}

// Add records path as processed. Re-adding a path keeps its first run.
func (r *ProcessedTrackRepository) Add(ctx context.Context, path string) error {
	query := `
		INSERT INTO processed_tracks (path, run_id, processed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (path) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, path, r.nullableRunID()); err != nil {
		return fmt.Errorf("inserting processed track: %w", err)
	}
	return nil
}

// ForRun lists the tracks first processed by a run.
func (r *ProcessedTrackRepository) ForRun(ctx context.Context, runID uuid.UUID) ([]ProcessedTrack, error) {
	query := `
		SELECT path, run_id, processed_at
		FROM processed_tracks
		WHERE run_id = $1
		ORDER BY path
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("querying processed tracks: %w", err)
	}
	defer rows.Close()

	var tracks []ProcessedTrack
	for rows.Next() {
		var t ProcessedTrack
		if err := rows.Scan(&t.Path, &t.RunID, &t.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scanning processed track: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func (r *ProcessedTrackRepository) nullableRunID() *uuid.UUID {
	if r.runID == uuid.Nil {
		return nil
	}
	id := r.runID
	return &id
}
