package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents one tagging batch.
type Run struct {
	ID         uuid.UUID
	Source     string // genre source name, e.g. "wikipedia"
	Pattern    string // path pattern as given on the command line
	Force      bool
	StartedAt  time.Time
	FinishedAt *time.Time // nullable - nil while the run is in progress
	Counts     RunCounts
}

// RunCounts holds per-outcome track counts for a run.
type RunCounts struct {
	Tagged   int
	Skipped  int
	NoGenres int
	Failed   int
}

// ProcessedTrack represents a track that a run tagged or found already tagged.
type ProcessedTrack struct {
	Path        string
	RunID       *uuid.UUID // nullable
	ProcessedAt time.Time
}
