package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to WIKIGENRE_TEST_DATABASE_URL or skips the test.
// The database should be disposable; tests create their own rows.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("WIKIGENRE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("WIKIGENRE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	require.NoError(t, database.EnsureSchema(ctx))
	return database
}

func TestRuns(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	run := &Run{Source: "wikipedia", Pattern: "/music/*.mp3"}
	require.NoError(t, database.Runs().Create(ctx, run))
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.False(t, run.StartedAt.IsZero())

	counts := RunCounts{Tagged: 3, Skipped: 2, NoGenres: 1, Failed: 1}
	require.NoError(t, database.Runs().Finish(ctx, run.ID, counts))

	got, err := database.Runs().Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, counts, got.Counts)
	assert.NotNil(t, got.FinishedAt)

	_, err = database.Runs().Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, database.Runs().Finish(ctx, uuid.New(), counts), ErrNotFound)
}

func TestProcessedTracks(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	run := &Run{Source: "wikipedia", Pattern: "test"}
	require.NoError(t, database.Runs().Create(ctx, run))
	repo := database.ProcessedTracks(run.ID)

	path := "/music/" + uuid.NewString() + ".mp3"
	ok, err := repo.Has(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Add(ctx, path))
	require.NoError(t, repo.Add(ctx, path))

	ok, err = repo.Has(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	other := "/music/" + uuid.NewString() + ".flac"
	require.NoError(t, repo.Add(ctx, other))

	tracks, err := repo.ForRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, tracks, 2)
}
