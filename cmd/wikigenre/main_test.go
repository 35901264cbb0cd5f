package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/go-wikigenre/internal/db"
	"github.com/justestif/go-wikigenre/internal/genre"
	"github.com/justestif/go-wikigenre/internal/tagger"
	"github.com/justestif/go-wikigenre/internal/tagstore"
)

type fakeSource struct {
	mu      sync.Mutex
	answers map[string][]string
	queries []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Lookup(_ context.Context, query string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if g, ok := f.answers[query]; ok {
		return g, nil
	}
	return nil, genre.ErrNotFound
}

type mapResolver map[genre.Key][]string

func (m mapResolver) Resolve(_ context.Context, artist, album string) ([]string, error) {
	return m[genre.Key{Artist: artist, Album: album}], nil
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"LASTFM_API_KEY", "SPOTIFY_ID", "SPOTIFY_SECRET", "WIKIGENRE_DATABASE_URL"} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, source genre.Source, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd, cc := newRootCommand()
	t.Cleanup(cc.close)
	cc.source = source

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPrintQueriesKeepsInputOrder(t *testing.T) {
	r := mapResolver{
		{Artist: "Muse", Album: "Drones"}: {"alternative rock", "progressive rock"},
		{Album: "Abbey Road"}:             {"rock"},
	}
	queries := tagger.ParseQuery("Muse - Drones; Abbey Road; Nobody - Nothing")

	var out bytes.Buffer
	require.NoError(t, printQueries(context.Background(), &out, r, queries, 2))

	assert.Equal(t,
		"Muse - Drones: Alternative Rock; Progressive Rock\n"+
			"Abbey Road: Rock\n"+
			"Nobody - Nothing: \n",
		out.String())
}

func TestReadTrackLines(t *testing.T) {
	input := strings.Join([]string{
		"The Beatles - [Abbey Road CD1 #07] Here Comes the Sun",
		"not a track line",
		"Pink Floyd - [Animals #02] Dogs",
	}, "\n")

	keys, err := readTrackLines(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []genre.Key{
		{Artist: "The Beatles", Album: "Abbey Road"},
		{Artist: "Pink Floyd", Album: "Animals"},
	}, keys)
}

func TestPrintTrackGenres(t *testing.T) {
	r := mapResolver{{Artist: "Pink Floyd", Album: "Animals"}: {"progressive rock"}}
	keys := []genre.Key{
		{Artist: "Unknown", Album: "Nothing"},
		{Artist: "Pink Floyd", Album: "Animals"},
	}

	var out bytes.Buffer
	require.NoError(t, printTrackGenres(context.Background(), &out, r, keys, 4))
	assert.Equal(t, "\nProgressive Rock\n", out.String())
}

func TestRenderSummary(t *testing.T) {
	out := renderSummary(tagger.Summary{Tagged: 3, Skipped: 2, NoGenres: 1}, genre.Stats{Keys: 2})

	assert.Contains(t, out, "Tagged")
	assert.Contains(t, out, "No genres")
	assert.Contains(t, out, "Album lookups")
	assert.Contains(t, out, "6")
}

func TestQueryModeUsesFallbackVariants(t *testing.T) {
	isolateEnv(t)
	source := &fakeSource{answers: map[string][]string{
		"Drones (album)": {"alternative rock"},
	}}

	out, err := execute(t, source, "", "-q", "Muse - Drones")
	require.NoError(t, err)

	assert.Equal(t, "Muse - Drones: Alternative Rock\n", out)
	assert.Equal(t, []string{"Drones (Muse album)", "Drones (album)"}, source.queries)
}

func TestStdinMode(t *testing.T) {
	isolateEnv(t)
	source := &fakeSource{answers: map[string][]string{
		"Abbey Road (The Beatles album)": {"rock", "pop"},
	}}
	stdin := "The Beatles - [Abbey Road CD1 #01] Come Together\n" +
		"The Beatles - [Abbey Road CD1 #02] Something\n"

	out, err := execute(t, source, stdin)
	require.NoError(t, err)

	assert.Equal(t, "Rock; Pop\nRock; Pop\n", out)
	assert.Len(t, source.queries, 1, "both lines share one resolution")
}

func TestTagMode(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	for _, name := range []string{"01.mp3", "02.mp3"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		store, err := tagstore.ForPath(path)
		require.NoError(t, err)
		require.NoError(t, store.WriteFields(path, map[string][]string{
			tagstore.FieldArtist: {"Muse"},
			tagstore.FieldAlbum:  {"Drones"},
		}))
	}
	seenFile := filepath.Join(t.TempDir(), "seen.txt")
	source := &fakeSource{answers: map[string][]string{
		"Drones (Muse album)": {"alternative rock"},
	}}

	out, err := execute(t, source, "", "--seen-file", seenFile, filepath.Join(dir, "*.mp3"))
	require.NoError(t, err)
	assert.Contains(t, out, "Tagged")

	for _, name := range []string{"01.mp3", "02.mp3"} {
		path := filepath.Join(dir, name)
		store, err := tagstore.ForPath(path)
		require.NoError(t, err)
		got, ok, err := store.ReadField(path, tagstore.FieldGenre)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []string{"Alternative Rock"}, got)
	}

	seenData, err := os.ReadFile(seenFile)
	require.NoError(t, err)
	assert.Contains(t, string(seenData), filepath.Join(dir, "01.mp3"))
	assert.Len(t, source.queries, 1)
}

func TestTagModeNoMatches(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, &fakeSource{}, "", filepath.Join(t.TempDir(), "*.flac"))
	require.NoError(t, err)
}

func TestInvalidSource(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, nil, "", "--source", "discogs", "-q", "Abbey Road")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discogs")
}

func TestConfigInit(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, nil, "", "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = execute(t, nil, "", "config", "init", "--path", path)
	require.Error(t, err, "refuses to overwrite")
}

func TestRunsRequiresDatabase(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, nil, "", "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestPrintRuns(t *testing.T) {
	id := uuid.New()
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)

	var out bytes.Buffer
	printRuns(&out, []db.Run{
		{ID: id, Source: "lastfm", Pattern: "/music/*.flac", Force: true, StartedAt: started, FinishedAt: &finished,
			Counts: db.RunCounts{Tagged: 12, Failed: 1}},
		{ID: uuid.New(), Source: "wikipedia", Pattern: "/music/*.mp3", StartedAt: started},
	})

	assert.Contains(t, out.String(), id.String())
	assert.Contains(t, out.String(), "lastfm (force)")
	assert.Contains(t, out.String(), "1m30s")
	assert.Contains(t, out.String(), "running")

	out.Reset()
	printRuns(&out, nil)
	assert.Equal(t, "No runs recorded.\n", out.String())
}

func TestPrintRunTracks(t *testing.T) {
	var out bytes.Buffer
	printRunTracks(&out, []db.ProcessedTrack{
		{Path: "/music/01.mp3", ProcessedAt: time.Now()},
		{Path: "/music/02.mp3", ProcessedAt: time.Now()},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "  /music/01.mp3"))
}

func TestRunsRejectsBadRunID(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, nil, "", "runs", "--run", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run id")
}
