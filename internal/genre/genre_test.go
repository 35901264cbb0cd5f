package genre

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	genres []string
	err    error
	block  bool
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Lookup(ctx context.Context, query string) ([]string, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.genres, s.err
}

func TestFetcher_ReturnsSourceGenres(t *testing.T) {
	f := NewFetcher(&stubSource{genres: []string{"rock"}}, time.Second, nil)

	assert.Equal(t, []string{"rock"}, f.Fetch(context.Background(), "q"))
}

func TestFetcher_ErrorsBecomeEmpty(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not found", err: ErrNotFound},
		{name: "no genres", err: fmt.Errorf("%w: Kid_A", ErrNoGenres)},
		{name: "bad response", err: fmt.Errorf("search: %w", ErrBadResponse)},
		{name: "other", err: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(&stubSource{genres: []string{"ignored"}, err: tt.err}, time.Second, nil)
			assert.Empty(t, f.Fetch(context.Background(), "q"))
		})
	}
}

func TestFetcher_LogsEveryMissWithReason(t *testing.T) {
	tests := []struct {
		name   string
		source *stubSource
		reason string
	}{
		{name: "search miss", source: &stubSource{err: ErrNotFound}, reason: "reason=not_found"},
		{name: "article without genres", source: &stubSource{err: ErrNoGenres}, reason: "reason=no_genres"},
		{name: "empty result", source: &stubSource{}, reason: "reason=no_genres"},
		{name: "failure", source: &stubSource{err: fmt.Errorf("x: %w", ErrBadResponse)}, reason: "reason=bad_response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

			f := NewFetcher(tt.source, time.Second, logger)
			assert.Empty(t, f.Fetch(context.Background(), "Kid A (album)"))
			assert.Contains(t, buf.String(), tt.reason)
			assert.Contains(t, buf.String(), "source=stub")
		})
	}
}

func TestFetcher_Timeout(t *testing.T) {
	f := NewFetcher(&stubSource{block: true}, 20*time.Millisecond, nil)

	done := make(chan []string, 1)
	go func() { done <- f.Fetch(context.Background(), "q") }()

	select {
	case got := <-done:
		assert.Empty(t, got)
	case <-time.After(2 * time.Second):
		t.Fatal("fetch was not bounded by its timeout")
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "ok", Reason(nil))
	assert.Equal(t, "timeout", Reason(fmt.Errorf("get: %w", context.DeadlineExceeded)))
	assert.Equal(t, "canceled", Reason(context.Canceled))
	assert.Equal(t, "not_found", Reason(ErrNotFound))
	assert.Equal(t, "no_genres", Reason(ErrNoGenres))
	assert.Equal(t, "bad_response", Reason(fmt.Errorf("x: %w", ErrBadResponse)))
	assert.Equal(t, "request_failed", Reason(errors.New("dial tcp")))
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"rock":             "Rock",
		"Pop":              "Pop",
		"progressive rock": "Progressive Rock",
		"hard   rock":      "Hard Rock",
		"POP":              "Pop",
		"80s pop":          "80s Pop",
		"hip-hop":          "Hip-hop",
		"r&b":              "R&b",
		"rock 'n' roll":    "Rock 'n' Roll",
		"électro":          "Électro",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, TitleCase(in), "input %q", in)
	}

	assert.Equal(t, []string{"Rock", "Pop"}, TitleCaseAll([]string{"rock", "pop"}))
}
