package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/justestif/go-wikigenre/internal/db"
	"github.com/justestif/go-wikigenre/internal/genre"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// GenreResolver resolves the genres of an album. *genre.Cache satisfies it.
type GenreResolver interface {
	Resolve(ctx context.Context, artist, album string) ([]string, error)
}

// RunLister lists recent tagging runs. *db.RunRepository satisfies it.
type RunLister interface {
	Recent(ctx context.Context, limit int) ([]db.Run, error)
}

// Handlers contains HTTP handlers for the lookup API.
type Handlers struct {
	resolver GenreResolver
	runs     RunLister
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(resolver GenreResolver, runs RunLister, logger *slog.Logger) *Handlers {
	return &Handlers{resolver: resolver, runs: runs, logger: logger}
}

// GenresResponse is the body of GET /genres.
type GenresResponse struct {
	Artist string   `json:"artist"`
	Album  string   `json:"album"`
	Genres []string `json:"genres"`
}

// RunResponse is one element of the GET /runs body.
type RunResponse struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Pattern    string     `json:"pattern"`
	Force      bool       `json:"force"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Tagged     int        `json:"tagged"`
	Skipped    int        `json:"skipped"`
	NoGenres   int        `json:"no_genres"`
	Failed     int        `json:"failed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Genres handles GET /genres?artist=&album=.
func (h *Handlers) Genres(w http.ResponseWriter, r *http.Request) {
	// Keys are exact values; " Muse" and "Muse" are different lookups.
	artist := r.URL.Query().Get("artist")
	album := r.URL.Query().Get("album")
	if artist == "" && album == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artist or album is required"})
		return
	}

	genres, err := h.resolver.Resolve(r.Context(), artist, album)
	if err != nil {
		// Only the caller's own cancellation surfaces here.
		h.logger.Debug("lookup abandoned", "artist", artist, "album", album, "reason", genre.Reason(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "lookup cancelled"})
		return
	}

	genres = genre.TitleCaseAll(genres)
	if genres == nil {
		genres = []string{}
	}
	writeJSON(w, http.StatusOK, GenresResponse{Artist: artist, Album: album, Genres: genres})
}

// Runs handles GET /runs?limit=N.
func (h *Handlers) Runs(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run history is not configured"})
		return
	}

	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := h.runs.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing runs failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list runs"})
		return
	}

	out := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunResponse{
			ID:         run.ID.String(),
			Source:     run.Source,
			Pattern:    run.Pattern,
			Force:      run.Force,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
			Tagged:     run.Counts.Tagged,
			Skipped:    run.Counts.Skipped,
			NoGenres:   run.Counts.NoGenres,
			Failed:     run.Counts.Failed,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
