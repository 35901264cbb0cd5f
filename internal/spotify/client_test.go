package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-wikigenre/internal/genre"
)

type fakeAPI struct {
	albums       string // JSON array of simplified albums for /search
	albumGenres  string // JSON array for /albums/{id}
	artistGenres string // JSON array for /artists/{id}
	artistCalls  atomic.Int32
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "album" {
			t.Errorf("search type = %q, want album", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"albums":{"items":%s,"total":1}}`, f.albums)
	})
	mux.HandleFunc("/albums/abbey", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"abbey","name":"Abbey Road","genres":%s,"artists":[{"id":"beatles","name":"The Beatles"}]}`, f.albumGenres)
	})
	mux.HandleFunc("/artists/beatles", func(w http.ResponseWriter, r *http.Request) {
		f.artistCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"beatles","name":"The Beatles","genres":%s}`, f.artistGenres)
	})
	return mux
}

const abbeyRoadHit = `[{"id":"abbey","name":"Abbey Road","artists":[{"id":"beatles","name":"The Beatles"}]}]`

func TestLookup(t *testing.T) {
	tests := []struct {
		name            string
		api             *fakeAPI
		wantGenres      []string
		wantErr         error
		wantArtistCalls int32
	}{
		{
			name:       "album genres",
			api:        &fakeAPI{albums: abbeyRoadHit, albumGenres: `["rock","pop"]`, artistGenres: `["merseybeat"]`},
			wantGenres: []string{"rock", "pop"},
		},
		{
			name:            "falls back to artist genres",
			api:             &fakeAPI{albums: abbeyRoadHit, albumGenres: `[]`, artistGenres: `["british invasion","merseybeat"]`},
			wantGenres:      []string{"british invasion", "merseybeat"},
			wantArtistCalls: 1,
		},
		{
			name:    "no albums",
			api:     &fakeAPI{albums: `[]`},
			wantErr: genre.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.api.handler(t))
			defer server.Close()

			client := New(spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/")))
			genres, err := client.Lookup(context.Background(), "Abbey Road (Beatles album)")

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !reflect.DeepEqual(genres, tt.wantGenres) {
				t.Errorf("Lookup() = %v, want %v", genres, tt.wantGenres)
			}
			if got := tt.api.artistCalls.Load(); got != tt.wantArtistCalls {
				t.Errorf("artist calls = %d, want %d", got, tt.wantArtistCalls)
			}
		})
	}
}

func TestLookup_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"status":401,"message":"Invalid access token"}}`)
	}))
	defer server.Close()

	client := New(spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/")))
	if _, err := client.Lookup(context.Background(), "Abbey Road"); err == nil {
		t.Error("Lookup() error = nil, want API error")
	}
}

func TestName(t *testing.T) {
	if got := New(nil).Name(); got != "spotify" {
		t.Errorf("Name() = %q, want spotify", got)
	}
}
