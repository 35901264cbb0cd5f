// Package tagstore reads and writes text tags of audio files, dispatching
// on the file extension.
package tagstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Field names understood by every Store.
const (
	FieldArtist = "artist"
	FieldAlbum  = "album"
	FieldGenre  = "genre"
)

// ErrUnsupportedFormat is returned for files whose extension has no Store.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Store is the tag access for one audio container format.
type Store interface {
	// ReadField returns the values of a field and whether it is present.
	ReadField(path, name string) ([]string, bool, error)
	// WriteFields replaces the given fields and leaves the others intact.
	WriteFields(path string, fields map[string][]string) error
}

var stores = map[string]Store{
	".mp3":  id3Store{},
	".flac": flacStore{},
	".mp4":  mp4Store{},
	".m4a":  mp4Store{},
	".ogg":  taglibStore{},
	".mpc":  taglibStore{},
}

// ForPath returns the Store for path's extension, case-insensitively.
func ForPath(path string) (Store, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if s, ok := stores[ext]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// First returns the first value of a field, or "" when absent.
func First(s Store, path, name string) (string, error) {
	values, ok, err := s.ReadField(path, name)
	if err != nil || !ok || len(values) == 0 {
		return "", err
	}
	return values[0], nil
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func unknownField(name string) error {
	return fmt.Errorf("unknown tag field %q", name)
}
