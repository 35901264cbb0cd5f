package tagger

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/justestif/go-wikigenre/internal/genre"
)

// Query is one "[artist - ]album" item of a query string.
type Query struct {
	// Item is the original text, echoed back in output.
	Item string
	genre.Key
}

// ParseQuery splits "[artist - ]album(; [artist - ]album)*". Each item is
// split once on " - "; an item without it is an album with no artist.
func ParseQuery(s string) []Query {
	if s == "" {
		return nil
	}
	items := strings.Split(s, "; ")
	queries := make([]Query, 0, len(items))
	for _, item := range items {
		q := Query{Item: item}
		if artist, album, ok := strings.Cut(item, " - "); ok {
			q.Artist, q.Album = artist, album
		} else {
			q.Album = item
		}
		queries = append(queries, q)
	}
	return queries
}

// trackLine matches foobar2000-style lines such as
// "The Beatles - [Abbey Road CD1 #07] Here Comes the Sun".
var trackLine = regexp.MustCompile(`^(.+) - \[(.+?)(?: CD\d+)?(?: #\d+)?\]`)

// ParseTrackLine extracts artist and album from a track line.
func ParseTrackLine(line string) (genre.Key, bool) {
	m := trackLine.FindStringSubmatch(line)
	if m == nil {
		return genre.Key{}, false
	}
	return genre.Key{Artist: m[1], Album: m[2]}, true
}

// EscapeGlob makes '[' in a user path literal. Other wildcards keep their
// meaning; a lone ']' is already literal.
func EscapeGlob(path string) string {
	return strings.ReplaceAll(path, "[", "[[]")
}

// ExpandGlob returns the files matching pattern after escaping, sorted.
// Directories are skipped. No match is not an error.
func ExpandGlob(fs afero.Fs, pattern string) ([]string, error) {
	matches, err := afero.Glob(fs, EscapeGlob(pattern))
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}

	files := matches[:0]
	for _, m := range matches {
		info, err := fs.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}
