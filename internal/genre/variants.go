package genre

import (
	"fmt"
	"iter"
)

// Variants yields the search queries for an (artist, album) pair, most
// specific first:
//
//	"{album} ({artist} album)"   both set
//	"{album} (album)"            album set
//	"{album}"                    album set
//	"{artist}"                   artist set
//
// Steps whose fields are empty are skipped. The sequence is pure and can be
// ranged over any number of times.
func Variants(artist, album string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if artist != "" && album != "" {
			if !yield(fmt.Sprintf("%s (%s album)", album, artist)) {
				return
			}
		}
		if album != "" {
			if !yield(fmt.Sprintf("%s (album)", album)) {
				return
			}
			if !yield(album) {
				return
			}
		}
		if artist != "" {
			yield(artist)
		}
	}
}
