package genre

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase formats a raw genre label for display: whitespace is collapsed,
// and each word gets an upper-case first character with the rest lower-cased
// ("hard  rock" -> "Hard Rock", "hip-hop" -> "Hip-hop", "80s pop" -> "80s Pop").
func TitleCase(label string) string {
	// Casers are stateful and must not be shared across goroutines.
	lower, upper := cases.Lower(language.Und), cases.Upper(language.Und)
	words := strings.Fields(label)
	for i, w := range words {
		w = lower.String(w)
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}

// TitleCaseAll applies TitleCase to every label.
func TitleCaseAll(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = TitleCase(l)
	}
	return out
}
