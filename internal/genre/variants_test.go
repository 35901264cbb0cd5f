package genre

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariants(t *testing.T) {
	tests := []struct {
		name   string
		artist string
		album  string
		want   []string
	}{
		{
			name:   "artist and album",
			artist: "Beatles",
			album:  "Abbey Road",
			want: []string{
				"Abbey Road (Beatles album)",
				"Abbey Road (album)",
				"Abbey Road",
				"Beatles",
			},
		},
		{
			name:  "album only",
			album: "Abbey Road",
			want: []string{
				"Abbey Road (album)",
				"Abbey Road",
			},
		},
		{
			name:   "artist only",
			artist: "Beatles",
			want:   []string{"Beatles"},
		},
		{
			name: "both empty",
			want: nil,
		},
		{
			name:   "fields are used verbatim",
			artist: " beatles",
			album:  "abbey road ",
			want: []string{
				"abbey road  ( beatles album)",
				"abbey road  (album)",
				"abbey road ",
				" beatles",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Variants(tt.artist, tt.album))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariants_Restartable(t *testing.T) {
	seq := Variants("Beatles", "Abbey Road")

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, first, second)
}

func TestVariants_StopsWhenConsumerStops(t *testing.T) {
	var got []string
	for q := range Variants("Beatles", "Abbey Road") {
		got = append(got, q)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"Abbey Road (Beatles album)", "Abbey Road (album)"}, got)
}
