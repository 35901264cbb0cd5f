package wikipedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractGenres(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []string
	}{
		{
			name: "haudio category links",
			markup: `<table class="infobox vevent haudio"><tr>
				<th>Genre</th>
				<td class="category"><a href="/wiki/Rock">Rock</a> <a href="/wiki/Pop">pop</a></td>
			</tr></table>`,
			want: []string{"Rock", "pop"},
		},
		{
			name: "haudio wins over infobox",
			markup: `<table class="haudio"><tr><td class="category"><a>jazz</a></td></tr></table>
				<table class="infobox"><tr><th><a>Genre</a></th><td><a>rock</a></td></tr></table>`,
			want: []string{"jazz"},
		},
		{
			name: "infobox genre row",
			markup: `<table class="infobox biography vcard"><tbody>
				<tr><th>Born</th><td><a>Liverpool</a></td></tr>
				<tr><th scope="row"><a href="/wiki/Music_genre">Genre</a>s</th>
					<td><div class="hlist"><ul>
						<li><a href="/wiki/Rock_music">Rock</a></li>
						<li><a href="/wiki/Pop_music">pop</a><sup class="reference"><a href="#cite_note-1">[1]</a></sup></li>
					</ul></div></td></tr>
				<tr><th>Labels</th><td><a>Parlophone</a></td></tr>
			</tbody></table>`,
			want: []string{"Rock", "pop"},
		},
		{
			name: "infobox header must link exactly Genre",
			markup: `<table class="infobox"><tr><th><a>Genres and styles</a></th><td><a>rock</a></td></tr></table>`,
			want:   nil,
		},
		{
			name:   "haudio category without links",
			markup: `<table class="haudio"><tr><td class="category">Rock</td></tr></table>`,
			want:   nil,
		},
		{
			name:   "no infobox",
			markup: `<p>Abbey Road is a street in London.</p>`,
			want:   nil,
		},
		{
			name:   "empty markup",
			markup: ``,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractGenres([]byte(tt.markup)))
		})
	}
}
