package lastfm

// Tag represents a Last.fm tag with popularity count.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
	URL   string `json:"url"`
}

// Album is an album.search match.
type Album struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
	URL    string `json:"url"`
}

// albumSearchResponse is the JSON response for album.search.
type albumSearchResponse struct {
	Results struct {
		AlbumMatches struct {
			Album []Album `json:"album"`
		} `json:"albummatches"`
	} `json:"results"`
}

// albumTagsResponse is the JSON response for album.getTopTags.
type albumTagsResponse struct {
	TopTags struct {
		Tag  []Tag `json:"tag"`
		Attr struct {
			Artist string `json:"artist"`
			Album  string `json:"album"`
		} `json:"@attr"`
	} `json:"toptags"`
}

// apiError represents a Last.fm API error response.
type apiError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}
