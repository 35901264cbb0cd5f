package wikipedia

// searchResponse is the JSON response for action=query&list=search
// with formatversion=2.
type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
	Error *apiError `json:"error,omitempty"`
}

// apiError represents a MediaWiki API error response.
type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}
