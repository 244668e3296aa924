// Package search implements the book metadata search engine: it fans a
// query out to multiple catalog providers, scores every returned record
// for identity and completeness, and returns a ranked candidate list.
package search

import "strings"

// Source identifies the catalog a candidate came from.
type Source string

const (
	// SourceGoogle is the Google Books volumes API.
	SourceGoogle Source = "Google"
	// SourceOpenLibrary is the OpenLibrary search API.
	SourceOpenLibrary Source = "OpenLibrary"
)

// PlaceholderCover is the sentinel URL used when a record has no usable
// cover image.
const PlaceholderCover = "/static/placeholder.png"

// UnknownAuthor is the sentinel display string for records whose
// catalog entry lists no authors at all.
const UnknownAuthor = "Unknown"

// Candidate is one bibliographic record returned by a provider for a
// query, annotated with scores by the aggregator. Candidates are
// request-scoped: they exist only between a Resolve call and the
// caller consuming the returned list. Persisting a chosen candidate is
// the caller's job.
type Candidate struct {
	Source   Source  `json:"source"`
	SourceID string  `json:"source_id"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Author   string  `json:"author"`
	Year     string  `json:"year"`
	CoverURL string  `json:"cover"`
	Pages    int     `json:"pages"`
	Summary  string  `json:"summary"`
	Genres   string  `json:"genres"`
	Rating   float64 `json:"rating"`
	ISBN13   string  `json:"isbn"`
	OLID     string  `json:"olid"`

	// MatchScore is the 0-100 confidence that this record is the one
	// the query meant. ContentScore is the 0-100 completeness of the
	// record itself, independent of the query. RankScore is always
	// their sum and is the sole sort key.
	MatchScore   int `json:"match_score"`
	ContentScore int `json:"content_score"`
	RankScore    int `json:"rank_score"`
}

// HasCover reports whether the candidate carries a real cover image
// rather than a placeholder.
func (c Candidate) HasCover() bool {
	return c.CoverURL != "" && !strings.Contains(c.CoverURL, "placeholder")
}
