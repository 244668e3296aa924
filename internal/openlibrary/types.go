package openlibrary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dafioram/BookLogger/internal/search"
)

type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []doc `json:"docs"`
}

type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int      `json:"cover_i"`
	ISBN             []string `json:"isbn"`
	PagesMedian      int      `json:"number_of_pages_median"`
	Subject          []string `json:"subject"`
}

const (
	maxAuthors  = 2
	maxSubjects = 3
)

// toCandidate maps an OpenLibrary search document into the common
// candidate shape. Work-level search results carry no description or
// rating, so those stay empty.
func (p *Provider) toCandidate(d doc) search.Candidate {
	title := d.Title
	if title == "" {
		title = "Unknown"
	}

	authors := d.AuthorName
	if len(authors) == 0 {
		authors = []string{search.UnknownAuthor}
	}
	if len(authors) > maxAuthors {
		authors = authors[:maxAuthors]
	}

	year := ""
	if d.FirstPublishYear > 0 {
		year = strconv.Itoa(d.FirstPublishYear)
	}

	subjects := d.Subject
	if len(subjects) > maxSubjects {
		subjects = subjects[:maxSubjects]
	}

	isbn := ""
	if len(d.ISBN) > 0 {
		isbn = d.ISBN[0]
	}

	olid := strings.TrimPrefix(d.Key, "/works/")

	return search.Candidate{
		Source:   search.SourceOpenLibrary,
		SourceID: olid,
		Title:    title,
		Author:   strings.Join(authors, ", "),
		Year:     year,
		CoverURL: p.coverURL(d.CoverID),
		Pages:    d.PagesMedian,
		Genres:   strings.Join(subjects, ", "),
		ISBN13:   isbn,
		OLID:     olid,
	}
}

// coverURL synthesizes the medium-size cover image URL from a numeric
// cover id, or returns the placeholder when the work has none.
func (p *Provider) coverURL(coverID int) string {
	if coverID <= 0 {
		return search.PlaceholderCover
	}
	return fmt.Sprintf("%s/b/id/%d-M.jpg", p.coversBaseURL, coverID)
}
