package googlebooks

import (
	"strings"

	"github.com/dafioram/BookLogger/internal/search"
)

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle"`
	Authors             []string             `json:"authors"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	AverageRating       float64              `json:"averageRating"`
	ImageLinks          imageLinks           `json:"imageLinks"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
}

type imageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// toCandidate maps a Google Books volume into the common candidate
// shape, defaulting every absent field.
func (v volume) toCandidate() search.Candidate {
	info := v.VolumeInfo

	title := info.Title
	if title == "" {
		title = "Unknown"
	}

	author := strings.Join(info.Authors, ", ")
	if author == "" {
		author = search.UnknownAuthor
	}

	year := info.PublishedDate
	if len(year) > 4 {
		year = year[:4]
	}

	return search.Candidate{
		Source:   search.SourceGoogle,
		SourceID: v.ID,
		Title:    title,
		Subtitle: info.Subtitle,
		Author:   author,
		Year:     year,
		CoverURL: coverURL(info.ImageLinks),
		Pages:    info.PageCount,
		Summary:  info.Description,
		Genres:   strings.Join(info.Categories, ", "),
		Rating:   info.AverageRating,
		ISBN13:   isbn13(info.IndustryIdentifiers),
	}
}

// coverURL prefers the full thumbnail, falls back to the small one,
// then the placeholder. Google hands out plain-http viewer URLs with
// page-curl and zoom parameters meant for its embedded reader; force
// https and strip those.
func coverURL(links imageLinks) string {
	raw := links.Thumbnail
	if raw == "" {
		raw = links.SmallThumbnail
	}
	if raw == "" {
		return search.PlaceholderCover
	}

	cover := strings.Replace(raw, "http://", "https://", 1)
	cover = strings.ReplaceAll(cover, "&edge=curl", "")
	cover = strings.ReplaceAll(cover, "zoom=1", "zoom=0")
	return cover
}

// isbn13 returns the first canonical 13-digit identifier, if any.
func isbn13(ids []industryIdentifier) string {
	for _, id := range ids {
		if id.Type == "ISBN_13" {
			return id.Identifier
		}
	}
	return ""
}
