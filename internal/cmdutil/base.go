// Package cmdutil wires the shared dependencies of the CLI commands:
// the provider stack behind the aggregator and persistence of a
// confirmed candidate into the library.
package cmdutil

import (
	"context"
	"log/slog"

	"github.com/dafioram/BookLogger/internal/config"
	"github.com/dafioram/BookLogger/internal/datastore"
	"github.com/dafioram/BookLogger/internal/fileutil"
	"github.com/dafioram/BookLogger/internal/googlebooks"
	"github.com/dafioram/BookLogger/internal/openlibrary"
	"github.com/dafioram/BookLogger/internal/search"
)

// NewAggregator builds the stock aggregator: Google Books first, then
// OpenLibrary, with the configured match threshold. Registration order
// matters, it is the tie-break order of equally ranked results.
func NewAggregator() (*search.Aggregator, error) {
	cfg := search.DefaultConfig()
	cfg.MatchThreshold = config.MatchThreshold

	google := googlebooks.New(googlebooks.WithAPIKey(config.GoogleBooksAPIKey))
	openLib := openlibrary.New()

	return search.NewAggregator(cfg, google, openLib)
}

// SaveOptions carries caller-supplied metadata that beats whatever the
// catalogs returned (an import row usually knows its own ISBN).
type SaveOptions struct {
	Subtitle      string
	ISBN13        string
	ASIN          string
	OLID          string
	DownloadCover bool
}

// SaveCandidate persists a confirmed candidate as a library book and
// returns its row id. A failed cover download is logged and skipped;
// the book is stored either way.
func SaveCandidate(ctx context.Context, store datastore.Store, c search.Candidate, opts SaveOptions) (int64, error) {
	isbn13 := opts.ISBN13
	if isbn13 == "" {
		isbn13 = c.ISBN13
	}
	olid := opts.OLID
	if olid == "" {
		olid = c.OLID
	}

	book := datastore.Book{
		GoogleID:        c.SourceID,
		ISBN13:          isbn13,
		ASIN:            opts.ASIN,
		OLID:            olid,
		Title:           c.Title,
		Subtitle:        opts.Subtitle,
		Author:          c.Author,
		PublicationYear: c.Year,
		CoverURL:        c.CoverURL,
		TotalPages:      c.Pages,
		Summary:         c.Summary,
		Genres:          c.Genres,
		AverageRating:   c.Rating,
		ContentScore:    c.ContentScore,
	}

	if opts.DownloadCover && c.HasCover() {
		result, err := fileutil.DownloadCover(ctx, fileutil.CoverDownloadOptions{
			URL:       c.CoverURL,
			OutputDir: config.CoversDir,
			Filename:  fileutil.BuildCoverFilename(c.Title),
			Overwrite: config.OverwriteCovers,
		})
		if err != nil {
			slog.Warn("Could not download cover", "title", c.Title, "error", err)
		} else if result != nil {
			book.CoverPath = result.LocalPath
		}
	}

	return store.InsertBook(book)
}
