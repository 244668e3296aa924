// Package importcsv bulk-imports a reading-list CSV into the library.
// Each row is matched against the book catalogs with the row's ISBN as
// oracle; confident matches become books, shelf entries and reading
// logs, everything else lands in an annotated failures CSV.
package importcsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/dafioram/BookLogger/internal/cmdutil"
	"github.com/dafioram/BookLogger/internal/config"
	"github.com/dafioram/BookLogger/internal/csvutil"
	"github.com/dafioram/BookLogger/internal/datastore"
	"github.com/dafioram/BookLogger/internal/search"
)

var newAggregator = cmdutil.NewAggregator

// Params holds the options of one import run.
type Params struct {
	// Input is the reading-list CSV file.
	Input string
	// FailuresOutput is where rejected rows are written.
	FailuresOutput string
	// Year keeps only rows finished in that year when non-zero.
	Year int
	// DownloadCovers fetches cover images for newly inserted books.
	DownloadCovers bool
}

// serviceDefault maps a reading service to the format it implies and
// whether the copy was borrowed rather than owned.
type serviceDefault struct {
	format   string
	borrowed bool
}

var serviceDefaults = map[string]serviceDefault{
	"Audible":          {"Audible", false},
	"Kindle":           {"Kindle", false},
	"Physical":         {"Physical", false},
	"Paperback":        {"Physical", false},
	"Hardcover":        {"Physical", false},
	"Kindle Unlimited": {"Kindle", true},
	"Libby":            {"Libby Audiobook", true},
	"Library":          {"Physical", true},
	"Spotify":          {"Audible", true},
}

// fallbackDefault applies when the service column is empty or unknown.
var fallbackDefault = serviceDefault{"Physical", false}

// rowData is one CSV row parsed into typed fields.
type rowData struct {
	raw          csvutil.Row
	title        string
	author       string
	subtitle     string
	isbn13       string
	asin         string
	olid         string
	dateFinished string // YYYY-MM-DD
	year         int
	format       string
	isOwned      bool
	isBorrowed   bool
	rating       float64
	hasRating    bool
	hours        float64
	hasHours     bool
	skip         bool
}

type failedRow struct {
	row        csvutil.Row
	reason     string
	foundTitle string
}

// Run processes the CSV file row by row.
func Run(ctx context.Context, params Params) error {
	rows, header, err := csvutil.LoadRows(params.Input)
	if err != nil {
		return err
	}

	agg, err := newAggregator()
	if err != nil {
		return fmt.Errorf("failed to build search aggregator: %w", err)
	}

	store := datastore.NewSQLiteStore(config.LibraryDBFile)
	if err := store.Connect(); err != nil {
		return fmt.Errorf("failed to open library database: %w", err)
	}
	defer func() { _ = store.Close() }()

	var (
		imported int
		filtered int
		failures []failedRow
	)

	for _, raw := range rows {
		row := parseRow(raw)

		if params.Year != 0 && row.year != params.Year {
			filtered++
			continue
		}
		if row.title == "" {
			continue
		}

		slog.Info("Processing row", "title", row.title)

		fail, err := importRow(ctx, agg, store, row, params.DownloadCovers)
		if err != nil {
			failures = append(failures, failedRow{row: raw, reason: fmt.Sprintf("DB Error: %v", err)})
			continue
		}
		if fail != nil {
			failures = append(failures, *fail)
			continue
		}
		imported++
	}

	slog.Info("Import finished",
		"imported", imported,
		"filtered", filtered,
		"failed", len(failures))

	if len(failures) > 0 {
		if err := writeFailures(params.FailuresOutput, header, failures); err != nil {
			return fmt.Errorf("failed to write failures file: %w", err)
		}
		slog.Warn("Some rows were not imported", "file", params.FailuresOutput, "count", len(failures))
	}

	return nil
}

// importRow handles one parsed row. A nil, nil return means the row
// was imported (or its log already existed); a non-nil failedRow means
// the row was rejected.
func importRow(ctx context.Context, agg *search.Aggregator, store datastore.Store, row rowData, downloadCovers bool) (*failedRow, error) {
	existing, err := lookupExisting(store, row)
	if err != nil {
		return nil, err
	}

	var (
		bookID     int64
		totalPages int
	)

	if existing != nil {
		if row.skip {
			return &failedRow{row: row.raw, reason: "User Skipped (Exists in DB)", foundTitle: existing.Title}, nil
		}
		bookID = existing.ID
		totalPages = existing.TotalPages
		slog.Debug("Matched existing book", "id", bookID, "title", existing.Title)
	} else {
		// The wide net: search by title and author and let the ISBN
		// oracle pick the winner from the candidate list.
		query := strings.TrimSpace(row.title + " " + row.author)
		candidates := agg.Resolve(ctx, query, row.isbn13)

		var best *search.Candidate
		if len(candidates) > 0 {
			best = &candidates[0]
		}

		foundTitle := ""
		if best != nil {
			foundTitle = best.Title
			slog.Debug("Best candidate",
				"source", best.Source, "match", best.MatchScore, "content", best.ContentScore)
		}

		if row.skip {
			return &failedRow{row: row.raw, reason: "User Skipped", foundTitle: foundTitle}, nil
		}
		if best == nil {
			return &failedRow{row: row.raw, reason: "Low Confidence / No Match"}, nil
		}

		bookID, err = cmdutil.SaveCandidate(ctx, store, *best, cmdutil.SaveOptions{
			Subtitle:      row.subtitle,
			ISBN13:        row.isbn13,
			ASIN:          row.asin,
			OLID:          row.olid,
			DownloadCover: downloadCovers,
		})
		if err != nil {
			return nil, err
		}
		totalPages = best.Pages
	}

	userBookID, err := store.EnsureUserBook(datastore.UserBook{
		BookID:       bookID,
		ReadStatus:   "Read",
		ShelfStatus:  "Shelved",
		IsOwned:      row.isOwned,
		FormatsOwned: formatsJSON(row.format),
		UserRating:   row.rating,
		HasRating:    row.hasRating,
	})
	if err != nil {
		return nil, err
	}

	hours := row.hours
	if !row.hasHours {
		hours = estimateHours(totalPages)
	}

	exists, err := store.HasReadingLog(userBookID, row.dateFinished)
	if err != nil {
		return nil, err
	}
	if exists {
		slog.Debug("Reading log already exists", "title", row.title, "date", row.dateFinished)
		return nil, nil
	}

	return nil, store.InsertReadingLog(datastore.ReadingLog{
		UserBookID:     userBookID,
		DateFinished:   row.dateFinished,
		HoursRead:      hours,
		FormatConsumed: row.format,
		IsBorrowed:     row.isBorrowed,
		SessionRating:  row.rating,
		HasRating:      row.hasRating,
	})
}

// lookupExisting checks the library for the row's book, by ISBN first
// and then by title prefix.
func lookupExisting(store datastore.Store, row rowData) (*datastore.Book, error) {
	if row.isbn13 != "" {
		book, err := store.FindBookByISBN13(row.isbn13)
		if err != nil || book != nil {
			return book, err
		}
	}
	return store.FindBookByTitlePrefix(row.title)
}

func parseRow(raw csvutil.Row) rowData {
	row := rowData{
		raw:      raw,
		title:    strings.TrimSpace(raw.Get("Title")),
		author:   strings.TrimSpace(raw.Get("Author")),
		subtitle: strings.TrimSpace(raw.Get("Subtitle")),
		isbn13:   strings.ReplaceAll(strings.TrimSpace(raw.Get("ISBN13")), "-", ""),
		asin:     strings.TrimSpace(raw.Get("ASIN")),
		olid:     strings.TrimSpace(raw.Get("OLID")),
	}

	row.dateFinished, row.year = parseFinishDate(raw.Get("Date Finished"))
	row.skip = strings.Contains(strings.ToLower(strings.TrimSpace(raw.Get("Skip Import"))), "yes")

	if rating, err := strconv.ParseFloat(strings.TrimSpace(raw.Get("My Rating", "Rating")), 64); err == nil {
		row.rating = rating
		row.hasRating = true
	}
	if hours, err := strconv.ParseFloat(strings.TrimSpace(raw.Get("Hours")), 64); err == nil {
		row.hours = hours
		row.hasHours = true
	}

	service := strings.TrimSpace(raw.Get("Service"))
	defaults, ok := serviceDefaults[service]
	if !ok {
		defaults = fallbackDefault
	}
	row.format = defaults.format

	switch own := strings.ToLower(raw.Get("Own?")); {
	case strings.Contains(own, "yes"):
		row.isOwned = true
	case strings.Contains(own, "no"):
		row.isBorrowed = true
	default:
		row.isOwned = !defaults.borrowed
		row.isBorrowed = defaults.borrowed
	}

	return row
}

// parseFinishDate normalizes a finish date to YYYY-MM-DD. Spreadsheet
// exports are not consistent about date formats, so parsing goes
// through dateparse rather than a fixed layout list. Unparseable dates
// fall back to today with a warning.
func parseFinishDate(raw string) (string, int) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if dt, err := dateparse.ParseAny(raw); err == nil {
			return dt.Format("2006-01-02"), dt.Year()
		}
		slog.Warn("Could not parse finish date, using today", "date", raw)
	}
	now := time.Now()
	return now.Format("2006-01-02"), now.Year()
}

// estimateHours guesses reading time at 40 pages an hour, rounded to
// one decimal.
func estimateHours(pages int) float64 {
	if pages <= 0 {
		return 0
	}
	return math.Round(float64(pages)/40*10) / 10
}

func formatsJSON(format string) string {
	return fmt.Sprintf("[%q]", format)
}

// writeFailures writes the rejected rows as the original CSV plus
// Error_Reason and Found_Title columns.
func writeFailures(filename string, header []string, failures []failedRow) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	outHeader := append(append([]string{}, header...), "Error_Reason", "Found_Title")
	if err := w.Write(outHeader); err != nil {
		return err
	}

	for _, failure := range failures {
		record := make([]string, 0, len(outHeader))
		for _, name := range header {
			record = append(record, failure.row[name])
		}
		record = append(record, failure.reason, failure.foundTitle)
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
