// Package lookup implements the search command: resolve a query
// against the providers, print the ranked candidates and optionally
// persist one into the library.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/dafioram/BookLogger/internal/cmdutil"
	"github.com/dafioram/BookLogger/internal/config"
	"github.com/dafioram/BookLogger/internal/datastore"
	"github.com/dafioram/BookLogger/internal/search"
	"github.com/dafioram/BookLogger/internal/tui"
)

var (
	newAggregator   = cmdutil.NewAggregator
	selectCandidate = tui.Select
)

// Params holds the options of one search invocation.
type Params struct {
	Query         string
	ISBN          string
	Limit         int
	Interactive   bool
	Save          bool
	DownloadCover bool
}

// Run resolves the query and handles presentation and persistence.
func Run(ctx context.Context, params Params) error {
	if params.Query == "" {
		return fmt.Errorf("search query is required")
	}

	agg, err := newAggregator()
	if err != nil {
		return fmt.Errorf("failed to build search aggregator: %w", err)
	}

	candidates := agg.Resolve(ctx, params.Query, params.ISBN)
	if params.Limit > 0 && len(candidates) > params.Limit {
		candidates = candidates[:params.Limit]
	}

	if len(candidates) == 0 {
		fmt.Printf("No confident matches for %q\n", params.Query)
		return nil
	}

	printCandidates(candidates)

	chosen := &candidates[0]
	if params.Interactive {
		result, err := selectCandidate(params.Query, candidates)
		if err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}
		switch result.Action {
		case tui.ActionSelected:
			chosen = result.Selection
		case tui.ActionSkipped, tui.ActionStopped:
			slog.Info("No candidate selected", "query", params.Query)
			return nil
		}
	}

	if !params.Save {
		return nil
	}

	store := datastore.NewSQLiteStore(config.LibraryDBFile)
	if err := store.Connect(); err != nil {
		return fmt.Errorf("failed to open library database: %w", err)
	}
	defer func() { _ = store.Close() }()

	bookID, err := cmdutil.SaveCandidate(ctx, store, *chosen, cmdutil.SaveOptions{
		DownloadCover: params.DownloadCover,
	})
	if err != nil {
		return fmt.Errorf("failed to save book: %w", err)
	}

	slog.Info("Saved book to library", "id", bookID, "title", chosen.Title, "source", chosen.Source)
	return nil
}

func printCandidates(candidates []search.Candidate) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tMATCH\tCONTENT\tSOURCE\tTITLE\tAUTHOR\tYEAR\tISBN13")
	for _, c := range candidates {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			c.RankScore, c.MatchScore, c.ContentScore, c.Source, c.Title, c.Author, c.Year, c.ISBN13)
	}
	_ = w.Flush()
}
