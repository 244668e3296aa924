package cmdutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dafioram/BookLogger/internal/datastore"
	"github.com/dafioram/BookLogger/internal/search"
	"github.com/dafioram/BookLogger/internal/testutil"
)

func newTestStore(t *testing.T) datastore.Store {
	t.Helper()
	store := datastore.NewSQLiteStore(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, store.Connect())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewAggregator(t *testing.T) {
	testutil.SetTestConfig(t)

	agg, err := NewAggregator()
	require.NoError(t, err)
	require.NotNil(t, agg)
}

func TestSaveCandidate(t *testing.T) {
	testutil.SetTestConfig(t)
	store := newTestStore(t)

	c := search.Candidate{
		Source:       search.SourceGoogle,
		SourceID:     "vol-1",
		Title:        "Dune",
		Author:       "Frank Herbert",
		Year:         "1965",
		CoverURL:     search.PlaceholderCover,
		Pages:        412,
		ISBN13:       "9780441013593",
		ContentScore: 100,
	}

	id, err := SaveCandidate(context.Background(), store, c, SaveOptions{})
	require.NoError(t, err)
	require.Positive(t, id)

	book, err := store.FindBookByISBN13("9780441013593")
	require.NoError(t, err)
	require.NotNil(t, book)
	require.Equal(t, "Dune", book.Title)
}

func TestSaveCandidateCallerOverridesWin(t *testing.T) {
	testutil.SetTestConfig(t)
	store := newTestStore(t)

	c := search.Candidate{
		Source:   search.SourceOpenLibrary,
		SourceID: "OL893415W",
		Title:    "Dune",
		ISBN13:   "9780000000000",
		OLID:     "OL893415W",
		CoverURL: search.PlaceholderCover,
	}

	_, err := SaveCandidate(context.Background(), store, c, SaveOptions{
		Subtitle: "Deluxe Edition",
		ISBN13:   "9780441013593",
		ASIN:     "B000R93D4Y",
		OLID:     "OL999W",
	})
	require.NoError(t, err)

	// The caller's ISBN wins over the catalog's.
	book, err := store.FindBookByISBN13("9780441013593")
	require.NoError(t, err)
	require.NotNil(t, book)

	stale, err := store.FindBookByISBN13("9780000000000")
	require.NoError(t, err)
	require.Nil(t, stale)
}
