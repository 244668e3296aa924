package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dafioram/BookLogger/internal/config"
	"github.com/dafioram/BookLogger/internal/datastore"
	"github.com/dafioram/BookLogger/internal/search"
	"github.com/dafioram/BookLogger/internal/testutil"
	"github.com/dafioram/BookLogger/internal/tui"
)

type stubProvider struct {
	candidates []search.Candidate
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) Search(context.Context, string, string) []search.Candidate {
	return s.candidates
}

func useStubAggregator(t *testing.T, candidates ...search.Candidate) {
	t.Helper()
	orig := newAggregator
	newAggregator = func() (*search.Aggregator, error) {
		return search.NewAggregator(search.DefaultConfig(), stubProvider{candidates: candidates})
	}
	t.Cleanup(func() { newAggregator = orig })
}

func duneCandidate() search.Candidate {
	return search.Candidate{
		Source:   search.SourceGoogle,
		SourceID: "vol-1",
		Title:    "Dune",
		Author:   "Frank Herbert",
		Year:     "1965",
		CoverURL: search.PlaceholderCover,
		Pages:    412,
		ISBN13:   "9780441013593",
	}
}

func openLibrary(t *testing.T) datastore.Store {
	t.Helper()
	store := datastore.NewSQLiteStore(config.LibraryDBFile)
	require.NoError(t, store.Connect())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunRequiresQuery(t *testing.T) {
	require.Error(t, Run(context.Background(), Params{}))
}

func TestRunWithoutSaveLeavesLibraryAlone(t *testing.T) {
	testutil.SetTestConfig(t)
	useStubAggregator(t, duneCandidate())

	require.NoError(t, Run(context.Background(), Params{Query: "dune"}))

	store := openLibrary(t)
	book, err := store.FindBookByISBN13("9780441013593")
	require.NoError(t, err)
	require.Nil(t, book)
}

func TestRunSavesTopCandidate(t *testing.T) {
	testutil.SetTestConfig(t)
	useStubAggregator(t, duneCandidate())

	require.NoError(t, Run(context.Background(), Params{Query: "dune", Save: true}))

	store := openLibrary(t)
	book, err := store.FindBookByISBN13("9780441013593")
	require.NoError(t, err)
	require.NotNil(t, book)
	require.Equal(t, "Dune", book.Title)
}

func TestRunNoMatchesIsNotAnError(t *testing.T) {
	testutil.SetTestConfig(t)
	useStubAggregator(t)

	require.NoError(t, Run(context.Background(), Params{Query: "nothing matches this"}))
}

func TestRunInteractiveSelection(t *testing.T) {
	testutil.SetTestConfig(t)

	messiah := duneCandidate()
	messiah.SourceID = "vol-2"
	messiah.Title = "Dune Messiah"
	messiah.ISBN13 = "9780441013594"
	useStubAggregator(t, duneCandidate(), messiah)

	orig := selectCandidate
	selectCandidate = func(_ string, candidates []search.Candidate) (tui.SelectionResult, error) {
		// Pick the second-ranked candidate, not the default top one.
		return tui.SelectionResult{Action: tui.ActionSelected, Selection: &candidates[1]}, nil
	}
	t.Cleanup(func() { selectCandidate = orig })

	require.NoError(t, Run(context.Background(), Params{Query: "dune", Interactive: true, Save: true}))

	store := openLibrary(t)
	book, err := store.FindBookByISBN13("9780441013594")
	require.NoError(t, err)
	require.NotNil(t, book)
	require.Equal(t, "Dune Messiah", book.Title)
}

func TestRunInteractiveSkipSavesNothing(t *testing.T) {
	testutil.SetTestConfig(t)
	useStubAggregator(t, duneCandidate())

	orig := selectCandidate
	selectCandidate = func(string, []search.Candidate) (tui.SelectionResult, error) {
		return tui.SelectionResult{Action: tui.ActionSkipped}, nil
	}
	t.Cleanup(func() { selectCandidate = orig })

	require.NoError(t, Run(context.Background(), Params{Query: "dune", Interactive: true, Save: true}))

	store := openLibrary(t)
	book, err := store.FindBookByISBN13("9780441013593")
	require.NoError(t, err)
	require.Nil(t, book)
}

func TestRunLimitTruncatesOutput(t *testing.T) {
	testutil.SetTestConfig(t)

	second := duneCandidate()
	second.SourceID = "vol-2"
	useStubAggregator(t, duneCandidate(), second)

	// Limit 1 keeps only the top candidate; saving still works on it.
	require.NoError(t, Run(context.Background(), Params{Query: "dune", Limit: 1, Save: true}))

	store := openLibrary(t)
	book, err := store.FindBookByISBN13("9780441013593")
	require.NoError(t, err)
	require.NotNil(t, book)
}
