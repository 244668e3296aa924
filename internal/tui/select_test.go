package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/dafioram/BookLogger/internal/search"
)

func sampleCandidates() []search.Candidate {
	return []search.Candidate{
		{
			Source:       search.SourceGoogle,
			SourceID:     "vol-1",
			Title:        "Dune",
			Author:       "Frank Herbert",
			Year:         "1965",
			Pages:        412,
			ISBN13:       "9780441013593",
			Summary:      "Desert planet epic.",
			MatchScore:   60,
			ContentScore: 100,
			RankScore:    160,
		},
		{
			Source:     search.SourceOpenLibrary,
			SourceID:   "OL893415W",
			Title:      "Dune Messiah",
			Author:     "Frank Herbert",
			MatchScore: 55,
			RankScore:  75,
		},
	}
}

// driveModel feeds key messages through the model the way bubbletea
// would, so the selection logic is testable without a real terminal.
func driveModel(msgs ...tea.Msg) func(tea.Model) (tea.Model, error) {
	return func(m tea.Model) (tea.Model, error) {
		current := m
		for _, msg := range msgs {
			next, _ := current.Update(msg)
			current = next
		}
		return current, nil
	}
}

func withRunProgram(t *testing.T, fn func(tea.Model) (tea.Model, error)) {
	t.Helper()
	orig := runProgram
	runProgram = fn
	t.Cleanup(func() { runProgram = orig })
}

func TestSelectEnterPicksHighlighted(t *testing.T) {
	withRunProgram(t, driveModel(tea.KeyMsg{Type: tea.KeyEnter}))

	result, err := Select("dune", sampleCandidates())
	require.NoError(t, err)
	require.Equal(t, ActionSelected, result.Action)
	require.NotNil(t, result.Selection)
	require.Equal(t, "vol-1", result.Selection.SourceID)
}

func TestSelectNavigateThenEnter(t *testing.T) {
	withRunProgram(t, driveModel(
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	))

	result, err := Select("dune", sampleCandidates())
	require.NoError(t, err)
	require.Equal(t, ActionSelected, result.Action)
	require.Equal(t, "OL893415W", result.Selection.SourceID)
}

func TestSelectSkip(t *testing.T) {
	withRunProgram(t, driveModel(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}))

	result, err := Select("dune", sampleCandidates())
	require.NoError(t, err)
	require.Equal(t, ActionSkipped, result.Action)
	require.Nil(t, result.Selection)
}

func TestSelectEscapeSkips(t *testing.T) {
	withRunProgram(t, driveModel(tea.KeyMsg{Type: tea.KeyEsc}))

	result, err := Select("dune", sampleCandidates())
	require.NoError(t, err)
	require.Equal(t, ActionSkipped, result.Action)
}

func TestSelectStop(t *testing.T) {
	withRunProgram(t, driveModel(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}))

	result, err := Select("dune", sampleCandidates())
	require.NoError(t, err)
	require.Equal(t, ActionStopped, result.Action)
}

func TestSelectEmptyCandidatesSkipsWithoutUI(t *testing.T) {
	withRunProgram(t, func(tea.Model) (tea.Model, error) {
		t.Fatal("the TUI must not start for an empty candidate list")
		return nil, nil
	})

	result, err := Select("dune", nil)
	require.NoError(t, err)
	require.Equal(t, ActionSkipped, result.Action)
}

func TestSelectProgramError(t *testing.T) {
	withRunProgram(t, func(tea.Model) (tea.Model, error) {
		return nil, errors.New("terminal unavailable")
	})

	_, err := Select("dune", sampleCandidates())
	require.Error(t, err)
}

func TestCandidateItemTitle(t *testing.T) {
	item := candidateItem{Candidate: search.Candidate{Title: "Dune", Year: "1965"}}
	require.Equal(t, "Dune (1965)", item.Title())

	noYear := candidateItem{Candidate: search.Candidate{Title: "Dune"}}
	require.Equal(t, "Dune", noYear.Title())
}

func TestFormatDetails(t *testing.T) {
	c := search.Candidate{
		Author: "Frank Herbert",
		Pages:  412,
		Genres: "Science Fiction",
		ISBN13: "9780441013593",
	}
	require.Equal(t, "Frank Herbert | 412p | Science Fiction | 9780441013593", formatDetails(c, 0))

	require.Equal(t, "No metadata available", formatDetails(search.Candidate{}, 0))

	// Over-long details get truncated with an ellipsis.
	got := formatDetails(c, 20)
	require.Len(t, got, 20)
	require.Contains(t, got, "...")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 20))
	require.Equal(t, "exactly ten", truncate("exactly ten", 11))
	require.Equal(t, "a long s...", truncate("a long string here", 11))
	require.Equal(t, "collapsed whitespace", truncate("collapsed \n whitespace", 0))
}
