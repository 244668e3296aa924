package csvutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRows(t *testing.T) {
	path := writeCSV(t, "Title,Author,ISBN13\nDune,Frank Herbert,9780441013593\nFoundation,Isaac Asimov,\n")

	rows, header, err := LoadRows(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Title", "Author", "ISBN13"}, header)
	require.Len(t, rows, 2)
	require.Equal(t, "Dune", rows[0]["Title"])
	require.Equal(t, "Isaac Asimov", rows[1]["Author"])
	require.Equal(t, "", rows[1]["ISBN13"])
}

func TestLoadRowsStripsBOM(t *testing.T) {
	path := writeCSV(t, "\ufeffTitle,Author\nDune,Frank Herbert\n")

	rows, header, err := LoadRows(path)
	require.NoError(t, err)
	require.Equal(t, "Title", header[0])
	require.Equal(t, "Dune", rows[0]["Title"])
}

func TestLoadRowsRaggedRecords(t *testing.T) {
	// A row with fewer fields than the header still loads; the missing
	// columns are simply absent.
	path := writeCSV(t, "Title,Author,ISBN13\nDune,Frank Herbert\n")

	rows, _, err := LoadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Frank Herbert", rows[0]["Author"])
	_, ok := rows[0]["ISBN13"]
	require.False(t, ok)
}

func TestLoadRowsMissingFile(t *testing.T) {
	_, _, err := LoadRows(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestRowGet(t *testing.T) {
	row := Row{
		"Title":        "Dune",
		" skip import": "Yes",
		"Rating":       "",
		"My Rating":    "4.5",
	}

	require.Equal(t, "Dune", row.Get("Title"))

	// First key with a value wins.
	require.Equal(t, "4.5", row.Get("My Rating", "Rating"))
	require.Equal(t, "4.5", row.Get("Rating", "My Rating"))

	// Case-insensitive, trimmed fallback.
	require.Equal(t, "Yes", row.Get("Skip Import"))

	require.Equal(t, "", row.Get("Nope"))
}
