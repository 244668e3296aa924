package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal text",
			input:    "Normal Text",
			expected: "Normal Text",
		},
		{
			name:     "colon",
			input:    "Dune: Messiah",
			expected: "Dune - Messiah",
		},
		{
			name:     "slashes",
			input:    "Either/Or\\Both",
			expected: "Either-Or-Both",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFilename(tc.input))
		})
	}
}

func TestBuildCoverFilename(t *testing.T) {
	assert.Equal(t, "Dune - cover.jpg", BuildCoverFilename("Dune"))
	assert.Equal(t, "Dune - Messiah - cover.jpg", BuildCoverFilename("Dune: Messiah"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "absent.txt")))
	// A directory is not a file.
	assert.False(t, FileExists(dir))
}
