package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases",
			input: "The Hobbit",
			want:  "the hobbit",
		},
		{
			name:  "strips diacritics and punctuation",
			input: "Café — A Novel",
			want:  "cafe a novel",
		},
		{
			name:  "drops punctuation",
			input: "The Hobbit: There and Back Again!",
			want:  "the hobbit there and back again",
		},
		{
			name:  "collapses whitespace",
			input: "  dune \t messiah\n",
			want:  "dune messiah",
		},
		{
			name:  "keeps digits",
			input: "Fahrenheit 451",
			want:  "fahrenheit 451",
		},
		{
			name:  "folds typographic ligatures",
			input: "An Eﬃcient Aﬀair",
			want:  "an efficient affair",
		},
		{
			name:  "folds fullwidth characters",
			input: "Fahrenheit ４５１",
			want:  "fahrenheit 451",
		},
		{
			name:  "drops non-ascii scripts",
			input: "日本語",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Café — A Novel",
		"The Name of the Rose",
		"Pérez-Reverte",
	}
	for _, input := range inputs {
		once := Normalize(input)
		require.Equal(t, once, Normalize(once), "normalizing twice must not change the result for %q", input)
	}
}
