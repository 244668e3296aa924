package search

import "strings"

// CleanISBN strips the hyphens and spaces commonly found in
// human-entered ISBNs.
func CleanISBN(isbn string) string {
	clean := strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(clean, " ", "")
}

// LooksLikeISBN reports whether the query string is itself an ISBN-10
// or ISBN-13 rather than free text. Used to pick the provider query
// strategy and to short-circuit match scoring.
func LooksLikeISBN(query string) bool {
	clean := CleanISBN(query)
	if len(clean) != 10 && len(clean) != 13 {
		return false
	}
	for _, r := range clean {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
