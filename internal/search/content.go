package search

import "strings"

// contentRule is one signed adjustment in the record-quality rubric.
// Rules are independent; every rule contributes and the total is
// clamped to [0,100] at the end.
type contentRule struct {
	name   string
	adjust func(c Candidate) int
}

var contentRules = []contentRule{
	{
		name: "cover",
		adjust: func(c Candidate) int {
			if c.HasCover() {
				return 30
			}
			return 0
		},
	},
	{
		name: "summary",
		adjust: func(c Candidate) int {
			switch {
			case len(c.Summary) > 50:
				return 30
			case c.Summary == "":
				return -10
			default:
				return 0
			}
		},
	},
	{
		// An "author" that duplicates the title is a data-quality
		// smell, usually a record where both fields were filled from
		// the same string.
		name: "author",
		adjust: func(c Candidate) int {
			title := Normalize(c.Title)
			author := Normalize(c.Author)
			if len(author) > 3 && (strings.Contains(title, author) || strings.Contains(author, title)) {
				return -40
			}
			if c.Author != UnknownAuthor {
				return 10
			}
			return 0
		},
	},
	{
		name: "year",
		adjust: func(c Candidate) int {
			if c.Year != "" {
				return 10
			}
			return 0
		},
	},
	{
		// Page-count realism: zero pages marks an empty stub record,
		// pamphlet-length books get a small penalty, real books a
		// hefty boost.
		name: "pages",
		adjust: func(c Candidate) int {
			switch {
			case c.Pages == 0:
				return -50
			case c.Pages < 50:
				return -15
			default:
				return 20
			}
		},
	},
	{
		name: "isbn",
		adjust: func(c Candidate) int {
			if c.ISBN13 != "" {
				return 5
			}
			return 0
		},
	},
}

// ContentScore rates how rich and trustworthy the record itself is,
// from 0 to 100, independent of the query.
func ContentScore(c Candidate) int {
	score := 0
	for _, rule := range contentRules {
		score += rule.adjust(c)
	}
	return clampScore(score)
}
