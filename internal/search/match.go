package search

import "strings"

// titleRule is one row of the ordered title-matching table. Rules are
// evaluated top to bottom and the first hit decides the title tier.
type titleRule struct {
	name   string
	points int
	match  func(title, query string) bool
}

// titleTiers ranks how strongly a normalized title relates to the
// normalized query. The order is authoritative: the word-bounded
// prefix rule deliberately shadows the unbounded one, so a title like
// "dune messiah" for the query "dune" scores 55, not 40.
var titleTiers = []titleRule{
	{
		name:   "exact",
		points: 60,
		match:  func(title, query string) bool { return title == query },
	},
	{
		// One string is the other plus more words: the query names the
		// title without its subtitle, or vice versa.
		name:   "bounded prefix",
		points: 55,
		match: func(title, query string) bool {
			return strings.HasPrefix(title, query+" ") || strings.HasPrefix(query, title+" ")
		},
	},
	{
		name:   "prefix",
		points: 40,
		match: func(title, query string) bool {
			return strings.HasPrefix(title, query) || strings.HasPrefix(query, title)
		},
	},
	{
		name:   "substring",
		points: 20,
		match:  func(title, query string) bool { return strings.Contains(title, query) },
	},
}

// authorBonus is added on top of the title tier when the candidate's
// author appears in the query or the query inside the author.
const authorBonus = 30

// MatchScore rates how confidently the candidate is the record the
// query meant, from 0 to 100. A trusted matchISBN supplied by the
// caller short-circuits everything: an exact ISBN match is 100 no
// matter what the title says. A query that is itself an ISBN gets the
// same treatment. Otherwise the title tier table plus the author bonus
// decide, clamped to 100.
func MatchScore(c Candidate, query, matchISBN string) int {
	bookISBN := CleanISBN(c.ISBN13)

	if target := CleanISBN(matchISBN); target != "" && target == bookISBN {
		return 100
	}

	if LooksLikeISBN(query) && CleanISBN(query) == bookISBN {
		return 100
	}

	queryNorm := Normalize(query)
	titleNorm := Normalize(c.Title)
	authorNorm := Normalize(c.Author)

	score := 0
	for _, rule := range titleTiers {
		if rule.match(titleNorm, queryNorm) {
			score = rule.points
			break
		}
	}

	if authorNorm != "" && (strings.Contains(queryNorm, authorNorm) || strings.Contains(authorNorm, queryNorm)) {
		score += authorBonus
	}

	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
