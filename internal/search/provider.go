package search

import "context"

// Provider wraps one external bibliographic catalog. Implementations
// absorb their own failures: a network error, a non-2xx status or a
// malformed body all degrade to an empty slice so a broken catalog can
// never abort a resolve. The aggregator cannot tell "provider failed"
// from "provider found nothing", which is the intended contract.
type Provider interface {
	// Name returns the human-readable catalog name.
	Name() string

	// Search returns raw, unscored candidates for the query in the
	// catalog's response order. matchISBN is the caller's trusted ISBN
	// when one exists; providers may use it to bias their query
	// strategy and can ignore it otherwise.
	Search(ctx context.Context, query, matchISBN string) []Candidate
}
