package search

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultMatchThreshold is the minimum match score a candidate
	// needs to survive filtering. The value is a tuned heuristic, kept
	// as a default rather than re-derived.
	DefaultMatchThreshold = 40

	// DefaultProviderTimeout bounds each provider fetch.
	DefaultProviderTimeout = 10 * time.Second
)

// Config carries the aggregator tunables.
type Config struct {
	// MatchThreshold filters out candidates whose match score falls
	// below it. Zero is allowed (keep everything); negative is a
	// configuration error.
	MatchThreshold int

	// ProviderTimeout is the per-provider fetch deadline. Zero selects
	// DefaultProviderTimeout.
	ProviderTimeout time.Duration
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		MatchThreshold:  DefaultMatchThreshold,
		ProviderTimeout: DefaultProviderTimeout,
	}
}

// Aggregator fans queries out to its providers and turns whatever they
// return into one ranked candidate list. It holds no per-call state
// and is safe for concurrent use.
type Aggregator struct {
	cfg       Config
	providers []Provider
}

// NewAggregator validates the config and builds an aggregator over the
// given providers. Provider order matters: merged results keep
// registration order, which is the tie-break for equal rank scores.
func NewAggregator(cfg Config, providers ...Provider) (*Aggregator, error) {
	if cfg.MatchThreshold < 0 {
		return nil, fmt.Errorf("match threshold must not be negative, got %d", cfg.MatchThreshold)
	}
	if cfg.ProviderTimeout < 0 {
		return nil, fmt.Errorf("provider timeout must not be negative, got %s", cfg.ProviderTimeout)
	}
	if cfg.ProviderTimeout == 0 {
		cfg.ProviderTimeout = DefaultProviderTimeout
	}

	return &Aggregator{
		cfg:       cfg,
		providers: providers,
	}, nil
}

// Resolve queries every provider concurrently, merges their candidates
// in registration order, scores each one, drops those below the match
// threshold and returns the rest sorted by descending rank score. The
// sort is stable so equal ranks keep their merge order.
//
// matchISBN is an optional trusted ISBN (for example from an import
// row); a candidate whose ISBN matches it scores a perfect match
// regardless of title text.
//
// An empty result means no confident match, not an error. A provider
// failure, a timeout or ctx cancellation mid-fetch just shrinks that
// provider's contribution to nothing.
func (a *Aggregator) Resolve(ctx context.Context, query, matchISBN string) []Candidate {
	// Per-provider buffers keep the merge deterministic no matter
	// which fetch finishes first.
	buckets := make([][]Candidate, len(a.providers))

	var wg sync.WaitGroup
	for i, provider := range a.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, a.cfg.ProviderTimeout)
			defer cancel()
			buckets[i] = p.Search(fetchCtx, query, matchISBN)
		}(i, provider)
	}
	wg.Wait()

	var ranked []Candidate
	for _, batch := range buckets {
		for _, c := range batch {
			c.MatchScore = MatchScore(c, query, matchISBN)
			c.ContentScore = ContentScore(c)
			c.RankScore = c.MatchScore + c.ContentScore
			if c.MatchScore < a.cfg.MatchThreshold {
				continue
			}
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankScore > ranked[j].RankScore
	})

	return ranked
}
