// Package googlebooks implements the Google Books volumes API search
// provider.
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dafioram/BookLogger/internal/cache"
	errs "github.com/dafioram/BookLogger/internal/errors"
	"github.com/dafioram/BookLogger/internal/search"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"
	maxResults     = 20
)

// HTTPDoer is the subset of http.Client the provider needs.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Provider searches the Google Books volumes API. It satisfies
// search.Provider: failures degrade to an empty result, never an error.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

// Option is a functional option for configuring the Provider.
type Option func(*Provider)

// WithBaseURL overrides the API base URL (tests point it at a local server).
func WithBaseURL(base string) Option {
	return func(p *Provider) {
		if base != "" {
			p.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithAPIKey attaches a Google API key to every request. Optional; the
// volumes endpoint works unauthenticated at lower quota.
func WithAPIKey(key string) Option {
	return func(p *Provider) {
		p.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(p *Provider) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// New creates a Google Books provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the catalog name.
func (p *Provider) Name() string {
	return "Google Books"
}

// Search runs the query against Google Books and returns candidates in
// response order. Free-text queries are issued twice concurrently, raw
// and title-scoped, then deduplicated by volume id; an ISBN query is
// issued once as an identifier lookup. matchISBN does not change the
// strategy here.
func (p *Provider) Search(ctx context.Context, query, _ string) []search.Candidate {
	strategies := queryStrategies(query)

	batches := make([][]volume, len(strategies))
	var wg sync.WaitGroup
	for i, expr := range strategies {
		wg.Add(1)
		go func(i int, expr string) {
			defer wg.Done()
			items, err := p.fetchVolumes(ctx, expr)
			if err != nil {
				var rateErr *errs.RateLimitError
				if errors.As(err, &rateErr) {
					slog.Warn("Google Books rate limited, skipping query", "query", expr)
				} else {
					slog.Warn("Google Books query failed", "query", expr, "error", err)
				}
				return
			}
			batches[i] = items
		}(i, expr)
	}
	wg.Wait()

	// Both strategies often return the same editions; keep the first
	// occurrence so strategy order decides which copy survives.
	seen := make(map[string]bool)
	var results []search.Candidate
	for _, items := range batches {
		for _, item := range items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			results = append(results, item.toCandidate())
		}
	}
	return results
}

// queryStrategies picks the volumes query expressions: a single
// identifier lookup for ISBN queries, otherwise the raw query plus an
// intitle-scoped variant.
func queryStrategies(query string) []string {
	if search.LooksLikeISBN(query) {
		return []string{"isbn:" + search.CleanISBN(query)}
	}
	return []string{query, "intitle:" + query}
}

func (p *Provider) fetchVolumes(ctx context.Context, expr string) ([]volume, error) {
	items, _, err := cache.GetOrFetch(cache.GoogleBooksTable, expr, func() ([]volume, error) {
		return p.queryVolumes(ctx, expr)
	})
	return items, err
}

func (p *Provider) queryVolumes(ctx context.Context, expr string) ([]volume, error) {
	params := url.Values{}
	params.Set("q", expr)
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}

	endpoint := fmt.Sprintf("%s/volumes?%s", p.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google Books request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errs.NewRateLimitError("google Books rate limit exceeded")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("google Books returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode Google Books response: %w", err)
	}

	return response.Items, nil
}
