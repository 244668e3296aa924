// Package openlibrary implements the OpenLibrary search API provider.
package openlibrary

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
	"time"

	"github.com/dafioram/BookLogger/internal/cache"
	errs "github.com/dafioram/BookLogger/internal/errors"
	"github.com/dafioram/BookLogger/internal/ratelimit"
	"github.com/dafioram/BookLogger/internal/search"
)

const (
	defaultBaseURL       = "https://openlibrary.org"
	defaultCoversBaseURL = "https://covers.openlibrary.org"
	searchLimit          = 20

	// OpenLibrary's usage policy asks for at most one request per second.
	ratePerSecond = 1
)

// HTTPDoer is the subset of http.Client the provider needs.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Provider searches the OpenLibrary catalog. It satisfies
// search.Provider: failures degrade to an empty result, never an error.
type Provider struct {
	baseURL       string
	coversBaseURL string
	httpClient    HTTPDoer
	limiter       *ratelimit.Limiter
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

// WithCoversBaseURL overrides the covers host used to synthesize cover URLs.
func WithCoversBaseURL(base string) Option {
	return func(p *Provider) {
		if base != "" {
			p.coversBaseURL = strings.TrimSuffix(base, "/")
		}
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

// WithRateLimiter sets a custom rate limiter.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(p *Provider) {
		if l != nil {
			p.limiter = l
		}
	}
}

// New creates an OpenLibrary provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL:       defaultBaseURL,
		coversBaseURL: defaultCoversBaseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		limiter:       ratelimit.New("OpenLibrary", ratePerSecond),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the catalog name.
func (p *Provider) Name() string {
	return "OpenLibrary"
}

// Search runs one search request against OpenLibrary and returns
// candidates in response order. matchISBN is unused; OpenLibrary's
// free-text search already matches ISBNs.
func (p *Provider) Search(ctx context.Context, query, _ string) []search.Candidate {
	docs, err := p.fetchDocs(ctx, query)
	if err != nil {
		var rateErr *errs.RateLimitError
		if errors.As(err, &rateErr) {
			slog.Warn("OpenLibrary rate limited, skipping query", "query", query)
		} else {
			slog.Warn("OpenLibrary search failed", "query", query, "error", err)
		}
		return nil
	}

	results := make([]search.Candidate, 0, len(docs))
	for _, d := range docs {
		results = append(results, p.toCandidate(d))
	}
	return results
}

func (p *Provider) fetchDocs(ctx context.Context, query string) ([]doc, error) {
	docs, _, err := cache.GetOrFetch(cache.OpenLibraryTable, query, func() ([]doc, error) {
		return p.querySearch(ctx, query)
	})
	return docs, err
}

func (p *Provider) querySearch(ctx context.Context, query string) ([]doc, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", searchLimit))

	endpoint := fmt.Sprintf("%s/search.json?%s", p.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openLibrary request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errs.NewRateLimitError("openLibrary rate limit exceeded")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("openLibrary returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode OpenLibrary response: %w", err)
	}

	return response.Docs, nil
}
