// Package search implements the kagi_search tool: it fires the given queries
// as independent concurrent fetches, bounds each one with a hard timeout, and
// folds successes and failures into a single formatted report. A failed query
// never discards the results of the others.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kagimcp/kagimcp/internal/infra/kagi"
)

// Fetcher runs one search query. Implemented by the kagi transport client.
type Fetcher interface {
	FetchSearch(ctx context.Context, query string) ([]kagi.SearchResult, error)
}

// Service aggregates concurrent search fetches into one report.
type Service struct {
	fetcher Fetcher
	timeout time.Duration
	log     *slog.Logger
}

// NewService creates a Service. timeout bounds each individual query.
func NewService(fetcher Fetcher, timeout time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{fetcher: fetcher, timeout: timeout, log: log}
}

// queryOutcome is the result slot for one query; slots keep request order
// regardless of completion order.
type queryOutcome struct {
	query   string
	results []kagi.SearchResult
	err     error
}

// Run fetches every query concurrently and returns the aggregated report.
// Individual failures are reported inline; only an empty query list is an
// error.
func (s *Service) Run(ctx context.Context, queries []string) (string, error) {
	cleaned := make([]string, 0, len(queries))
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	if len(cleaned) == 0 {
		return "", fmt.Errorf("search: at least one non-empty query is required")
	}

	outcomes := make([]queryOutcome, len(cleaned))
	var wg sync.WaitGroup
	for i, q := range cleaned {
		wg.Add(1)
		go func() {
			defer wg.Done()
			qctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			results, err := s.fetcher.FetchSearch(qctx, q)
			if err != nil {
				s.log.Warn("search query failed", "query", q, "error", err)
			}
			outcomes[i] = queryOutcome{query: q, results: results, err: err}
		}()
	}
	wg.Wait()

	return renderReport(outcomes), nil
}

// renderReport formats all outcomes, one block per query in request order.
func renderReport(outcomes []queryOutcome) string {
	var b strings.Builder
	for _, o := range outcomes {
		if b.Len() > 0 {
			b.WriteString("\n-----\n")
		}
		switch {
		case o.err != nil:
			fmt.Fprintf(&b, "Query %q failed: %v\n", o.query, o.err)
		case len(o.results) == 0:
			fmt.Fprintf(&b, "No results for %q.\n", o.query)
		default:
			fmt.Fprintf(&b, "Results for %q:\n", o.query)
			for i, r := range o.results {
				fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
				if r.Snippet != "" {
					fmt.Fprintf(&b, "   %s\n", r.Snippet)
				}
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
