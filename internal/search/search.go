// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries bibliographic APIs and merges their results into
// one deduplicated sequence per report facet.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/litwatch/pkg/types"
)

// ErrUnsupported is returned by a backend that cannot serve a facet kind
// (e.g. journal queries against arXiv). It is a skip, not a failure.
var ErrUnsupported = errors.New("facet kind not supported by backend")

// ErrTruncated marks a backend result that holds fewer records than the
// service reports as matching. The records returned with it are valid.
var ErrTruncated = errors.New("results truncated")

// defaultMaxResults caps a query when the configuration sets no limit.
const defaultMaxResults = 500

func truncated(returned, available int) error {
	return fmt.Errorf("%w: returned %d of %d matching records", ErrTruncated, returned, available)
}

func maxResults(cfg types.SearchConfig) int {
	if cfg.MaxResults <= 0 {
		return defaultMaxResults
	}
	return cfg.MaxResults
}

// Backend searches a single bibliographic API. Adding a backend must not
// require changes to deduplication or report building.
type Backend interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Publication, error)
}

// Query is one (facet, term) request sent to a backend.
type Query struct {
	Kind types.FacetKind

	// Term is a keyword expression, a journal name or an author name
	// depending on Kind.
	Term string

	// DateFrom is the inclusive start of the search window.
	DateFrom time.Time

	// DateTo is the inclusive end of the window; zero means open-ended.
	DateTo time.Time
}

// IsEmpty reports whether the query contains no searchable term.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Term) == ""
}

// Tag returns the facet tag the query belongs to.
func (q Query) Tag() string {
	if q.Kind == types.FacetGeneral {
		return q.Term
	}
	return string(q.Kind) + ":" + q.Term
}

// Outcome holds the raw results of a facet, ready for deduplication.
type Outcome struct {
	// Sources holds one slice per (backend, term) pair, backend-major in
	// priority order.
	Sources [][]types.Publication

	// Warnings describes failed or truncated backend calls.
	Warnings []string
}

// Collect sends every term of a facet to every backend. Calls run
// concurrently, but each result lands in a fixed slot so the order of
// Sources depends only on backend priority and term order. A failed call
// contributes zero records and a warning; a truncated one keeps its
// records and adds a warning.
func Collect(ctx context.Context, backends []Backend, kind types.FacetKind, terms []string, from time.Time, cfg types.SearchConfig, log *zap.Logger) Outcome {
	if log == nil {
		log = zap.NewNop()
	}

	type slot struct {
		results []types.Publication
		err     error
	}
	slots := make([]slot, len(backends)*len(terms))

	var wg sync.WaitGroup
	for bi, b := range backends {
		for ti, term := range terms {
			wg.Add(1)
			go func(i int, b Backend, q Query) {
				defer wg.Done()
				log.Debug("querying backend", zap.String("backend", b.Name()), zap.String("query", q.Tag()))
				results, err := b.Search(ctx, q, cfg)
				slots[i] = slot{results: results, err: err}
			}(bi*len(terms)+ti, b, Query{Kind: kind, Term: term, DateFrom: from})
		}
	}
	wg.Wait()

	var out Outcome
	for i, s := range slots {
		b := backends[i/len(terms)]
		q := Query{Kind: kind, Term: terms[i%len(terms)]}
		switch {
		case errors.Is(s.err, ErrUnsupported):
			log.Debug("backend skipped facet", zap.String("backend", b.Name()), zap.String("query", q.Tag()))
			continue
		case errors.Is(s.err, ErrTruncated):
			msg := fmt.Sprintf("%s (%s): %v", b.Name(), q.Tag(), s.err)
			out.Warnings = append(out.Warnings, msg)
			log.Warn("results truncated", zap.String("backend", b.Name()), zap.String("query", q.Tag()), zap.Error(s.err))
		case s.err != nil:
			msg := fmt.Sprintf("%s (%s): %v", b.Name(), q.Tag(), s.err)
			out.Warnings = append(out.Warnings, msg)
			log.Warn("backend failed", zap.String("backend", b.Name()), zap.String("query", q.Tag()), zap.Error(s.err))
			continue
		case cfg.MaxResults > 0 && len(s.results) >= cfg.MaxResults:
			msg := fmt.Sprintf("%s (%s): returned %d results, the maximum; some may be missing", b.Name(), q.Tag(), len(s.results))
			out.Warnings = append(out.Warnings, msg)
			log.Warn("results may be truncated", zap.String("backend", b.Name()), zap.String("query", q.Tag()), zap.Int("max_results", cfg.MaxResults))
		}
		log.Info("backend returned", zap.String("backend", b.Name()), zap.String("query", q.Tag()), zap.Int("results", len(s.results)))
		out.Sources = append(out.Sources, s.results)
	}
	return out
}
