// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report turns monitoring criteria into a sectioned report and
// renders it as HTML, a terminal summary, a YAML snapshot or CSL.
package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/litwatch/internal/filter"
	"github.com/pdiddy/litwatch/internal/search"
	"github.com/pdiddy/litwatch/pkg/types"
)

// Builder queries the backends for every facet of the criteria and
// assembles the report.
type Builder struct {
	// Backends in priority order.
	Backends []search.Backend

	Config types.SearchConfig
	Logger *zap.Logger

	// Version is stamped on the report.
	Version string

	// Now returns the generation time; time.Now when nil.
	Now func() time.Time
}

// Build produces the report for one run. Facets come in a fixed order:
// the general keyword facet, then one facet per journal, then one per
// author. Backend failures become warnings; only configuration problems
// and cancellation are returned as errors.
func (b *Builder) Build(ctx context.Context, c types.Criteria, p types.RunParams) (*types.Report, error) {
	if p.StartDate.IsZero() {
		return nil, &types.ConfigError{Field: "start_date", Reason: "a search start date is required"}
	}
	if len(b.Backends) == 0 {
		return nil, &types.ConfigError{Field: "search.engines", Reason: "at least one engine is required"}
	}
	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	r := &types.Report{
		GeneratedAt: now(),
		StartDate:   p.StartDate,
		Version:     b.Version,
	}
	keywords := filter.NewSet(c.Keywords)

	add := func(f types.Facet) {
		r.Facets = append(r.Facets, f)
		r.Warnings = append(r.Warnings, f.Warnings...)
		log.Info("section built",
			zap.String("facet", f.Tag()),
			zap.String("count", f.Count()),
			zap.Int("warnings", len(f.Warnings)))
	}

	if len(c.Keywords) > 0 && !p.SuppressGeneral {
		add(b.facet(ctx, log, types.FacetGeneral, "", c.Keywords, p.StartDate, nil))
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("building report: %w", err)
		}
	}

	var journalFilter, authorFilter filter.Set
	if p.FilterJournals {
		journalFilter = keywords
	}
	if p.FilterAuthors {
		authorFilter = keywords
	}

	for _, j := range c.Journals {
		add(b.facet(ctx, log, types.FacetJournal, j, []string{j}, p.StartDate, journalFilter))
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("building report: %w", err)
		}
	}
	for _, a := range c.Authors {
		add(b.facet(ctx, log, types.FacetAuthor, a, []string{a}, p.StartDate, authorFilter))
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("building report: %w", err)
		}
	}
	return r, nil
}

// facet collects, deduplicates and optionally filters one section. An
// empty filter set leaves the facet unfiltered.
func (b *Builder) facet(ctx context.Context, log *zap.Logger, kind types.FacetKind, name string, terms []string, from time.Time, keep filter.Set) types.Facet {
	out := search.Collect(ctx, b.Backends, kind, terms, from, b.Config, log)
	pubs, removed := search.Deduplicate(out.Sources...)
	if removed > 0 {
		log.Debug("duplicates removed", zap.String("facet", string(kind)+":"+name), zap.Int("removed", removed))
	}

	f := types.Facet{
		Kind:         kind,
		Name:         name,
		Publications: pubs,
		Total:        len(pubs),
		Warnings:     out.Warnings,
	}
	if len(keep) > 0 {
		f.Publications = keep.Apply(pubs)
		f.Filtered = true
		f.Matching = len(f.Publications)
	}
	if f.Publications == nil {
		f.Publications = []types.Publication{}
	}
	f.Earliest, f.Latest = dateRange(f.Publications)
	return f
}

// dateRange returns the earliest and latest known dates of pubs.
func dateRange(pubs []types.Publication) (earliest, latest types.PubDate) {
	for _, p := range pubs {
		if p.Date.IsZero() {
			continue
		}
		if earliest.IsZero() || p.Date.Before(earliest) {
			earliest = p.Date
		}
		if latest.IsZero() || latest.Before(p.Date) {
			latest = p.Date
		}
	}
	return earliest, latest
}
