// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/litwatch/internal/httputil"
	"github.com/pdiddy/litwatch/pkg/types"
)

// FeedBackend reads journal table-of-contents feeds (RSS or Atom). It only
// serves journal facets whose journal has a configured feed URL.
type FeedBackend struct {
	Client *httputil.Client
}

// Name returns the backend identifier.
func (b *FeedBackend) Name() string { return types.EngineRSS }

// Search fetches the journal's feed and returns the items published on or
// after the start date. Items without a date are kept.
func (b *FeedBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Publication, error) {
	if query.Kind != types.FacetJournal {
		return nil, ErrUnsupported
	}
	feedURL := lookupFeed(cfg.JournalFeeds, query.Term)
	if feedURL == "" {
		return nil, ErrUnsupported
	}

	resp, err := b.Client.Get(ctx, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	var results []types.Publication
	for _, item := range feed.Items {
		p := feedPublication(item, query.Term)
		if !query.DateFrom.IsZero() && !p.Date.IsZero() && p.Date.Before(types.DateOf(query.DateFrom)) {
			continue
		}
		if !query.DateTo.IsZero() && !p.Date.IsZero() && types.DateOf(query.DateTo).Before(p.Date) {
			continue
		}
		results = append(results, p)
	}
	return results, nil
}

// lookupFeed finds the feed URL for a journal, ignoring case and spacing.
func lookupFeed(feeds map[string]string, journal string) string {
	if u, ok := feeds[journal]; ok {
		return u
	}
	key := types.NormalizeText(journal)
	for name, u := range feeds {
		if types.NormalizeText(name) == key {
			return u
		}
	}
	return ""
}

func feedPublication(item *gofeed.Item, journal string) types.Publication {
	p := types.Publication{
		Title:    plainText(item.Title),
		Abstract: plainText(item.Description),
		Journal:  journal,
		URL:      item.Link,
		Source:   types.EngineRSS,
	}
	if p.Abstract == "" {
		p.Abstract = plainText(item.Content)
	}

	for _, a := range item.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			p.Authors = append(p.Authors, splitAuthors(a.Name)...)
		}
	}
	if len(p.Authors) == 0 && item.DublinCoreExt != nil {
		for _, c := range item.DublinCoreExt.Creator {
			p.Authors = append(p.Authors, splitAuthors(c)...)
		}
	}

	p.DOI = feedDOI(item)

	switch {
	case item.PublishedParsed != nil:
		p.Date = types.DateOf(*item.PublishedParsed)
	case item.UpdatedParsed != nil:
		p.Date = types.DateOf(*item.UpdatedParsed)
	case item.DublinCoreExt != nil && len(item.DublinCoreExt.Date) > 0:
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(item.DublinCoreExt.Date[0])); err == nil {
			p.Date = types.DateOf(t)
		}
	}
	return p
}

// splitAuthors splits a feed author field that may list several names
// separated by commas or " and ", normalizing each to "Last, First".
func splitAuthors(field string) []string {
	field = strings.ReplaceAll(field, " and ", ", ")
	var out []string
	for _, name := range strings.Split(field, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, types.InvertName(name))
		}
	}
	return out
}

// feedDOI reads the DOI from prism:doi or a "doi:" dc:identifier.
func feedDOI(item *gofeed.Item) string {
	if prism, ok := item.Extensions["prism"]; ok {
		for _, ext := range prism["doi"] {
			if ext.Value != "" {
				return types.NormalizeDOI(ext.Value)
			}
		}
	}
	if item.DublinCoreExt != nil {
		for _, id := range item.DublinCoreExt.Identifier {
			if strings.HasPrefix(strings.ToLower(id), "doi:") {
				return types.NormalizeDOI(id)
			}
		}
	}
	return ""
}
