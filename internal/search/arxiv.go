// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/litwatch/internal/filter"
	"github.com/pdiddy/litwatch/internal/httputil"
	"github.com/pdiddy/litwatch/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivBackend queries the arXiv API. It serves keyword and author facets.
type ArxivBackend struct {
	Client *httputil.Client
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return types.EngineArxiv }

// Search queries the arXiv API and returns results.
func (b *ArxivBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Publication, error) {
	if query.Kind == types.FacetJournal {
		return nil, ErrUnsupported
	}
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults(cfg))},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	resp, err := b.Client.Get(ctx, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var results []types.Publication
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		p := types.Publication{
			ArxivID:  arxivID,
			DOI:      types.NormalizeDOI(entry.DOI),
			Title:    strings.Join(strings.Fields(entry.Title), " "),
			Abstract: strings.Join(strings.Fields(entry.Summary), " "),
			Journal:  strings.TrimSpace(entry.JournalRef),
			URL:      "https://arxiv.org/abs/" + arxivID,
			Source:   types.EngineArxiv,
		}
		for _, a := range entry.Authors {
			if name := strings.TrimSpace(a.Name); name != "" {
				p.Authors = append(p.Authors, types.InvertName(name))
			}
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			p.Date = types.DateOf(t)
		}
		results = append(results, p)
	}
	if feed.TotalResults > len(feed.Entries) {
		return results, truncated(len(feed.Entries), feed.TotalResults)
	}
	return results, nil
}

// buildArxivQuery constructs the search_query parameter. Keyword
// expressions become AND-joined all: clauses; authors become an au: phrase.
func buildArxivQuery(q Query) string {
	var parts []string
	switch q.Kind {
	case types.FacetAuthor:
		name := givenFirst(q.Term)
		if name == "" {
			return ""
		}
		parts = append(parts, `au:"`+name+`"`)
	default:
		for _, term := range filter.Terms(q.Term) {
			if strings.Contains(term, " ") {
				term = `"` + term + `"`
			}
			parts = append(parts, "all:"+term)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	if !q.DateFrom.IsZero() {
		to := "300001010000"
		if !q.DateTo.IsZero() {
			to = q.DateTo.Format("200601021504")
		}
		parts = append(parts, fmt.Sprintf("submittedDate:[%s TO %s]", q.DateFrom.Format("200601021504"), to))
	}
	return strings.Join(parts, " AND ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	TotalResults int          `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	Entries      []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string        `xml:"id"`
	Title      string        `xml:"title"`
	Summary    string        `xml:"summary"`
	Published  string        `xml:"published"`
	DOI        string        `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef string        `xml:"http://arxiv.org/schemas/atom journal_ref"`
	Authors    []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
