// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/litwatch/internal/httputil"
	"github.com/pdiddy/litwatch/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticFields   = "title,abstract,authors,externalIds,year,publicationDate,venue,journal,url"
	semanticMaxLimit = 100

	// The relevance search serves at most this many records per query.
	semanticMaxResults = 1000
)

// SemanticScholarBackend queries the Semantic Scholar API. Only keyword
// facets are served: the search endpoint has no author or venue field.
type SemanticScholarBackend struct {
	Client *httputil.Client
}

// Name returns the backend identifier.
func (b *SemanticScholarBackend) Name() string { return types.EngineSemanticScholar }

// Search queries the Semantic Scholar API and returns results.
func (b *SemanticScholarBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Publication, error) {
	if query.Kind != types.FacetGeneral {
		return nil, ErrUnsupported
	}
	q := buildSemanticQuery(query.Term)
	if q == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	limit := min(maxResults(cfg), semanticMaxResults)
	pageSize := min(limit, semanticMaxLimit)
	params := url.Values{
		"query":  {q},
		"limit":  {strconv.Itoa(pageSize)},
		"fields": {semanticFields},
	}
	if r := buildDateRange(query); r != "" {
		params.Set("publicationDateOrYear", r)
	}

	var header http.Header
	if cfg.SemanticScholarAPIKey != "" {
		header = http.Header{"x-api-key": {cfg.SemanticScholarAPIKey}}
	}

	var results []types.Publication
	available := 0
	for offset := 0; len(results) < limit; offset += pageSize {
		params.Set("offset", strconv.Itoa(offset))
		sr, err := b.fetch(ctx, params, header)
		if err != nil {
			return nil, err
		}
		available = sr.Total
		for _, paper := range sr.Data {
			if len(results) == limit {
				break
			}
			results = append(results, paper.publication())
		}
		if len(sr.Data) < pageSize || offset+pageSize >= available {
			break
		}
	}
	if available > len(results) {
		return results, truncated(len(results), available)
	}
	return results, nil
}

func (b *SemanticScholarBackend) fetch(ctx context.Context, params url.Values, header http.Header) (semanticResponse, error) {
	var sr semanticResponse
	resp, err := b.Client.Get(ctx, semanticAPIBase+"?"+params.Encode(), header)
	if err != nil {
		return sr, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return sr, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return sr, nil
}

// buildSemanticQuery drops AND operators, which the relevance search does
// not understand: "cancer AND immunology" becomes "cancer immunology".
func buildSemanticQuery(expr string) string {
	terms := strings.Fields(expr)
	var parts []string
	for _, t := range terms {
		if strings.EqualFold(t, "AND") {
			continue
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}

// buildDateRange returns a publicationDateOrYear filter ("2024-01-01:").
func buildDateRange(q Query) string {
	if q.DateFrom.IsZero() && q.DateTo.IsZero() {
		return ""
	}
	var from, to string
	if !q.DateFrom.IsZero() {
		from = q.DateFrom.Format("2006-01-02")
	}
	if !q.DateTo.IsZero() {
		to = q.DateTo.Format("2006-01-02")
	}
	return from + ":" + to
}

func (paper semanticPaper) publication() types.Publication {
	p := types.Publication{
		Title:    strings.TrimSpace(paper.Title),
		Abstract: strings.TrimSpace(paper.Abstract),
		Journal:  paper.Journal.Name,
		URL:      paper.URL,
		DOI:      types.NormalizeDOI(paper.ExternalIDs.DOI),
		PMID:     paper.ExternalIDs.PubMed,
		ArxivID:  paper.ExternalIDs.ArXiv,
		Source:   types.EngineSemanticScholar,
	}
	if p.Journal == "" {
		p.Journal = paper.Venue
	}

	for _, a := range paper.Authors {
		if a.Name != "" {
			p.Authors = append(p.Authors, types.InvertName(a.Name))
		}
	}

	if d, err := types.ParsePubDate(paper.PublicationDate); err == nil && !d.IsZero() {
		p.Date = d
	} else if paper.Year > 0 {
		p.Date = types.PubDate{Year: paper.Year}
	}
	return p
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	Year            int                 `json:"year"`
	PublicationDate string              `json:"publicationDate"`
	Venue           string              `json:"venue"`
	URL             string              `json:"url"`
	Journal         semanticJournal     `json:"journal"`
	Authors         []semanticAuthor    `json:"authors"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
}

type semanticJournal struct {
	Name string `json:"name"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	PubMed   string `json:"PubMed"`
	CorpusID int    `json:"CorpusId"`
}
