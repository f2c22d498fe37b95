// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/litwatch/internal/httputil"
	"github.com/pdiddy/litwatch/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

const openAlexMaxPerPage = 200

// OpenAlexBackend queries the OpenAlex API. It serves keyword and author
// facets; journal facets are left to PubMed and the feed backend.
type OpenAlexBackend struct {
	Client *httputil.Client
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() string { return types.EngineOpenAlex }

// Search queries the OpenAlex API and returns results.
func (b *OpenAlexBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Publication, error) {
	if query.Kind == types.FacetJournal {
		return nil, ErrUnsupported
	}
	if query.IsEmpty() {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	limit := maxResults(cfg)
	perPage := min(limit, openAlexMaxPerPage)
	params := url.Values{
		"per_page": {strconv.Itoa(perPage)},
		"sort":     {"publication_date:desc"},
	}

	var filters []string
	switch query.Kind {
	case types.FacetAuthor:
		filters = append(filters, "raw_author_name.search:"+givenFirst(query.Term))
	default:
		params.Set("search", query.Term)
	}
	if !query.DateFrom.IsZero() {
		filters = append(filters, "from_publication_date:"+query.DateFrom.Format("2006-01-02"))
	}
	if !query.DateTo.IsZero() {
		filters = append(filters, "to_publication_date:"+query.DateTo.Format("2006-01-02"))
	}
	if len(filters) > 0 {
		params.Set("filter", strings.Join(filters, ","))
	}
	if cfg.Email != "" {
		params.Set("mailto", cfg.Email)
	}

	// Page through the results until the limit or the last page.
	var results []types.Publication
	available := 0
	for page := 1; len(results) < limit; page++ {
		params.Set("page", strconv.Itoa(page))
		oar, err := b.fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		available = oar.Meta.Count
		for _, work := range oar.Results {
			if len(results) == limit {
				break
			}
			results = append(results, work.publication())
		}
		if len(oar.Results) < perPage || page*perPage >= available {
			break
		}
	}
	if available > len(results) {
		return results, truncated(len(results), available)
	}
	return results, nil
}

func (b *OpenAlexBackend) fetch(ctx context.Context, params url.Values) (openAlexResponse, error) {
	var oar openAlexResponse
	resp, err := b.Client.Get(ctx, openAlexSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return oar, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return oar, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return oar, nil
}

func (work openAlexWork) publication() types.Publication {
	p := types.Publication{
		Title:    strings.TrimSpace(work.Title),
		Abstract: reconstructAbstract(work.AbstractInvertedIndex),
		Journal:  work.PrimaryLocation.Source.DisplayName,
		URL:      work.PrimaryLocation.LandingPageURL,
		Source:   types.EngineOpenAlex,
	}

	for _, authorship := range work.Authorships {
		if authorship.Author.DisplayName != "" {
			p.Authors = append(p.Authors, types.InvertName(authorship.Author.DisplayName))
		}
	}

	if d, err := types.ParsePubDate(work.PublicationDate); err == nil && !d.IsZero() {
		p.Date = d
	} else if work.PublicationYear > 0 {
		p.Date = types.PubDate{Year: work.PublicationYear}
	}

	p.DOI = types.NormalizeDOI(work.DOI)
	p.PMID = strings.TrimPrefix(work.IDs.PMID, "https://pubmed.ncbi.nlm.nih.gov/")
	if p.URL == "" {
		p.URL = work.ID
	}
	return p
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationDate       string               `json:"publication_date"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	IDs                   openAlexIDs          `json:"ids"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	LandingPageURL string         `json:"landing_page_url"`
	Source         openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}

type openAlexIDs struct {
	PMID string `json:"pmid"`
}
