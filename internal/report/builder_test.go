// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litwatch/internal/search"
	"github.com/pdiddy/litwatch/pkg/types"
)

// fakeBackend answers from a table keyed by facet tag.
type fakeBackend struct {
	name    string
	results map[string][]types.Publication
	fail    map[string]error
	kinds   map[types.FacetKind]bool // nil serves every kind

	mu      sync.Mutex
	queries []search.Query
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Search(_ context.Context, q search.Query, _ types.SearchConfig) ([]types.Publication, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.kinds != nil && !f.kinds[q.Kind] {
		return nil, search.ErrUnsupported
	}
	if err := f.fail[q.Tag()]; err != nil {
		return nil, err
	}
	return f.results[q.Tag()], nil
}

var (
	start     = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	generated = time.Date(2024, 1, 29, 9, 30, 0, 0, time.UTC)
)

func newBuilder(backends ...search.Backend) *Builder {
	return &Builder{
		Backends: backends,
		Config:   types.SearchConfig{MaxResults: 100},
		Version:  "test",
		Now:      func() time.Time { return generated },
	}
}

func pub(pmid, title, abstract string, authors ...string) types.Publication {
	return types.Publication{PMID: pmid, Title: title, Abstract: abstract, Authors: authors, Source: "pubmed"}
}

func TestBuildFacetOrder(t *testing.T) {
	b := newBuilder(&fakeBackend{name: "pubmed"})
	c := types.Criteria{
		Keywords: []string{"cancer"},
		Journals: []string{"Nature", "Cell"},
		Authors:  []string{"Doudna, Jennifer"},
	}

	r, err := b.Build(context.Background(), c, types.RunParams{StartDate: start})
	require.NoError(t, err)

	var tags []string
	for _, f := range r.Facets {
		tags = append(tags, f.Tag())
	}
	assert.Equal(t, []string{"general", "journal:Nature", "journal:Cell", "author:Doudna, Jennifer"}, tags)
	assert.Equal(t, generated, r.GeneratedAt)
	assert.Equal(t, start, r.StartDate)
	assert.Equal(t, "test", r.Version)
}

func TestBuildGeneralFacetOmitted(t *testing.T) {
	b := newBuilder(&fakeBackend{name: "pubmed"})

	t.Run("suppressed", func(t *testing.T) {
		r, err := b.Build(context.Background(),
			types.Criteria{Keywords: []string{"cancer"}, Journals: []string{"Nature"}},
			types.RunParams{StartDate: start, SuppressGeneral: true})
		require.NoError(t, err)
		require.Len(t, r.Facets, 1)
		assert.Equal(t, types.FacetJournal, r.Facets[0].Kind)
	})

	t.Run("no keywords", func(t *testing.T) {
		r, err := b.Build(context.Background(),
			types.Criteria{Authors: []string{"Roe, R"}},
			types.RunParams{StartDate: start})
		require.NoError(t, err)
		require.Len(t, r.Facets, 1)
		assert.Equal(t, types.FacetAuthor, r.Facets[0].Kind)
	})
}

func TestBuildEmptyCriteria(t *testing.T) {
	r, err := newBuilder(&fakeBackend{name: "pubmed"}).Build(context.Background(), types.Criteria{}, types.RunParams{StartDate: start})
	require.NoError(t, err)
	assert.Empty(t, r.Facets)
	assert.True(t, r.IsEmpty())
}

func TestBuildGeneralFacetMergesKeywordsBackendMajor(t *testing.T) {
	pubmed := &fakeBackend{name: "pubmed", results: map[string][]types.Publication{
		"cancer":     {pub("1", "Tumor A", "")},
		"immunology": {pub("2", "Immune B", ""), pub("1", "Tumor A", "")},
	}}
	openalex := &fakeBackend{name: "openalex", results: map[string][]types.Publication{
		"cancer": {{PMID: "3", Title: "C", Source: "openalex"}, {PMID: "1", Abstract: "from openalex", Source: "openalex"}},
	}}

	r, err := newBuilder(pubmed, openalex).Build(context.Background(),
		types.Criteria{Keywords: []string{"cancer", "immunology"}},
		types.RunParams{StartDate: start, FilterJournals: true})
	require.NoError(t, err)
	require.Len(t, r.Facets, 1)

	f := r.Facets[0]
	var ids []string
	for _, p := range f.Publications {
		ids = append(ids, p.PMID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
	assert.Equal(t, 3, f.Total)
	assert.False(t, f.Filtered, "general facet is never filtered")
	assert.Equal(t, "from openalex", f.Publications[0].Abstract)
	assert.Equal(t, []string{"pubmed", "openalex"}, f.Publications[0].SeenIn)
}

func TestBuildJournalFilter(t *testing.T) {
	backend := &fakeBackend{name: "pubmed", results: map[string][]types.Publication{
		"journal:Nature": {
			pub("1", "Cancer immunology advances", ""),
			pub("2", "Plate tectonics", ""),
			pub("3", "Something", "a cancer study"),
		},
	}}
	c := types.Criteria{Keywords: []string{"cancer AND immunology", "cancer study"}, Journals: []string{"Nature"}}

	t.Run("filtered", func(t *testing.T) {
		r, err := newBuilder(backend).Build(context.Background(), c,
			types.RunParams{StartDate: start, FilterJournals: true, SuppressGeneral: true})
		require.NoError(t, err)
		require.Len(t, r.Facets, 1)
		f := r.Facets[0]
		assert.True(t, f.Filtered)
		assert.Equal(t, 3, f.Total)
		assert.Equal(t, 2, f.Matching)
		assert.Equal(t, "2/3", f.Count())
		require.Len(t, f.Publications, 2)
		assert.Equal(t, "1", f.Publications[0].PMID)
		assert.Equal(t, "3", f.Publications[1].PMID)
		assert.LessOrEqual(t, f.Matching, f.Total)
	})

	t.Run("unfiltered", func(t *testing.T) {
		r, err := newBuilder(backend).Build(context.Background(), c,
			types.RunParams{StartDate: start, SuppressGeneral: true})
		require.NoError(t, err)
		f := r.Facets[0]
		assert.False(t, f.Filtered)
		assert.Len(t, f.Publications, 3)
		assert.Equal(t, "3", f.Count())
	})

	t.Run("filter requested without keywords", func(t *testing.T) {
		r, err := newBuilder(backend).Build(context.Background(),
			types.Criteria{Journals: []string{"Nature"}},
			types.RunParams{StartDate: start, FilterJournals: true})
		require.NoError(t, err)
		assert.False(t, r.Facets[0].Filtered)
		assert.Len(t, r.Facets[0].Publications, 3)
	})
}

func TestBuildAuthorFilter(t *testing.T) {
	backend := &fakeBackend{name: "pubmed", results: map[string][]types.Publication{
		"author:Roe, R": {pub("1", "crispr", ""), pub("2", "other", "")},
	}}
	r, err := newBuilder(backend).Build(context.Background(),
		types.Criteria{Keywords: []string{"CRISPR"}, Authors: []string{"Roe, R"}},
		types.RunParams{StartDate: start, FilterAuthors: true, SuppressGeneral: true})
	require.NoError(t, err)
	f := r.Facets[0]
	assert.Equal(t, "1/2", f.Count())
}

func TestBuildBackendFailureBecomesWarning(t *testing.T) {
	failing := &fakeBackend{name: "openalex", fail: map[string]error{"author:Roe, R": errors.New("HTTP 503")}}
	ok := &fakeBackend{name: "pubmed", results: map[string][]types.Publication{
		"author:Roe, R": {pub("1", "t", "")},
	}}

	r, err := newBuilder(ok, failing).Build(context.Background(),
		types.Criteria{Authors: []string{"Roe, R"}}, types.RunParams{StartDate: start})
	require.NoError(t, err)
	require.Len(t, r.Facets, 1)
	assert.Len(t, r.Facets[0].Publications, 1)
	require.Len(t, r.Facets[0].Warnings, 1)
	assert.Contains(t, r.Facets[0].Warnings[0], "HTTP 503")
	assert.Equal(t, r.Facets[0].Warnings, r.Warnings)
}

func TestBuildZeroResultFacetStillPresent(t *testing.T) {
	r, err := newBuilder(&fakeBackend{name: "pubmed"}).Build(context.Background(),
		types.Criteria{Journals: []string{"Obscure Journal"}}, types.RunParams{StartDate: start})
	require.NoError(t, err)
	require.Len(t, r.Facets, 1)
	assert.Equal(t, 0, r.Facets[0].Total)
	assert.NotNil(t, r.Facets[0].Publications)
}

func TestBuildDateRange(t *testing.T) {
	backend := &fakeBackend{name: "pubmed", results: map[string][]types.Publication{
		"journal:Nature": {
			{PMID: "1", Date: types.PubDate{Year: 2024, Month: 1, Day: 20}},
			{PMID: "2"},
			{PMID: "3", Date: types.PubDate{Year: 2024, Month: 1, Day: 3}},
			{PMID: "4", Date: types.PubDate{Year: 2024, Month: 1}},
		},
	}}
	r, err := newBuilder(backend).Build(context.Background(),
		types.Criteria{Journals: []string{"Nature"}}, types.RunParams{StartDate: start})
	require.NoError(t, err)
	f := r.Facets[0]
	assert.Equal(t, types.PubDate{Year: 2024, Month: 1}, f.Earliest)
	assert.Equal(t, types.PubDate{Year: 2024, Month: 1, Day: 20}, f.Latest)
}

func TestBuildPassesStartDate(t *testing.T) {
	backend := &fakeBackend{name: "pubmed"}
	_, err := newBuilder(backend).Build(context.Background(),
		types.Criteria{Keywords: []string{"x"}}, types.RunParams{StartDate: start})
	require.NoError(t, err)
	require.Len(t, backend.queries, 1)
	assert.Equal(t, start, backend.queries[0].DateFrom)
	assert.Equal(t, types.FacetGeneral, backend.queries[0].Kind)
}

func TestBuildRequiresStartDateAndBackends(t *testing.T) {
	_, err := newBuilder(&fakeBackend{name: "pubmed"}).Build(context.Background(), types.Criteria{}, types.RunParams{})
	var cerr *types.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "start_date", cerr.Field)

	_, err = newBuilder().Build(context.Background(), types.Criteria{}, types.RunParams{StartDate: start})
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "search.engines", cerr.Field)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newBuilder(&fakeBackend{name: "pubmed"}).Build(ctx,
		types.Criteria{Journals: []string{"Nature"}}, types.RunParams{StartDate: start})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildEndToEnd(t *testing.T) {
	pubmed := &fakeBackend{name: "pubmed", results: map[string][]types.Publication{
		"cancer AND immunology": {pub("10", "Cancer immunology review", "", "Doe, John", "Roe, Richard")},
		"journal:Nature":        {pub("10", "Cancer immunology review", "", "Doe, John", "Roe, Richard"), pub("11", "Geology", "")},
		"author:Roe, Richard":   {pub("10", "Cancer immunology review", "", "Doe, John", "Roe, Richard")},
	}}
	openalex := &fakeBackend{
		name:  "openalex",
		kinds: map[types.FacetKind]bool{types.FacetGeneral: true, types.FacetAuthor: true},
		results: map[string][]types.Publication{
			"cancer AND immunology": {{DOI: "10.1/new", Title: "Immunotherapy in cancer and immunology", Authors: []string{"Zed, Z"}, Source: "openalex"}},
		},
	}
	c := types.Criteria{
		Keywords:         []string{"cancer AND immunology"},
		Journals:         []string{"Nature"},
		Authors:          []string{"Roe, Richard"},
		HighlightAuthors: []string{"Doe, John"},
	}

	r, err := newBuilder(pubmed, openalex).Build(context.Background(), c,
		types.RunParams{StartDate: start, FilterJournals: true})
	require.NoError(t, err)
	require.Len(t, r.Facets, 3)

	assert.Equal(t, "2", r.Facets[0].Count())
	assert.Equal(t, "1/2", r.Facets[1].Count())
	assert.Equal(t, "1", r.Facets[2].Count())

	n := Highlight(r, c.WatchList())
	assert.Equal(t, 3, n)
	assert.True(t, r.Facets[0].Publications[0].Highlighted)
	assert.Equal(t, []string{"Doe, John", "Roe, Richard"}, r.Facets[0].Publications[0].HighlightedAuthors)
	assert.False(t, r.Facets[0].Publications[1].Highlighted)
	assert.Empty(t, r.Warnings)
}
