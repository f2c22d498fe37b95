// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litwatch/pkg/types"
)

func TestToCSLItem(t *testing.T) {
	p := types.Publication{
		DOI:      "10.1038/x",
		PMID:     "1",
		Title:    "A study",
		Authors:  []string{"Doe, John A", "Consortium", "Jane Roe"},
		Journal:  "Nature",
		Date:     types.PubDate{Year: 2024, Month: 3},
		Abstract: "abs",
	}
	item := toCSLItem(p)

	assert.Equal(t, "10.1038/x", item.ID)
	assert.Equal(t, "article-journal", item.Type)
	assert.Equal(t, "Nature", item.ContainerTitle)
	assert.Equal(t, "1", item.PMID)
	assert.Equal(t, []CSLName{
		{Family: "Doe", Given: "John A"},
		{Literal: "Consortium"},
		{Family: "Roe", Given: "Jane"},
	}, item.Author)
	require.NotNil(t, item.Issued)
	assert.Equal(t, [][]int{{2024, 3}}, item.Issued.DateParts)
}

func TestCSLIDFallbacks(t *testing.T) {
	tests := []struct {
		name string
		p    types.Publication
		want string
	}{
		{"doi", types.Publication{DOI: "10.1/a", PMID: "1"}, "10.1/a"},
		{"pmid", types.Publication{PMID: "1", ArxivID: "2401.1"}, "pmid:1"},
		{"arxiv", types.Publication{ArxivID: "2401.1"}, "arxiv:2401.1"},
		{"author year", types.Publication{Authors: []string{"Doe, J"}, Date: types.PubDate{Year: 2020}}, "doe2020"},
		{"nothing", types.Publication{}, "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cslID(tt.p))
		})
	}
}

func TestFormatCSLDeduplicatesAcrossSections(t *testing.T) {
	shared := types.Publication{PMID: "1", Title: "Shared"}
	r := &types.Report{Facets: []types.Facet{
		{Kind: types.FacetGeneral, Publications: []types.Publication{shared, {DOI: "10.1/b", Title: "B"}}},
		{Kind: types.FacetJournal, Name: "Cell", Publications: []types.Publication{shared}},
	}}

	var buf bytes.Buffer
	require.NoError(t, FormatCSL(r, &buf))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "pmid:1", items[0].ID)
	assert.Equal(t, "article", items[0].Type)
	assert.Equal(t, "10.1/b", items[1].ID)
	assert.Equal(t, 1, strings.Count(buf.String(), "title: Shared"))
}

func TestFormatCSLEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatCSL(&types.Report{}, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatCSLMergesIdentifierSubsets(t *testing.T) {
	r := &types.Report{Facets: []types.Facet{
		{Kind: types.FacetGeneral, Publications: []types.Publication{{PMID: "7", Title: "Paper"}}},
		{Kind: types.FacetAuthor, Name: "Doe, J", Publications: []types.Publication{{PMID: "7", DOI: "10.1/p", Title: "Paper"}}},
	}}

	var buf bytes.Buffer
	require.NoError(t, FormatCSL(r, &buf))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "10.1/p", items[0].ID)
}
