// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	tests := []struct {
		name string
		pub  Publication
		want string
	}{
		{
			name: "doi wins",
			pub:  Publication{DOI: "https://doi.org/10.1000/ABC", PMID: "123", ArxivID: "2401.00001"},
			want: "doi:10.1000/abc",
		},
		{
			name: "pmid before arxiv",
			pub:  Publication{PMID: " 123 ", ArxivID: "2401.00001"},
			want: "pmid:123",
		},
		{
			name: "arxiv",
			pub:  Publication{ArxivID: "2401.00001"},
			want: "arxiv:2401.00001",
		},
		{
			name: "composite",
			pub: Publication{
				Title:   "  Gene   Editing\tin Mice ",
				Authors: []string{"Doudna, Jennifer", "Smith, J"},
				Date:    PubDate{Year: 2024, Month: 3},
			},
			want: "title:gene editing in mice|doudna|2024",
		},
		{
			name: "composite without author or year",
			pub:  Publication{Title: "Gene editing"},
			want: "title:gene editing||",
		},
		{
			name: "nothing to key on",
			pub:  Publication{Authors: []string{"Doe, J"}, Date: PubDate{Year: 2024}},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pub.Identity())
		})
	}
}

func TestIdentityIgnoresFormatting(t *testing.T) {
	a := Publication{Title: "CRISPR Screens", Authors: []string{"Zhang, Feng"}, Date: PubDate{Year: 2023}}
	b := Publication{Title: "crispr  screens", Authors: []string{"Feng Zhang"}, Date: PubDate{Year: 2023, Month: 5, Day: 2}}
	assert.Equal(t, a.Identity(), b.Identity())
}

func TestIdentityKeys(t *testing.T) {
	p := Publication{DOI: "doi:10.1/X", PMID: "42", ArxivID: "2301.00001", Title: "Ignored"}
	assert.Equal(t, []string{"doi:10.1/x", "pmid:42", "arxiv:2301.00001"}, p.IdentityKeys())

	// A persistent identifier suppresses the composite key.
	assert.Equal(t, []string{"pmid:42"}, Publication{PMID: "42", Title: "Paper"}.IdentityKeys())

	composite := Publication{Title: "Paper", Authors: []string{"Doe, J"}, Date: PubDate{Year: 2020}}
	assert.Equal(t, []string{"title:paper|doe|2020"}, composite.IdentityKeys())

	assert.Empty(t, Publication{Abstract: "no title"}.IdentityKeys())
}

func TestNormalizeDOI(t *testing.T) {
	for in, want := range map[string]string{
		"10.1000/XYZ":                   "10.1000/xyz",
		"https://doi.org/10.1000/xyz":   "10.1000/xyz",
		"http://dx.doi.org/10.1000/xyz": "10.1000/xyz",
		"doi:10.1000/xyz ":              "10.1000/xyz",
		"":                              "",
	} {
		assert.Equal(t, want, NormalizeDOI(in), in)
	}
}

func TestSurname(t *testing.T) {
	assert.Equal(t, "Doudna", Surname("Doudna, Jennifer A"))
	assert.Equal(t, "Doudna", Surname("Jennifer A Doudna"))
	assert.Equal(t, "Plato", Surname("Plato"))
	assert.Equal(t, "", Surname("  "))
}

func TestInvertName(t *testing.T) {
	assert.Equal(t, "Doudna, Jennifer A", InvertName("Jennifer  A Doudna"))
	assert.Equal(t, "Doudna, Jennifer", InvertName("Doudna, Jennifer"))
	assert.Equal(t, "Plato", InvertName("Plato"))
	assert.Equal(t, "", InvertName(""))
}

func TestLink(t *testing.T) {
	assert.Equal(t, "https://example.org/p", Publication{URL: "https://example.org/p", DOI: "10.1/x"}.Link())
	assert.Equal(t, "https://doi.org/10.1/x", Publication{DOI: "10.1/x"}.Link())
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/42/", Publication{PMID: "42"}.Link())
	assert.Equal(t, "https://arxiv.org/abs/2401.1", Publication{ArxivID: "2401.1"}.Link())
	assert.Empty(t, Publication{}.Link())
}

func TestFacetTagAndCount(t *testing.T) {
	general := Facet{Kind: FacetGeneral, Total: 4}
	assert.Equal(t, "general", general.Tag())
	assert.Equal(t, "Results", general.Title())
	assert.Equal(t, "4", general.Count())

	journal := Facet{Kind: FacetJournal, Name: "Nature", Total: 10, Filtered: true, Matching: 3}
	assert.Equal(t, "journal:Nature", journal.Tag())
	assert.Equal(t, "Results from Nature", journal.Title())
	assert.Equal(t, "3/10", journal.Count())

	author := Facet{Kind: FacetAuthor, Name: "Doudna, Jennifer"}
	assert.Equal(t, "author:Doudna, Jennifer", author.Tag())
}

func TestReportCounts(t *testing.T) {
	r := &Report{}
	assert.True(t, r.IsEmpty())

	r.Facets = []Facet{
		{Kind: FacetGeneral, Publications: []Publication{{Title: "a"}, {Title: "b"}}},
		{Kind: FacetJournal, Name: "Cell"},
		{Kind: FacetAuthor, Name: "Doe, J", Publications: []Publication{{Title: "a"}}},
	}
	assert.Equal(t, 3, r.PublicationCount())
	assert.False(t, r.IsEmpty())
}
