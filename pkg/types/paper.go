// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litwatch pipeline:
// publications returned by search backends, the report model handed to the
// renderer, and the monitor configuration.
package types

import (
	"strings"
	"unicode"
)

// Publication is one search result, normalized across backends.
// Fields a backend cannot supply are left empty.
type Publication struct {
	// DOI is the bare Digital Object Identifier (no resolver prefix).
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PMID is the PubMed identifier.
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	// ArxivID is the arXiv identifier without version suffix.
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// URL links to the landing page of the publication.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Title is the publication title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Abstract may be truncated depending on the source.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Authors lists author names in source order, formatted "Last, First".
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Journal is the venue name; empty when unknown.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Date is the publication date, possibly year-only or year-month.
	Date PubDate `json:"date" yaml:"date"`

	// Source is the engine that produced the kept record (e.g. "pubmed").
	Source string `json:"source" yaml:"source"`

	// SeenIn lists every engine that returned this publication, in priority order.
	SeenIn []string `json:"seen_in,omitempty" yaml:"seen_in,omitempty"`

	// Highlighted is set when an author matches the highlight watch list.
	Highlighted bool `json:"highlighted" yaml:"highlighted"`

	// HighlightedAuthors holds the entries of Authors that matched.
	HighlightedAuthors []string `json:"highlighted_authors,omitempty" yaml:"highlighted_authors,omitempty"`
}

// Identity returns the primary deduplication key of the publication: the
// first of IdentityKeys, or "" when it has none.
func (p Publication) Identity() string {
	if keys := p.IdentityKeys(); len(keys) > 0 {
		return keys[0]
	}
	return ""
}

// IdentityKeys returns every key under which the publication is known, in
// the order DOI, PMID, arXiv ID. Backends report different subsets of these
// identifiers for the same work, so two records are the same publication
// when they share any key. Without a persistent identifier the only key is
// built from the normalized title, the first author's surname and the year.
// A publication with no identifier and no title has no keys and is never
// merged with another record.
func (p Publication) IdentityKeys() []string {
	var keys []string
	if doi := NormalizeDOI(p.DOI); doi != "" {
		keys = append(keys, "doi:"+doi)
	}
	if pmid := strings.TrimSpace(p.PMID); pmid != "" {
		keys = append(keys, "pmid:"+pmid)
	}
	if id := strings.ToLower(strings.TrimSpace(p.ArxivID)); id != "" {
		keys = append(keys, "arxiv:"+id)
	}
	if len(keys) > 0 {
		return keys
	}
	title := NormalizeText(p.Title)
	if title == "" {
		return nil
	}
	var first string
	if len(p.Authors) > 0 {
		first = strings.ToLower(Surname(p.Authors[0]))
	}
	var year string
	if p.Date.Year > 0 {
		year = p.Date.YearString()
	}
	return []string{"title:" + title + "|" + first + "|" + year}
}

// IsHighlightedAuthor reports whether name is one of the highlighted authors.
func (p Publication) IsHighlightedAuthor(name string) bool {
	for _, a := range p.HighlightedAuthors {
		if a == name {
			return true
		}
	}
	return false
}

// Link returns the best URL for the publication.
func (p Publication) Link() string {
	switch {
	case p.URL != "":
		return p.URL
	case p.DOI != "":
		return "https://doi.org/" + p.DOI
	case p.PMID != "":
		return "https://pubmed.ncbi.nlm.nih.gov/" + p.PMID + "/"
	case p.ArxivID != "":
		return "https://arxiv.org/abs/" + p.ArxivID
	}
	return ""
}

// NormalizeDOI lowercases a DOI and strips resolver prefixes.
func NormalizeDOI(doi string) string {
	doi = strings.ToLower(strings.TrimSpace(doi))
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.TrimSpace(doi)
}

// NormalizeText lowercases s and collapses runs of whitespace to one space.
func NormalizeText(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), unicode.IsSpace), " ")
}

// Surname returns the family name of an author formatted "Last, First".
// Names without a comma are treated as "First Last".
func Surname(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// InvertName converts "First Middle Last" into "Last, First Middle".
// Names that already contain a comma, and single-token names, are returned as is.
func InvertName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" || strings.Contains(name, ",") {
		return name
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name
	}
	return name[idx+1:] + ", " + name[:idx]
}
