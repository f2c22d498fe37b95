// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// FacetKind tags what a report section was queried by.
type FacetKind string

const (
	FacetGeneral FacetKind = "general"
	FacetJournal FacetKind = "journal"
	FacetAuthor  FacetKind = "author"
)

// Facet is one named section of the report.
type Facet struct {
	Kind FacetKind `json:"kind" yaml:"kind"`

	// Name is the journal or author name; empty for the general facet.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Publications are the records shown in the section. For a filtered
	// facet these are the records that matched the keyword filter.
	Publications []Publication `json:"publications" yaml:"publications"`

	// Total counts every distinct record fetched for the facet before filtering.
	Total int `json:"total" yaml:"total"`

	// Filtered is set when the keyword filter was applied to the facet.
	Filtered bool `json:"filtered" yaml:"filtered"`

	// Matching counts the records that passed the filter. Only meaningful
	// when Filtered is set.
	Matching int `json:"matching,omitempty" yaml:"matching,omitempty"`

	// Earliest and Latest bound the publication dates of Publications.
	Earliest PubDate `json:"earliest" yaml:"earliest"`
	Latest   PubDate `json:"latest" yaml:"latest"`

	// Warnings collects backend failures that affected this facet.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Tag returns the facet tag: "general", "journal:<name>" or "author:<name>".
func (f Facet) Tag() string {
	if f.Kind == FacetGeneral {
		return string(FacetGeneral)
	}
	return string(f.Kind) + ":" + f.Name
}

// Title returns the section heading.
func (f Facet) Title() string {
	if f.Kind == FacetGeneral {
		return "Results"
	}
	return "Results from " + f.Name
}

// Count returns "matching/total" for filtered facets and "total" otherwise.
func (f Facet) Count() string {
	if f.Filtered {
		return fmt.Sprintf("%d/%d", f.Matching, f.Total)
	}
	return fmt.Sprintf("%d", f.Total)
}

// Report is the ordered set of facets produced by one run.
type Report struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// StartDate is the inclusive start of the search window.
	StartDate time.Time `json:"start_date" yaml:"start_date"`

	Version string `json:"version" yaml:"version"`

	Facets []Facet `json:"facets" yaml:"facets"`

	// Warnings collects every backend failure of the run.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// PublicationCount returns the number of publications shown across facets.
func (r *Report) PublicationCount() int {
	n := 0
	for _, f := range r.Facets {
		n += len(f.Publications)
	}
	return n
}

// IsEmpty reports whether the report shows no publications at all.
func (r *Report) IsEmpty() bool {
	return r.PublicationCount() == 0
}
