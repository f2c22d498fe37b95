// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litwatch/internal/search"
	"github.com/pdiddy/litwatch/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	PMID           string    `yaml:"PMID,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes every publication of r as a CSL-YAML list to w. A
// publication listed in several sections is written once.
func FormatCSL(r *types.Report, w io.Writer) error {
	sources := make([][]types.Publication, 0, len(r.Facets))
	for _, f := range r.Facets {
		sources = append(sources, f.Publications)
	}
	pubs, _ := search.Deduplicate(sources...)
	items := make([]CSLItem, 0, len(pubs))
	for _, p := range pubs {
		items = append(items, toCSLItem(p))
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a Publication to a CSLItem.
func toCSLItem(p types.Publication) CSLItem {
	item := CSLItem{
		ID:             cslID(p),
		Type:           "article",
		Title:          p.Title,
		ContainerTitle: p.Journal,
		Abstract:       p.Abstract,
		DOI:            p.DOI,
		PMID:           p.PMID,
		URL:            p.Link(),
	}
	if p.Journal != "" {
		item.Type = "article-journal"
	}

	for _, a := range p.Authors {
		if n := parseAuthorName(a); n != (CSLName{}) {
			item.Author = append(item.Author, n)
		}
	}

	if !p.Date.IsZero() {
		parts := []int{p.Date.Year}
		if p.Date.Month > 0 {
			parts = append(parts, p.Date.Month)
			if p.Date.Day > 0 {
				parts = append(parts, p.Date.Day)
			}
		}
		item.Issued = &CSLDate{DateParts: [][]int{parts}}
	}
	return item
}

// cslID picks the most stable identifier available.
func cslID(p types.Publication) string {
	switch {
	case p.DOI != "":
		return p.DOI
	case p.PMID != "":
		return "pmid:" + p.PMID
	case p.ArxivID != "":
		return "arxiv:" + p.ArxivID
	}
	id := strings.ToLower(types.Surname(firstAuthor(p))) + p.Date.YearString()
	if id == "" {
		id = "untitled"
	}
	return id
}

func firstAuthor(p types.Publication) string {
	if len(p.Authors) == 0 {
		return ""
	}
	return p.Authors[0]
}

// parseAuthorName splits "Last, First" into CSL family/given parts. Names
// without a comma split on the last space; single-token names use the
// literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if i := strings.Index(name, ","); i >= 0 {
		return CSLName{
			Family: strings.TrimSpace(name[:i]),
			Given:  strings.TrimSpace(name[i+1:]),
		}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
