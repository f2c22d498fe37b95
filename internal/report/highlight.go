// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"strings"

	"github.com/pdiddy/litwatch/pkg/types"
)

// Highlight flags every publication in r with at least one author whose
// normalized name contains a normalized watch-list entry, and records the
// matching authors. Flags from a previous call are cleared first. It
// returns the number of highlighted publications, counting a publication
// once per facet it appears in.
func Highlight(r *types.Report, watch []string) int {
	var needles []string
	for _, w := range watch {
		if n := types.NormalizeText(w); n != "" {
			needles = append(needles, n)
		}
	}

	count := 0
	for fi := range r.Facets {
		pubs := r.Facets[fi].Publications
		for pi := range pubs {
			p := &pubs[pi]
			p.Highlighted = false
			p.HighlightedAuthors = nil
			for _, a := range p.Authors {
				if matchesAny(types.NormalizeText(a), needles) {
					p.HighlightedAuthors = append(p.HighlightedAuthors, a)
				}
			}
			if len(p.HighlightedAuthors) > 0 {
				p.Highlighted = true
				count++
			}
		}
	}
	return count
}

func matchesAny(name string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}
