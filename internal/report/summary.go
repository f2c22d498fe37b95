// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litwatch/pkg/types"
)

// FormatSummary writes a one-line-per-section table of r to w.
func FormatSummary(r *types.Report, w io.Writer) {
	if len(r.Facets) == 0 {
		fmt.Fprintln(w, "No sections configured.")
		return
	}

	fmt.Fprintf(w, "%-40s  %-9s  %-23s  %-5s  %s\n",
		"Section", "Count", "Dates", "Hl", "Warnings")
	fmt.Fprintln(w, strings.Repeat("-", 92))

	highlighted := 0
	for _, f := range r.Facets {
		title := truncate(f.Title(), 40)
		dates := ""
		if !f.Earliest.IsZero() {
			dates = f.Earliest.String() + ".." + f.Latest.String()
		}
		hl := 0
		for _, p := range f.Publications {
			if p.Highlighted {
				hl++
			}
		}
		highlighted += hl
		fmt.Fprintf(w, "%-40s  %-9s  %-23s  %-5d  %d\n",
			title, f.Count(), dates, hl, len(f.Warnings))
	}

	fmt.Fprintf(w, "\n%d publications in %d sections", r.PublicationCount(), len(r.Facets))
	if highlighted > 0 {
		fmt.Fprintf(w, " (%d highlighted)", highlighted)
	}
	fmt.Fprintln(w)
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
