// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// plainText strips markup (e.g. <i>, <sup>, feed HTML) from s and collapses
// whitespace. Unparseable input is returned trimmed.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// givenFirst turns "Doudna, Jennifer" into "Jennifer Doudna", the order the
// free-text author fields of OpenAlex and arXiv expect. Commas would also
// break their query syntax.
func givenFirst(name string) string {
	if i := strings.Index(name, ","); i >= 0 {
		name = name[i+1:] + " " + name[:i]
	}
	return strings.Join(strings.Fields(name), " ")
}
