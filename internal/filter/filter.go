// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter implements the keyword filter applied to journal and
// author sections. Matching is case-insensitive substring matching on the
// title and abstract: no tokenizing, no stemming.
package filter

import (
	"strings"

	"github.com/pdiddy/litwatch/pkg/types"
)

// Expression is a conjunction of terms, e.g. "cancer AND immunology".
type Expression struct {
	// Terms are lowercased; all must occur for the expression to match.
	Terms []string
}

// Parse splits expr on the AND operator (any case, whitespace-delimited).
// Surrounding double quotes and parentheses are stripped from each term.
// Empty terms are dropped.
func Parse(expr string) Expression {
	var e Expression
	for _, t := range Terms(expr) {
		e.Terms = append(e.Terms, strings.ToLower(t))
	}
	return e
}

// Terms returns the terms of expr in their original case.
func Terms(expr string) []string {
	var terms []string
	var cur []string
	flush := func() {
		t := strings.Trim(strings.Join(cur, " "), `"() `)
		if t != "" {
			terms = append(terms, t)
		}
		cur = nil
	}
	for _, f := range strings.Fields(expr) {
		if strings.EqualFold(f, "AND") {
			flush()
			continue
		}
		cur = append(cur, f)
	}
	flush()
	return terms
}

// IsEmpty reports whether the expression has no terms.
func (e Expression) IsEmpty() bool { return len(e.Terms) == 0 }

// Match reports whether every term occurs in the title or abstract of p.
// An empty expression matches nothing.
func (e Expression) Match(p types.Publication) bool {
	if e.IsEmpty() {
		return false
	}
	text := strings.ToLower(p.Title) + "\n" + strings.ToLower(p.Abstract)
	for _, t := range e.Terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

// Set is a disjunction of expressions: a publication matches the set when
// it matches at least one expression.
type Set []Expression

// NewSet parses each keyword into an expression, skipping empty ones.
func NewSet(keywords []string) Set {
	var s Set
	for _, k := range keywords {
		if e := Parse(k); !e.IsEmpty() {
			s = append(s, e)
		}
	}
	return s
}

// Match reports whether p matches any expression of the set.
func (s Set) Match(p types.Publication) bool {
	for _, e := range s {
		if e.Match(p) {
			return true
		}
	}
	return false
}

// Apply returns the publications that match the set, in input order.
func (s Set) Apply(pubs []types.Publication) []types.Publication {
	var out []types.Publication
	for _, p := range pubs {
		if s.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
