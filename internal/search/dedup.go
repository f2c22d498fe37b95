// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "github.com/pdiddy/litwatch/pkg/types"

// Deduplicate merges sources given in priority order into one sequence
// with a single record per publication. Two records are the same
// publication when they share any identity key, so a PMID-only record
// and a DOI+PMID record of the same paper collapse. The first record seen
// is kept; later duplicates only fill its empty fields. Output follows
// first-seen order. It returns the merged records and the number of
// duplicates folded away.
//
// Records sharing no key are never merged, even when their titles and
// authors are identical.
func Deduplicate(sources ...[]types.Publication) ([]types.Publication, int) {
	d := deduper{seen: make(map[string]int)}
	for _, src := range sources {
		for _, p := range src {
			d.add(p)
		}
	}

	out := make([]types.Publication, 0, len(d.kept))
	for i, p := range d.kept {
		if d.live[i] {
			out = append(out, p)
		}
	}
	return out, d.removed
}

type deduper struct {
	seen    map[string]int // identity key → index in kept
	kept    []types.Publication
	live    []bool
	removed int
}

func (d *deduper) add(p types.Publication) {
	keys := p.IdentityKeys()
	target := -1
	for _, k := range keys {
		if idx, ok := d.seen[k]; ok && (target < 0 || idx < target) {
			target = idx
		}
	}

	if target < 0 {
		p.SeenIn = appendEngine(append([]string(nil), p.SeenIn...), p.Source)
		p.Authors = append([]string(nil), p.Authors...)
		target = len(d.kept)
		d.kept = append(d.kept, p)
		d.live = append(d.live, true)
	} else {
		mergeInto(&d.kept[target], p)
		d.removed++
	}

	// p may bridge two kept records (one known by PMID, one by DOI): fold
	// the later one into target so live records never share a key.
	for _, k := range append(keys, d.kept[target].IdentityKeys()...) {
		idx, ok := d.seen[k]
		if ok && idx != target && d.live[idx] {
			if idx < target {
				idx, target = target, idx
			}
			d.fold(idx, target)
		}
		d.seen[k] = target
	}
}

// fold merges kept[from] into kept[into] and repoints its keys.
func (d *deduper) fold(from, into int) {
	mergeInto(&d.kept[into], d.kept[from])
	d.live[from] = false
	d.removed++
	for k, idx := range d.seen {
		if idx == from {
			d.seen[k] = into
		}
	}
}

// mergeInto fills empty fields of dst from src. Non-empty fields of dst are
// never overwritten.
func mergeInto(dst *types.Publication, src types.Publication) {
	fill := func(d *string, s string) {
		if *d == "" && s != "" {
			*d = s
		}
	}
	fill(&dst.DOI, src.DOI)
	fill(&dst.PMID, src.PMID)
	fill(&dst.ArxivID, src.ArxivID)
	fill(&dst.URL, src.URL)
	fill(&dst.Title, src.Title)
	fill(&dst.Abstract, src.Abstract)
	fill(&dst.Journal, src.Journal)
	fill(&dst.Source, src.Source)
	if len(dst.Authors) == 0 && len(src.Authors) > 0 {
		dst.Authors = append([]string(nil), src.Authors...)
	}
	if dst.Date.IsZero() && !src.Date.IsZero() {
		dst.Date = src.Date
	}
	for _, e := range src.SeenIn {
		dst.SeenIn = appendEngine(dst.SeenIn, e)
	}
	dst.SeenIn = appendEngine(dst.SeenIn, src.Source)
}

func appendEngine(list []string, engine string) []string {
	if engine == "" {
		return list
	}
	for _, e := range list {
		if e == engine {
			return list
		}
	}
	return append(list, engine)
}
