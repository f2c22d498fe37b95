// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litwatch/pkg/types"
)

// Snapshot is the on-disk copy of a run, written next to the HTML report
// so it can be exported or re-rendered later without querying again.
type Snapshot struct {
	Criteria types.Criteria `yaml:"criteria"`
	Params   SnapshotParams `yaml:"params"`
	Report   *types.Report  `yaml:"report"`
}

// SnapshotParams stores the run switches in a serializable form.
type SnapshotParams struct {
	StartDate       string `yaml:"start_date"`
	FilterJournals  bool   `yaml:"filter_journals"`
	FilterAuthors   bool   `yaml:"filter_authors"`
	SuppressGeneral bool   `yaml:"suppress_general"`
}

const snapshotDateFmt = "2006-01-02"

// NewSnapshot bundles a report with the criteria and switches that produced it.
func NewSnapshot(c types.Criteria, p types.RunParams, r *types.Report) *Snapshot {
	return &Snapshot{
		Criteria: c,
		Params: SnapshotParams{
			StartDate:       p.StartDate.Format(snapshotDateFmt),
			FilterJournals:  p.FilterJournals,
			FilterAuthors:   p.FilterAuthors,
			SuppressGeneral: p.SuppressGeneral,
		},
		Report: r,
	}
}

// WriteSnapshot saves s as YAML to path.
func WriteSnapshot(path string, s *Snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshot loads a snapshot previously written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if s.Report == nil {
		return nil, fmt.Errorf("parsing snapshot: %s has no report", path)
	}
	return &s, nil
}
