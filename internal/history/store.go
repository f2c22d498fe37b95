// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed runs in a SQLite database so a later
// run can start where the previous one ended. Publications themselves are
// not persisted.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litwatch/pkg/types"
)

// DBFile is the database file name inside the output directory.
const DBFile = "history.db"

// timeFmt has fixed width so stored timestamps sort lexically.
const timeFmt = "2006-01-02T15:04:05.000000000Z"

// ErrNoRuns is returned by LastRun when nothing has been recorded yet.
var ErrNoRuns = errors.New("no previous run recorded")

// Run is one completed litwatch run.
type Run struct {
	ID           string
	GeneratedAt  time.Time
	StartDate    time.Time
	ReportPath   string
	Sections     int
	Publications int
	Highlighted  int
	Warnings     int

	// Counts holds "tag=count" entries, one per section, in report order.
	Counts []string
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(dir, DBFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			start_date TEXT NOT NULL,
			report_path TEXT,
			sections INTEGER NOT NULL,
			publications INTEGER NOT NULL,
			highlighted INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			counts TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewRun summarizes a report for recording.
func NewRun(r *types.Report, reportPath string) Run {
	run := Run{
		ID:           uuid.NewString(),
		GeneratedAt:  r.GeneratedAt,
		StartDate:    r.StartDate,
		ReportPath:   reportPath,
		Sections:     len(r.Facets),
		Publications: r.PublicationCount(),
		Warnings:     len(r.Warnings),
	}
	for _, f := range r.Facets {
		run.Counts = append(run.Counts, f.Tag()+"="+f.Count())
		for _, p := range f.Publications {
			if p.Highlighted {
				run.Highlighted++
			}
		}
	}
	return run
}

// Record stores a completed run. An empty ID is replaced by a new UUID.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, generated_at, start_date, report_path, sections, publications, highlighted, warnings, counts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.GeneratedAt.UTC().Format(timeFmt),
		run.StartDate.UTC().Format(timeFmt),
		run.ReportPath,
		run.Sections, run.Publications, run.Highlighted, run.Warnings,
		strings.Join(run.Counts, "\n"),
	)
	if err != nil {
		return run, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// LastRun returns the most recently generated run, or ErrNoRuns.
func (s *Store) LastRun(ctx context.Context) (Run, error) {
	runs, err := s.List(ctx, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[0], nil
}

// List returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, generated_at, start_date, report_path, sections, publications, highlighted, warnings, counts
		FROM runs ORDER BY generated_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run              Run
			generated, start string
			reportPath       sql.NullString
			counts           sql.NullString
		)
		if err := rows.Scan(&run.ID, &generated, &start, &reportPath,
			&run.Sections, &run.Publications, &run.Highlighted, &run.Warnings, &counts); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if run.GeneratedAt, err = time.Parse(timeFmt, generated); err != nil {
			return nil, fmt.Errorf("parsing generated_at of run %s: %w", run.ID, err)
		}
		if run.StartDate, err = time.Parse(timeFmt, start); err != nil {
			return nil, fmt.Errorf("parsing start_date of run %s: %w", run.ID, err)
		}
		run.ReportPath = reportPath.String
		if counts.String != "" {
			run.Counts = strings.Split(counts.String, "\n")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
