// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/litwatch/internal/browser"
	"github.com/pdiddy/litwatch/internal/history"
	"github.com/pdiddy/litwatch/internal/logging"
	"github.com/pdiddy/litwatch/internal/report"
	"github.com/pdiddy/litwatch/internal/search"
	"github.com/pdiddy/litwatch/pkg/types"
)

const (
	reportFile   = "report.html"
	snapshotFile = "report.yaml"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search for new publications and write the report",
	Long: `Run queries every enabled service for publications that appeared since the
start date and writes report.html and report.yaml to the output directory.

Exactly one of --from-date, --for-weeks, --since-last or --last is required.
--last skips the search and opens the previous report.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("from-date", "d", "", "start date of the search (YYYY/MM/DD)")
	runCmd.Flags().IntP("for-weeks", "w", 0, "search the past N weeks")
	runCmd.Flags().Bool("since-last", false, "start from the date of the previous run")
	runCmd.Flags().BoolP("last", "L", false, "open the last report without searching")
	runCmd.Flags().Bool("filter-journals", false, "keep only journal results matching a keyword")
	runCmd.Flags().Bool("filter-authors", false, "keep only author results matching a keyword")
	runCmd.Flags().Bool("no-general", false, "omit the general keyword section")
	runCmd.Flags().Bool("no-open", false, "do not open the report in a browser")
	runCmd.Flags().BoolP("silent", "s", false, "only log warnings and errors")
	runCmd.Flags().String("browser", "", "command used to open the report (default: system handler)")
	runCmd.MarkFlagsMutuallyExclusive("from-date", "for-weeks", "since-last", "last")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	silent, _ := cmd.Flags().GetBool("silent")
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Silent: silent})
	if err != nil {
		return &types.ConfigError{Field: "log_level", Reason: err.Error()}
	}
	defer log.Sync()

	noOpen, _ := cmd.Flags().GetBool("no-open")
	browserCmd, _ := cmd.Flags().GetString("browser")
	htmlPath := filepath.Join(cfg.OutputDir, reportFile)

	if last, _ := cmd.Flags().GetBool("last"); last {
		if _, err := os.Stat(htmlPath); err != nil {
			return fmt.Errorf("last report not found, expected %s", htmlPath)
		}
		return browser.NewOpener(browserCmd).Open(htmlPath)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := history.Open(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	start, err := resolveStartDate(ctx, cmd, store, time.Now())
	if err != nil {
		return err
	}

	params := types.RunParams{StartDate: start}
	params.FilterJournals, _ = cmd.Flags().GetBool("filter-journals")
	params.FilterAuthors, _ = cmd.Flags().GetBool("filter-authors")
	params.SuppressGeneral, _ = cmd.Flags().GetBool("no-general")

	settings := cfg.SearchSettings()
	backends, err := search.NewBackends(settings, &http.Client{Timeout: settings.Timeout})
	if err != nil {
		return err
	}

	log.Info("starting search",
		zap.String("start_date", start.Format("2006/01/02")),
		zap.Strings("engines", settings.Engines),
		zap.Int("keywords", len(cfg.Keywords)),
		zap.Int("journals", len(cfg.Journals)),
		zap.Int("authors", len(cfg.Authors)))

	b := &report.Builder{Backends: backends, Config: settings, Logger: log, Version: version}
	r, err := b.Build(ctx, cfg.Criteria, params)
	if err != nil {
		return err
	}
	highlighted := report.Highlight(r, cfg.WatchList())
	if r.IsEmpty() {
		log.Warn("report is empty")
	}

	if err := report.WriteHTML(htmlPath, r); err != nil {
		return err
	}
	if err := report.WriteSnapshot(filepath.Join(cfg.OutputDir, snapshotFile), report.NewSnapshot(cfg.Criteria, params, r)); err != nil {
		return err
	}
	if _, err := store.Record(ctx, history.NewRun(r, htmlPath)); err != nil {
		return err
	}
	log.Info("report written",
		zap.String("path", htmlPath),
		zap.Int("publications", r.PublicationCount()),
		zap.Int("highlighted", highlighted),
		zap.Int("warnings", len(r.Warnings)))

	if !silent {
		report.FormatSummary(r, cmd.OutOrStdout())
	}
	if !noOpen {
		if err := browser.NewOpener(browserCmd).Open(htmlPath); err != nil {
			log.Warn("could not open report", zap.Error(err))
		}
	}
	return nil
}

// resolveStartDate turns --from-date, --for-weeks or --since-last into the
// inclusive start of the search window.
func resolveStartDate(ctx context.Context, cmd *cobra.Command, store *history.Store, now time.Time) (time.Time, error) {
	fromDate, _ := cmd.Flags().GetString("from-date")
	weeks, _ := cmd.Flags().GetInt("for-weeks")
	sinceLast, _ := cmd.Flags().GetBool("since-last")

	switch {
	case fromDate != "":
		return parseStartDate(fromDate)
	case cmd.Flags().Changed("for-weeks"):
		return weeksBefore(now, weeks)
	case sinceLast:
		last, err := store.LastRun(ctx)
		if errors.Is(err, history.ErrNoRuns) {
			return time.Time{}, &types.ConfigError{Field: "since-last", Reason: "no previous run recorded; use --from-date or --for-weeks"}
		}
		if err != nil {
			return time.Time{}, err
		}
		return startOfDay(last.GeneratedAt), nil
	}
	return time.Time{}, &types.ConfigError{Field: "start_date", Reason: "one of --from-date, --for-weeks, --since-last or --last is required"}
}

// parseStartDate accepts YYYY/MM/DD or YYYY-MM-DD.
func parseStartDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006/01/02", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &types.ConfigError{Field: "from-date", Reason: fmt.Sprintf("%q is not a YYYY/MM/DD date", s)}
}

func weeksBefore(now time.Time, weeks int) (time.Time, error) {
	if weeks <= 0 {
		return time.Time{}, &types.ConfigError{Field: "for-weeks", Reason: "must be positive"}
	}
	return startOfDay(now.AddDate(0, 0, -7*weeks)), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
