// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litwatch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of runs to show (0 for all)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	outDir := expandHome(viper.GetString("output_dir"))
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(outDir)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	formatRuns(runs, cmd.OutOrStdout())
	return nil
}

func formatRuns(runs []history.Run, w io.Writer) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	fmt.Fprintf(w, "%-16s  %-10s  %-8s  %-5s  %-4s  %s\n",
		"Generated", "From", "Sections", "Pubs", "Warn", "Counts")
	fmt.Fprintln(w, strings.Repeat("-", 92))
	for _, r := range runs {
		fmt.Fprintf(w, "%-16s  %-10s  %-8d  %-5d  %-4d  %s\n",
			r.GeneratedAt.Local().Format("2006-01-02 15:04"),
			r.StartDate.Local().Format("2006-01-02"),
			r.Sections, r.Publications, r.Warnings,
			strings.Join(r.Counts, ", "))
	}
}
