// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litwatch/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the last report's publications",
	Long: `Export reads the snapshot saved by the last run and writes its publications
as CSL-YAML, ready for Pandoc or a reference manager. Nothing is searched.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("csl", "", "write CSL-YAML to this file (- for stdout)")
	exportCmd.Flags().String("snapshot", "", "snapshot to read (default <output_dir>/report.yaml)")
	exportCmd.MarkFlagRequired("csl")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cslPath, _ := cmd.Flags().GetString("csl")
	snapPath, _ := cmd.Flags().GetString("snapshot")
	if snapPath == "" {
		snapPath = filepath.Join(expandHome(viper.GetString("output_dir")), snapshotFile)
	}

	snap, err := report.ReadSnapshot(snapPath)
	if err != nil {
		return err
	}

	if cslPath == "-" {
		return report.FormatCSL(snap.Report, cmd.OutOrStdout())
	}
	f, err := os.Create(cslPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", cslPath, err)
	}
	if err := report.FormatCSL(snap.Report, f); err != nil {
		f.Close()
		return fmt.Errorf("writing CSL: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sections to %s\n", len(snap.Report.Facets), cslPath)
	return nil
}
