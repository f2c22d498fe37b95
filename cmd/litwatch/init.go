// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litwatch/pkg/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a template configuration file",
	Long: `Init writes a configuration template with empty criteria. Fill in keywords,
journals and authors before the first run. An existing file is never
overwritten unless --force is given.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("email", "", "contact email sent to NCBI and OpenAlex (required)")
	initCmd.Flags().String("path", "", "where to write the file (default ~/.litwatch/config.yaml)")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	path, _ := cmd.Flags().GetString("path")
	force, _ := cmd.Flags().GetBool("force")

	if !types.ValidEmail(email) {
		return &types.ConfigError{Field: "email", Reason: "pass a valid --email; NCBI requires one for PubMed queries"}
	}
	if path == "" {
		dir, err := baseDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := configTemplate(email)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Fill in keywords, journals and authors before running.\n", path)
	return nil
}

// configTemplate returns the YAML of a configuration with empty criteria.
func configTemplate(email string) ([]byte, error) {
	cfg := types.MonitorConfig{
		Criteria: types.Criteria{
			Keywords:         []string{},
			Journals:         []string{},
			Authors:          []string{},
			HighlightAuthors: []string{},
		},
		Email:        email,
		JournalFeeds: map[string]string{},
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{Timeout: defaultTimeout, UserAgent: defaultUserAgent},
			Engines:    []string{types.EnginePubMed},
			MaxResults: defaultMaxResults,
		},
		OutputDir: "~/" + baseDirName + "/out",
		LogLevel:  "info",
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling template: %w", err)
	}
	return data, nil
}
