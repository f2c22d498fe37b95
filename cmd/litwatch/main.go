// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litwatch CLI. litwatch queries
// bibliographic services for new publications matching keywords, journals
// and authors, and renders them into one HTML report.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litwatch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the litwatch CLI.
var rootCmd = &cobra.Command{
	Use:   "litwatch",
	Short: "Monitor the literature for new publications",
	Long: `litwatch searches PubMed, OpenAlex, Semantic Scholar, arXiv and journal
feeds for publications that appeared since a given date. Results are grouped
into one section for the configured keywords, one per journal and one per
author, deduplicated across services, and rendered as an HTML report with
watched authors highlighted.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litwatch.yaml or ~/.litwatch/config.yaml)")
}

func initConfig() {
	// A missing .env file is normal.
	_ = godotenv.Load()

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("LITWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	explicit := cfgFile != ""
	if !explicit {
		cfgFile = defaultConfigPath()
	}
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		if explicit {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Ignoring config file:", err)
		return
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
