// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/litwatch/internal/secrets"
	"github.com/pdiddy/litwatch/pkg/types"
)

const (
	baseDirName       = ".litwatch"
	localConfigFile   = "litwatch.yaml"
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "litwatch/0.1"
	defaultMaxResults = 500
)

// baseDir returns ~/.litwatch.
func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, baseDirName), nil
}

// defaultConfigPath prefers ./litwatch.yaml, then ~/.litwatch/config.yaml.
// It returns "" when neither exists.
func defaultConfigPath() string {
	if _, err := os.Stat(localConfigFile); err == nil {
		return localConfigFile
	}
	if dir, err := baseDir(); err == nil {
		p := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// setDefaults registers every key so environment variables can override
// keys missing from the config file.
func setDefaults(v *viper.Viper) {
	outDir := filepath.Join(baseDirName, "out")
	if dir, err := baseDir(); err == nil {
		outDir = filepath.Join(dir, "out")
	}
	v.SetDefault("email", "")
	v.SetDefault("keywords", []string{})
	v.SetDefault("journals", []string{})
	v.SetDefault("authors", []string{})
	v.SetDefault("highlight_authors", []string{})
	v.SetDefault("output_dir", outDir)
	v.SetDefault("log_level", "info")
	v.SetDefault("search.engines", []string{types.EnginePubMed})
	v.SetDefault("search.max_results", defaultMaxResults)
	v.SetDefault("search.timeout", defaultTimeout)
	v.SetDefault("search.user_agent", defaultUserAgent)
	v.SetDefault("search.email", "")
	v.SetDefault("search.ncbi_api_key", "")
	v.SetDefault("search.semantic_scholar_api_key", "")
}

// loadConfig decodes the monitor configuration, fills credentials from
// .secrets/ and validates it.
func loadConfig(v *viper.Viper, s map[string]string) (types.MonitorConfig, error) {
	var cfg types.MonitorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	secrets.Apply(s, &cfg)
	cfg.OutputDir = expandHome(cfg.OutputDir)
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = defaultTimeout
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
