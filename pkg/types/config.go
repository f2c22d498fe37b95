package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Engine names accepted in SearchConfig.Engines.
const (
	EnginePubMed          = "pubmed"
	EngineOpenAlex        = "openalex"
	EngineSemanticScholar = "semantic_scholar"
	EngineArxiv           = "arxiv"
	EngineRSS             = "rss"
)

// KnownEngines lists every engine litwatch can query.
var KnownEngines = []string{EnginePubMed, EngineOpenAlex, EngineSemanticScholar, EngineArxiv, EngineRSS}

// HTTPConfig holds shared HTTP settings used by every backend.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the search backends.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Engines lists the enabled backends in priority order. The first
	// engine's record wins when two engines return the same publication.
	Engines []string `json:"engines" yaml:"engines" mapstructure:"engines"`

	// MaxResults caps the number of records requested per query.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Email identifies the caller to NCBI and the OpenAlex polite pool.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// NCBIAPIKey raises the PubMed rate limit from 3 to 10 requests per second.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty" mapstructure:"ncbi_api_key"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// JournalFeeds maps journal names to RSS/Atom feed URLs for the rss engine.
	JournalFeeds map[string]string `json:"journal_feeds,omitempty" yaml:"journal_feeds,omitempty" mapstructure:"journal_feeds"`
}

// HasEngine reports whether name is enabled.
func (c SearchConfig) HasEngine(name string) bool {
	for _, e := range c.Engines {
		if e == name {
			return true
		}
	}
	return false
}

// Criteria are the interest criteria of the monitor. Each list may be empty.
type Criteria struct {
	// Keywords are queried independently; each may be an AND-expression.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// Journals get one report section each, in order.
	Journals []string `json:"journals" yaml:"journals" mapstructure:"journals"`

	// Authors get one report section each, in order ("Last, First").
	Authors []string `json:"authors" yaml:"authors" mapstructure:"authors"`

	// HighlightAuthors are emphasized wherever they appear.
	HighlightAuthors []string `json:"highlight_authors" yaml:"highlight_authors" mapstructure:"highlight_authors"`
}

// WatchList returns the highlight list: HighlightAuthors followed by the
// monitored Authors, without duplicates.
func (c Criteria) WatchList() []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{c.HighlightAuthors, c.Authors} {
		for _, a := range list {
			key := NormalizeText(a)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, a)
		}
	}
	return out
}

// RunParams are the per-run switches.
type RunParams struct {
	// StartDate is the inclusive start of the search window.
	StartDate time.Time

	// FilterJournals applies the keyword filter to journal sections.
	FilterJournals bool

	// FilterAuthors applies the keyword filter to author sections.
	FilterAuthors bool

	// SuppressGeneral drops the general keyword section.
	SuppressGeneral bool
}

// MonitorConfig is the full configuration file.
type MonitorConfig struct {
	Criteria `yaml:",inline" mapstructure:",squash"`

	// Email is required by NCBI when the pubmed engine is enabled.
	Email string `json:"email" yaml:"email" mapstructure:"email"`

	// JournalFeeds maps journal names to feed URLs for the rss engine.
	JournalFeeds map[string]string `json:"journal_feeds,omitempty" yaml:"journal_feeds,omitempty" mapstructure:"journal_feeds"`

	Search SearchConfig `json:"search" yaml:"search" mapstructure:"search"`

	// OutputDir receives report.html, report.yaml and the history database.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// ConfigError reports an invalid or missing configuration field. It is
// fatal: no search is attempted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// SearchSettings returns the search configuration with the top-level
// email and journal feeds folded in.
func (c MonitorConfig) SearchSettings() SearchConfig {
	s := c.Search
	if s.Email == "" {
		s.Email = c.Email
	}
	if len(s.JournalFeeds) == 0 {
		s.JournalFeeds = c.JournalFeeds
	}
	return s
}

// Validate checks the fields the core depends on.
func (c MonitorConfig) Validate() error {
	s := c.SearchSettings()
	if len(s.Engines) == 0 {
		return &ConfigError{Field: "search.engines", Reason: "at least one engine is required"}
	}
	for _, e := range s.Engines {
		if !isKnownEngine(e) {
			return &ConfigError{
				Field:  "search.engines",
				Reason: fmt.Sprintf("unknown engine %q (known: %s)", e, strings.Join(KnownEngines, ", ")),
			}
		}
	}
	if s.HasEngine(EnginePubMed) && !ValidEmail(s.Email) {
		return &ConfigError{Field: "email", Reason: "a valid email is required for PubMed queries"}
	}
	if s.MaxResults < 0 {
		return &ConfigError{Field: "search.max_results", Reason: "must not be negative"}
	}
	if s.Timeout < 0 {
		return &ConfigError{Field: "search.timeout", Reason: "must not be negative"}
	}
	return nil
}

func isKnownEngine(name string) bool {
	for _, e := range KnownEngines {
		if e == name {
			return true
		}
	}
	return false
}
