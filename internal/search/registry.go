// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"net/http"

	"github.com/pdiddy/litwatch/internal/httputil"
	"github.com/pdiddy/litwatch/pkg/types"
)

// Requests per second allowed for each engine.
const (
	pubmedRate        = 3
	pubmedRateWithKey = 10
	openAlexRate      = 10
	semanticRate      = 1
	arxivRate         = 1.0 / 3
	feedRate          = 2
	defaultUserAgent  = "litwatch/0.1"
)

// NewBackends builds the enabled backends in the configured priority
// order. Each backend gets its own rate limiter over the shared client.
func NewBackends(cfg types.SearchConfig, hc *http.Client) ([]Backend, error) {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	var backends []Backend
	for _, name := range cfg.Engines {
		switch name {
		case types.EnginePubMed:
			perSecond := float64(pubmedRate)
			if cfg.NCBIAPIKey != "" {
				perSecond = pubmedRateWithKey
			}
			backends = append(backends, &PubMedBackend{Client: httputil.NewClient(hc, perSecond, ua)})
		case types.EngineOpenAlex:
			backends = append(backends, &OpenAlexBackend{Client: httputil.NewClient(hc, openAlexRate, ua)})
		case types.EngineSemanticScholar:
			backends = append(backends, &SemanticScholarBackend{Client: httputil.NewClient(hc, semanticRate, ua)})
		case types.EngineArxiv:
			backends = append(backends, &ArxivBackend{Client: httputil.NewClient(hc, arxivRate, ua)})
		case types.EngineRSS:
			backends = append(backends, &FeedBackend{Client: httputil.NewClient(hc, feedRate, ua)})
		default:
			return nil, &types.ConfigError{Field: "search.engines", Reason: fmt.Sprintf("unknown engine %q", name)}
		}
	}
	if len(backends) == 0 {
		return nil, &types.ConfigError{Field: "search.engines", Reason: "at least one engine is required"}
	}
	return backends, nil
}
