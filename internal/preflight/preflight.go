package preflight

import (
	"context"
	"path/filepath"
	"strings"

	"weeklyschedule/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", nearestExisting(filepath.Dir(cfg.OutputPath()))),
		CheckTVMaze(ctx, cfg.TVMaze.BaseURL, cfg.TVMaze.Country, cfg.HTTP.UserAgent),
	}

	if strings.TrimSpace(cfg.TMDB.APIKey) == "" {
		results = append(results, Result{Name: "TMDB", Passed: true, Detail: "api key not set (fallbacks disabled)"})
	} else {
		results = append(results, CheckTMDB(ctx, cfg.TMDB.BaseURL, cfg.TMDB.APIKey))
	}

	if path := cfg.Logging.File; path != "" {
		results = append(results, CheckDirectoryAccess("Log directory", nearestExisting(filepath.Dir(path))))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
