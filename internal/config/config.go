package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Window controls the trailing date range.
type Window struct {
	Days int `toml:"days"`
}

// TVMaze contains configuration for the schedule source.
type TVMaze struct {
	BaseURL       string `toml:"base_url"`
	Country       string `toml:"country"`
	MinIntervalMS int    `toml:"min_interval_ms"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// Filter contains the content exclusion policy.
type Filter struct {
	AllowedCountries         []string `toml:"allowed_countries"`
	BlockedChannels          []string `toml:"blocked_channels"`
	BlockedChannelSubstrings []string `toml:"blocked_channel_substrings"`
	// ExemptPanelGenres lets news and talk shows through when they carry one
	// of ExemptGenres.
	ExemptPanelGenres bool     `toml:"exempt_panel_genres"`
	ExemptGenres      []string `toml:"exempt_genres"`
}

// Output describes where the catalog artifact is written.
type Output struct {
	Dir  string `toml:"dir"`
	Path string `toml:"path"`
	// LockPath defaults to a file in the system temp dir keyed by the artifact path.
	LockPath string `toml:"lock_path"`
}

// HTTP contains shared transport settings.
type HTTP struct {
	// TimeoutSeconds of 0 leaves the transport defaults in place.
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Metrics contains configuration for the run metrics textfile.
type Metrics struct {
	TextfilePath string `toml:"textfile_path"`
}

// Config encapsulates all configuration values for weeklyschedule.
//
// Configuration sections by subsystem:
//   - Window: trailing window size in days
//   - TVMaze: schedule source endpoint, national country, rate limit
//   - TMDB: identifier enrichment credentials and endpoint
//   - Filter: content exclusion policy
//   - Output: artifact location
//   - HTTP: request timeout and user agent
//   - Logging: log format, level, and optional file
//   - Metrics: optional Prometheus textfile destination
type Config struct {
	Window  Window  `toml:"window"`
	TVMaze  TVMaze  `toml:"tvmaze"`
	TMDB    TMDB    `toml:"tmdb"`
	Filter  Filter  `toml:"filter"`
	Output  Output  `toml:"output"`
	HTTP    HTTP    `toml:"http"`
	Logging Logging `toml:"logging"`
	Metrics Metrics `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/weeklyschedule/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("weeklyschedule.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// OutputPath returns the absolute artifact path.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Output.Path) {
		return c.Output.Path
	}
	return filepath.Join(c.Output.Dir, c.Output.Path)
}

// LockPath returns the lock file guarding the artifact against concurrent builds.
// It never lives inside the published catalog tree unless configured there.
func (c *Config) LockPath() string {
	if c.Output.LockPath != "" {
		return c.Output.LockPath
	}
	key := uuid.NewSHA1(uuid.NameSpaceURL, []byte(c.OutputPath()))
	return filepath.Join(os.TempDir(), "weeklyschedule-"+key.String()+".lock")
}

// TVMazeMinInterval returns the minimum spacing between schedule source calls.
func (c *Config) TVMazeMinInterval() time.Duration {
	return time.Duration(c.TVMaze.MinIntervalMS) * time.Millisecond
}

// HTTPTimeout returns the per-request timeout, or 0 for transport defaults.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// TVMazeHost returns the hostname of the schedule source, used to scope rate limiting.
func (c *Config) TVMazeHost() string {
	return hostOf(c.TVMaze.BaseURL)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
