package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWindow(); err != nil {
		return err
	}
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateHTTP(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWindow() error {
	if c.Window.Days < 1 {
		return errors.New("window.days must be at least 1")
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	if err := validateBaseURL("tvmaze.base_url", c.TVMaze.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("tmdb.base_url", c.TMDB.BaseURL); err != nil {
		return err
	}
	if c.TVMaze.MinIntervalMS < 0 {
		return errors.New("tvmaze.min_interval_ms must be >= 0")
	}
	if len(c.TVMaze.Country) != 2 {
		return fmt.Errorf("tvmaze.country must be a two-letter country code, got %q", c.TVMaze.Country)
	}
	return nil
}

func (c *Config) validateFilter() error {
	if len(c.Filter.AllowedCountries) == 0 {
		return errors.New("filter.allowed_countries must include at least one country code")
	}
	if c.Filter.ExemptPanelGenres && len(c.Filter.ExemptGenres) == 0 {
		return errors.New("filter.exempt_genres must be set when filter.exempt_panel_genres is true")
	}
	return nil
}

func (c *Config) validateHTTP() error {
	if c.HTTP.TimeoutSeconds < 0 {
		return errors.New("http.timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func validateBaseURL(key, value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s is not a valid URL: %q", key, value)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https: %q", key, value)
	}
	return nil
}
