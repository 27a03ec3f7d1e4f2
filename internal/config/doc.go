// Package config loads, normalizes, and validates weeklyschedule configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY. Filter policy (country allow-list, blocked channels, the
// panel-genre exemption) lives here as data so it can be tuned without code
// changes.
//
// Always obtain settings through this package so downstream code receives
// trimmed values, absolute output paths, and clear validation errors.
package config
