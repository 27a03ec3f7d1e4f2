// Package tmdb provides the minimal TMDB API client used for identifier
// enrichment.
//
// It authenticates requests and exposes two lookups: find-by-external-id for
// shows that carry a TheTVDB id, and TV search by name with an optional first
// air year. Requests go through the shared fetcher so failures are classified
// the same way as schedule fetches.
package tmdb
