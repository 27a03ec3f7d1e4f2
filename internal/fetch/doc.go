// Package fetch implements the JSON source adapter shared by the upstream
// clients.
//
// A Fetcher performs GET requests, validates the JSON payload, and reports
// every outcome through a typed Result instead of an error return: transport
// failures, non-2xx responses, and undecodable bodies are distinguishable by
// Kind while callers that only care about "data or no data" use FetchJSON.
// Hosts registered as throttled pass through a RateLimiter that enforces a
// minimum spacing between consecutive calls to the same host. The limiter's
// clock and sleeper are injectable so tests can assert pacing without real
// delays.
package fetch
