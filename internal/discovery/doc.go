// Package discovery walks the TVmaze daily schedules over a trailing window
// and aggregates the surviving episodes per show.
//
// Days are visited oldest first and, within a day, every schedule variant in
// order. Failed or malformed queries contribute nothing. Excluded shows are
// dropped at ingestion so they never reach identifier resolution. Episodes
// are appended as seen; duplicates across variants are resolved later by the
// catalog assembler.
package discovery
