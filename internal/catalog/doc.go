// Package catalog assembles, orders, and serializes the series catalog
// document consumed by the addon: {"metas": [...]}.
//
// Output is deterministic: videos and metas are fully ordered, and encoding
// uses a fixed indentation with HTML escaping disabled, so identical inputs
// produce byte-identical files. Write replaces the artifact atomically.
package catalog
