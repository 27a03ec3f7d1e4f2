// Package metrics records per-run Prometheus metrics and writes them in the
// node-exporter textfile format once the build finishes.
//
// Each Recorder owns a private registry so tests and repeated runs never
// collide on global collector registration.
package metrics
