// Package build runs one full catalog rebuild: discovery over the trailing
// window, recency filtering, identifier resolution, assembly, and the atomic
// write of the artifact.
//
// A file lock next to the artifact keeps two builds from racing on the same
// output. Per-query and per-show failures are absorbed and counted in the
// Summary; only configuration, locking, cancellation, and write failures are
// returned as errors.
package build
