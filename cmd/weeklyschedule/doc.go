// Package main hosts the weeklyschedule CLI entrypoint and command graph.
//
// Running the binary without arguments performs one full catalog rebuild.
// The Cobra command tree also exposes an explicit build command, configuration
// scaffolding, and an inspect command that summarizes a written catalog. The
// package only resolves configuration, sets up logging, and renders output;
// the pipeline itself lives in internal/build.
package main
