// Package fileutil holds filesystem helpers for publishing build artifacts.
package fileutil
