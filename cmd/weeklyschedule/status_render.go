package main

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// statusLabel renders a bracketed status tag such as [OK].
func statusLabel(status string, colorize bool) string {
	label := "[" + strings.ToUpper(status) + "]"
	if !colorize {
		return label
	}
	switch strings.ToLower(status) {
	case "ok":
		return ansiGreen + label + ansiReset
	case "empty", "warn":
		return ansiYellow + label + ansiReset
	default:
		return ansiRed + label + ansiReset
	}
}
