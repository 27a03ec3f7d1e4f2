// Package textutil provides the text normalization shared by the content
// filter and the catalog assembler: Unicode case folding for rule matching and
// markup stripping for summaries.
package textutil
