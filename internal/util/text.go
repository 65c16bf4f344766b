package util

import (
	"regexp"
	"strings"
)

var reSpaceRun = regexp.MustCompile(`\s{2,}`)

// OCR output renders the occasional non-breaking space; it counts as a
// plain space everywhere downstream.
const nbsp = "\u00A0"

// SplitLines breaks recognized text into trimmed, non-empty lines,
// preserving order. Non-breaking spaces are normalized to plain spaces
// so the quantity tokenizer sees them as separators.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, nbsp, " ")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CollapseSpaceRuns replaces every run of two or more whitespace
// characters with a single space, treating non-breaking spaces as
// whitespace.
func CollapseSpaceRuns(input string) string {
	input = strings.ReplaceAll(input, nbsp, " ")
	return reSpaceRun.ReplaceAllString(input, " ")
}
