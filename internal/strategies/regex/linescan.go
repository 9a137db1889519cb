package regex

import (
	"strings"

	"github.com/custodia-labs/verdict-cli/internal/patterns"
)

// ScanLines is the bounded fallback used when Match finds nothing.
// Only the first window lines are read. The first line carrying any
// keyword wins: its fallback patterns are tried, and failing those the
// trimmed line itself is returned. Fields marked Probe also accept a
// line on a fallback pattern hit alone. Scanning stops at the first
// qualifying line.
func ScanLines(lines []string, f *patterns.Field, window int) (string, bool) {
	if window > 0 && len(lines) > window {
		lines = lines[:window]
	}

	for _, line := range lines {
		if f.Probe() {
			if v, ok := matchLine(line, f); ok {
				return v, true
			}
		}
		if !f.HasKeyword(line) {
			continue
		}
		if v, ok := matchLine(line, f); ok {
			return v, true
		}
		if v := strings.TrimSpace(line); v != "" {
			return v, true
		}
	}
	return "", false
}

func matchLine(line string, f *patterns.Field) (string, bool) {
	for _, re := range f.Fallback() {
		if v, ok := submatch(re, line); ok {
			return v, true
		}
	}
	return "", false
}

// splitLines splits on "\n" and drops a trailing "\r" from each line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
