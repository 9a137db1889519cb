package regex

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/verdict-cli/internal/patterns"
)

// Match applies the field's primary patterns to the whole text in
// registered order and returns the first non-blank hit. Group 1 is used
// when the pattern captures, group 0 otherwise. Title-like fields keep
// only the first line of the match.
func Match(text string, f *patterns.Field) (string, bool) {
	for _, re := range f.Primary() {
		v, ok := submatch(re, text)
		if !ok {
			continue
		}
		if f.FirstLine() {
			v = firstLine(v)
		}
		if v != "" {
			return v, true
		}
	}
	return "", false
}

// submatch returns the trimmed capture of the first match of re in s.
func submatch(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	v := m[0]
	if len(m) > 1 {
		v = m[1]
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
