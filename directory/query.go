package directory

import (
	"regexp"
	"strings"
)

var inLocation = regexp.MustCompile(`(?i)([a-z ]+) in ([a-z ]+)`)

// ParseQuery splits "<specialty> in <location>". Phrases without that shape
// are treated as a bare specialty.
func ParseQuery(phrase string) SearchQuery {
	if m := inLocation.FindStringSubmatch(phrase); m != nil {
		return SearchQuery{
			Specialty: strings.TrimSpace(m[1]),
			Location:  strings.TrimSpace(m[2]),
		}
	}
	return SearchQuery{Specialty: strings.TrimSpace(phrase)}
}

// specialtyPattern builds a case-insensitive alternation anchored at a word
// start, so "ent" never matches inside "Dentist".
func specialtyPattern(terms []string) string {
	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			escaped = append(escaped, regexp.QuoteMeta(t))
		}
	}
	if len(escaped) == 0 {
		return ""
	}
	return `\b(?:` + strings.Join(escaped, "|") + `)`
}
