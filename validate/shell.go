package validate

import (
	"regexp"
	"strings"
)

const shellMetaChars = ";&|`$(){}[]\\"

// Output-template placeholders like %(title)s must survive sanitization even
// though they contain shell metacharacters; the downstream tool's naming
// syntax depends on them.
var templatePlaceholder = regexp.MustCompile(`%\([A-Za-z0-9_]+\)[A-Za-z]`)

// SanitizeForShell strips a fixed set of shell metacharacters from a string
// while preserving template-style percent-parenthesis placeholders. The
// operation is idempotent.
func SanitizeForShell(s string) string {
	var b strings.Builder
	last := 0
	for _, span := range templatePlaceholder.FindAllStringIndex(s, -1) {
		b.WriteString(stripMetaChars(s[last:span[0]]))
		b.WriteString(s[span[0]:span[1]])
		last = span[1]
	}
	b.WriteString(stripMetaChars(s[last:]))
	return b.String()
}

func stripMetaChars(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(shellMetaChars, r) {
			return -1
		}
		return r
	}, s)
}
