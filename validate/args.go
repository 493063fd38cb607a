package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
)

// MaxArgLength is the ceiling on a single argument's length.
const MaxArgLength = 2000

// Substrings that must never appear in an argument handed to the process
// launcher. Stricter than SanitizeForShell on purpose: this is the last line
// of defense, applied to the final argument vector.
var dangerousPatterns = []string{"$(", "`", "&&", "||", ";", "<", ">"}

// CommandArgs validates and sanitizes a final argument vector immediately
// before process launch. The whole batch fails if any argument is too long,
// matches a dangerous pattern, or becomes empty after control characters are
// stripped; there is no partial sanitized output.
func CommandArgs(args []string) ([]string, error) {
	var errs error
	sanitized := make([]string, len(args))
	for i, arg := range args {
		if len(arg) > MaxArgLength {
			errs = multierror.Append(errs, fmt.Errorf("argument %d exceeds %d characters", i, MaxArgLength))
			continue
		}
		if pattern := firstDangerousPattern(arg); pattern != "" {
			errs = multierror.Append(errs, fmt.Errorf("argument %d contains dangerous pattern %q", i, pattern))
			continue
		}
		cleaned := stripControlChars(arg)
		if cleaned == "" && arg != "" {
			errs = multierror.Append(errs, fmt.Errorf("argument %d is empty after sanitization", i))
			continue
		}
		sanitized[i] = cleaned
	}
	if errs != nil {
		return nil, errs
	}
	return sanitized, nil
}

func firstDangerousPattern(arg string) string {
	for _, pattern := range dangerousPatterns {
		if strings.Contains(arg, pattern) {
			return pattern
		}
	}
	return ""
}

func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
