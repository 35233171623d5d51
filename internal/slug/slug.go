// Package slug normalizes free-form issue titles into branch-name-safe slugs.
package slug

import "strings"

// MaxLen caps the slug portion of a branch name. Truncation may land
// mid-word; git does not care and neither do we.
const MaxLen = 50

// Make converts the provided text to a lowercase ASCII slug with hyphens.
// The result contains only [a-z0-9-], never starts or ends with a hyphen,
// never contains consecutive hyphens, and is at most MaxLen characters.
// Titles with no alphanumeric characters collapse to the empty string.
func Make(text string) string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return ""
	}

	var builder strings.Builder
	builder.Grow(len(clean))
	prevHyphen := false
	for _, r := range strings.ToLower(clean) {
		switch {
		case r >= 'a' && r <= 'z':
			builder.WriteRune(r)
			prevHyphen = false
		case r >= '0' && r <= '9':
			builder.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				builder.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	s := strings.Trim(builder.String(), "-")
	if len(s) > MaxLen {
		s = strings.TrimRight(s[:MaxLen], "-")
	}
	return s
}
