package security

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy    = bluemonday.StrictPolicy()
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

// SanitizeString trims and strips control characters from short inputs.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}

// SanitizeProse strips all HTML from player-supplied prose (descriptions,
// mottos, evidence, comments).
func SanitizeProse(input string) string {
	return htmlPolicy.Sanitize(strings.TrimSpace(input))
}

// ValidateUsername checks the registration username format: alphanumeric
// and underscores, 3 to 20 characters.
func ValidateUsername(username string) bool {
	return usernameRegex.MatchString(username)
}
