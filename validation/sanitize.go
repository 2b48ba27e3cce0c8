package validation

import (
	"html"
	"regexp"
	"strings"
)

// maxInputLength is the cap applied by SanitizeInput, mirroring the
// client-side form sanitizer.
const maxInputLength = 1000

// dangerousPatterns are the injection markers rejected or stripped from
// submitted fields. Matching is case-insensitive.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>`),
	regexp.MustCompile(`(?i)</script\s*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
}

// htmlTags matches any remaining markup after the dangerous patterns are gone.
var htmlTags = regexp.MustCompile(`<[^>]*>`)

// inputStripper removes the characters the form-side sanitizer removes.
var inputStripper = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "`", "")

// ContainsDangerous reports whether s matches any known injection pattern.
func ContainsDangerous(s string) bool {
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// StripDangerous removes injection patterns and any remaining HTML tags,
// then trims surrounding whitespace.
func StripDangerous(s string) string {
	for _, pattern := range dangerousPatterns {
		s = pattern.ReplaceAllString(s, "")
	}
	s = htmlTags.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// SanitizeMessage prepares a message body for storage: injection patterns and
// tags are stripped and whatever remains is HTML-escaped.
func SanitizeMessage(s string) string {
	return html.EscapeString(StripDangerous(s))
}

// SanitizeInput removes angle brackets and quote characters and caps the
// result at 1000 characters. Applying it twice yields the same output as
// applying it once.
func SanitizeInput(s string) string {
	s = inputStripper.Replace(s)
	runes := []rune(s)
	if len(runes) > maxInputLength {
		runes = runes[:maxInputLength]
	}
	return strings.TrimSpace(string(runes))
}
