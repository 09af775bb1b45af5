package services

import (
	"regexp"
	"strings"
)

var (
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// siteNameFixes are known misspellings seen in the field spreadsheets, matched
// case-insensitively. Replacements never reintroduce a pattern, which keeps
// SiteKey idempotent.
var siteNameFixes = []struct {
	from *regexp.Regexp
	to   string
}{
	{regexp.MustCompile(`(?i)cinemaas`), "cinemas"},
	{regexp.MustCompile(`(?i)cinmas`), "cinemas"},
	{regexp.MustCompile(`(?i)cinemass`), "cinemas"},
	{regexp.MustCompile(`(?i)multiplexx`), "multiplex"},
	{regexp.MustCompile(`(?i)theatre`), "theater"},
	{regexp.MustCompile(`(?i)mall mall`), "mall"},
}

// NormalizeSerial canonicalizes a projector serial number.
func NormalizeSerial(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// CleanSiteName trims, collapses internal whitespace and fixes known typos while
// keeping the operator's casing. This is the value stored on new sites.
func CleanSiteName(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	for _, fix := range siteNameFixes {
		for fix.from.MatchString(s) {
			s = fix.from.ReplaceAllStringFunc(s, func(m string) string {
				return matchCase(m, fix.to)
			})
		}
	}
	return s
}

// SiteKey is the matching key for site names. It is never stored.
func SiteKey(s string) string {
	return strings.ToLower(CleanSiteName(s))
}

// matchCase carries the casing of the first letter of original onto replacement.
func matchCase(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if first := original[:1]; strings.ToUpper(first) == first {
		return strings.ToUpper(replacement[:1]) + replacement[1:]
	}
	return replacement
}

func compactHeader(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ToLower(strings.TrimSpace(s))
	return nonAlphaNum.ReplaceAllString(s, "")
}

func optionalString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
