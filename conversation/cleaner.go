package conversation

import (
	"regexp"
	"strings"
)

// Cleaning patterns applied to every extracted fragment before display.
var (
	boldSpanRegex     = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	emphasisRegex     = regexp.MustCompile("[*_~`#]+")
	pictographicRegex = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2190}-\x{21FF}\x{2B00}-\x{2BFF}\x{FE00}-\x{FE0F}\x{200D}]`)
	bulletPrefixRegex = regexp.MustCompile(`^\s*(?:[-•‣▪]|\d+[.)])\s+`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
)

// Clean normalizes an extracted fragment for display: emphasis-wrapped
// spans become plain text, remaining markup and pictographic symbols are
// dropped, a single leading bullet marker is stripped and runs of
// whitespace collapse to one space.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = boldSpanRegex.ReplaceAllString(s, "$1$2")
	s = bulletPrefixRegex.ReplaceAllString(s, "")
	s = emphasisRegex.ReplaceAllString(s, "")
	s = pictographicRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
