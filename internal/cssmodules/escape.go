package cssmodules

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	cssEscaper     = regexp.MustCompile(`[^a-zA-Z0-9_\x{0081}-\x{ffff}-]`)
	cssUnescaper   = regexp.MustCompile(`\\(?:([0-9a-fA-F]{1,6})[ \t\n\r\f]?|([\s\S]))`)
	commentPattern = regexp.MustCompile(`/\*[\s\S]*?\*/`)
)

// EscapeCSS backslash-escapes every character that may not appear in a CSS
// identifier. Unless omitUnderscore is set, a result starting with a digit
// (and not with "--") gets a leading underscore.
func EscapeCSS(s string, omitUnderscore bool) string {
	escaped := cssEscaper.ReplaceAllStringFunc(s, func(m string) string {
		return `\` + m
	})
	if !omitUnderscore && !strings.HasPrefix(escaped, "--") && startsWithDigit(escaped) {
		return "_" + escaped
	}
	return escaped
}

// Unescape reverses CSS escapes: hex code points and escaped characters.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return cssUnescaper.ReplaceAllStringFunc(s, func(m string) string {
		sub := cssUnescaper.FindStringSubmatch(m)
		if sub[1] == "" {
			return sub[2]
		}
		cp, err := strconv.ParseUint(sub[1], 16, 32)
		if err != nil || cp == 0 || cp > utf8.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
			return string(utf8.RuneError)
		}
		return string(rune(cp))
	})
}

// stripComments removes /* */ comments from an :export value.
func stripComments(s string) string {
	return commentPattern.ReplaceAllString(s, "")
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
