package cssmodules

import (
	"fmt"
	"strings"
	"unicode"
)

// Convention controls how a declared local name becomes exported names.
type Convention string

const (
	// ConventionAsIs exports the name unchanged.
	ConventionAsIs Convention = "as-is"
	// ConventionCamelCase exports the name and its camelCase form.
	ConventionCamelCase Convention = "camel-case"
	// ConventionCamelCaseOnly exports only the camelCase form.
	ConventionCamelCaseOnly Convention = "camel-case-only"
	// ConventionDashes exports the name and its form with dashes camelized.
	ConventionDashes Convention = "dashes"
	// ConventionDashesOnly exports only the form with dashes camelized.
	ConventionDashesOnly Convention = "dashes-only"
)

// ParseConvention validates a convention name.
func ParseConvention(s string) (Convention, error) {
	switch c := Convention(strings.ToLower(strings.TrimSpace(s))); c {
	case ConventionAsIs, ConventionCamelCase, ConventionCamelCaseOnly, ConventionDashes, ConventionDashesOnly:
		return c, nil
	default:
		return "", fmt.Errorf("unknown exports convention %q", s)
	}
}

func (c Convention) asIs() bool {
	return c == ConventionAsIs || c == ConventionCamelCase || c == ConventionDashes
}

func (c Convention) camelCase() bool {
	return c == ConventionCamelCase || c == ConventionCamelCaseOnly
}

func (c Convention) dashes() bool {
	return c == ConventionDashes || c == ConventionDashesOnly
}

// ExportNames expands name under convention, deduplicated in order.
func ExportNames(name string, c Convention) []string {
	candidates := make([]string, 0, 2)
	if c.asIs() {
		candidates = append(candidates, name)
	}
	switch {
	case c.camelCase():
		candidates = append(candidates, lowerCamelCase(name))
	case c.dashes():
		candidates = append(candidates, dashesCamelCase(name))
	}

	names := make([]string, 0, len(candidates))
	for _, n := range candidates {
		if !contains(names, n) {
			names = append(names, n)
		}
	}
	return names
}

// lowerCamelCase splits name into words on separators and case boundaries
// and joins them as lowerCamelCase: "foo-bar" and "FooBar" become "fooBar".
func lowerCamelCase(name string) string {
	words := splitWords(name)
	for i, w := range words {
		lower := strings.ToLower(w)
		if i == 0 {
			words[i] = lower
			continue
		}
		runes := []rune(lower)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, "")
}

func splitWords(name string) []string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var words []string
	for _, part := range parts {
		runes := []rune(part)
		start := 0
		for i := 1; i < len(runes); i++ {
			prev, cur := runes[i-1], runes[i]
			lowerToUpper := unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev))
			acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if lowerToUpper || acronymEnd {
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
		words = append(words, string(runes[start:]))
	}
	return words
}

// dashesCamelCase upper-cases the first character after every run of dashes.
func dashesCamelCase(name string) string {
	var b strings.Builder
	upper := false
	for _, r := range name {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			if !isWordRune(r) {
				b.WriteRune('-')
			} else {
				r = unicode.ToUpper(r)
			}
			upper = false
		}
		b.WriteRune(r)
	}
	if upper {
		b.WriteRune('-')
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

func contains(slice []string, val string) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}
