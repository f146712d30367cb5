// Package source provides the range-based text splice buffer shared by every
// dependency template.
package source

import (
	"sort"
	"strings"
)

// replacement is one pending splice over [start, end) of the original text.
type replacement struct {
	start   int
	end     int
	content string
	order   int
}

// ReplaceSource wraps an original text and records replacements against
// byte offsets of that original. Replacements must not overlap.
type ReplaceSource struct {
	original     string
	replacements []replacement
}

// NewReplaceSource creates a splice buffer over original.
func NewReplaceSource(original string) *ReplaceSource {
	return &ReplaceSource{original: original}
}

// Original returns the unmodified text.
func (s *ReplaceSource) Original() string {
	return s.original
}

// Replace schedules the bytes in [start, end) to be replaced by content.
// An empty range inserts content at start.
func (s *ReplaceSource) Replace(start, end int, content string) {
	if start < 0 {
		start = 0
	}
	if end > len(s.original) {
		end = len(s.original)
	}
	if end < start {
		end = start
	}
	s.replacements = append(s.replacements, replacement{
		start:   start,
		end:     end,
		content: content,
		order:   len(s.replacements),
	})
}

// Insert schedules content to be inserted before offset pos.
func (s *ReplaceSource) Insert(pos int, content string) {
	s.Replace(pos, pos, content)
}

// Len returns the number of scheduled replacements.
func (s *ReplaceSource) Len() int {
	return len(s.replacements)
}

// String applies all replacements in ascending range order and returns the
// resulting text. Replacements sharing a start offset keep their call order.
func (s *ReplaceSource) String() string {
	if len(s.replacements) == 0 {
		return s.original
	}

	sorted := make([]replacement, len(s.replacements))
	copy(sorted, s.replacements)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].order < sorted[j].order
	})

	var b strings.Builder
	b.Grow(len(s.original))
	pos := 0
	for _, r := range sorted {
		if r.start < pos {
			// Overlapping ranges violate the splice contract; keep the
			// earlier replacement and clip this one.
			if r.end <= pos {
				b.WriteString(r.content)
				continue
			}
			r.start = pos
		}
		b.WriteString(s.original[pos:r.start])
		b.WriteString(r.content)
		pos = r.end
	}
	b.WriteString(s.original[pos:])
	return b.String()
}
