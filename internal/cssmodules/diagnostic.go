package cssmodules

import (
	"strings"
	"unicode/utf8"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a user-facing problem found in a stylesheet. Line and Column
// are 1-based; Column counts runes.
type Diagnostic struct {
	Severity   Severity
	Message    string
	Start      int
	End        int
	Line       int
	Column     int
	SourceLine string
}

// NewDiagnostic locates [start, end) in src.
func NewDiagnostic(src string, start, end int, sev Severity, msg string) Diagnostic {
	start = max(0, min(start, len(src)))
	end = max(start, min(end, len(src)))

	lineStart := strings.LastIndexByte(src[:start], '\n') + 1
	lineEnd := strings.IndexByte(src[start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += start
	}

	return Diagnostic{
		Severity:   sev,
		Message:    msg,
		Start:      start,
		End:        end,
		Line:       strings.Count(src[:start], "\n") + 1,
		Column:     utf8.RuneCountInString(src[lineStart:start]) + 1,
		SourceLine: strings.TrimRight(src[lineStart:lineEnd], "\r"),
	}
}
