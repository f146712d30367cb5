package cssmod

import (
	"github.com/yacobolo/cssmod/internal/cssmodules"
	"github.com/yacobolo/cssmod/internal/lexer"
)

// Issue represents a single stylesheet problem in golangci-lint format
type Issue struct {
	FromLinter  string     `json:"FromLinter"`  // "cssmodules"
	Text        string     `json:"Text"`        // "Any '@import' rules must precede all other rules"
	Severity    string     `json:"Severity"`    // "", "warning", "error"
	SourceLines []string   `json:"SourceLines"` // Lines of code with issue
	Pos         IssuePos   `json:"Pos"`         // File location
	LineRange   *LineRange `json:"LineRange"`   // Optional range
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "web/styles/button.module.css"
	Line     int    `json:"Line"`     // 35
	Column   int    `json:"Column"`   // 15 (1-based)
	Offset   int    `json:"Offset"`   // Byte offset into the file
}

// LineRange specifies a range of lines
type LineRange struct {
	From int `json:"From"`
	To   int `json:"To"`
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// Linter names
const (
	LinterCSSModules = "cssmodules"
	LinterResolve    = "resolve"
)

// IssueType constants
const (
	IssueUnresolvedCompose = "cannot resolve %q composed from %q"
	IssueUnresolvedImport  = "cannot resolve @import %q"
)

// issueFromDiagnostic converts a parser diagnostic for file into an Issue
func issueFromDiagnostic(file string, d cssmodules.Diagnostic) Issue {
	issue := Issue{
		FromLinter: LinterCSSModules,
		Text:       d.Message,
		Severity:   string(d.Severity),
		Pos: IssuePos{
			Filename: file,
			Line:     d.Line,
			Column:   d.Column,
			Offset:   d.Start,
		},
	}
	if d.SourceLine != "" {
		issue.SourceLines = []string{d.SourceLine}
	}
	return issue
}

// resolveIssue reports a request in src that did not resolve to a file
func resolveIssue(file, src string, rng lexer.Range, text string) Issue {
	d := cssmodules.NewDiagnostic(src, rng.Start, rng.End, cssmodules.SeverityError, text)
	issue := issueFromDiagnostic(file, d)
	issue.FromLinter = LinterResolve
	return issue
}
