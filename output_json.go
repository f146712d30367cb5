package cssmod

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string       `json:"version"`
	Timestamp string       `json:"timestamp"`
	Summary   JSONSummary  `json:"summary"`
	Stats     JSONStats    `json:"stats"`
	Issues    []JSONIssue  `json:"issues"`
	Modules   []JSONModule `json:"modules"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues  int `json:"total_issues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	FilesScanned int `json:"files_scanned"`
}

// JSONStats contains export statistics
type JSONStats struct {
	Modules      int     `json:"modules"`
	Exports      int     `json:"exports"`
	LiveExports  int     `json:"live_exports"`
	LivePercent  float64 `json:"live_percentage"`
	UnusedIdents int     `json:"unused_idents"`
	Fingerprint  string  `json:"fingerprint"`
}

// JSONIssue represents a single issue
type JSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Source   string `json:"source,omitempty"` // Optional source line
}

// JSONModule describes one generated module
type JSONModule struct {
	Path                string   `json:"path"`
	ID                  string   `json:"id"`
	Local               bool     `json:"local"`
	Exports             []string `json:"exports"`
	LiveExports         []string `json:"live_exports"`
	UnusedIdents        []string `json:"unused_idents"`
	Requests            []string `json:"requests,omitempty"`
	UsedExports         string   `json:"css_modules_metadata,omitempty"`
	RuntimeRequirements []string `json:"runtime_requirements"`
	BailoutReason       string   `json:"bailout_reason,omitempty"`
}

// WriteJSON writes the compile result as JSON
func WriteJSON(w io.Writer, result *CompileResult) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts CompileResult to JSONOutput
func buildJSONOutput(result *CompileResult) JSONOutput {
	jsonIssues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		jsonIssues[i] = JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
			Source:   source,
		}
	}

	unused := 0
	modules := make([]JSONModule, len(result.Modules))
	for i, m := range result.Modules {
		unused += len(m.UnusedIdents)
		modules[i] = JSONModule{
			Path:                m.Path,
			ID:                  m.ID,
			Local:               m.Local,
			Exports:             nonNil(m.Exports),
			LiveExports:         nonNil(m.LiveExports),
			UnusedIdents:        nonNil(m.UnusedIdents),
			Requests:            m.Requests,
			UsedExports:         m.UsedExports,
			RuntimeRequirements: nonNil(m.RuntimeRequirements),
			BailoutReason:       m.BailoutReason,
		}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       result.ErrorCount,
			Warnings:     result.WarningCount,
			FilesScanned: result.FilesScanned,
		},
		Stats: JSONStats{
			Modules:      len(result.Modules),
			Exports:      result.ExportsTotal,
			LiveExports:  result.ExportsUsed,
			LivePercent:  percentage(result.ExportsUsed, result.ExportsTotal),
			UnusedIdents: unused,
			Fingerprint:  result.Fingerprint,
		},
		Issues:  jsonIssues,
		Modules: modules,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
