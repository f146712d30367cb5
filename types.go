package cssmod

import "log/slog"

// Config holds compiler configuration
type Config struct {
	Logger            *slog.Logger // nil discards log output
	SourceDir         string       // "web/styles"
	OutputDir         string       // "dist/styles" (empty = do not write files)
	Includes          []string     // ["**/*.css"]
	ModuleType        string       // css | css/module | css/auto (default: css/auto)
	LocalIdentName    string       // "[path][name]__[local]"
	ExportsConvention string       // as-is | camel-case | camel-case-only | dashes | dashes-only
	UniqueName        string       // Mixed into [uniqueName] and [hash]
	HashSalt          string
	HashLength        int    // Truncates [hash] (0 = 16 hex digits)
	PublicPath        string // Prefix for rewritten url() assets (empty = keep requests)
	ESModule          bool
	NamedExports      bool
	ExportsOnly       bool     // Emit only the JavaScript export table
	UsageManifest     string   // YAML usage snapshot (empty = every export used)
	Runtime           []string // Runtimes to generate for (empty = all)
	HotReload         bool
	Concatenate       bool // Ask for scope merging; CSS modules always bail out
	Verbose           bool
}

// ModuleResult is the generated output of one stylesheet
type ModuleResult struct {
	Path                string   // Slash path relative to SourceDir
	ID                  string   // Runtime module id
	Local               bool     // Local names were scoped
	CSS                 string   // Rewritten stylesheet ("" when exports only)
	JS                  string   // Export table
	UsedExports         string   // CSS modules metadata string
	Exports             []string // Every exported name
	LiveExports         []string // Exported names the usage oracle keeps
	UnusedIdents        []string
	Requests            []string // @import and composes requests
	RuntimeRequirements []string
	BailoutReason       string // Why the module was not concatenated
}

// CompileResult contains compilation output and stats
type CompileResult struct {
	FilesScanned int
	FilesSkipped int
	Modules      []ModuleResult
	Issues       []Issue
	ErrorCount   int
	WarningCount int
	ExportsTotal int
	ExportsUsed  int
	Fingerprint  string // xxhash of every output, stable across runs
	Warnings     []string
}

// ReportOptions controls human-readable output
type ReportOptions struct {
	UseColors        bool
	PrintIssuedLines bool
	PrintLinterName  bool
}

// OutputFormat represents the report output format
type OutputFormat string

const (
	// OutputIssues shows only errors/warnings in golangci-lint format (CI-friendly)
	OutputIssues OutputFormat = "issues"
	// OutputSummary shows per-module statistics only
	OutputSummary OutputFormat = "summary"
	// OutputFull shows issues + statistics
	OutputFull OutputFormat = "full"
	// OutputJSON exports structured data in JSON format (tooling integration)
	OutputJSON OutputFormat = "json"
)
