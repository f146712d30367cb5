package cssmod

import (
	"fmt"
	"io"
	"strings"
)

// VerboseReporter prints compilation statistics and per-module details
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs compilation totals
func (r *VerboseReporter) PrintStatistics(result CompileResult) {
	local := 0
	unused := 0
	for _, m := range result.Modules {
		if m.Local {
			local++
		}
		unused += len(m.UnusedIdents)
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "CSS Modules Statistics", r.useColors))
	fmt.Fprintln(r.w, "----------------------")

	fmt.Fprintf(r.w, "Files Scanned:      %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Files Skipped:      %d\n", result.FilesSkipped)
	fmt.Fprintf(r.w, "Modules:            %d (%d scoped)\n", len(result.Modules), local)
	fmt.Fprintf(r.w, "Exports:            %d\n", result.ExportsTotal)
	fmt.Fprintf(r.w, "Live Exports:       %d (%.1f%%)\n", result.ExportsUsed, percentage(result.ExportsUsed, result.ExportsTotal))
	fmt.Fprintf(r.w, "Unused Identifiers: %d\n", unused)
	fmt.Fprintf(r.w, "Fingerprint:        %s\n", result.Fingerprint)
}

// PrintModules lists every scoped module with its exports
func (r *VerboseReporter) PrintModules(result CompileResult) {
	if len(result.Modules) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Modules", r.useColors))
	fmt.Fprintln(r.w, "-------")

	for _, m := range result.Modules {
		fmt.Fprintf(r.w, "%s", m.Path)
		if len(m.RuntimeRequirements) > 0 {
			fmt.Fprintf(r.w, " %s", RenderStyle(StyleGray, "["+strings.Join(m.RuntimeRequirements, ", ")+"]", r.useColors))
		}
		fmt.Fprintln(r.w, "")

		if len(m.LiveExports) > 0 {
			fmt.Fprintf(r.w, "  exports: %s\n", RenderStyle(StyleGreen, strings.Join(m.LiveExports, " "), r.useColors))
		}
		if len(m.UnusedIdents) > 0 {
			fmt.Fprintf(r.w, "  unused:  %s\n", RenderStyle(StyleGray, strings.Join(m.UnusedIdents, " "), r.useColors))
		}
		if m.BailoutReason != "" {
			fmt.Fprintf(r.w, "  not concatenated: %s\n", m.BailoutReason)
		}
	}
}

// PrintWarnings shows compiler warnings
func (r *VerboseReporter) PrintWarnings(result CompileResult) {
	if len(result.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")

	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(part) * 100 / float64(total)
}
