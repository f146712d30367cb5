package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssmod"
)

// errIssuesFound fails the command after issues have already been reported.
var errIssuesFound = errors.New("issues found")

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Compile CSS Modules stylesheets",
	Long: `Parse stylesheets, resolve composes across files, and write the rewritten CSS
next to a JavaScript export table for every module.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.String("source", "web/styles", "Source CSS directory")
	f.String("output-dir", "dist/styles", "Output directory (empty = report only)")
	f.StringSlice("include", nil, "Glob patterns for CSS files to include")
	f.String("module-type", "css/auto", "Module type: css|css/module|css/auto")
	f.String("local-ident-name", "[path][name]__[local]", "Template for scoped class names")
	f.String("exports-convention", "as-is", "Export names: as-is|camel-case|camel-case-only|dashes|dashes-only")
	f.String("unique-name", "", "Build name mixed into [uniqueName] and [hash]")
	f.String("hash-salt", "", "Salt mixed into [hash]")
	f.Int("hash-length", 0, "Length of [hash] (0 = 16)")
	f.String("public-path", "", "Prefix for rewritten url() assets")
	f.Bool("es-module", false, "Mark export tables as ES modules")
	f.Bool("named-exports", false, "Use named exports instead of a default object")
	f.Bool("exports-only", false, "Emit only JavaScript export tables")
	f.String("usage", "", "YAML usage manifest (empty = every export used)")
	f.StringSlice("runtime", nil, "Runtimes to generate for (empty = all)")
	f.Bool("hot", false, "Accept hot updates in modules without exports")
	f.Bool("concatenate", false, "Request scope concatenation")
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (linter) suffix on issues")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	config := buildCompileConfig()
	config.Logger = newLogger(os.Stderr, config.Verbose)

	result, err := cssmod.Compile(cmd.Context(), config)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "build.output-format", "")
	format := cssmod.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		if err := cssmod.WriteOutput(cmd.OutOrStdout(), result, format, buildReportOptions()); err != nil {
			return err
		}
	}

	// Exit code logic - only errors fail the build unless strict
	strict := getBoolWithFallback("strict", "build.strict", false)
	if result.ErrorCount > 0 || (strict && len(result.Issues) > 0) {
		return errIssuesFound
	}

	return nil
}
