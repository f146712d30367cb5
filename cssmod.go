// Package cssmod compiles CSS Modules stylesheets into scoped CSS and
// JavaScript export tables.
//
// Every stylesheet is parsed once into an export graph mapping exported
// names to the scoped identifiers they resolve to, including classes composed
// from the same file or from other stylesheets. Generation filters that graph
// against a usage snapshot, then emits rewritten CSS and a matching
// JavaScript export object.
//
// # Compiling
//
//	result, err := cssmod.Compile(ctx, cssmod.Config{
//		SourceDir:         "web/styles",
//		OutputDir:         "dist/styles",
//		Includes:          []string{"**/*.css"},
//		ModuleType:        "css/auto",
//		LocalIdentName:    "[name]__[local]--[hash:6]",
//		ExportsConvention: "camel-case",
//	})
//
// # Reporting
//
//	format := cssmod.DetermineOutputFormat("issues", false)
//	err = cssmod.WriteOutput(os.Stdout, result, format, cssmod.ReportOptions{})
//
// # CLI Tool
//
//	go install github.com/yacobolo/cssmod/cmd/cssmod@latest
package cssmod
