package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/cssmod"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".cssmod.yaml"
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set).
	// Flag defaults are left to the fallback getters so they never shadow
	// values from the config file.
	fs := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (CSSMOD_* prefix)
	if err := k.Load(env.Provider("CSSMOD_", ".", func(s string) string {
		// CSSMOD_BUILD_SOURCE -> build.source
		// CSSMOD_VERBOSE -> verbose
		// Multi-word keys keep their dashes: CSSMOD_BUILD_OUTPUT-DIR
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "CSSMOD_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildCompileConfig constructs the library's Config struct from koanf state.
func buildCompileConfig() cssmod.Config {
	config := cssmod.Config{
		SourceDir:         getStringWithFallback("source", "build.source", "web/styles"),
		OutputDir:         getStringWithFallback("output-dir", "build.output-dir", "dist/styles"),
		ModuleType:        getStringWithFallback("module-type", "build.module-type", "css/auto"),
		LocalIdentName:    getStringWithFallback("local-ident-name", "build.local-ident-name", "[path][name]__[local]"),
		ExportsConvention: getStringWithFallback("exports-convention", "build.exports-convention", "as-is"),
		UniqueName:        getStringWithFallback("unique-name", "build.unique-name", ""),
		HashSalt:          getStringWithFallback("hash-salt", "build.hash-salt", ""),
		HashLength:        getIntWithFallback("hash-length", "build.hash-length", 0),
		PublicPath:        getStringWithFallback("public-path", "build.public-path", ""),
		ESModule:          getBoolWithFallback("es-module", "build.es-module", false),
		NamedExports:      getBoolWithFallback("named-exports", "build.named-exports", false),
		ExportsOnly:       getBoolWithFallback("exports-only", "build.exports-only", false),
		UsageManifest:     getStringWithFallback("usage", "build.usage", ""),
		HotReload:         getBoolWithFallback("hot", "build.hot", false),
		Concatenate:       getBoolWithFallback("concatenate", "build.concatenate", false),
		Verbose:           getBoolWithFallback("verbose", "verbose", false),
	}

	// Handle includes: check flag key first, then config key
	if includes := k.Strings("include"); len(includes) > 0 {
		config.Includes = includes
	} else if includes := k.Strings("build.include"); len(includes) > 0 {
		config.Includes = includes
	} else {
		config.Includes = []string{"**/*.css"}
	}

	if runtimes := k.Strings("runtime"); len(runtimes) > 0 {
		config.Runtime = runtimes
	} else {
		config.Runtime = k.Strings("build.runtime")
	}

	return config
}

// buildReportOptions constructs reporter options from koanf state.
func buildReportOptions() cssmod.ReportOptions {
	return cssmod.ReportOptions{
		UseColors:        getBoolWithFallback("color", "color", false),
		PrintIssuedLines: getBoolWithFallback("print-lines", "build.print-lines", true),
		PrintLinterName:  getBoolWithFallback("print-linter-name", "build.print-linter-name", true),
	}
}

// newLogger returns a text logger on w; debug records only show when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
