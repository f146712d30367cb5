package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".cssmod.yaml")
	configContent := `
verbose: true

build:
  source: custom/css
  output-dir: custom/output
  exports-convention: camel-case
  hash-length: 8
  es-module: true
  runtime:
    - main
    - admin
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, "custom/css", k.String("build.source"))
	assert.Equal(t, "custom/output", k.String("build.output-dir"))
	assert.Equal(t, "camel-case", k.String("build.exports-convention"))
	assert.Equal(t, 8, k.Int("build.hash-length"))
	assert.True(t, k.Bool("build.es-module"))
	assert.Equal(t, []string{"main", "admin"}, k.Strings("build.runtime"))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// Point to non-existent config, should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.cssmod.yaml"))

	config := buildCompileConfig()
	assert.Equal(t, "web/styles", config.SourceDir)
	assert.Equal(t, "dist/styles", config.OutputDir)
	assert.Equal(t, "css/auto", config.ModuleType)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".cssmod.yaml")
	configContent := `
build:
  source: from-file
  strict: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	// Set env vars that should override config file
	t.Setenv("CSSMOD_BUILD_SOURCE", "from-env")
	t.Setenv("CSSMOD_BUILD_STRICT", "true")

	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "from-env", k.String("build.source"))
	assert.True(t, k.Bool("build.strict"))
}

func TestBuildCompileConfig_Defaults(t *testing.T) {
	resetKoanf()

	config := buildCompileConfig()
	assert.Equal(t, "web/styles", config.SourceDir)
	assert.Equal(t, "dist/styles", config.OutputDir)
	assert.Equal(t, "css/auto", config.ModuleType)
	assert.Equal(t, "[path][name]__[local]", config.LocalIdentName)
	assert.Equal(t, "as-is", config.ExportsConvention)
	assert.Equal(t, 0, config.HashLength)
	assert.False(t, config.ESModule)
	assert.False(t, config.ExportsOnly)
	assert.Empty(t, config.UsageManifest)
	assert.Empty(t, config.Runtime)
	assert.Equal(t, []string{"**/*.css"}, config.Includes)

	opts := buildReportOptions()
	assert.True(t, opts.PrintIssuedLines)
	assert.True(t, opts.PrintLinterName)
	assert.False(t, opts.UseColors)
}

func TestBuildCompileConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".cssmod.yaml")
	configContent := `
build:
  source: src/css
  output-dir: gen/out
  local-ident-name: "[hash:8]"
  usage: usage.yaml
  exports-only: true
  include:
    - "components/**/*.css"
  print-lines: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	config := buildCompileConfig()
	assert.Equal(t, "src/css", config.SourceDir)
	assert.Equal(t, "gen/out", config.OutputDir)
	assert.Equal(t, "[hash:8]", config.LocalIdentName)
	assert.Equal(t, "usage.yaml", config.UsageManifest)
	assert.True(t, config.ExportsOnly)
	assert.Equal(t, []string{"components/**/*.css"}, config.Includes)
	assert.False(t, buildReportOptions().PrintIssuedLines)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".cssmod.yaml", []byte("build:\n  source: from-file\n  output-dir: from-file-out\n"), 0644))

	require.NoError(t, buildCmd.Flags().Set("source", "from-flag"))
	t.Cleanup(func() {
		f := buildCmd.Flags().Lookup("source")
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	require.NoError(t, loadConfig(buildCmd))

	config := buildCompileConfig()
	assert.Equal(t, "from-flag", config.SourceDir)
	// Unset flags keep the config file value instead of the flag default
	assert.Equal(t, "from-file-out", config.OutputDir)
}

func TestBuildCommand(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll("styles", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("styles", "card.module.css"), []byte(".card { color: red }\n"), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })
	rootCmd.SetArgs([]string{"build", "--source", "styles", "--output-dir", "out", "--local-ident-name", "[local]_x", "--output-format", "summary"})
	require.NoError(t, rootCmd.Execute())

	js, err := os.ReadFile(filepath.Join("out", "card.module.css.js"))
	require.NoError(t, err)
	assert.Equal(t, "module.exports = {\n  \"card\": \"card_x\",\n};\n", string(js))

	css, err := os.ReadFile(filepath.Join("out", "card.module.css"))
	require.NoError(t, err)
	assert.Equal(t, ".card_x { color: red }\n", string(css))
	assert.Contains(t, out.String(), "CSS Modules Statistics")
}

func TestBuildCommand_FailsOnErrors(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll("styles", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("styles", "a.module.css"),
		[]byte(".a { composes: b from \"./missing.module.css\"; }\n"), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })
	rootCmd.SetArgs([]string{"build", "--source", "styles", "--output-dir", "out", "--output-format", "issues"})
	err := rootCmd.Execute()
	require.ErrorIs(t, err, errIssuesFound)
	assert.Contains(t, out.String(), "missing.module.css")
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	// Verify file was created
	data, err := os.ReadFile(".cssmod.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "build:")
	assert.Contains(t, string(data), "local-ident-name:")
}

func TestInitCommand_DefaultConfigLoads(t *testing.T) {
	resetKoanf()
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".cssmod.yaml", []byte(defaultConfig), 0644))
	require.NoError(t, loadConfigFromPath(".cssmod.yaml"))

	config := buildCompileConfig()
	assert.Equal(t, "web/styles", config.SourceDir)
	assert.Equal(t, "[path][name]__[local]", config.LocalIdentName)
	assert.Equal(t, []string{"**/*.css"}, config.Includes)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile(".cssmod.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile(".cssmod.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".cssmod.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "build:")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "cssmod dev\n", out.String())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, true).Debug("shown", "count", 2)
	assert.Contains(t, buf.String(), "msg=shown count=2")
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetIntWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, 42, getIntWithFallback("flag-key", "config.key", 42))
}
