package cssmod

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func findModule(t *testing.T, result *CompileResult, path string) ModuleResult {
	t.Helper()
	for _, m := range result.Modules {
		if m.Path == path {
			return m
		}
	}
	require.Failf(t, "module not found", "no module %s", path)
	return ModuleResult{}
}

var buttonFixture = map[string]string{
	"base.module.css":   ".base { margin: 0 }\n",
	"button.module.css": ".btn { color: red }\n.primary { composes: btn; composes: base from \"./base.module.css\"; }\n",
	"plain.css":         ".global { color: blue }\n",
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, buttonFixture)

	result, err := Compile(context.Background(), Config{
		SourceDir:      dir,
		LocalIdentName: "[name]__[local]",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.FilesScanned)
	assert.Empty(t, result.Issues)
	require.Len(t, result.Modules, 3)
	assert.Equal(t, "base.module.css", result.Modules[0].Path)
	assert.Equal(t, "button.module.css", result.Modules[1].Path)
	assert.Equal(t, "plain.css", result.Modules[2].Path)

	button := findModule(t, result, "button.module.css")
	assert.True(t, button.Local)
	assert.Equal(t, []string{"btn", "primary"}, button.Exports)
	assert.Equal(t, []string{"btn", "primary"}, button.LiveExports)
	assert.Equal(t, []string{"./base.module.css"}, button.Requests)
	assert.Equal(t,
		"module.exports = {\n"+
			"  \"btn\": \"button-module__btn\",\n"+
			"  \"primary\": \"button-module__primary\" + \" \" + \"button-module__btn\" + \" \" + __webpack_require__(\"base.module.css\")[\"base\"],\n"+
			"};\n",
		button.JS)
	assert.Contains(t, button.CSS, ".button-module__btn { color: red }")
	assert.Contains(t, button.CSS, ".button-module__primary {")
	assert.NotContains(t, button.CSS, "composes")
	assert.Contains(t, button.UsedExports, `primary:base\.module\.css@base/`)
	assert.Contains(t, button.RuntimeRequirements, "__webpack_require__")

	plain := findModule(t, result, "plain.css")
	assert.False(t, plain.Local)
	assert.Empty(t, plain.Exports)
	assert.Equal(t, "module.exports = {};\n", plain.JS)
	assert.Equal(t, buttonFixture["plain.css"], plain.CSS)

	assert.Equal(t, 3, result.ExportsTotal)
	assert.Equal(t, 3, result.ExportsUsed)
	assert.Len(t, result.Fingerprint, 16)
}

func TestCompileIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, buttonFixture)

	config := Config{SourceDir: dir, LocalIdentName: "[name]__[local]--[hash:6]"}
	first, err := Compile(context.Background(), config)
	require.NoError(t, err)
	second, err := Compile(context.Background(), config)
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Modules, second.Modules)
}

func TestCompileFollowsComposeOutsideIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"app/card.module.css":      ".card { composes: token from \"shared/tokens.module.css\"; }\n",
		"shared/tokens.module.css": ".token { color: red }\n",
	})

	result, err := Compile(context.Background(), Config{
		SourceDir: dir,
		Includes:  []string{"app/**/*.css"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesScanned)
	require.Len(t, result.Modules, 2)
	card := findModule(t, result, "app/card.module.css")
	assert.Contains(t, card.JS, `__webpack_require__("shared/tokens.module.css")["token"]`)
	findModule(t, result, "shared/tokens.module.css")
}

func TestCompileUnresolvedCompose(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.module.css": ".a { composes: x from \"./missing.module.css\"; }\n",
	})

	result, err := Compile(context.Background(), Config{SourceDir: dir})
	require.NoError(t, err)

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, LinterResolve, issue.FromLinter)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Contains(t, issue.Text, `"./missing.module.css"`)
	assert.Equal(t, 1, issue.Pos.Line)
	assert.Equal(t, 1, result.ErrorCount)

	a := findModule(t, result, "a.module.css")
	assert.Empty(t, a.JS)
	assert.Empty(t, a.CSS)
}

func TestCompileImportOrderWarning(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"base.css": ".x { color: red }\n",
		"a.css":    ".y { color: blue }\n@import \"./base.css\";\n",
	})

	result, err := Compile(context.Background(), Config{SourceDir: dir})
	require.NoError(t, err)

	require.NotEmpty(t, result.Issues)
	assert.Equal(t, LinterCSSModules, result.Issues[0].FromLinter)
	assert.Equal(t, 2, result.Issues[0].Pos.Line)
	assert.Equal(t, 1, result.Issues[0].Pos.Column)
}

func TestCompileUsageManifest(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, buttonFixture)
	manifest := filepath.Join(t.TempDir(), "usage.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`modules:
  button.module.css:
    other: unused
    exports:
      btn: used
      primary: unused
`), 0644))

	result, err := Compile(context.Background(), Config{
		SourceDir:      dir,
		LocalIdentName: "[name]__[local]",
		UsageManifest:  manifest,
		ESModule:       true,
	})
	require.NoError(t, err)

	button := findModule(t, result, "button.module.css")
	assert.Equal(t, []string{"btn"}, button.LiveExports)
	assert.Equal(t, "module.exports = {\n  \"btn\": \"button-module__btn\",\n};\n", button.JS)
	assert.Contains(t, button.UnusedIdents, "button-module__primary")
	assert.Equal(t, `btn:button-module__btn/&button\.module\.css`, button.UsedExports)

	// Modules missing from the manifest keep every export.
	base := findModule(t, result, "base.module.css")
	assert.Equal(t, []string{"base"}, base.LiveExports)
	assert.Contains(t, base.JS, "__webpack_require__.r(module.exports = {")
	assert.Equal(t, 3, result.ExportsTotal)
	assert.Equal(t, 2, result.ExportsUsed)
}

func TestCompileInvalidUsageManifest(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, buttonFixture)
	manifest := filepath.Join(t.TempDir(), "usage.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("modules:\n  a.css:\n    other: sometimes\n"), 0644))

	_, err := Compile(context.Background(), Config{SourceDir: dir, UsageManifest: manifest})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sometimes")
}

func TestCompileExportsOnly(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	writeFiles(t, dir, buttonFixture)

	result, err := Compile(context.Background(), Config{
		SourceDir:   dir,
		OutputDir:   out,
		ExportsOnly: true,
	})
	require.NoError(t, err)

	for _, m := range result.Modules {
		assert.Empty(t, m.CSS, m.Path)
		assert.NotEmpty(t, m.JS, m.Path)
	}
	assert.FileExists(t, filepath.Join(out, "button.module.css.js"))
	assert.NoFileExists(t, filepath.Join(out, "button.module.css"))
}

func TestCompileWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	writeFiles(t, dir, buttonFixture)

	result, err := Compile(context.Background(), Config{
		SourceDir:      dir,
		OutputDir:      out,
		LocalIdentName: "[name]__[local]",
	})
	require.NoError(t, err)

	button := findModule(t, result, "button.module.css")
	css, err := os.ReadFile(filepath.Join(out, "button.module.css"))
	require.NoError(t, err)
	assert.Equal(t, button.CSS, string(css))

	js, err := os.ReadFile(filepath.Join(out, "button.module.css.js"))
	require.NoError(t, err)
	assert.Equal(t, button.JS, string(js))
}

func TestCompileConcatenationBailout(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, buttonFixture)

	result, err := Compile(context.Background(), Config{SourceDir: dir, Concatenate: true})
	require.NoError(t, err)
	for _, m := range result.Modules {
		assert.NotEmpty(t, m.BailoutReason, m.Path)
	}
}

func TestCompileInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, buttonFixture)

	tests := []struct {
		name   string
		config Config
	}{
		{name: "module type", config: Config{SourceDir: dir, ModuleType: "css/global"}},
		{name: "convention", config: Config{SourceDir: dir, ExportsConvention: "snake"}},
		{name: "hash length", config: Config{SourceDir: dir, HashLength: 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(context.Background(), tt.config)
			require.Error(t, err)
		})
	}
}

func TestCompileCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, buttonFixture)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compile(ctx, Config{SourceDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}
