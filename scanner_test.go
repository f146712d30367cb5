package cssmod

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldSkipFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "regular stylesheet", path: "/tmp/web/button.css", want: false},
		{name: "minified bundle", path: "/tmp/web/vendor/app.min.css", want: true},
		{name: "previous output", path: filepath.Join(out, "button.module.css"), want: true},
		{name: "output dir sibling", path: out + "-old/button.css", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldSkipFile(tt.path, out))
		})
	}
}

func TestScanCSSFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "dist")
	writeFiles(t, dir, map[string]string{
		"a.css":                 ".a {}",
		"nested/b.module.css":   ".b {}",
		"vendor/lib.min.css":    ".c {}",
		"dist/a.css":            ".a {}",
		"notes.txt":             "not css",
		"nested/deep/c.css":     ".c {}",
		"nested/deep/readme.md": "# styles",
	})

	files, stats, err := scanCSSFiles(dir, out, []string{"**/*.css", "*.css"})
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.ElementsMatch(t, []string{"a.css", "nested/b.module.css", "nested/deep/c.css"}, rel)
	assert.Equal(t, 5, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesScanned)
	assert.Equal(t, 2, stats.FilesSkipped)
}

func TestScanCSSFilesBadPattern(t *testing.T) {
	_, _, err := scanCSSFiles(t.TempDir(), "", []string{"[unclosed"})
	require.Error(t, err)
}
