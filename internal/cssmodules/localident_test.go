package cssmodules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateResolver(t *testing.T) {
	tests := []struct {
		name     string
		opts     LocalIdentOptions
		resource string
		local    string
		want     string
	}{
		{
			name:     "name and local",
			opts:     LocalIdentOptions{Template: "[name]__[local]"},
			resource: "src/button.module.css",
			local:    "primary",
			want:     "button-module__primary",
		},
		{
			name:     "default template relative to context",
			opts:     LocalIdentOptions{Context: "/proj"},
			resource: "/proj/src/a.css",
			local:    "x",
			want:     "src-a__x",
		},
		{
			name:     "ext and folder",
			opts:     LocalIdentOptions{Template: "[folder][ext]-[local]"},
			resource: "styles/card.css",
			local:    "x",
			want:     "styles-css-x",
		},
		{
			name:     "unique name",
			opts:     LocalIdentOptions{Template: "[uniqueName]-[local]", UniqueName: "app"},
			resource: "a.css",
			local:    "x",
			want:     "app-x",
		},
		{
			name:     "leading digit gets underscore",
			opts:     LocalIdentOptions{Template: "[local]"},
			resource: "a.css",
			local:    "1x",
			want:     "_1x",
		},
		{
			name:     "leading dashes get underscore",
			opts:     LocalIdentOptions{Template: "[local]"},
			resource: "a.css",
			local:    "--x",
			want:     "_--x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewTemplateResolver(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.LocalIdent(tt.resource, tt.local))
		})
	}
}

func TestTemplateResolverHash(t *testing.T) {
	r, err := NewTemplateResolver(LocalIdentOptions{Template: "x[hash:8]", HashSalt: "salt"})
	require.NoError(t, err)

	first := r.LocalIdent("src/a.css", "foo")
	assert.Len(t, first, 9)
	assert.Equal(t, first, r.LocalIdent("src/a.css", "foo"))
	assert.NotEqual(t, first, r.LocalIdent("src/a.css", "bar"))
	assert.NotEqual(t, first, r.LocalIdent("src/b.css", "foo"))

	full, err := NewTemplateResolver(LocalIdentOptions{Template: "x[hash]", HashSalt: "salt"})
	require.NoError(t, err)
	assert.Len(t, full.LocalIdent("src/a.css", "foo"), 17)
	assert.Equal(t, first, full.LocalIdent("src/a.css", "foo")[:9])
}

func TestTemplateResolverRejectsHashLength(t *testing.T) {
	_, err := NewTemplateResolver(LocalIdentOptions{HashLength: 17})
	assert.Error(t, err)
}
