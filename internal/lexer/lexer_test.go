package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		mode     Mode
		wantDeps []Dependency
		wantWarn []WarningKind
	}{
		{
			name: "local class",
			src:  ".foo { color: red }",
			mode: ModeLocal,
			wantDeps: []Dependency{
				LocalClass{Name: ".foo", Range: Range{Start: 0, End: 4}},
			},
		},
		{
			name: "plain css ignores classes",
			src:  ".foo { color: red }",
			mode: ModeCSS,
		},
		{
			name: "local id",
			src:  "#main {}",
			mode: ModeLocal,
			wantDeps: []Dependency{
				LocalID{Name: "#main", Range: Range{Start: 0, End: 5}},
			},
		},
		{
			name: "composes from another module",
			src:  `.a { composes: b c from "./x.css"; }`,
			mode: ModeLocal,
			wantDeps: []Dependency{
				LocalClass{Name: ".a", Range: Range{Start: 0, End: 2}},
				Composes{
					LocalClasses: []string{"a"},
					Names:        []string{"b", "c"},
					From:         `"./x.css"`,
					Range:        Range{Start: 5, End: 34},
				},
				Replace{Range: Range{Start: 5, End: 34}},
			},
		},
		{
			name: "composes from global",
			src:  ".a { composes: b from global }",
			mode: ModeLocal,
			wantDeps: []Dependency{
				LocalClass{Name: ".a", Range: Range{Start: 0, End: 2}},
				Composes{
					LocalClasses: []string{"a"},
					Names:        []string{"b"},
					From:         "global",
					Range:        Range{Start: 5, End: 28},
				},
				Replace{Range: Range{Start: 5, End: 28}},
			},
		},
		{
			name: "composes in descendant selector",
			src:  ".a .b { composes: c }",
			mode: ModeLocal,
			wantDeps: []Dependency{
				LocalClass{Name: ".a", Range: Range{Start: 0, End: 2}},
				LocalClass{Name: ".b", Range: Range{Start: 3, End: 5}},
			},
			wantWarn: []WarningKind{UnexpectedComposition},
		},
		{
			name: "global function",
			src:  ":global(.x) .y {}",
			mode: ModeLocal,
			wantDeps: []Dependency{
				Replace{Range: Range{Start: 0, End: 8}},
				Replace{Range: Range{Start: 10, End: 11}},
				LocalClass{Name: ".y", Range: Range{Start: 12, End: 14}},
			},
		},
		{
			name: "bare global switches rest of selector",
			src:  ".a :global .b {}",
			mode: ModeLocal,
			wantDeps: []Dependency{
				LocalClass{Name: ".a", Range: Range{Start: 0, End: 2}},
				Replace{Range: Range{Start: 3, End: 11}},
			},
		},
		{
			name: "import after rule",
			src:  "@import 'a.css';\n.a {}\n@import 'b.css';",
			mode: ModeCSS,
			wantDeps: []Dependency{
				Import{Request: "a.css", Range: Range{Start: 0, End: 16}},
			},
			wantWarn: []WarningKind{NotPrecededAtImport},
		},
		{
			name: "import after charset and layer statement",
			src:  "@charset \"utf-8\";\n@layer base;\n@import url(a.css) screen;",
			mode: ModeCSS,
			wantDeps: []Dependency{
				Import{Request: "a.css", Range: Range{Start: 31, End: 57}, Media: "screen"},
			},
		},
		{
			name: "empty import",
			src:  "@import url();",
			mode: ModeCSS,
			wantDeps: []Dependency{
				Import{Request: "", Range: Range{Start: 0, End: 14}},
			},
		},
		{
			name: "url in declaration",
			src:  ".a { background: url(./img.png) }",
			mode: ModeCSS,
			wantDeps: []Dependency{
				URL{Request: "./img.png", Range: Range{Start: 17, End: 31}, Kind: URLFunction},
			},
		},
		{
			name: "keyframes and animation",
			src:  "@keyframes spin {}\n.a { animation: spin 1s linear; }",
			mode: ModeLocal,
			wantDeps: []Dependency{
				LocalKeyframes{Name: "spin", Range: Range{Start: 11, End: 15}},
				LocalClass{Name: ".a", Range: Range{Start: 19, End: 21}},
				LocalKeyframesDecl{Name: "spin", Range: Range{Start: 35, End: 39}},
			},
		},
		{
			name: "icss export block",
			src:  ":export { primary: #f00; }",
			mode: ModeLocal,
			wantDeps: []Dependency{
				Replace{Range: Range{Start: 0, End: 26}},
				ICSSExportValue{Prop: "primary", Value: "#f00", Range: Range{Start: 10, End: 23}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, warnings := Collect(tt.src, tt.mode)
			if len(tt.wantDeps) == 0 {
				assert.Empty(t, deps)
			} else {
				require.Equal(t, tt.wantDeps, deps)
			}

			kinds := make([]WarningKind, 0, len(warnings))
			for _, w := range warnings {
				kinds = append(kinds, w.Kind)
			}
			if len(tt.wantWarn) == 0 {
				assert.Empty(t, kinds)
			} else {
				assert.Equal(t, tt.wantWarn, kinds)
			}
		})
	}
}

func TestCollectOrdersEventsBySource(t *testing.T) {
	src := `.a { color: red }
.b { background: url(x.png) }
.c { composes: a b; }`
	deps, warnings := Collect(src, ModeLocal)
	require.Empty(t, warnings)

	last := -1
	for _, d := range deps {
		require.GreaterOrEqual(t, d.Loc().Start, last)
		last = d.Loc().Start
	}
}

func TestCollectNestedRules(t *testing.T) {
	src := ".a { color: red; .b { color: blue } @media (min-width: 1px) { color: green } }"
	deps, warnings := Collect(src, ModeLocal)
	require.Empty(t, warnings)

	var names []string
	for _, d := range deps {
		if c, ok := d.(LocalClass); ok {
			names = append(names, c.Name)
		}
	}
	assert.Equal(t, []string{".a", ".b"}, names)
}

func TestCollectUnclosedBlock(t *testing.T) {
	_, warnings := Collect(".a { color: red", ModeLocal)
	require.Len(t, warnings, 1)
	assert.Equal(t, UnclosedBlock, warnings[0].Kind)
	assert.NotEmpty(t, warnings[0].String())
}

func TestURLTokenValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "url(a.png)", want: "a.png"},
		{in: `url("a.png")`, want: "a.png"},
		{in: "url( 'a b.png' )", want: "a b.png"},
		{in: "url()", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, urlTokenValue(tt.in))
		})
	}
}
