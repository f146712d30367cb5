package cssmodules

import (
	"strings"
	"sync/atomic"

	"github.com/yacobolo/cssmod/internal/lexer"
	"github.com/yacobolo/cssmod/internal/source"
)

// DependencyID identifies a dependency within one process. Zero is never
// assigned and means "no dependency".
type DependencyID uint64

var lastDependencyID atomic.Uint64

func nextDependencyID() DependencyID {
	return DependencyID(lastDependencyID.Add(1))
}

// DependencyKind names a dependency type.
type DependencyKind string

const (
	KindURL        DependencyKind = "css url"
	KindImport     DependencyKind = "css @import"
	KindCompose    DependencyKind = "css compose"
	KindLocalIdent DependencyKind = "css local ident"
	KindExport     DependencyKind = "css export"
	KindConst      DependencyKind = "const"
)

// Dependency is a record produced by the parser.
type Dependency interface {
	ID() DependencyID
	Kind() DependencyKind
}

// ModuleDependency points at another module by request.
type ModuleDependency interface {
	Dependency
	Request() string
}

// DependencyTemplate splices generated text into the CSS output.
type DependencyTemplate interface {
	Apply(src *source.ReplaceSource, ctx *TemplateContext)
}

// TemplateContext is what templates may read while rewriting CSS.
type TemplateContext struct {
	Module              *Module
	Graph               ModuleGraph
	Runtime             Runtime
	RuntimeRequirements *RuntimeGlobals
}

// URLDependency is a url() reference to an asset.
type URLDependency struct {
	id       DependencyID
	request  string
	Range    lexer.Range
	Function bool
}

// NewURLDependency returns a url dependency over rng.
func NewURLDependency(request string, rng lexer.Range, function bool) *URLDependency {
	return &URLDependency{id: nextDependencyID(), request: request, Range: rng, Function: function}
}

func (d *URLDependency) ID() DependencyID     { return d.id }
func (d *URLDependency) Kind() DependencyKind { return KindURL }
func (d *URLDependency) Request() string      { return d.request }

// Apply replaces the reference with the asset's public path when the graph
// knows one.
func (d *URLDependency) Apply(src *source.ReplaceSource, ctx *TemplateContext) {
	target := d.request
	if p, ok := ctx.Graph.AssetPath(d.id); ok {
		target = p
	}
	if d.Function {
		src.Replace(d.Range.Start, d.Range.End, cssURL(target))
		return
	}
	src.Replace(d.Range.Start, d.Range.End, cssString(target))
}

func cssURL(s string) string {
	if strings.ContainsAny(s, " \t\n\"'()\\") {
		return "url(" + cssString(s) + ")"
	}
	return "url(" + s + ")"
}

func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}

// ImportDependency is an @import of another stylesheet. The rule is removed
// from the output; the imported module is emitted on its own.
type ImportDependency struct {
	id      DependencyID
	request string
	Range   lexer.Range
	Media   string
}

// NewImportDependency returns an import dependency over rng.
func NewImportDependency(request string, rng lexer.Range, media string) *ImportDependency {
	return &ImportDependency{id: nextDependencyID(), request: request, Range: rng, Media: media}
}

func (d *ImportDependency) ID() DependencyID     { return d.id }
func (d *ImportDependency) Kind() DependencyKind { return KindImport }
func (d *ImportDependency) Request() string      { return d.request }

// Apply removes the @import rule.
func (d *ImportDependency) Apply(src *source.ReplaceSource, _ *TemplateContext) {
	src.Replace(d.Range.Start, d.Range.End, "")
}

// ComposeDependency links a composes declaration to the module it names.
type ComposeDependency struct {
	id      DependencyID
	request string
	Range   lexer.Range
}

// NewComposeDependency returns a compose dependency for request.
func NewComposeDependency(request string, rng lexer.Range) *ComposeDependency {
	return &ComposeDependency{id: nextDependencyID(), request: request, Range: rng}
}

func (d *ComposeDependency) ID() DependencyID     { return d.id }
func (d *ComposeDependency) Kind() DependencyKind { return KindCompose }
func (d *ComposeDependency) Request() string      { return d.request }

// LocalIdentDependency marks a declared local name whose source text is
// replaced by its scoped identifier.
type LocalIdentDependency struct {
	id    DependencyID
	Ident string
	Names []string
	Range lexer.Range
}

// NewLocalIdentDependency returns a local ident dependency over rng.
func NewLocalIdentDependency(ident string, names []string, rng lexer.Range) *LocalIdentDependency {
	return &LocalIdentDependency{id: nextDependencyID(), Ident: ident, Names: names, Range: rng}
}

func (d *LocalIdentDependency) ID() DependencyID     { return d.id }
func (d *LocalIdentDependency) Kind() DependencyKind { return KindLocalIdent }

// Apply writes the escaped identifier.
func (d *LocalIdentDependency) Apply(src *source.ReplaceSource, _ *TemplateContext) {
	src.Replace(d.Range.Start, d.Range.End, EscapeCSS(d.Ident, false))
}

// ExportDependency declares names exported by an :export block.
type ExportDependency struct {
	id    DependencyID
	Value string
	Names []string
}

// NewExportDependency returns an export dependency.
func NewExportDependency(value string, names []string) *ExportDependency {
	return &ExportDependency{id: nextDependencyID(), Value: value, Names: names}
}

func (d *ExportDependency) ID() DependencyID     { return d.id }
func (d *ExportDependency) Kind() DependencyKind { return KindExport }

// ConstDependency replaces a range with fixed text. It is presentational: it
// changes output without contributing to the module graph.
type ConstDependency struct {
	Range   lexer.Range
	Content string
}

// Apply writes Content.
func (d *ConstDependency) Apply(src *source.ReplaceSource, _ *TemplateContext) {
	src.Replace(d.Range.Start, d.Range.End, d.Content)
}
