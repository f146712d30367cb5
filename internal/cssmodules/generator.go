package cssmodules

import (
	"hash"
	"strings"

	"github.com/yacobolo/cssmod/internal/source"
)

// CodeGenerationData is what the CSS target hands to the runtime helper
// that consumes it.
type CodeGenerationData struct {
	// UsedExports is the CSS-modules metadata string.
	UsedExports string
	// UnusedIdents lists identifiers whose exports nobody reads.
	UnusedIdents UnusedIdents
}

// GenerateContext carries everything one generation call reads and writes.
// Each call owns its context; nothing in it is shared with concurrent calls
// except the read-only Graph and Usage.
type GenerateContext struct {
	Graph               ModuleGraph
	Usage               UsageOracle
	Runtime             Runtime
	SourceType          SourceType
	RuntimeRequirements RuntimeGlobals
	Data                CodeGenerationData
	// ConcatenationScope is set when the module is merged into a shared scope.
	ConcatenationScope *ConcatenationScope
	HotReload          bool
}

// Generator renders CSS and JavaScript for parsed modules. It is stateless
// across calls.
type Generator struct {
	esModule    bool
	exportsOnly bool
}

// NewGenerator returns a generator for opts.
func NewGenerator(opts Options) *Generator {
	return &Generator{esModule: opts.ESModule, exportsOnly: opts.ExportsOnly}
}

// Generate renders m for ctx.SourceType.
func (g *Generator) Generate(m *Module, ctx *GenerateContext) (string, error) {
	switch ctx.SourceType {
	case SourceCSS:
		return g.generateCSS(m, ctx)
	case SourceJavaScript:
		return g.generateJS(m, ctx)
	default:
		return "", internalf(ErrUnsupportedSourceType, "cannot generate %q for %s", ctx.SourceType, m.Identifier)
	}
}

func (g *Generator) generateCSS(m *Module, ctx *GenerateContext) (string, error) {
	ctx.RuntimeRequirements.Insert(RuntimeHasCSSModules)

	ownID, _ := ctx.Graph.ModuleID(m.Identifier)
	ownID = strings.ReplaceAll(ownID, `\`, "/")

	var meta strings.Builder
	if exports := m.State.Exports; exports != nil {
		ctx.Data.UnusedIdents = UnusedLocalIdents(exports, m.Identifier, ctx.Runtime, ctx.Usage)

		for _, used := range UsedExports(exports, m.Identifier, ctx.Runtime, ctx.Usage) {
			name := EscapeCSS(used.Name, false)
			for _, r := range used.Set.Records() {
				meta.WriteString(name)
				meta.WriteByte(':')
				if r.From != "" {
					targetID, err := g.targetModuleID(r, ctx.Graph)
					if err != nil {
						return "", err
					}
					meta.WriteString(EscapeCSS(targetID, false))
					meta.WriteByte('@')
				}
				meta.WriteString(EscapeCSS(r.Ident, false))
				meta.WriteByte('/')
			}
		}
	}
	if g.esModule {
		meta.WriteByte('&')
	}
	meta.WriteString(EscapeCSS(ownID, false))
	ctx.Data.UsedExports = meta.String()

	src := source.NewReplaceSource(m.Source)
	tctx := &TemplateContext{
		Module:              m,
		Graph:               ctx.Graph,
		Runtime:             ctx.Runtime,
		RuntimeRequirements: &ctx.RuntimeRequirements,
	}
	for _, dep := range m.State.Dependencies {
		if t, ok := dep.(DependencyTemplate); ok {
			t.Apply(src, tctx)
		}
	}
	for _, t := range m.State.PresentationalDependencies {
		t.Apply(src, tctx)
	}
	return src.String(), nil
}

func (g *Generator) targetModuleID(r ExportRecord, graph ModuleGraph) (string, error) {
	target, ok := graph.ModuleForDependency(r.DependencyID)
	if !ok {
		return "", internalf(ErrMissingDependencyModule, "composes from %q did not resolve to a module", r.From)
	}
	id, ok := graph.ModuleID(target)
	if !ok {
		return "", internalf(ErrMissingModuleID, "module %s composed from %q has no id", target, r.From)
	}
	return id, nil
}

// ConcatenationBailoutReason explains why modules of this generator are
// never merged into a shared scope by the bundler.
func (g *Generator) ConcatenationBailoutReason() string {
	return "Module concatenation is not implemented for the CSS modules generator"
}

// UpdateHash folds the options that change generated output into h.
func (g *Generator) UpdateHash(h hash.Hash) {
	if g.esModule {
		h.Write([]byte{1})
		return
	}
	h.Write([]byte{0})
}

// SourceTypes lists the output kinds this generator produces for a module.
func (g *Generator) SourceTypes() []SourceType {
	if g.exportsOnly {
		return []SourceType{SourceJavaScript}
	}
	return []SourceType{SourceCSS}
}

// Size estimates the output size of m for t.
func (g *Generator) Size(m *Module, t SourceType) float64 {
	switch t {
	case SourceJavaScript:
		return 42
	case SourceCSS:
		return float64(len(m.Source))
	default:
		return 0
	}
}
