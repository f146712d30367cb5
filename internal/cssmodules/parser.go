package cssmodules

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yacobolo/cssmod/internal/lexer"
)

// ModuleType selects how a stylesheet is scoped.
type ModuleType string

const (
	// ModuleTypeCSS is plain global CSS.
	ModuleTypeCSS ModuleType = "css"
	// ModuleTypeModule always scopes local names.
	ModuleTypeModule ModuleType = "css/module"
	// ModuleTypeAuto scopes local names for *.module.* and *.modules.* files.
	ModuleTypeAuto ModuleType = "css/auto"
)

// ParseModuleType validates a module type name.
func ParseModuleType(s string) (ModuleType, error) {
	switch t := ModuleType(strings.TrimSpace(s)); t {
	case ModuleTypeCSS, ModuleTypeModule, ModuleTypeAuto:
		return t, nil
	default:
		return "", fmt.Errorf("unknown module type %q", s)
	}
}

const autoModulePattern = "*.{module,modules}.*"

// LexFunc produces the ordered event stream for a source.
type LexFunc func(src string, mode lexer.Mode) ([]lexer.Dependency, []lexer.Warning)

// Options configures parsing and generation.
type Options struct {
	// Convention is required when local names are scoped.
	Convention Convention
	// Resolver is required when local names are scoped.
	Resolver     IdentResolver
	ESModule     bool
	NamedExports bool
	ExportsOnly  bool
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// ParseContext is one module to parse.
type ParseContext struct {
	Source       string
	ModuleType   ModuleType
	ResourcePath string
}

// Parser turns stylesheet source into a ParsedModuleState. It holds no
// per-module state and may be shared between goroutines.
type Parser struct {
	opts Options
	lex  LexFunc
}

// NewParser returns a parser using the built-in lexer.
func NewParser(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{opts: opts, lex: lexer.Collect}
}

// WithLexer returns a copy of p that reads events from lex.
func (p *Parser) WithLexer(lex LexFunc) *Parser {
	cp := *p
	cp.lex = lex
	return &cp
}

// Mode reports whether resourcePath is scoped under moduleType.
func Mode(moduleType ModuleType, resourcePath string) lexer.Mode {
	switch moduleType {
	case ModuleTypeModule:
		return lexer.ModeLocal
	case ModuleTypeAuto:
		base := filepath.Base(filepath.ToSlash(resourcePath))
		if ok, _ := doublestar.Match(autoModulePattern, base); ok {
			return lexer.ModeLocal
		}
	}
	return lexer.ModeCSS
}

// Parse extracts dependencies and the export graph of one module. User
// problems become diagnostics; the error is reserved for InternalError.
func (p *Parser) Parse(pc ParseContext) (*ParsedModuleState, error) {
	state := &ParsedModuleState{
		BuildInfo: BuildInfo{Strict: true},
		BuildMeta: p.buildMeta(),
	}

	mode := Mode(pc.ModuleType, pc.ResourcePath)
	events, warnings := p.lex(pc.Source, mode)
	p.opts.Logger.Debug("lexed stylesheet",
		"path", pc.ResourcePath, "mode", mode, "events", len(events), "warnings", len(warnings))

	for _, ev := range events {
		if err := p.handle(state, pc, ev); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", pc.ResourcePath, err)
		}
	}

	for _, w := range warnings {
		sev := SeverityWarning
		if w.Kind == lexer.NotPrecededAtImport {
			sev = SeverityError
		}
		state.Diagnostics = append(state.Diagnostics,
			NewDiagnostic(pc.Source, w.Range.Start, w.Range.End, sev, w.String()))
	}

	return state, nil
}

func (p *Parser) buildMeta() BuildMeta {
	if p.opts.NamedExports {
		return BuildMeta{ExportsType: ExportsTypeNamespace, DefaultObject: DefaultObjectFalse}
	}
	return BuildMeta{ExportsType: ExportsTypeDefault, DefaultObject: DefaultObjectRedirect}
}

func (p *Parser) handle(state *ParsedModuleState, pc ParseContext, ev lexer.Dependency) error {
	switch ev := ev.(type) {
	case lexer.URL:
		if ev.Request == "" {
			return nil
		}
		request := normalizeURL(p.replacePrefix(state, pc.Source, ev.Request, ev.Range))
		dep := NewURLDependency(request, ev.Range, ev.Kind == lexer.URLFunction)
		state.Dependencies = append(state.Dependencies, dep)
		state.CodeGenerationDependencies = append(state.CodeGenerationDependencies, dep)

	case lexer.Import:
		if ev.Request == "" {
			state.PresentationalDependencies = append(state.PresentationalDependencies,
				&ConstDependency{Range: ev.Range})
			return nil
		}
		request := p.replacePrefix(state, pc.Source, ev.Request, ev.Range)
		state.Dependencies = append(state.Dependencies, NewImportDependency(request, ev.Range, ev.Media))

	case lexer.Replace:
		state.PresentationalDependencies = append(state.PresentationalDependencies,
			&ConstDependency{Range: ev.Range, Content: ev.Content})

	case lexer.LocalClass:
		return p.declareLocal(state, pc, ev.Name[1:], lexer.Range{Start: ev.Range.Start + 1, End: ev.Range.End})

	case lexer.LocalID:
		return p.declareLocal(state, pc, ev.Name[1:], lexer.Range{Start: ev.Range.Start + 1, End: ev.Range.End})

	case lexer.LocalKeyframes:
		return p.declareLocal(state, pc, ev.Name, ev.Range)

	case lexer.LocalKeyframesDecl:
		return p.declareLocal(state, pc, ev.Name, ev.Range)

	case lexer.Composes:
		var depID DependencyID
		from := ev.From
		if from != "" {
			if from != "global" {
				from = strings.Trim(from, `"'`)
				dep := NewComposeDependency(from, ev.Range)
				depID = dep.ID()
				state.Dependencies = append(state.Dependencies, dep)
			}
		}
		return state.exports().Compose(ev.LocalClasses, ev.Names, from, depID)

	case lexer.ICSSExportValue:
		if p.opts.Convention == "" {
			return internalf(ErrMissingConvention, "local scoping requires an exports convention")
		}
		value := stripComments(ev.Value)
		names := state.exports().InsertConvention(ev.Prop, p.opts.Convention, ExportRecord{Ident: value})
		state.Dependencies = append(state.Dependencies, NewExportDependency(value, names))

	default:
		return fmt.Errorf("unexpected lexer event %T", ev)
	}
	return nil
}

func (p *Parser) declareLocal(state *ParsedModuleState, pc ParseContext, name string, rng lexer.Range) error {
	if p.opts.Resolver == nil {
		return internalf(ErrMissingLocalIdentName, "local scoping requires a local ident name")
	}
	if p.opts.Convention == "" {
		return internalf(ErrMissingConvention, "local scoping requires an exports convention")
	}

	ident := p.opts.Resolver.LocalIdent(pc.ResourcePath, name)
	names := state.exports().InsertConvention(name, p.opts.Convention, ExportRecord{Ident: ident})
	state.Dependencies = append(state.Dependencies, NewLocalIdentDependency(ident, names, rng))
	return nil
}

// replacePrefix strips the deprecated '~' module prefix.
func (p *Parser) replacePrefix(state *ParsedModuleState, src, request string, rng lexer.Range) string {
	if !strings.HasPrefix(request, "~") {
		return request
	}
	state.Diagnostics = append(state.Diagnostics, NewDiagnostic(src, rng.Start, rng.End, SeverityWarning,
		"'@import' or 'url()' with a request starts with '~' is deprecated"))
	return request[1:]
}

// normalizeURL removes escaped newlines and decodes percent escapes of
// non-data URLs.
func normalizeURL(s string) string {
	s = strings.NewReplacer("\\\r\n", "", "\\\n", "", "\\\r", "", "\\\f", "").Replace(s)
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "data:") {
		return s
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}
