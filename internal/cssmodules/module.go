// Package cssmodules resolves CSS Modules exports and generates the CSS and
// JavaScript output of stylesheet modules.
package cssmodules

// ModuleIdentifier uniquely names a module within one compilation.
type ModuleIdentifier string

// Module is a parsed stylesheet ready for generation.
type Module struct {
	Identifier ModuleIdentifier
	Source     string
	State      *ParsedModuleState
}

// ModuleGraph answers the questions generation asks about other modules.
// Implementations must be safe for concurrent readers.
type ModuleGraph interface {
	// ModuleForDependency returns the module a dependency resolved to.
	ModuleForDependency(id DependencyID) (ModuleIdentifier, bool)
	// ModuleID returns the id a module is referenced by at runtime.
	ModuleID(m ModuleIdentifier) (string, bool)
	// AssetPath returns the public path of a url() dependency's asset.
	AssetPath(id DependencyID) (string, bool)
}

// UsageOracle reports whole-program usage of module exports.
type UsageOracle interface {
	// ExportUsage reports the usage of one export. ok is false when no
	// information is recorded for the name.
	ExportUsage(m ModuleIdentifier, name string, rt Runtime) (state UsageState, ok bool)
	// OtherExportsUsage reports the usage of exports not listed by name.
	OtherExportsUsage(m ModuleIdentifier, rt Runtime) UsageState
}

// AllUsed is an oracle that reports every export as used.
type AllUsed struct{}

func (AllUsed) ExportUsage(ModuleIdentifier, string, Runtime) (UsageState, bool) {
	return UsageUsed, true
}

func (AllUsed) OtherExportsUsage(ModuleIdentifier, Runtime) UsageState {
	return UsageUsed
}

// ExportsType describes how JavaScript importers see the module.
type ExportsType string

const (
	ExportsTypeDefault   ExportsType = "default"
	ExportsTypeNamespace ExportsType = "namespace"
)

// DefaultObject describes the default export of a non-namespace module.
type DefaultObject string

const (
	DefaultObjectFalse    DefaultObject = "false"
	DefaultObjectRedirect DefaultObject = "redirect"
)

// BuildMeta is module metadata consumed by importers.
type BuildMeta struct {
	ExportsType   ExportsType
	DefaultObject DefaultObject
}

// BuildInfo is module metadata consumed by the build itself.
type BuildInfo struct {
	Strict bool
}

// ParsedModuleState is everything a parse produces.
type ParsedModuleState struct {
	// Exports is nil for modules without local scoping or :export blocks.
	Exports *ExportGraph
	// Dependencies are ordinary dependencies; those implementing
	// DependencyTemplate also rewrite CSS.
	Dependencies []Dependency
	// PresentationalDependencies only rewrite CSS.
	PresentationalDependencies []DependencyTemplate
	// CodeGenerationDependencies are resolved before generation.
	CodeGenerationDependencies []ModuleDependency
	Diagnostics                []Diagnostic
	BuildMeta                  BuildMeta
	BuildInfo                  BuildInfo
}

func (s *ParsedModuleState) exports() *ExportGraph {
	if s.Exports == nil {
		s.Exports = NewExportGraph()
	}
	return s.Exports
}

// ModuleDependencies returns the dependencies that point at other modules.
func (s *ParsedModuleState) ModuleDependencies() []ModuleDependency {
	var deps []ModuleDependency
	for _, d := range s.Dependencies {
		if md, ok := d.(ModuleDependency); ok {
			deps = append(deps, md)
		}
	}
	return deps
}

// HasErrors reports whether any diagnostic has error severity.
func (s *ParsedModuleState) HasErrors() bool {
	for _, d := range s.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ExportBinding is an export a concatenated module defines as a variable.
type ExportBinding struct {
	Name  string
	Ident string
}

// ConcatenationScope collects the variables a module contributes to a merged
// scope. It is owned by one generation call at a time.
type ConcatenationScope struct {
	taken   map[string]bool
	exports []ExportBinding
}

// NewConcatenationScope returns a scope where reserved identifiers are
// already taken.
func NewConcatenationScope(reserved ...string) *ConcatenationScope {
	s := &ConcatenationScope{taken: make(map[string]bool, len(reserved))}
	for _, r := range reserved {
		s.taken[r] = true
	}
	return s
}

// IsTaken reports whether ident is already bound in the scope.
func (s *ConcatenationScope) IsTaken(ident string) bool {
	return s.taken[ident]
}

// RegisterExport binds name to ident.
func (s *ConcatenationScope) RegisterExport(name, ident string) {
	s.taken[ident] = true
	s.exports = append(s.exports, ExportBinding{Name: name, Ident: ident})
}

// Exports returns the bindings in registration order.
func (s *ConcatenationScope) Exports() []ExportBinding {
	return s.exports
}
