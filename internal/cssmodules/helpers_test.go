package cssmodules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yacobolo/cssmod/internal/lexer"
)

// suffixResolver appends "_h" to every local name.
var suffixResolver = IdentResolverFunc(func(_, local string) string {
	return local + "_h"
})

type fakeGraph struct {
	modules map[DependencyID]ModuleIdentifier
	ids     map[ModuleIdentifier]string
	assets  map[DependencyID]string
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		modules: make(map[DependencyID]ModuleIdentifier),
		ids:     make(map[ModuleIdentifier]string),
		assets:  make(map[DependencyID]string),
	}
}

func (g *fakeGraph) ModuleForDependency(id DependencyID) (ModuleIdentifier, bool) {
	m, ok := g.modules[id]
	return m, ok
}

func (g *fakeGraph) ModuleID(m ModuleIdentifier) (string, bool) {
	id, ok := g.ids[m]
	return id, ok
}

func (g *fakeGraph) AssetPath(id DependencyID) (string, bool) {
	p, ok := g.assets[id]
	return p, ok
}

type fakeOracle struct {
	states map[string]UsageState
	other  UsageState
}

func (o fakeOracle) ExportUsage(_ ModuleIdentifier, name string, _ Runtime) (UsageState, bool) {
	s, ok := o.states[name]
	return s, ok
}

func (o fakeOracle) OtherExportsUsage(ModuleIdentifier, Runtime) UsageState {
	return o.other
}

func staticLexer(events ...lexer.Dependency) LexFunc {
	return func(string, lexer.Mode) ([]lexer.Dependency, []lexer.Warning) {
		return events, nil
	}
}

func parseModule(t *testing.T, opts Options, src string) *Module {
	t.Helper()
	state, err := NewParser(opts).Parse(ParseContext{
		Source:       src,
		ModuleType:   ModuleTypeModule,
		ResourcePath: "/src/a.module.css",
	})
	require.NoError(t, err)
	return &Module{Identifier: "a", Source: src, State: state}
}

func localOptions() Options {
	return Options{Convention: ConventionAsIs, Resolver: suffixResolver}
}

func graphSnapshot(g *ExportGraph) map[string][]ExportRecord {
	out := make(map[string][]ExportRecord)
	for name, set := range g.All() {
		out[name] = append([]ExportRecord(nil), set.Records()...)
	}
	return out
}
