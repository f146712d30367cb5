package cssmodules

import (
	"maps"
	"slices"
)

// UsedExport is one name that survived usage filtering.
type UsedExport struct {
	Name string
	Set  *ExportSet
}

// UsedExports returns the names of g that the oracle does not report as
// unused, in graph order. Names without usage information are kept.
func UsedExports(g *ExportGraph, m ModuleIdentifier, rt Runtime, oracle UsageOracle) []UsedExport {
	var used []UsedExport
	for name, set := range g.All() {
		if state, ok := oracle.ExportUsage(m, name, rt); ok && state == UsageUnused {
			continue
		}
		used = append(used, UsedExport{Name: name, Set: set})
	}
	return used
}

// UnusedIdents is a set of unescaped identifiers that no importer reads.
type UnusedIdents map[string]struct{}

// Has reports whether ident is unused.
func (u UnusedIdents) Has(ident string) bool {
	_, ok := u[ident]
	return ok
}

// Slice returns the identifiers sorted.
func (u UnusedIdents) Slice() []string {
	return slices.Sorted(maps.Keys(u))
}

// UnusedLocalIdents collects the identifiers of every record whose name the
// oracle reports as unused.
func UnusedLocalIdents(g *ExportGraph, m ModuleIdentifier, rt Runtime, oracle UsageOracle) UnusedIdents {
	unused := make(UnusedIdents)
	for name, set := range g.All() {
		state, ok := oracle.ExportUsage(m, name, rt)
		if !ok || state != UsageUnused {
			continue
		}
		for _, r := range set.Records() {
			unused[Unescape(r.Ident)] = struct{}{}
		}
	}
	return unused
}
