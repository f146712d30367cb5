package cssmodules

import (
	"slices"
	"strings"
)

// SourceType is an output kind of a module.
type SourceType string

const (
	SourceCSS        SourceType = "css"
	SourceJavaScript SourceType = "javascript"
)

// Runtime identifies the runtimes an output is generated for. A nil Runtime
// means every runtime.
type Runtime []string

// NewRuntime returns a sorted, deduplicated runtime.
func NewRuntime(names ...string) Runtime {
	if len(names) == 0 {
		return nil
	}
	rt := slices.Clone(names)
	slices.Sort(rt)
	return slices.Compact(rt)
}

// IsAll reports whether r covers every runtime.
func (r Runtime) IsAll() bool {
	return len(r) == 0
}

// Contains reports whether r includes name.
func (r Runtime) Contains(name string) bool {
	return r.IsAll() || slices.Contains(r, name)
}

func (r Runtime) String() string {
	if r.IsAll() {
		return "*"
	}
	return strings.Join(r, "|")
}

// UsageState is the usage oracle's verdict for one export.
type UsageState int

const (
	UsageUnused UsageState = iota
	UsageOnlyPropertiesUsed
	UsageNoInfo
	UsageUnknown
	UsageUsed
)

func (u UsageState) String() string {
	switch u {
	case UsageUnused:
		return "unused"
	case UsageOnlyPropertiesUsed:
		return "only-properties-used"
	case UsageNoInfo:
		return "no-info"
	case UsageUnknown:
		return "unknown"
	case UsageUsed:
		return "used"
	default:
		return "invalid"
	}
}

// ParseUsageState maps a name from String back to its state.
func ParseUsageState(s string) (UsageState, bool) {
	for u := UsageUnused; u <= UsageUsed; u++ {
		if u.String() == s {
			return u, true
		}
	}
	return UsageUnknown, false
}

// RuntimeGlobals is a set of runtime capabilities requested by generated code.
type RuntimeGlobals uint32

const (
	RuntimeModule RuntimeGlobals = 1 << iota
	RuntimeRequire
	RuntimeMakeNamespaceObject
	RuntimeHasCSSModules
)

var runtimeGlobalNames = []struct {
	flag RuntimeGlobals
	name string
}{
	{RuntimeModule, "module"},
	{RuntimeRequire, "__webpack_require__"},
	{RuntimeMakeNamespaceObject, "__webpack_require__.r"},
	{RuntimeHasCSSModules, "has css modules"},
}

// Insert adds g to the set.
func (r *RuntimeGlobals) Insert(g RuntimeGlobals) {
	*r |= g
}

// Contains reports whether every flag of g is set.
func (r RuntimeGlobals) Contains(g RuntimeGlobals) bool {
	return r&g == g
}

// Names lists the set flags in declaration order.
func (r RuntimeGlobals) Names() []string {
	var names []string
	for _, n := range runtimeGlobalNames {
		if r&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (r RuntimeGlobals) String() string {
	return strings.Join(r.Names(), ", ")
}
