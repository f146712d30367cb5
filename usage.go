package cssmod

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yacobolo/cssmod/internal/cssmodules"
)

// UsageManifest is a snapshot of whole-program export usage, usually
// produced by the JavaScript side of a build.
//
//	modules:
//	  components/button.module.css:
//	    other: unused
//	    exports:
//	      primary: used
//	      legacy: unused
//	    runtimes:
//	      admin:
//	        legacy: used
type UsageManifest struct {
	Modules map[string]ModuleUsage `yaml:"modules"`
}

// ModuleUsage is the recorded usage of one module's exports.
type ModuleUsage struct {
	Exports  map[string]string            `yaml:"exports"`
	Other    string                       `yaml:"other"`
	Runtimes map[string]map[string]string `yaml:"runtimes"`
}

// LoadUsageManifest reads and validates a manifest file.
func LoadUsageManifest(path string) (*UsageManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading usage manifest: %w", err)
	}
	return ParseUsageManifest(data)
}

// ParseUsageManifest decodes and validates manifest YAML.
func ParseUsageManifest(data []byte) (*UsageManifest, error) {
	var m UsageManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing usage manifest: %w", err)
	}

	for id, mod := range m.Modules {
		if mod.Other != "" {
			if _, ok := cssmodules.ParseUsageState(mod.Other); !ok {
				return nil, fmt.Errorf("module %s: unknown usage state %q", id, mod.Other)
			}
		}
		for name, state := range mod.Exports {
			if _, ok := cssmodules.ParseUsageState(state); !ok {
				return nil, fmt.Errorf("module %s export %s: unknown usage state %q", id, name, state)
			}
		}
		for rt, exports := range mod.Runtimes {
			for name, state := range exports {
				if _, ok := cssmodules.ParseUsageState(state); !ok {
					return nil, fmt.Errorf("module %s runtime %s export %s: unknown usage state %q", id, rt, name, state)
				}
			}
		}
	}
	return &m, nil
}

// manifestOracle answers usage queries from a manifest. Modules missing
// from the manifest have no usage information.
type manifestOracle struct {
	manifest *UsageManifest
	ids      map[cssmodules.ModuleIdentifier]string
}

func (m *UsageManifest) oracle(ids map[cssmodules.ModuleIdentifier]string) cssmodules.UsageOracle {
	return &manifestOracle{manifest: m, ids: ids}
}

func (o *manifestOracle) module(m cssmodules.ModuleIdentifier) (ModuleUsage, bool) {
	id, ok := o.ids[m]
	if !ok {
		return ModuleUsage{}, false
	}
	mod, ok := o.manifest.Modules[id]
	return mod, ok
}

// ExportUsage reports the most permissive state recorded for name across
// the base entry and the requested runtimes.
func (o *manifestOracle) ExportUsage(m cssmodules.ModuleIdentifier, name string, rt cssmodules.Runtime) (cssmodules.UsageState, bool) {
	mod, ok := o.module(m)
	if !ok {
		return cssmodules.UsageNoInfo, false
	}

	state, found := cssmodules.UsageUnused, false
	if s, ok := mod.Exports[name]; ok {
		state, _ = cssmodules.ParseUsageState(s)
		found = true
	}
	for runtime, exports := range mod.Runtimes {
		if !rt.Contains(runtime) {
			continue
		}
		if s, ok := exports[name]; ok {
			override, _ := cssmodules.ParseUsageState(s)
			if !found || override > state {
				state = override
			}
			found = true
		}
	}
	if !found {
		return cssmodules.UsageNoInfo, false
	}
	return state, true
}

func (o *manifestOracle) OtherExportsUsage(m cssmodules.ModuleIdentifier, _ cssmodules.Runtime) cssmodules.UsageState {
	mod, ok := o.module(m)
	if !ok || mod.Other == "" {
		return cssmodules.UsageUnknown
	}
	state, _ := cssmodules.ParseUsageState(mod.Other)
	return state
}
