package cssmod

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yacobolo/cssmod/internal/cssmodules"
)

// moduleGraph is the resolved view of one compilation. It is filled while
// modules are parsed and only read during generation.
type moduleGraph struct {
	sourceDir string
	deps      map[cssmodules.DependencyID]cssmodules.ModuleIdentifier
	ids       map[cssmodules.ModuleIdentifier]string
	assets    map[cssmodules.DependencyID]string
}

func newModuleGraph(sourceDir string) *moduleGraph {
	return &moduleGraph{
		sourceDir: sourceDir,
		deps:      make(map[cssmodules.DependencyID]cssmodules.ModuleIdentifier),
		ids:       make(map[cssmodules.ModuleIdentifier]string),
		assets:    make(map[cssmodules.DependencyID]string),
	}
}

func (g *moduleGraph) ModuleForDependency(id cssmodules.DependencyID) (cssmodules.ModuleIdentifier, bool) {
	m, ok := g.deps[id]
	return m, ok
}

func (g *moduleGraph) ModuleID(m cssmodules.ModuleIdentifier) (string, bool) {
	id, ok := g.ids[m]
	return id, ok
}

func (g *moduleGraph) AssetPath(id cssmodules.DependencyID) (string, bool) {
	p, ok := g.assets[id]
	return p, ok
}

// identifierFor returns the identifier of the stylesheet at file.
func identifierFor(file string) cssmodules.ModuleIdentifier {
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	return cssmodules.ModuleIdentifier(filepath.Clean(file))
}

// moduleID is the slash path of file relative to the source directory.
func (g *moduleGraph) moduleID(file string) string {
	rel, err := filepath.Rel(g.sourceDir, file)
	if err != nil {
		rel = file
	}
	return filepath.ToSlash(rel)
}

// resolveRequest maps a request made from the stylesheet at from to a file
// on disk. Relative requests are resolved against from's directory, bare
// requests against the source directory and its node_modules.
func (g *moduleGraph) resolveRequest(from, request string) (string, bool) {
	request = strings.SplitN(request, "?", 2)[0]
	request = strings.SplitN(request, "#", 2)[0]
	if request == "" || isExternalURL(request) {
		return "", false
	}

	var candidates []string
	switch {
	case filepath.IsAbs(request):
		candidates = append(candidates, request)
	case strings.HasPrefix(request, "./"), strings.HasPrefix(request, "../"):
		candidates = append(candidates, filepath.Join(filepath.Dir(from), filepath.FromSlash(request)))
	default:
		candidates = append(candidates,
			filepath.Join(filepath.Dir(from), filepath.FromSlash(request)),
			filepath.Join(g.sourceDir, filepath.FromSlash(request)),
			filepath.Join(g.sourceDir, "node_modules", filepath.FromSlash(request)))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// publicAssetPath is the URL an asset is served under.
func (g *moduleGraph) publicAssetPath(publicPath, file string) string {
	return strings.TrimSuffix(publicPath, "/") + "/" + path.Clean(g.moduleID(file))
}

func isExternalURL(request string) bool {
	lower := strings.ToLower(request)
	return strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "//") ||
		strings.HasPrefix(request, "#")
}
