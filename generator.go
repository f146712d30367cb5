package cssmod

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/cssmod/internal/cssmodules"
	"github.com/yacobolo/cssmod/internal/lexer"
)

// parsedModule is one stylesheet after parsing and request resolution
type parsedModule struct {
	file     string
	module   *cssmodules.Module
	local    bool
	requests []string
	broken   bool // A composes request did not resolve; nothing is generated
}

// Compile is the main entry point
func Compile(ctx context.Context, config Config) (*CompileResult, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(config.Includes) == 0 {
		config.Includes = []string{"**/*.css"}
	}
	result := &CompileResult{}

	// 1. Scan CSS files
	files, stats, err := scanCSSFiles(config.SourceDir, config.OutputDir, config.Includes)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	result.FilesScanned = stats.FilesScanned
	result.FilesSkipped = stats.FilesSkipped
	logger.Debug("scanned stylesheets", "found", stats.FilesDiscovered, "skipped", stats.FilesSkipped)

	// 2. Parse every module, following composes and @import targets
	opts, moduleType, err := buildOptions(config, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	parser := cssmodules.NewParser(opts)
	gen := cssmodules.NewGenerator(opts)
	graph := newModuleGraph(config.SourceDir)

	modules, err := parseModules(files, parser, moduleType, graph, config, result)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	logger.Debug("parsed modules", "count", len(modules))

	// 3. Usage oracle
	var oracle cssmodules.UsageOracle = cssmodules.AllUsed{}
	if config.UsageManifest != "" {
		manifest, err := LoadUsageManifest(config.UsageManifest)
		if err != nil {
			return nil, err
		}
		oracle = manifest.oracle(graph.ids)
	}
	rt := cssmodules.NewRuntime(config.Runtime...)

	// 4. Generate every module concurrently; the graph is read-only from here
	outputs := make([]ModuleResult, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pm := range modules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := generateModule(gen, pm, graph, oracle, rt, config)
			if err != nil {
				return fmt.Errorf("generating %s: %w", pm.file, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(outputs, func(a, b ModuleResult) int {
		return strings.Compare(a.Path, b.Path)
	})
	result.Modules = outputs

	for _, m := range outputs {
		result.ExportsTotal += len(m.Exports)
		result.ExportsUsed += len(m.LiveExports)
	}
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		}
	}
	result.Fingerprint = fingerprint(gen, outputs)

	// 5. Write outputs
	if config.OutputDir != "" {
		if err := writeOutputs(config.OutputDir, outputs, config.ExportsOnly, result); err != nil {
			return nil, fmt.Errorf("write failed: %w", err)
		}
	}

	return result, nil
}

// buildOptions validates the scoping configuration
func buildOptions(config Config, logger *slog.Logger) (cssmodules.Options, cssmodules.ModuleType, error) {
	opts := cssmodules.Options{
		ESModule:     config.ESModule,
		NamedExports: config.NamedExports,
		ExportsOnly:  config.ExportsOnly,
		Logger:       logger,
	}

	moduleType := cssmodules.ModuleTypeAuto
	if config.ModuleType != "" {
		mt, err := cssmodules.ParseModuleType(config.ModuleType)
		if err != nil {
			return opts, "", err
		}
		moduleType = mt
	}
	if moduleType == cssmodules.ModuleTypeCSS {
		return opts, moduleType, nil
	}

	convention := cssmodules.ConventionAsIs
	if config.ExportsConvention != "" {
		c, err := cssmodules.ParseConvention(config.ExportsConvention)
		if err != nil {
			return opts, "", err
		}
		convention = c
	}
	opts.Convention = convention

	resolver, err := cssmodules.NewTemplateResolver(cssmodules.LocalIdentOptions{
		Template:   config.LocalIdentName,
		Context:    config.SourceDir,
		UniqueName: config.UniqueName,
		HashSalt:   config.HashSalt,
		HashLength: config.HashLength,
	})
	if err != nil {
		return opts, "", err
	}
	opts.Resolver = resolver

	return opts, moduleType, nil
}

// parseModules parses files and every stylesheet they reach through
// composes or @import, resolving requests into graph.
func parseModules(
	files []string,
	parser *cssmodules.Parser,
	moduleType cssmodules.ModuleType,
	graph *moduleGraph,
	config Config,
	result *CompileResult,
) ([]*parsedModule, error) {
	var modules []*parsedModule
	seen := make(map[cssmodules.ModuleIdentifier]bool)
	queue := slices.Clone(files)

	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]

		id := identifierFor(file)
		if seen[id] {
			continue
		}
		seen[id] = true

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		src := string(data)

		state, err := parser.Parse(cssmodules.ParseContext{
			Source:       src,
			ModuleType:   moduleType,
			ResourcePath: file,
		})
		if err != nil {
			return nil, err
		}

		graph.ids[id] = graph.moduleID(file)
		pm := &parsedModule{
			file:   file,
			module: &cssmodules.Module{Identifier: id, Source: src, State: state},
			local:  cssmodules.Mode(moduleType, file) == lexer.ModeLocal,
		}
		display := GetRelativePath(file)

		for _, d := range state.Diagnostics {
			result.Issues = append(result.Issues, issueFromDiagnostic(display, d))
		}

		for _, dep := range state.Dependencies {
			switch dep := dep.(type) {
			case *cssmodules.ComposeDependency:
				pm.requests = append(pm.requests, dep.Request())
				target, ok := graph.resolveRequest(file, dep.Request())
				if !ok {
					pm.broken = true
					result.Issues = append(result.Issues, resolveIssue(display, src, dep.Range,
						fmt.Sprintf(IssueUnresolvedCompose, dep.Request(), display)))
					continue
				}
				graph.deps[dep.ID()] = identifierFor(target)
				queue = append(queue, target)

			case *cssmodules.ImportDependency:
				pm.requests = append(pm.requests, dep.Request())
				if isExternalURL(dep.Request()) {
					continue
				}
				target, ok := graph.resolveRequest(file, dep.Request())
				if !ok {
					result.Issues = append(result.Issues, resolveIssue(display, src, dep.Range,
						fmt.Sprintf(IssueUnresolvedImport, dep.Request())))
					continue
				}
				graph.deps[dep.ID()] = identifierFor(target)
				queue = append(queue, target)

			case *cssmodules.URLDependency:
				if config.PublicPath == "" {
					continue
				}
				if target, ok := graph.resolveRequest(file, dep.Request()); ok {
					graph.assets[dep.ID()] = graph.publicAssetPath(config.PublicPath, target)
				}
			}
		}

		modules = append(modules, pm)
	}

	return modules, nil
}

// generateModule renders the JavaScript and CSS of one module
func generateModule(
	gen *cssmodules.Generator,
	pm *parsedModule,
	graph *moduleGraph,
	oracle cssmodules.UsageOracle,
	rt cssmodules.Runtime,
	config Config,
) (ModuleResult, error) {
	m := pm.module
	id, _ := graph.ModuleID(m.Identifier)
	res := ModuleResult{
		Path:     id,
		ID:       id,
		Local:    pm.local,
		Exports:  m.State.Exports.Names(),
		Requests: pm.requests,
	}
	if pm.broken {
		return res, nil
	}
	if config.Concatenate {
		res.BailoutReason = gen.ConcatenationBailoutReason()
	}
	for _, u := range cssmodules.UsedExports(m.State.Exports, m.Identifier, rt, oracle) {
		res.LiveExports = append(res.LiveExports, u.Name)
	}

	var requirements cssmodules.RuntimeGlobals

	jsCtx := &cssmodules.GenerateContext{
		Graph:      graph,
		Usage:      oracle,
		Runtime:    rt,
		SourceType: cssmodules.SourceJavaScript,
		HotReload:  config.HotReload,
	}
	js, err := gen.Generate(m, jsCtx)
	if err != nil {
		return res, err
	}
	res.JS = js
	requirements.Insert(jsCtx.RuntimeRequirements)

	if config.ExportsOnly {
		if m.State.Exports != nil {
			res.UnusedIdents = cssmodules.UnusedLocalIdents(m.State.Exports, m.Identifier, rt, oracle).Slice()
		}
	} else {
		cssCtx := &cssmodules.GenerateContext{
			Graph:      graph,
			Usage:      oracle,
			Runtime:    rt,
			SourceType: cssmodules.SourceCSS,
		}
		css, err := gen.Generate(m, cssCtx)
		if err != nil {
			return res, err
		}
		res.CSS = css
		res.UsedExports = cssCtx.Data.UsedExports
		res.UnusedIdents = cssCtx.Data.UnusedIdents.Slice()
		requirements.Insert(cssCtx.RuntimeRequirements)
	}

	res.RuntimeRequirements = requirements.Names()
	return res, nil
}

// fingerprint hashes the generator options and every output in path order
func fingerprint(gen *cssmodules.Generator, modules []ModuleResult) string {
	h := xxhash.New()
	gen.UpdateHash(h)
	for _, m := range modules {
		for _, s := range []string{m.Path, m.CSS, m.JS} {
			_, _ = h.WriteString(s)
			_, _ = h.Write([]byte{0})
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// writeOutputs writes <path> and <path>.js below outputDir
func writeOutputs(outputDir string, modules []ModuleResult, exportsOnly bool, result *CompileResult) error {
	for _, m := range modules {
		if m.JS == "" {
			continue
		}
		rel := filepath.FromSlash(m.Path)
		if !filepath.IsLocal(rel) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipping %s: outside source directory", m.Path))
			continue
		}

		target := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}
		if !exportsOnly {
			if err := os.WriteFile(target, []byte(m.CSS), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}
		}
		if err := os.WriteFile(target+".js", []byte(m.JS), 0644); err != nil {
			return fmt.Errorf("writing %s.js: %w", target, err)
		}
	}
	return nil
}
