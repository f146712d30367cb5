package cssmodules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const namespaceObject = "__webpack_require__.r"

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true, "function": true,
	"if": true, "import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true, "with": true,
	"yield": true, "let": true, "static": true, "await": true, "module": true, "exports": true,
}

func (g *Generator) generateJS(m *Module, ctx *GenerateContext) (string, error) {
	ctx.RuntimeRequirements.Insert(RuntimeModule)

	if ctx.ConcatenationScope != nil {
		var b strings.Builder
		if exports := m.State.Exports; exports != nil {
			for _, used := range UsedExports(exports, m.Identifier, ctx.Runtime, ctx.Usage) {
				value, err := g.exportValue(used.Set, ctx)
				if err != nil {
					return "", err
				}
				ident := uniqueIdentifier(used.Name, ctx.ConcatenationScope)
				fmt.Fprintf(&b, "var %s = %s;\n", ident, value)
				ctx.ConcatenationScope.RegisterExport(used.Name, ident)
			}
		}
		return b.String(), nil
	}

	var ns, left, right string
	if g.esModule && ctx.Usage.OtherExportsUsage(m.Identifier, ctx.Runtime) != UsageUnused {
		ns, left, right = namespaceObject, "(", ")"
		ctx.RuntimeRequirements.Insert(RuntimeMakeNamespaceObject)
	}

	exports := m.State.Exports
	if exports == nil {
		var b strings.Builder
		if ctx.HotReload {
			b.WriteString("module.hot.accept();\n")
		}
		fmt.Fprintf(&b, "%s%smodule.exports = {}%s;\n", ns, left, right)
		return b.String(), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%smodule.exports = {\n", ns, left)
	for _, used := range UsedExports(exports, m.Identifier, ctx.Runtime, ctx.Usage) {
		value, err := g.exportValue(used.Set, ctx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  %s: %s,\n", jsString(used.Name), value)
	}
	fmt.Fprintf(&b, "}%s;\n", right)
	return b.String(), nil
}

// exportValue joins the records of one export as a JavaScript expression,
// separated by " ".
func (g *Generator) exportValue(set *ExportSet, ctx *GenerateContext) (string, error) {
	parts := make([]string, 0, set.Len())
	for _, r := range set.Records() {
		if r.From == "" {
			parts = append(parts, jsString(r.Ident))
			continue
		}
		targetID, err := g.targetModuleID(r, ctx.Graph)
		if err != nil {
			return "", err
		}
		ctx.RuntimeRequirements.Insert(RuntimeRequire)
		parts = append(parts, fmt.Sprintf("__webpack_require__(%s)[%s]", jsString(targetID), jsString(r.Ident)))
	}
	return strings.Join(parts, ` + " " + `), nil
}

// uniqueIdentifier derives a JavaScript identifier for name that is not yet
// taken in scope.
func uniqueIdentifier(name string, scope *ConcatenationScope) string {
	base := toIdentifier(name)
	ident := base
	for i := 1; scope.IsTaken(ident); i++ {
		ident = base + "_" + strconv.Itoa(i)
	}
	return ident
}

func toIdentifier(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	ident := b.String()
	if ident == "" || reservedWords[ident] {
		ident = "_" + ident
	}
	return ident
}

// jsString quotes s as a JSON string, which is also a JavaScript string
// literal.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
