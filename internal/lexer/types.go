// Package lexer turns CSS source into the ordered dependency event stream
// consumed by the CSS modules parser.
package lexer

import "fmt"

// Mode selects how selectors and declarations are interpreted.
type Mode int

const (
	// ModeCSS treats the source as plain CSS: only URLs, imports and
	// replacements are reported.
	ModeCSS Mode = iota
	// ModeLocal additionally scopes class names, ids and keyframes and
	// understands composes and :export.
	ModeLocal
)

func (m Mode) String() string {
	if m == ModeLocal {
		return "local"
	}
	return "css"
}

// Range is a half-open byte range [Start, End) into the source.
type Range struct {
	Start int
	End   int
}

// Dependency is one event of the stream. The concrete types are URL, Import,
// Replace, LocalClass, LocalID, LocalKeyframes, LocalKeyframesDecl, Composes
// and ICSSExportValue.
type Dependency interface {
	Loc() Range
	isDependency()
}

// URLKind tells how a URL appeared in the source.
type URLKind int

const (
	// URLFunction is url(...); the range covers the whole function.
	URLFunction URLKind = iota
	// URLString is a bare string inside image-set(); the range covers the string.
	URLString
)

// URL is a url() reference inside a declaration.
type URL struct {
	Request string
	Range   Range
	Kind    URLKind
}

// Import is an @import rule. Range covers the whole rule including ';'.
type Import struct {
	Request string
	Range   Range
	Media   string
}

// Replace asks for Range to be replaced by Content in the output.
type Replace struct {
	Content string
	Range   Range
}

// LocalClass is a scoped class selector. Name keeps the leading '.'.
type LocalClass struct {
	Name  string
	Range Range
}

// LocalID is a scoped id selector. Name keeps the leading '#'.
type LocalID struct {
	Name  string
	Range Range
}

// LocalKeyframes is the name of a scoped @keyframes rule.
type LocalKeyframes struct {
	Name  string
	Range Range
}

// LocalKeyframesDecl is a keyframes reference in animation or animation-name.
type LocalKeyframesDecl struct {
	Name  string
	Range Range
}

// Composes is a composes declaration. LocalClasses are the class names (no
// sigil) of the enclosing rule, From is the raw source text, which may be
// quoted, "global" or empty.
type Composes struct {
	LocalClasses []string
	Names        []string
	From         string
	Range        Range
}

// ICSSExportValue is one declaration of an :export block.
type ICSSExportValue struct {
	Prop  string
	Value string
	Range Range
}

func (d URL) Loc() Range                { return d.Range }
func (d Import) Loc() Range             { return d.Range }
func (d Replace) Loc() Range            { return d.Range }
func (d LocalClass) Loc() Range         { return d.Range }
func (d LocalID) Loc() Range            { return d.Range }
func (d LocalKeyframes) Loc() Range     { return d.Range }
func (d LocalKeyframesDecl) Loc() Range { return d.Range }
func (d Composes) Loc() Range           { return d.Range }
func (d ICSSExportValue) Loc() Range    { return d.Range }

func (URL) isDependency()                {}
func (Import) isDependency()             {}
func (Replace) isDependency()            {}
func (LocalClass) isDependency()         {}
func (LocalID) isDependency()            {}
func (LocalKeyframes) isDependency()     {}
func (LocalKeyframesDecl) isDependency() {}
func (Composes) isDependency()           {}
func (ICSSExportValue) isDependency()    {}

// WarningKind classifies a lexer warning.
type WarningKind int

const (
	// NotPrecededAtImport is an @import after rules other than @charset and @layer.
	NotPrecededAtImport WarningKind = iota
	// ExpectedURL is an @import without a string or url() request.
	ExpectedURL
	// UnexpectedComposition is composes outside a single-class rule.
	UnexpectedComposition
	// UnclosedBlock is a block still open at end of input.
	UnclosedBlock
)

// Warning is a recoverable problem found while lexing.
type Warning struct {
	Kind  WarningKind
	Range Range
}

func (w Warning) String() string {
	switch w.Kind {
	case NotPrecededAtImport:
		return "Any '@import' rules must precede all other rules"
	case ExpectedURL:
		return "Expected URL in '@import'"
	case UnexpectedComposition:
		return "Composition is only allowed when selector is single :local class name"
	case UnclosedBlock:
		return "Unexpected end of input, block is not closed"
	default:
		return fmt.Sprintf("unknown warning %d", int(w.Kind))
	}
}
