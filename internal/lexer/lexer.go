package lexer

import (
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// token is a lexer token with its byte offsets in the source.
type token struct {
	tt    css.TokenType
	data  string
	start int
	end   int
}

// state carries the scan over one source.
type state struct {
	src         string
	toks        []token
	pos         int
	mode        Mode
	allowImport bool
	unclosed    bool
	deps        []Dependency
	warnings    []Warning
}

// ruleContext describes the selector of the rule whose block is being read.
type ruleContext struct {
	localClasses []string
	composable   bool
	keyframes    bool
}

// Collect lexes src and returns its dependency events in ascending source
// order together with any warnings.
func Collect(src string, mode Mode) ([]Dependency, []Warning) {
	s := &state{
		src:         src,
		toks:        tokenize(src),
		mode:        mode,
		allowImport: true,
	}
	s.parseRuleList(true, false)

	sort.SliceStable(s.deps, func(i, j int) bool {
		return s.deps[i].Loc().Start < s.deps[j].Loc().Start
	})
	return s.deps, s.warnings
}

// tokenize runs the tdewolff CSS lexer and records offsets. Every byte of the
// input belongs to exactly one token, so offsets are running lengths.
func tokenize(src string) []token {
	l := css.NewLexer(parse.NewInputString(src))
	var toks []token
	offset := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		toks = append(toks, token{
			tt:    tt,
			data:  string(data),
			start: offset,
			end:   offset + len(data),
		})
		offset += len(data)
	}
	return toks
}

func (s *state) emit(d Dependency) {
	s.deps = append(s.deps, d)
}

func (s *state) warn(kind WarningKind, r Range) {
	s.warnings = append(s.warnings, Warning{Kind: kind, Range: r})
}

func (s *state) eof() bool {
	return s.pos >= len(s.toks)
}

func (s *state) markUnclosed() {
	if s.unclosed {
		return
	}
	s.unclosed = true
	s.warn(UnclosedBlock, Range{Start: len(s.src), End: len(s.src)})
}

// parseRuleList reads rules until the closing '}' of the enclosing block
// (consumed) or end of input.
func (s *state) parseRuleList(topLevel, keyframes bool) {
	for !s.eof() {
		t := s.toks[s.pos]
		switch t.tt {
		case css.WhitespaceToken, css.CommentToken, css.CDOToken, css.CDCToken, css.SemicolonToken:
			s.pos++
		case css.RightBraceToken:
			s.pos++
			if !topLevel {
				return
			}
		case css.AtKeywordToken:
			s.parseAtRule(nil)
		default:
			s.parseQualifiedRule(keyframes)
		}
	}
	if !topLevel {
		s.markUnclosed()
	}
}

// consumePrelude advances to the first top-level ';', '{' or '}'. ';' and '{'
// are consumed, '}' is left for the caller. It returns the prelude tokens and
// the terminator type, or ErrorToken at end of input.
func (s *state) consumePrelude() ([]token, css.TokenType) {
	start := s.pos
	depth := 0
	for !s.eof() {
		t := s.toks[s.pos]
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken, css.LeftBraceToken:
			if depth == 0 {
				prelude := s.toks[start:s.pos]
				s.pos++
				return prelude, t.tt
			}
		case css.RightBraceToken:
			if depth == 0 {
				return s.toks[start:s.pos], t.tt
			}
		}
		s.pos++
	}
	return s.toks[start:s.pos], css.ErrorToken
}

// parseAtRule reads an at-rule. nested is the enclosing style rule when the
// at-rule appears inside a declaration block.
func (s *state) parseAtRule(nested *ruleContext) {
	at := s.toks[s.pos]
	name := strings.ToLower(strings.TrimPrefix(at.data, "@"))
	s.pos++

	switch name {
	case "import":
		s.parseImport(at)
		return
	case "charset":
		s.consumePrelude()
		return
	case "layer":
		_, term := s.consumePrelude()
		if term != css.LeftBraceToken {
			return
		}
		s.allowImport = false
		s.parseNestedBlock(nested)
		return
	case "keyframes", "-webkit-keyframes", "-moz-keyframes", "-o-keyframes":
		s.allowImport = false
		s.parseKeyframes()
		return
	case "media", "supports", "container", "document", "-moz-document", "scope", "starting-style":
		s.allowImport = false
		_, term := s.consumePrelude()
		if term == css.LeftBraceToken {
			s.parseNestedBlock(nested)
		}
		return
	}

	s.allowImport = false
	_, term := s.consumePrelude()
	if term == css.LeftBraceToken {
		s.parseDeclarationBlock(ruleContext{})
	}
}

// parseNestedBlock reads the block of a conditional group rule. Inside a
// style rule the block holds declarations, at top level it holds rules.
func (s *state) parseNestedBlock(nested *ruleContext) {
	if nested != nil {
		s.parseDeclarationBlock(*nested)
		return
	}
	s.parseRuleList(false, false)
}

func (s *state) parseImport(at token) {
	prelude, term := s.consumePrelude()

	end := at.end
	if len(prelude) > 0 {
		end = prelude[len(prelude)-1].end
	}
	if term == css.SemicolonToken {
		end = s.toks[s.pos-1].end
	}
	r := Range{Start: at.start, End: end}

	if term == css.LeftBraceToken {
		s.parseDeclarationBlock(ruleContext{})
	}

	if !s.allowImport {
		s.warn(NotPrecededAtImport, r)
		return
	}

	i := skipTrivia(prelude, 0)
	if i >= len(prelude) {
		s.warn(ExpectedURL, r)
		return
	}

	var request string
	next := i + 1
	switch t := prelude[i]; {
	case t.tt == css.StringToken:
		request = unquote(t.data)
	case t.tt == css.URLToken:
		request = urlTokenValue(t.data)
	case t.tt == css.FunctionToken && strings.EqualFold(t.data, "url("):
		j := skipTrivia(prelude, i+1)
		if j < len(prelude) && prelude[j].tt == css.StringToken {
			request = unquote(prelude[j].data)
		}
		next = closingParen(prelude, i) + 1
	default:
		s.warn(ExpectedURL, r)
		return
	}

	media := ""
	if next < len(prelude) {
		media = strings.TrimSpace(s.src[prelude[next].start:prelude[len(prelude)-1].end])
	}

	s.emit(Import{Request: request, Range: r, Media: media})
}

func (s *state) parseKeyframes() {
	prelude, term := s.consumePrelude()

	if s.mode == ModeLocal {
		s.keyframesName(prelude)
	}

	if term == css.LeftBraceToken {
		s.parseRuleList(false, true)
	}
}

// keyframesName reports the scoped name of a @keyframes prelude, honoring
// :global(name) and :local(name).
func (s *state) keyframesName(prelude []token) {
	i := skipTrivia(prelude, 0)
	if i >= len(prelude) {
		return
	}

	t := prelude[i]
	if t.tt == css.ColonToken && i+1 < len(prelude) && prelude[i+1].tt == css.FunctionToken {
		fn := strings.ToLower(prelude[i+1].data)
		if fn != "global(" && fn != "local(" {
			return
		}
		closing := closingParen(prelude, i+1)
		if closing >= len(prelude) {
			return
		}
		s.emit(Replace{Range: Range{Start: t.start, End: prelude[i+1].end}})
		s.emit(Replace{Range: Range{Start: prelude[closing].start, End: prelude[closing].end}})
		if fn == "local(" {
			j := skipTrivia(prelude, i+2)
			if j < closing && prelude[j].tt == css.IdentToken {
				s.emit(LocalKeyframes{Name: prelude[j].data, Range: Range{Start: prelude[j].start, End: prelude[j].end}})
			}
		}
		return
	}

	if t.tt == css.IdentToken {
		s.emit(LocalKeyframes{Name: t.data, Range: Range{Start: t.start, End: t.end}})
	}
}

func (s *state) parseQualifiedRule(keyframes bool) {
	s.allowImport = false
	prelude, term := s.consumePrelude()
	if term != css.LeftBraceToken {
		return
	}

	if keyframes || s.mode != ModeLocal {
		s.parseDeclarationBlock(ruleContext{keyframes: keyframes})
		return
	}

	if isExportSelector(prelude) {
		s.parseICSSExport(prelude)
		return
	}

	s.parseDeclarationBlock(s.scanSelector(prelude))
}

// parseDeclarationBlock reads declarations, nested rules and nested at-rules
// until the closing '}' (consumed).
func (s *state) parseDeclarationBlock(ctx ruleContext) {
	for !s.eof() {
		t := s.toks[s.pos]
		switch t.tt {
		case css.WhitespaceToken, css.CommentToken, css.SemicolonToken:
			s.pos++
		case css.RightBraceToken:
			s.pos++
			return
		case css.AtKeywordToken:
			nested := ctx
			s.parseAtRule(&nested)
		default:
			s.parseDeclarationOrRule(ctx)
		}
	}
	s.markUnclosed()
}

func (s *state) parseDeclarationOrRule(ctx ruleContext) {
	start := s.pos
	end := s.pos
	depth := 0
scan:
	for end < len(s.toks) {
		switch s.toks[end].tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken, css.RightBraceToken, css.LeftBraceToken:
			if depth == 0 {
				break scan
			}
		}
		end++
	}

	if end < len(s.toks) && s.toks[end].tt == css.LeftBraceToken {
		prelude := s.toks[start:end]
		s.pos = end + 1
		if s.mode == ModeLocal && !ctx.keyframes {
			s.parseDeclarationBlock(s.scanSelector(prelude))
		} else {
			s.parseDeclarationBlock(ruleContext{keyframes: ctx.keyframes})
		}
		return
	}

	decl := s.toks[start:end]
	s.pos = end
	declEnd := lastEnd(decl, s.toks[start].start)
	if end < len(s.toks) && s.toks[end].tt == css.SemicolonToken {
		declEnd = s.toks[end].end
		s.pos = end + 1
	}
	s.handleDeclaration(decl, declEnd, ctx)
}

func (s *state) handleDeclaration(decl []token, declEnd int, ctx ruleContext) {
	i := skipTrivia(decl, 0)
	if i >= len(decl) {
		return
	}
	r := Range{Start: decl[i].start, End: declEnd}

	colon := -1
	if decl[i].tt == css.IdentToken || decl[i].tt == css.CustomPropertyNameToken {
		j := skipTrivia(decl, i+1)
		if j < len(decl) && decl[j].tt == css.ColonToken {
			colon = j
		}
	}
	if colon < 0 {
		s.scanURLs(decl)
		return
	}

	prop := strings.ToLower(decl[i].data)
	values := decl[colon+1:]

	if s.mode == ModeLocal && !ctx.keyframes {
		switch prop {
		case "composes", "compose-with":
			s.handleComposes(values, r, ctx)
			return
		case "animation-name", "-webkit-animation-name":
			s.handleAnimationName(values)
		case "animation", "-webkit-animation":
			s.handleAnimation(values)
		}
	}

	s.scanURLs(values)
}

func (s *state) handleComposes(values []token, r Range, ctx ruleContext) {
	if !ctx.composable || len(ctx.localClasses) == 0 {
		s.warn(UnexpectedComposition, r)
		return
	}

	var names []string
	from := ""
	for i := 0; i < len(values); i++ {
		t := values[i]
		if t.tt != css.IdentToken {
			continue
		}
		if t.data == "from" {
			j := skipTrivia(values, i+1)
			if j < len(values) && (values[j].tt == css.StringToken || values[j].tt == css.IdentToken) {
				from = values[j].data
			}
			break
		}
		names = append(names, t.data)
	}

	s.emit(Composes{
		LocalClasses: append([]string(nil), ctx.localClasses...),
		Names:        names,
		From:         from,
		Range:        r,
	})
	s.emit(Replace{Range: r})
}

var animationNameKeywords = map[string]bool{
	"none": true, "initial": true, "inherit": true, "unset": true,
	"revert": true, "revert-layer": true,
}

var animationKeywords = map[string]bool{
	"none": true, "initial": true, "inherit": true, "unset": true,
	"revert": true, "revert-layer": true, "infinite": true, "normal": true,
	"reverse": true, "alternate": true, "alternate-reverse": true,
	"forwards": true, "backwards": true, "both": true, "running": true,
	"paused": true, "ease": true, "ease-in": true, "ease-out": true,
	"ease-in-out": true, "linear": true, "step-start": true, "step-end": true,
	"auto": true,
}

func (s *state) handleAnimationName(values []token) {
	depth := 0
	for _, t := range values {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		case css.IdentToken:
			if depth == 0 && !animationNameKeywords[strings.ToLower(t.data)] {
				s.emit(LocalKeyframesDecl{Name: t.data, Range: Range{Start: t.start, End: t.end}})
			}
		}
	}
}

// handleAnimation reports the first non-keyword identifier of every
// comma-separated animation in the shorthand.
func (s *state) handleAnimation(values []token) {
	depth := 0
	found := false
	for _, t := range values {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		case css.CommaToken:
			if depth == 0 {
				found = false
			}
		case css.IdentToken:
			if depth == 0 && !found && !animationKeywords[strings.ToLower(t.data)] {
				found = true
				s.emit(LocalKeyframesDecl{Name: t.data, Range: Range{Start: t.start, End: t.end}})
			}
		}
	}
}

// scanURLs reports url() references and image-set() strings.
func (s *state) scanURLs(values []token) {
	for i := 0; i < len(values); i++ {
		t := values[i]
		switch t.tt {
		case css.URLToken:
			s.emit(URL{
				Request: urlTokenValue(t.data),
				Range:   Range{Start: t.start, End: t.end},
				Kind:    URLFunction,
			})
		case css.FunctionToken:
			fn := strings.ToLower(t.data)
			closing := closingParen(values, i)
			switch fn {
			case "url(":
				j := skipTrivia(values, i+1)
				if j < len(values) && values[j].tt == css.StringToken && closing < len(values) {
					s.emit(URL{
						Request: unquote(values[j].data),
						Range:   Range{Start: t.start, End: values[closing].end},
						Kind:    URLFunction,
					})
					i = closing
				}
			case "image-set(", "-webkit-image-set(":
				for j := i + 1; j < closing && j < len(values); j++ {
					if values[j].tt == css.StringToken {
						s.emit(URL{
							Request: unquote(values[j].data),
							Range:   Range{Start: values[j].start, End: values[j].end},
							Kind:    URLString,
						})
					}
				}
			}
		}
	}
}

// parseICSSExport reads an :export block, reporting each declaration and
// removing the whole block from the output.
func (s *state) parseICSSExport(prelude []token) {
	start := prelude[skipTrivia(prelude, 0)].start
	for !s.eof() {
		t := s.toks[s.pos]
		switch t.tt {
		case css.WhitespaceToken, css.CommentToken, css.SemicolonToken:
			s.pos++
			continue
		case css.RightBraceToken:
			s.pos++
			s.emit(Replace{Range: Range{Start: start, End: t.end}})
			return
		}

		declStart := s.pos
		for !s.eof() && s.toks[s.pos].tt != css.SemicolonToken && s.toks[s.pos].tt != css.RightBraceToken {
			s.pos++
		}
		decl := s.toks[declStart:s.pos]
		colon := -1
		for i, dt := range decl {
			if dt.tt == css.ColonToken {
				colon = i
				break
			}
		}
		if colon <= 0 {
			continue
		}
		prop := strings.TrimSpace(s.src[decl[0].start:decl[colon].start])
		value := ""
		if colon+1 < len(decl) {
			value = strings.TrimSpace(s.src[decl[colon+1].start:decl[len(decl)-1].end])
		}
		s.emit(ICSSExportValue{
			Prop:  prop,
			Value: value,
			Range: Range{Start: decl[0].start, End: decl[len(decl)-1].end},
		})
	}
	s.markUnclosed()
	s.emit(Replace{Range: Range{Start: start, End: len(s.src)}})
}

func isExportSelector(prelude []token) bool {
	var significant []token
	for _, t := range prelude {
		if t.tt != css.WhitespaceToken && t.tt != css.CommentToken {
			significant = append(significant, t)
		}
	}
	return len(significant) == 2 &&
		significant[0].tt == css.ColonToken &&
		significant[1].tt == css.IdentToken &&
		strings.EqualFold(significant[1].data, "export")
}

func skipTrivia(toks []token, i int) int {
	for i < len(toks) && (toks[i].tt == css.WhitespaceToken || toks[i].tt == css.CommentToken) {
		i++
	}
	return i
}

// closingParen returns the index of the ')' matching the function or
// parenthesis token at open, or len(toks) when it is missing.
func closingParen(toks []token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks)
}

func lastEnd(toks []token, fallback int) int {
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].tt != css.WhitespaceToken && toks[i].tt != css.CommentToken {
			return toks[i].end
		}
	}
	return fallback
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if len(s) >= 1 && (s[0] == '"' || s[0] == '\'') {
		return s[1:]
	}
	return s
}

// urlTokenValue extracts the request from a url(...) token.
func urlTokenValue(s string) string {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s
	}
	inner := s[open+1:]
	inner = strings.TrimSuffix(inner, ")")
	return unquote(strings.TrimSpace(inner))
}
