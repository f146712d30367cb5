package lexer

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// selectorScan tracks one comma-separated selector list while it is read.
type selectorScan struct {
	local       bool
	depth       int
	significant int
	classes     int
	simple      bool
	seen        map[string]bool
	ctx         ruleContext
}

// scanSelector reports scoped classes and ids of a rule prelude, strips
// :global/:local wrappers and decides whether the rule may use composes.
func (s *state) scanSelector(prelude []token) ruleContext {
	sc := &selectorScan{
		local:  true,
		simple: true,
		seen:   make(map[string]bool),
	}
	s.scanSelectorTokens(sc, prelude)
	sc.endSegment()
	sc.ctx.composable = sc.simple && len(sc.ctx.localClasses) > 0
	return sc.ctx
}

func (sc *selectorScan) endSegment() {
	if sc.significant != 1 || sc.classes != 1 {
		sc.simple = false
	}
	sc.significant = 0
	sc.classes = 0
}

func (s *state) scanSelectorTokens(sc *selectorScan, toks []token) {
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.tt {
		case css.WhitespaceToken, css.CommentToken:
			continue

		case css.CommaToken:
			if sc.depth == 0 {
				sc.endSegment()
				sc.local = true
				continue
			}
			sc.significant++

		case css.ColonToken:
			if i+1 < len(toks) {
				next := toks[i+1]
				if next.tt == css.FunctionToken {
					fn := strings.ToLower(next.data)
					if fn == "global(" || fn == "local(" {
						i = s.scanScopeFunction(sc, toks, i, fn == "local(")
						continue
					}
				}
				if next.tt == css.IdentToken {
					name := strings.ToLower(next.data)
					if name == "global" || name == "local" {
						end := next.end
						skip := i + 1
						if i+2 < len(toks) && toks[i+2].tt == css.WhitespaceToken {
							end = toks[i+2].end
							skip = i + 2
						}
						s.emit(Replace{Range: Range{Start: t.start, End: end}})
						sc.local = name == "local"
						i = skip
						continue
					}
				}
			}
			sc.significant++

		case css.DelimToken:
			if t.data == "." && i+1 < len(toks) && toks[i+1].tt == css.IdentToken {
				ident := toks[i+1]
				sc.significant++
				if sc.local {
					s.emit(LocalClass{Name: "." + ident.data, Range: Range{Start: t.start, End: ident.end}})
					if sc.depth == 0 {
						sc.classes++
					}
					if !sc.seen[ident.data] {
						sc.seen[ident.data] = true
						sc.ctx.localClasses = append(sc.ctx.localClasses, ident.data)
					}
				}
				i++
				continue
			}
			sc.significant++

		case css.HashToken:
			sc.significant++
			if sc.local {
				s.emit(LocalID{Name: t.data, Range: Range{Start: t.start, End: t.end}})
			}

		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			sc.depth++
			sc.significant++

		case css.RightParenthesisToken, css.RightBracketToken:
			if sc.depth > 0 {
				sc.depth--
			}

		default:
			sc.significant++
		}
	}
}

// scanScopeFunction handles :global(...) or :local(...) starting at the colon
// index and returns the index of the closing parenthesis.
func (s *state) scanScopeFunction(sc *selectorScan, toks []token, colon int, local bool) int {
	fn := toks[colon+1]
	closing := closingParen(toks, colon+1)

	s.emit(Replace{Range: Range{Start: toks[colon].start, End: fn.end}})
	if closing < len(toks) {
		s.emit(Replace{Range: Range{Start: toks[closing].start, End: toks[closing].end}})
	}

	inner := toks[colon+2 : min(closing, len(toks))]
	saved := sc.local
	sc.local = local
	s.scanSelectorTokens(sc, inner)
	sc.local = saved

	return closing
}
