package parser

import (
	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/token"
)

// parseBlock parses a sequence of `pattern = expr` bindings (each becoming
// a nested Let) followed by a final expression, and returns the resulting
// tree. It is used at the top level, inside `do <block>`, and inside a
// parenthesized group.
//
// There is no explicit indentation bookkeeping here: the grammar below it
// already bottoms out at structural tokens (closing brackets, `,`, `;`,
// `then`/`else`/`otherwise`, EOF) everywhere a block can legally end, so
// newlines are never consulted to find a block's boundary — only at the
// single genuinely ambiguous point, telling a binding apart from a plain
// expression, which tryParseBinding resolves by backtracking instead.
func (p *Parser) parseBlock() ast.Node {
	if let, ok := p.tryParseBinding(); ok {
		return let
	}
	return p.parseExprTop()
}

// tryParseBinding speculatively parses a `pattern = expr` binding. If the
// lookahead after a pattern is not `=`, it rewinds and reports no match so
// the caller can parse the same tokens as a plain expression instead.
func (p *Parser) tryParseBinding() (ast.Node, bool) {
	cp := p.mark()
	pat, ok := p.tryPattern()
	if !ok {
		p.reset(cp)
		return nil, false
	}
	if p.peek().Kind != token.Eq {
		p.reset(cp)
		return nil, false
	}
	eqTok := p.next()
	value := p.parseExprTop()
	if p.peek().Kind == token.Semi {
		p.next()
	}
	body := p.parseBlock()
	return &ast.Let{Pos: posOf(eqTok, p.file), Pattern: pat, Value: value, Body: body}, true
}

// tryPattern attempts parsePattern, reporting failure instead of letting a
// malformed-pattern error escape — used only where the caller has another
// valid way to parse the same tokens (tryParseBinding's "not a binding"
// fallback to a plain expression).
func (p *Parser) tryPattern() (pat ast.Pattern, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isErr := r.(*errs.Error); isErr {
				ok = false
				return
			}
			panic(r)
		}
	}()
	pat = p.parsePattern()
	ok = true
	return
}
