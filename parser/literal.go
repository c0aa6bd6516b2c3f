package parser

import (
	"strconv"
	"strings"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/lexer"
	"github.com/lazylang/lazylang/token"
)

func (p *Parser) parsePrimary() ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.LParen, token.LBracket, token.LBrace:
		if lam, ok := p.tryLambda(); ok {
			return lam
		}
		switch tok.Kind {
		case token.Ident:
			p.next()
			return &ast.Ident{Pos: posOf(tok, p.file), Name: tok.Lexeme}
		case token.LParen:
			return p.parseParenExpr()
		case token.LBracket:
			return p.parseArrayLiteralOrComprehension()
		case token.LBrace:
			return p.parseObjectLiteralOrComprehension()
		}
	case token.Integer:
		p.next()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.errorf(errs.UnexpectedToken, tok, "invalid integer literal %q", tok.Lexeme)
		}
		return &ast.IntLit{Pos: posOf(tok, p.file), Value: v}
	case token.Float:
		p.next()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errorf(errs.UnexpectedToken, tok, "invalid float literal %q", tok.Lexeme)
		}
		return &ast.FloatLit{Pos: posOf(tok, p.file), Value: v}
	case token.True:
		p.next()
		return &ast.BoolLit{Pos: posOf(tok, p.file), Value: true}
	case token.False:
		p.next()
		return &ast.BoolLit{Pos: posOf(tok, p.file), Value: false}
	case token.Null:
		p.next()
		return &ast.NullLit{Pos: posOf(tok, p.file)}
	case token.String:
		p.next()
		return p.buildStringLit(tok)
	case token.Symbol:
		p.next()
		return &ast.SymbolLit{Pos: posOf(tok, p.file), Name: tok.Lexeme}
	case token.Dot:
		return p.parseFieldAccessor()
	case token.If:
		return p.parseIf()
	case token.When:
		return p.parseWhenMatches()
	case token.Import:
		return p.parseImport()
	case token.Do:
		p.next()
		return p.parseBlock()
	}
	p.errorf(errs.ExpectedExpression, tok, "expected an expression, found %s", describeToken(tok))
	panic("unreachable")
}

// tryLambda speculatively parses "pattern -> body". On failure (no pattern,
// or no arrow following one) it rewinds and reports no match.
func (p *Parser) tryLambda() (ast.Node, bool) {
	cp := p.mark()
	pat, ok := p.tryPattern()
	if !ok {
		p.reset(cp)
		return nil, false
	}
	if p.peek().Kind != token.Arrow {
		p.reset(cp)
		return nil, false
	}
	p.next()
	body := p.parseExprTop()
	return &ast.Lambda{Pos: pat.Position(), Param: pat, Body: body}, true
}

func (p *Parser) parseFieldAccessor() ast.Node {
	dotTok := p.next()
	nameTok := p.expectKind(token.Ident, "field accessor")
	names := []string{nameTok.Lexeme}
	for p.peek().Kind == token.Dot && p.peek2().Kind == token.Ident {
		p.next()
		n := p.next()
		names = append(names, n.Lexeme)
	}
	return &ast.FieldAccessor{Pos: posOf(dotTok, p.file), Names: names}
}

func (p *Parser) parseParenExpr() ast.Node {
	lp := p.next()
	if p.peek().Kind == token.RParen {
		p.next()
		return &ast.TupleLit{Pos: posOf(lp, p.file)}
	}
	cp := p.mark()
	if let, ok := p.tryParseBinding(); ok {
		p.expectKind(token.RParen, "closing ')'")
		return let
	}
	p.reset(cp)
	first := p.parseExprTop()
	if p.peek().Kind == token.Comma {
		elems := []ast.Node{first}
		for p.peek().Kind == token.Comma {
			p.next()
			elems = append(elems, p.parseExprTop())
		}
		p.expectKind(token.RParen, "closing ')' of tuple")
		return &ast.TupleLit{Pos: posOf(lp, p.file), Elements: elems}
	}
	p.expectKind(token.RParen, "closing ')'")
	return first
}

func (p *Parser) parseClauses() []ast.Clause {
	var clauses []ast.Clause
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.For:
			p.next()
			pat := p.parsePattern()
			p.expectKind(token.In, "for-clause")
			src := p.parseExprTop()
			clauses = append(clauses, ast.Clause{Pos: posOf(tok, p.file), Pattern: pat, Source: src})
		case token.When:
			p.next()
			guard := p.parseExprTop()
			clauses = append(clauses, ast.Clause{Pos: posOf(tok, p.file), IsGuard: true, Guard: guard})
		default:
			return clauses
		}
	}
}

func (p *Parser) parseArrayLiteralOrComprehension() ast.Node {
	lb := p.next()
	if p.peek().Kind == token.RBracket {
		p.next()
		return &ast.ArrayLit{Pos: posOf(lb, p.file)}
	}
	firstExpr := p.parseExprTop()
	if p.peek().Kind == token.For || p.peek().Kind == token.When {
		clauses := p.parseClauses()
		p.expectKind(token.RBracket, "closing ']' of array comprehension")
		return &ast.ArrayComprehension{Pos: posOf(lb, p.file), Body: firstExpr, Clauses: clauses}
	}
	elems := []ast.ArrayElement{p.finishArrayElement(firstExpr)}
	for p.peek().Kind == token.Comma {
		p.next()
		e := p.parseExprTop()
		elems = append(elems, p.finishArrayElement(e))
	}
	p.expectKind(token.RBracket, "closing ']' of array literal")
	return &ast.ArrayLit{Pos: posOf(lb, p.file), Elements: elems}
}

func (p *Parser) finishArrayElement(expr ast.Node) ast.ArrayElement {
	switch p.peek().Kind {
	case token.If:
		p.next()
		guard := p.parseExprTop()
		return ast.ArrayElement{Expr: expr, Guard: guard}
	case token.Unless:
		p.next()
		guard := p.parseExprTop()
		return ast.ArrayElement{Expr: expr, Guard: guard, GuardIsUnless: true}
	}
	return ast.ArrayElement{Expr: expr}
}

func (p *Parser) parseObjectLiteralOrComprehension() ast.Node {
	lb := p.next()
	if p.peek().Kind == token.RBrace {
		p.next()
		return &ast.ObjectLit{Pos: posOf(lb, p.file)}
	}

	if p.peek().Kind == token.LBracket {
		cp := p.mark()
		p.next()
		keyExpr := p.parseExprTop()
		if p.peek().Kind == token.RBracket {
			p.next()
			if p.peek().Kind == token.Colon {
				p.next()
				valueExpr := p.parseExprTop()
				if p.peek().Kind == token.For || p.peek().Kind == token.When {
					clauses := p.parseClauses()
					p.expectKind(token.RBrace, "closing '}' of object comprehension")
					return &ast.ObjectComprehension{Pos: posOf(lb, p.file), Key: keyExpr, Value: valueExpr, Clauses: clauses}
				}
				first := ast.ObjectField{
					Pos:   posOf(lb, p.file),
					Key:   ast.ObjectKey{Dynamic: true, KeyExpr: keyExpr},
					Value: valueExpr,
				}
				return p.finishObjectLit(lb, first)
			}
		}
		p.reset(cp)
	}

	first := p.parseObjectField()
	return p.finishObjectLit(lb, first)
}

func (p *Parser) finishObjectLit(lb token.Token, first ast.ObjectField) ast.Node {
	fields := []ast.ObjectField{first}
	for p.peek().Kind == token.Comma {
		p.next()
		fields = append(fields, p.parseObjectField())
	}
	p.expectKind(token.RBrace, "closing '}' of object literal")
	return &ast.ObjectLit{Pos: posOf(lb, p.file), Fields: fields}
}

// parseObjectField parses one field of an object literal. A leading doc
// comment is only recognizable directly off the lexer, before the parser's
// lookahead queue has pulled a real token into its place. That holds for a
// field reached right after a comma; the first field of a literal or an
// extension is reached after a peek, so a doc comment on it is not attached.
func (p *Parser) parseObjectField() ast.ObjectField {
	doc := p.maybeDocComment()
	tok := p.peek()

	if tok.Kind == token.LBracket {
		p.next()
		keyExpr := p.parseExprTop()
		p.expectKind(token.RBracket, "dynamic object key")
		if p.peek().Kind == token.LBrace {
			inner := p.parseObjectLiteralOrComprehension()
			return ast.ObjectField{Pos: posOf(tok, p.file), Key: ast.ObjectKey{Dynamic: true, KeyExpr: keyExpr}, Value: inner, Merge: true, Doc: doc}
		}
		p.expectKind(token.Colon, "object field")
		val := p.parseExprTop()
		return ast.ObjectField{Pos: posOf(tok, p.file), Key: ast.ObjectKey{Dynamic: true, KeyExpr: keyExpr}, Value: val, Doc: doc}
	}

	var name string
	switch tok.Kind {
	case token.Ident:
		p.next()
		name = tok.Lexeme
	case token.String:
		p.next()
		name = p.plainStringValue(tok, "an object field name")
	default:
		p.unexpected(tok, "object field name")
	}

	if p.peek().Kind == token.LBrace {
		inner := p.parseObjectLiteralOrComprehension()
		return ast.ObjectField{Pos: posOf(tok, p.file), Key: ast.ObjectKey{Name: name}, Value: inner, Merge: true, Doc: doc}
	}
	p.expectKind(token.Colon, "object field")
	val := p.parseExprTop()
	return ast.ObjectField{Pos: posOf(tok, p.file), Key: ast.ObjectKey{Name: name}, Value: val, Doc: doc}
}

// maybeDocComment peeks a doc comment directly off the lexer. It is only
// meaningful when the lookahead queue is empty (nothing has been pulled
// past the current lexer position yet); callers at any other point simply
// get no doc comment, and the lexer's Next skips the block instead.
func (p *Parser) maybeDocComment() string {
	if len(p.queue) != 0 {
		return ""
	}
	tok, ok := p.lex.PeekDocComment()
	if !ok {
		return ""
	}
	return tok.Lexeme
}

func (p *Parser) parseIf() ast.Node {
	ifTok := p.next()
	cond := p.parseExprTop()
	p.expectKind(token.Then, "if-then")
	thenExpr := p.parseExprTop()
	var elseExpr ast.Node
	if p.peek().Kind == token.Else {
		p.next()
		if p.peek().Kind == token.If {
			elseExpr = p.parseIf()
		} else {
			elseExpr = p.parseExprTop()
		}
	}
	return &ast.If{Pos: posOf(ifTok, p.file), Cond: cond, Then: thenExpr, Else: elseExpr}
}

func (p *Parser) parseWhenMatches() ast.Node {
	whenTok := p.next()
	scrutinee := p.parseExprTop()
	p.expectKind(token.Matches, "when-matches")
	var arms []ast.WhenArm
	var otherwise ast.Node
	for {
		if p.peek().Kind == token.Otherwise {
			p.next()
			otherwise = p.parseExprTop()
			break
		}
		pat := p.parsePattern()
		p.expectKind(token.Then, "when arm")
		body := p.parseExprTop()
		arms = append(arms, ast.WhenArm{Pattern: pat, Body: body})
		if p.peek().Kind == token.Semi {
			p.next()
			continue
		}
		if canStartPattern(p.peek()) {
			continue
		}
		break
	}
	return &ast.WhenMatches{Pos: posOf(whenTok, p.file), Scrutinee: scrutinee, Arms: arms, Otherwise: otherwise}
}

func (p *Parser) parseImport() ast.Node {
	importTok := p.next()
	strTok := p.expectKind(token.String, "import path")
	if strTok.HasInterp {
		p.errorf(errs.UnexpectedToken, strTok, "an import path cannot interpolate")
	}
	path := p.plainStringValue(strTok, "an import path")
	return &ast.Import{Pos: posOf(importTok, p.file), Path: path}
}

// splitInterp decodes escapes and interpolation markers in a String token's
// raw (un-decoded) lexeme. Any *errs.Error it returns is re-panicked so it
// is caught by the same recover boundary as the rest of parsing.
func (p *Parser) splitInterp(tok token.Token) []lexer.InterpSegment {
	segs, err := lexer.SplitInterpolation(p.file, tok.Lexeme, tok.Line, tok.Column+1, tok.Offset+1)
	if err != nil {
		panic(err)
	}
	return segs
}

// plainStringValue decodes tok as a non-interpolating string, raising
// UnexpectedToken (naming context) if it turns out to contain interpolation.
func (p *Parser) plainStringValue(tok token.Token, context string) string {
	segs := p.splitInterp(tok)
	var b strings.Builder
	for _, s := range segs {
		if s.IsExpr {
			p.errorf(errs.UnexpectedToken, tok, "string interpolation is not allowed in %s", context)
		}
		b.WriteString(s.Literal)
	}
	return b.String()
}

func (p *Parser) buildStringLit(tok token.Token) ast.Node {
	segs := p.splitInterp(tok)
	if !tok.HasInterp {
		var b strings.Builder
		for _, s := range segs {
			b.WriteString(s.Literal)
		}
		return &ast.StringLit{Pos: posOf(tok, p.file), Value: b.String()}
	}
	var outSegs []ast.InterpSegment
	for _, s := range segs {
		if !s.IsExpr {
			outSegs = append(outSegs, ast.InterpSegment{Literal: s.Literal})
			continue
		}
		node, err := ParseExpr(p.file, s.ExprSource, s.Line, s.Col, s.Offset)
		if err != nil {
			panic(err)
		}
		outSegs = append(outSegs, ast.InterpSegment{Expr: node})
	}
	return &ast.InterpString{Pos: posOf(tok, p.file), Segments: outSegs}
}
