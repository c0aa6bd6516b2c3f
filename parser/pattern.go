package parser

import (
	"strconv"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/token"
)

// canStartPattern reports whether tok can begin a pattern, used by
// parseWhenMatches to tell "one more arm follows" from "arms are done".
func canStartPattern(tok token.Token) bool {
	switch tok.Kind {
	case token.Ident, token.Integer, token.Float, token.String, token.Symbol,
		token.True, token.False, token.Null, token.Minus,
		token.LParen, token.LBracket, token.LBrace:
		return true
	}
	return false
}

func (p *Parser) parsePattern() ast.Pattern {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.next()
		return &ast.PatIdent{Pos: posOf(tok, p.file), Name: tok.Lexeme}
	case token.Integer, token.Float, token.String, token.Symbol, token.True, token.False, token.Null, token.Minus:
		return p.parseLiteralPattern()
	case token.LParen:
		return p.parseTuplePattern()
	case token.LBracket:
		return p.parseArrayPattern()
	case token.LBrace:
		return p.parseObjectPattern()
	}
	p.unexpected(tok, "pattern")
	panic("unreachable")
}

func (p *Parser) parseLiteralPattern() ast.Pattern {
	start := p.peek()
	negative := false
	if start.Kind == token.Minus {
		p.next()
		negative = true
	}
	tok := p.next()
	var value ast.Node
	switch tok.Kind {
	case token.Integer:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.errorf(errs.UnexpectedToken, tok, "invalid integer literal %q", tok.Lexeme)
		}
		if negative {
			v = -v
		}
		value = &ast.IntLit{Pos: posOf(tok, p.file), Value: v}
	case token.Float:
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errorf(errs.UnexpectedToken, tok, "invalid float literal %q", tok.Lexeme)
		}
		if negative {
			v = -v
		}
		value = &ast.FloatLit{Pos: posOf(tok, p.file), Value: v}
	case token.String:
		if negative {
			p.unexpected(tok, "negative literal pattern")
		}
		value = &ast.StringLit{Pos: posOf(tok, p.file), Value: p.plainStringValue(tok, "a string pattern")}
	case token.Symbol:
		if negative {
			p.unexpected(tok, "negative literal pattern")
		}
		value = &ast.SymbolLit{Pos: posOf(tok, p.file), Name: tok.Lexeme}
	case token.True, token.False:
		if negative {
			p.unexpected(tok, "negative literal pattern")
		}
		value = &ast.BoolLit{Pos: posOf(tok, p.file), Value: tok.Kind == token.True}
	case token.Null:
		if negative {
			p.unexpected(tok, "negative literal pattern")
		}
		value = &ast.NullLit{Pos: posOf(tok, p.file)}
	default:
		p.unexpected(tok, "literal pattern")
	}
	return &ast.PatLiteral{Pos: posOf(start, p.file), Value: value}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	lp := p.next()
	if p.peek().Kind == token.RParen {
		p.next()
		return &ast.PatTuple{Pos: posOf(lp, p.file)}
	}
	first := p.parsePattern()
	if p.peek().Kind != token.Comma {
		p.expectKind(token.RParen, "closing ')' of pattern")
		return first
	}
	elems := []ast.Pattern{first}
	for p.peek().Kind == token.Comma {
		p.next()
		elems = append(elems, p.parsePattern())
	}
	p.expectKind(token.RParen, "closing ')' of tuple pattern")
	return &ast.PatTuple{Pos: posOf(lp, p.file), Elements: elems}
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	lb := p.next()
	pat := &ast.PatArray{Pos: posOf(lb, p.file)}
	for p.peek().Kind != token.RBracket {
		if p.peek().Kind == token.Ellipsis {
			p.next()
			restTok := p.expectKind(token.Ident, "rest-binding name")
			pat.HasRest = true
			pat.Rest = restTok.Lexeme
			break
		}
		pat.Prefix = append(pat.Prefix, p.parsePattern())
		if p.peek().Kind == token.Comma {
			p.next()
			continue
		}
		break
	}
	p.expectKind(token.RBracket, "closing ']' of array pattern")
	return pat
}

func (p *Parser) parseObjectPattern() ast.Pattern {
	lb := p.next()
	pat := &ast.PatObject{Pos: posOf(lb, p.file)}
	for p.peek().Kind != token.RBrace {
		nameTok := p.expectKind(token.Ident, "object pattern field")
		field := ast.PatObjectField{Name: nameTok.Lexeme}
		if p.peek().Kind == token.Colon {
			p.next()
			field.HasSub = true
			field.Sub = p.parsePattern()
		}
		pat.Fields = append(pat.Fields, field)
		if p.peek().Kind == token.Comma {
			p.next()
			continue
		}
		break
	}
	p.expectKind(token.RBrace, "closing '}' of object pattern")
	return pat
}
