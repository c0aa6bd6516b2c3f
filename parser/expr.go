package parser

import (
	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/token"
)

// parseExprTop is the entry point for one expression: the where-suffix
// level, precedence 1 (the binding level sits one layer further out, in
// parseBlock — bindings are a block-sequencing construct, not an operator).
func (p *Parser) parseExprTop() ast.Node {
	return p.parseWhere()
}

// whereBinding is one `pattern = expr` clause of a `where` suffix.
type whereBinding struct {
	pos ast.Pos
	pat ast.Pattern
	val ast.Node
}

// parseWhere implements "expr where b1; b2; ..." by nesting the bindings as
// Lets whose body is expr, innermost binding closest to expr.
func (p *Parser) parseWhere() ast.Node {
	expr := p.parsePipeline()
	if p.peek().Kind != token.Where {
		return expr
	}
	p.next()
	var binds []whereBinding
	for {
		pat := p.parsePattern()
		p.expectKind(token.Eq, "where binding")
		val := p.parseExprTop()
		binds = append(binds, whereBinding{pos: pat.Position(), pat: pat, val: val})
		if p.peek().Kind == token.Semi {
			p.next()
			continue
		}
		break
	}
	result := expr
	for i := len(binds) - 1; i >= 0; i-- {
		b := binds[i]
		result = &ast.Let{Pos: b.pos, Pattern: b.pat, Value: b.val, Body: result}
	}
	return result
}

// parsePipeline implements "x \ f \ g" as g (f x): left-associative syntax,
// right-to-left application, the preceding value becoming the trailing
// expression's last argument.
func (p *Parser) parsePipeline() ast.Node {
	left := p.parseOr()
	for p.peek().Kind == token.Backslash {
		tok := p.next()
		rhs := p.parseOr()
		left = &ast.Apply{Pos: posOf(tok, p.file), Callee: rhs, Arg: left}
	}
	return left
}

func (p *Parser) parseOr() ast.Node {
	left := p.parseAnd()
	for p.peek().Kind == token.OrOr || p.peek().Kind == token.Or {
		tok := p.next()
		right := p.parseAnd()
		left = &ast.Binary{Pos: posOf(tok, p.file), Op: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Node {
	left := p.parseComparison()
	for p.peek().Kind == token.AndAnd || p.peek().Kind == token.And {
		tok := p.next()
		right := p.parseComparison()
		left = &ast.Binary{Pos: posOf(tok, p.file), Op: "&&", Left: left, Right: right}
	}
	return left
}

var comparisonOps = map[token.Kind]string{
	token.EqEq: "==", token.NotEq: "!=", token.Lt: "<", token.LtEq: "<=",
	token.Gt: ">", token.GtEq: ">=",
}

func (p *Parser) parseComparison() ast.Node {
	left := p.parseConcatMerge()
	for {
		op, ok := comparisonOps[p.peek().Kind]
		if !ok {
			return left
		}
		tok := p.next()
		right := p.parseConcatMerge()
		left = &ast.Binary{Pos: posOf(tok, p.file), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseConcatMerge() ast.Node {
	left := p.parseAdditive()
	for {
		var op string
		switch p.peek().Kind {
		case token.PlusPlus:
			op = "++"
		case token.Amp:
			op = "&"
		default:
			return left
		}
		tok := p.next()
		right := p.parseAdditive()
		left = &ast.Binary{Pos: posOf(tok, p.file), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() ast.Node {
	left := p.parseMultiplicative()
	for {
		var op string
		switch p.peek().Kind {
		case token.Plus:
			op = "+"
		case token.Minus:
			op = "-"
		default:
			return left
		}
		tok := p.next()
		right := p.parseMultiplicative()
		left = &ast.Binary{Pos: posOf(tok, p.file), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() ast.Node {
	left := p.parseUnary()
	for {
		var op string
		switch p.peek().Kind {
		case token.Star:
			op = "*"
		case token.Slash:
			op = "/"
		case token.Percent:
			op = "%"
		default:
			return left
		}
		tok := p.next()
		right := p.parseUnary()
		left = &ast.Binary{Pos: posOf(tok, p.file), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() ast.Node {
	tok := p.peek()
	if tok.Kind == token.Bang || tok.Kind == token.Minus {
		p.next()
		arg := p.parseUnary()
		op := "!"
		if tok.Kind == token.Minus {
			op = "-"
		}
		return &ast.Unary{Pos: posOf(tok, p.file), Op: op, Arg: arg}
	}
	return p.parseApplication()
}

// canStartPrimary reports whether tok can begin a new application argument.
// Minus and Bang are deliberately excluded: "f -x" parses as the binary
// subtraction "f - x" rather than applying f to -x, so a unary argument
// requires explicit parens ("f (-x)") — this sidesteps the classic
// juxtaposition/unary ambiguity rather than resolving it via whitespace
// sensitivity the tokenizer doesn't track. LBrace is excluded too: a `{`
// directly following a primary is always object-extend (see
// parseObjectExtend), never a literal passed as an ordinary argument.
func canStartPrimary(k token.Kind) bool {
	switch k {
	case token.Integer, token.Float, token.String, token.Symbol, token.Ident,
		token.True, token.False, token.Null,
		token.LParen, token.LBracket,
		token.If, token.When, token.Import, token.Do, token.Dot:
		return true
	}
	return false
}

func (p *Parser) parseApplication() ast.Node {
	left := p.parsePostfix(p.parsePrimary())
	for {
		if p.peek().Kind == token.LBrace {
			left = p.parseObjectExtend(left)
			continue
		}
		if !canStartPrimary(p.peek().Kind) {
			return left
		}
		arg := p.parsePostfix(p.parsePrimary())
		left = &ast.Apply{Pos: left.Position(), Callee: left, Arg: arg}
	}
}

// parseObjectExtend parses the field list of "base { … }": base combined
// with an additional field list, applied left-to-right over base once
// evaluated (see ast.ObjectExtend). Shares field syntax with object
// literals, including the "name { inner }" patch shorthand.
func (p *Parser) parseObjectExtend(base ast.Node) ast.Node {
	lb := p.next()
	var fields []ast.ObjectField
	if p.peek().Kind != token.RBrace {
		fields = append(fields, p.parseObjectField())
		for p.peek().Kind == token.Comma {
			p.next()
			fields = append(fields, p.parseObjectField())
		}
	}
	p.expectKind(token.RBrace, "closing '}' of object-extend")
	return p.parsePostfix(&ast.ObjectExtend{Pos: posOf(lb, p.file), Base: base, Fields: fields})
}

func (p *Parser) parsePostfix(left ast.Node) ast.Node {
	for {
		switch p.peek().Kind {
		case token.Dot:
			dotTok := p.next()
			if p.peek().Kind == token.LBrace {
				p.next()
				var names []string
				for p.peek().Kind != token.RBrace {
					nameTok := p.expectKind(token.Ident, "field projection")
					names = append(names, nameTok.Lexeme)
					if p.peek().Kind == token.Comma {
						p.next()
						continue
					}
					break
				}
				p.expectKind(token.RBrace, "closing '}' of field projection")
				left = &ast.FieldProjection{Pos: posOf(dotTok, p.file), Object: left, Names: names}
				continue
			}
			nameTok := p.expectKind(token.Ident, "field access")
			left = &ast.FieldAccess{Pos: posOf(dotTok, p.file), Object: left, Name: nameTok.Lexeme}
		case token.LBracket:
			lbTok := p.next()
			key := p.parseExprTop()
			p.expectKind(token.RBracket, "closing ']' of index")
			left = &ast.Index{Pos: posOf(lbTok, p.file), Collection: left, Key: key}
		default:
			return left
		}
	}
}
