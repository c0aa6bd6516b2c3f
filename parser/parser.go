// Package parser builds a lazylang expression tree via precedence-climbing
// recursive descent with two-token lookahead, following the structured
// error idiom (panic internally, recover once at the public boundary) used
// throughout the corpus this was learned from.
package parser

import (
	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/lexer"
	"github.com/lazylang/lazylang/token"
)

// Parser turns one file's token stream into an expression tree.
type Parser struct {
	file  string
	lex   *lexer.Lexer
	queue []token.Token // tokens already pulled from lex, not yet consumed
}

// New creates a Parser over the given source, attributing positions to file.
func New(file, src string) *Parser {
	return &Parser{file: file, lex: lexer.New(file, src)}
}

// newAt creates a Parser over src whose token positions are reported as if
// src began at (line, col, offset) in some larger file — used to sub-parse
// an interpolated expression extracted from a string literal.
func newAt(file, src string, line, col, offset int) *Parser {
	return &Parser{file: file, lex: lexer.NewAt(file, src, line, col, offset)}
}

// Parse parses the whole of src as a single top-level block (a sequence of
// `name = expr` bindings followed by a final expression) and returns its
// expression tree.
func Parse(file, src string) (node ast.Node, err error) {
	p := New(file, src)
	defer p.recover(&err)
	node = p.parseBlock()
	p.expectKind(token.EOF, "end of input")
	return node, nil
}

// ParseExpr parses src as a single expression (no let-binding sequence),
// used for sub-parsing an interpolated string's embedded expressions.
// baseLine/baseCol/baseOffset seed the position of src's first byte within
// the original enclosing file.
func ParseExpr(file, src string, baseLine, baseCol, baseOffset int) (node ast.Node, err error) {
	p := newAt(file, src, baseLine, baseCol, baseOffset)
	defer p.recover(&err)
	node = p.parseExprTop()
	p.expectKind(token.EOF, "end of interpolated expression")
	return node, nil
}

func (p *Parser) recover(errp *error) {
	e := recover()
	if e == nil {
		return
	}
	if ee, ok := e.(*errs.Error); ok {
		*errp = ee
		return
	}
	panic(e)
}

// fill ensures at least n tokens are buffered in the lookahead queue.
func (p *Parser) fill(n int) {
	for len(p.queue) < n {
		p.queue = append(p.queue, p.lex.Next())
	}
}

// peek returns, without consuming, the next token.
func (p *Parser) peek() token.Token {
	p.fill(1)
	return p.queue[0]
}

// peek2 returns, without consuming, the token after next — the parser's
// two-token lookahead.
func (p *Parser) peek2() token.Token {
	p.fill(2)
	return p.queue[1]
}

// next consumes and returns the next token.
func (p *Parser) next() token.Token {
	p.fill(1)
	t := p.queue[0]
	p.queue = p.queue[1:]
	return t
}

// checkpoint is a speculative-parse savepoint.
type checkpoint struct {
	lex   lexer.State
	queue []token.Token
}

func (p *Parser) mark() checkpoint {
	q := make([]token.Token, len(p.queue))
	copy(q, p.queue)
	return checkpoint{lex: p.lex.Save(), queue: q}
}

func (p *Parser) reset(c checkpoint) {
	p.lex.Restore(c.lex)
	p.queue = c.queue
}

func posOf(t token.Token, file string) ast.Pos {
	return ast.Pos{File: file, Offset: t.Offset, Line: t.Line, Column: t.Column}
}

func errsPos(t token.Token, file string) errs.Pos {
	return errs.Pos{File: file, Offset: t.Offset, Line: t.Line, Column: t.Column, Length: len(t.Lexeme)}
}

func (p *Parser) errorf(kind errs.Kind, tok token.Token, format string, args ...interface{}) {
	panic(errs.New(kind, errsPos(tok, p.file), format, args...))
}

// expectKind consumes the next token, requiring it to have kind, or raises
// UnexpectedToken naming context.
func (p *Parser) expectKind(kind token.Kind, context string) token.Token {
	tok := p.next()
	if tok.Kind != kind {
		p.errorf(errs.UnexpectedToken, tok, "expected %s in %s, found %s", kind, context, describeToken(tok))
	}
	return tok
}

func describeToken(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of input"
	}
	return t.Kind.String()
}

func (p *Parser) unexpected(tok token.Token, context string) {
	p.errorf(errs.UnexpectedToken, tok, "unexpected %s in %s", describeToken(tok), context)
}
