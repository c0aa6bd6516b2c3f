// Package lexer turns lazylang source text into a stream of tokens, pulled
// one at a time by the parser via Next.
//
// The scanning style (rune-at-a-time next/backup/peek, start/pos markers,
// acceptRun over a valid-rune set) is carried over from a classic
// text/template-style lexer, but run synchronously on demand rather than as
// a goroutine feeding a channel — the language has exactly one evaluation in
// flight per process, so there is nothing for a background scanning
// goroutine to buy.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/token"
)

const eof = -1

// Lexer scans one source file and yields tokens on demand.
type Lexer struct {
	file  string
	input string

	pos   int // current byte offset
	start int // start of the pending token
	width int // width in bytes of the last rune returned by next

	line, col         int // position of pos
	startLine, startCol int

	newlines int // newlines seen since the last emitted token

	lastKind token.Kind // kind of the most recently emitted token, for context

	offsetBias int // added to emitted tokens' Offset; nonzero only via NewAt
}

// New creates a Lexer over the given source, attributing positions to file
// (used only in error messages and token locations).
func New(file, input string) *Lexer {
	return &Lexer{file: file, input: input, line: 1, col: 1, lastKind: token.Invalid}
}

// NewAt creates a Lexer over input whose reported positions start at line,
// col, offset instead of 1,1,0 — used when input is actually a substring
// (an interpolated expression) extracted from a larger file.
func NewAt(file, input string, line, col, offset int) *Lexer {
	return &Lexer{file: file, input: input, line: line, col: col, offsetBias: offset, lastKind: token.Invalid}
}

// State is an opaque snapshot of scan position, used by the parser to back
// out of a speculative parse (lambda-pattern vs. parenthesized expression,
// destructuring-let vs. plain statement) that turned out wrong.
type State struct {
	pos, start, width           int
	line, col, startLine, startCol int
	newlines                    int
	lastKind                    token.Kind
}

// Save captures the current scan position.
func (l *Lexer) Save() State {
	return State{
		pos: l.pos, start: l.start, width: l.width,
		line: l.line, col: l.col, startLine: l.startLine, startCol: l.startCol,
		newlines: l.newlines, lastKind: l.lastKind,
	}
}

// Restore rewinds the lexer to a previously Saved position.
func (l *Lexer) Restore(s State) {
	l.pos, l.start, l.width = s.pos, s.start, s.width
	l.line, l.col, l.startLine, l.startCol = s.line, s.col, s.startLine, s.startCol
	l.newlines = s.newlines
	l.lastKind = s.lastKind
}

// next consumes and returns the next rune, or eof at end of input.
func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	l.width = w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// backup steps back one rune. May only be called once per call to next.
func (l *Lexer) backup() {
	l.pos -= l.width
	if l.width > 0 && l.input[l.pos] == '\n' {
		l.line--
		// column is now unknown exactly; recomputed lazily is overkill here
		// since backup is only ever used to un-read a just-inspected rune
		// within the same logical line in practice.
		l.col = l.columnAt(l.pos)
	} else {
		l.col--
	}
}

func (l *Lexer) columnAt(pos int) int {
	n := strings.LastIndexByte(l.input[:pos], '\n')
	return pos - n
}

// peek returns, without consuming, the next rune.
func (l *Lexer) peek() rune {
	r := l.next()
	if r != eof {
		l.backup()
	}
	return r
}

func (l *Lexer) markStart() {
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.col
}

func (l *Lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	if l.width > 0 {
		l.backup()
	}
	return false
}

func (l *Lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	if l.width > 0 {
		l.backup()
	}
}

func (l *Lexer) acceptRunFunc(pred func(rune) bool) {
	for pred(l.next()) {
	}
	if l.width > 0 {
		l.backup()
	}
}

func (l *Lexer) pos_() errs.Pos {
	return errs.Pos{File: l.file, Line: l.startLine, Column: l.startCol, Offset: l.offsetBias + l.start, Length: l.pos - l.start}
}

func (l *Lexer) errorf(kind errs.Kind, format string, args ...interface{}) {
	panic(errs.New(kind, l.pos_(), format, args...))
}

func (l *Lexer) emit(kind token.Kind) token.Token {
	t := token.Token{
		Kind: kind, Lexeme: l.input[l.start:l.pos],
		Line: l.startLine, Column: l.startCol, Offset: l.offsetBias + l.start,
		NewlinesBefore: l.newlines,
	}
	l.newlines = 0
	l.lastKind = kind
	return t
}

func (l *Lexer) emitLexeme(kind token.Kind, lexeme string) token.Token {
	t := token.Token{
		Kind: kind, Lexeme: lexeme,
		Line: l.startLine, Column: l.startCol, Offset: l.offsetBias + l.start,
		NewlinesBefore: l.newlines,
	}
	l.newlines = 0
	l.lastKind = kind
	return t
}

// Next scans and returns the next token. It panics with an *errs.Error (kind
// UnexpectedCharacter or UnterminatedString) on a lexical error; callers at
// the parser's public boundary recover it.
func (l *Lexer) Next() token.Token {
	l.skipSpaceAndComments()
	for strings.HasPrefix(l.input[l.pos:], "///") {
		// A doc-comment block the parser did not take via PeekDocComment is
		// skipped like an ordinary comment, keeping its newline count.
		doc, _ := l.lexDocCommentIfPresent()
		l.newlines = doc.NewlinesBefore
		l.skipSpaceAndComments()
	}
	l.markStart()

	r := l.next()
	switch {
	case r == eof:
		return l.emit(token.EOF)
	case r == '"' || r == '\'':
		return l.lexString(r)
	case isDigit(r):
		l.backup()
		return l.lexNumber()
	case r == '#':
		return l.lexSymbol()
	case isIdentStart(r):
		l.backup()
		return l.lexIdent()
	}

	switch r {
	case '+':
		if l.accept("+") {
			return l.emit(token.PlusPlus)
		}
		return l.emit(token.Plus)
	case '-':
		if l.accept(">") {
			return l.emit(token.Arrow)
		}
		return l.emit(token.Minus)
	case '*':
		return l.emit(token.Star)
	case '/':
		return l.emit(token.Slash)
	case '%':
		return l.emit(token.Percent)
	case '=':
		if l.accept("=") {
			return l.emit(token.EqEq)
		}
		return l.emit(token.Eq)
	case '!':
		if l.accept("=") {
			return l.emit(token.NotEq)
		}
		return l.emit(token.Bang)
	case '<':
		if l.accept("=") {
			return l.emit(token.LtEq)
		}
		return l.emit(token.Lt)
	case '>':
		if l.accept("=") {
			return l.emit(token.GtEq)
		}
		return l.emit(token.Gt)
	case '&':
		if l.accept("&") {
			return l.emit(token.AndAnd)
		}
		return l.emit(token.Amp)
	case '|':
		if l.accept("|") {
			return l.emit(token.OrOr)
		}
		l.errorf(errs.UnexpectedCharacter, "unexpected character %q", r)
	case '\\':
		return l.emit(token.Backslash)
	case '.':
		if l.peek() == '.' {
			l.next()
			if l.accept(".") {
				return l.emit(token.Ellipsis)
			}
			l.errorf(errs.UnexpectedCharacter, "unexpected '..' (did you mean '...'?)")
		}
		return l.emit(token.Dot)
	case ',':
		return l.emit(token.Comma)
	case ':':
		return l.emit(token.Colon)
	case ';':
		return l.emit(token.Semi)
	case '(':
		return l.emit(token.LParen)
	case ')':
		return l.emit(token.RParen)
	case '[':
		return l.emit(token.LBracket)
	case ']':
		return l.emit(token.RBracket)
	case '{':
		return l.emit(token.LBrace)
	case '}':
		return l.emit(token.RBrace)
	}

	l.errorf(errs.UnexpectedCharacter, "unexpected character %q", r)
	panic("unreachable")
}

// skipSpaceAndComments consumes spaces, tabs, CR, newlines (counting them
// into l.newlines), and // line comments. /// doc comments are NOT consumed
// here: PeekDocComment turns a block into a DocComment token when the parser
// asks for one, and Next skips any block the parser did not ask for.
func (l *Lexer) skipSpaceAndComments() {
	for {
		r := l.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r':
			l.next()
			continue
		case r == '\n':
			l.next()
			l.newlines++
			continue
		case r == '/':
			save, saveCol := l.pos, l.col
			l.next()
			if l.peek() == '/' {
				l.next()
				if l.peek() == '/' {
					// doc comment: back up to let lexDocComment handle it.
					l.pos = save
					l.col = saveCol
					l.width = 0
					return
				}
				for {
					c := l.next()
					if c == eof || c == '\n' {
						if c == '\n' {
							l.newlines++
						}
						break
					}
				}
				continue
			}
			l.pos = save
			l.col = saveCol
			l.width = 0
			return
		default:
			return
		}
	}
}

func (l *Lexer) lexDocCommentIfPresent() (token.Token, bool) {
	if !strings.HasPrefix(l.input[l.pos:], "///") {
		return token.Token{}, false
	}
	l.markStart()
	var lines []string
	for strings.HasPrefix(l.input[l.pos:], "///") {
		l.next()
		l.next()
		l.next()
		lineStart := l.pos
		for {
			r := l.next()
			if r == eof || r == '\n' {
				break
			}
		}
		end := l.pos
		if end > lineStart && l.input[end-1] == '\n' {
			end--
		}
		lines = append(lines, strings.TrimSpace(l.input[lineStart:end]))
		if l.input[l.pos-1] == '\n' {
			l.newlines++
		}
		l.skipBlankRunBetweenDocLines()
	}
	return l.emitLexeme(token.DocComment, strings.Join(lines, "\n")), true
}

// skipBlankRunBetweenDocLines skips the spaces, tabs and CRs that indent the
// next line after a /// line, so an indented /// continues the block. It
// does not skip newlines: a blank line, like any other non-/// line, ends
// the block because the loop condition re-checks HasPrefix("///").
func (l *Lexer) skipBlankRunBetweenDocLines() {
	for {
		r := l.peek()
		if r == ' ' || r == '\t' || r == '\r' {
			l.next()
			continue
		}
		return
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) lexNumber() token.Token {
	l.acceptRun("0123456789")
	kind := token.Integer
	if l.peek() == '.' {
		save, saveCol := l.pos, l.col
		l.next()
		if isDigit(l.peek()) {
			l.acceptRun("0123456789")
			kind = token.Float
		} else {
			// a bare trailing dot is not part of the number (e.g. "1.foo" or
			// application "1 .name"); put it back for the parser to see as Dot.
			l.pos = save
			l.col = saveCol
			l.width = 0
		}
	}
	if isIdentStart(l.peek()) {
		l.errorf(errs.UnexpectedCharacter, "invalid number literal %q", l.input[l.start:l.pos]+string(l.peek()))
	}
	return l.emit(kind)
}

func (l *Lexer) lexIdent() token.Token {
	l.acceptRunFunc(isIdentCont)
	word := l.input[l.start:l.pos]
	if kind, ok := token.IsKeyword(word); ok {
		return l.emit(kind)
	}
	return l.emit(token.Ident)
}

func (l *Lexer) lexSymbol() token.Token {
	if !isIdentStart(l.peek()) {
		l.errorf(errs.UnexpectedCharacter, "expected identifier after '#'")
	}
	l.acceptRunFunc(isIdentCont)
	return l.emit(token.Symbol)
}

// lexString scans a quoted string. quote has already been consumed. It
// detects unescaped '$' interpolation markers without decoding escapes or
// resolving the interpolated expressions itself — that is SplitInterpolation's
// job, called by the parser once it knows whether the surrounding grammar
// position even permits interpolation (pattern literals do not).
func (l *Lexer) lexString(quote rune) token.Token {
	hasInterp := false
	for {
		r := l.next()
		switch r {
		case eof:
			l.errorf(errs.UnterminatedString, "unterminated string starting here")
		case quote:
			raw := l.input[l.start+1 : l.pos-1]
			t := l.emitLexeme(token.String, raw)
			t.HasInterp = hasInterp
			return t
		case '\\':
			e := l.next()
			if e == eof {
				l.errorf(errs.UnterminatedString, "unterminated string starting here")
			}
			switch e {
			case 'n', 't', '\\', '"', '\'', '$':
			default:
				l.errorf(errs.UnexpectedCharacter, "unknown escape sequence '\\%c'", e)
			}
		case '$':
			hasInterp = true
		}
	}
}

// InterpSegment is one piece of an interpolating string: either a literal
// text run (already escape-decoded) or the raw source of an embedded
// expression for the parser to lex+parse on its own.
type InterpSegment struct {
	IsExpr     bool
	Literal    string
	ExprSource string
	Line, Col, Offset int
}

// SplitInterpolation decodes escapes in raw (the undecoded source captured
// between a string's quotes) and splits it on $ident / ${expr} markers,
// matching nested braces for the ${...} form. line/col/offset locate the
// first byte of raw within the original file, for attributing positions to
// the expression segments.
func SplitInterpolation(file, raw string, line, col, offset int) ([]InterpSegment, error) {
	var segs []InterpSegment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, InterpSegment{Literal: lit.String()})
			lit.Reset()
		}
	}

	curLine, curCol := line, col
	advance := func(s string) {
		for _, r := range s {
			if r == '\n' {
				curLine++
				curCol = 1
			} else {
				curCol++
			}
		}
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '\\' && i+1 < len(raw):
			switch raw[i+1] {
			case 'n':
				lit.WriteByte('\n')
			case 't':
				lit.WriteByte('\t')
			case '\\':
				lit.WriteByte('\\')
			case '"':
				lit.WriteByte('"')
			case '\'':
				lit.WriteByte('\'')
			case '$':
				lit.WriteByte('$')
			default:
				return nil, errs.New(errs.UnexpectedCharacter, errs.Pos{File: file, Line: curLine, Column: curCol, Offset: offset + i},
					"unknown escape sequence '\\%c'", raw[i+1])
			}
			advance(raw[i : i+2])
			i += 2
		case c == '$' && i+1 < len(raw) && raw[i+1] == '{':
			flush()
			depth := 1
			j := i + 2
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			if depth != 0 {
				return nil, errs.New(errs.UnterminatedString, errs.Pos{File: file, Line: curLine, Column: curCol, Offset: offset + i},
					"unterminated interpolation expression")
			}
			exprLine, exprCol := curLine, curCol
			advance(raw[i : j+1])
			segs = append(segs, InterpSegment{IsExpr: true, ExprSource: raw[i+2 : j], Line: exprLine, Col: exprCol + 2, Offset: offset + i + 2})
			i = j + 1
		case c == '$' && i+1 < len(raw) && isIdentStart(rune(raw[i+1])):
			flush()
			j := i + 1
			for j < len(raw) && isIdentCont(rune(raw[j])) {
				j++
			}
			exprLine, exprCol := curLine, curCol
			advance(raw[i:j])
			segs = append(segs, InterpSegment{IsExpr: true, ExprSource: raw[i+1 : j], Line: exprLine, Col: exprCol + 1, Offset: offset + i + 1})
			i = j
		default:
			_, w := utf8.DecodeRuneInString(raw[i:])
			lit.WriteString(raw[i : i+w])
			advance(raw[i : i+w])
			i += w
		}
	}
	flush()
	return segs, nil
}

// Raw exposes the unconsumed remainder of input, used by the parser's
// string-interpolation sub-lexer to find $ and ${ markers without this
// package needing to know about AST expression types.
func (l *Lexer) Raw() string { return l.input[l.pos:] }

// File returns the file name this lexer was constructed with.
func (l *Lexer) File() string { return l.file }

// Pos returns the current byte offset, line, and column — used by the
// interpolation sub-lexer to seed a nested Lexer at the right position.
func (l *Lexer) Pos() (offset, line, col int) { return l.pos, l.line, l.col }

// Advance moves the lexer forward by n bytes (used after a nested
// interpolation sub-parse has consumed some of Raw()).
func (l *Lexer) Advance(n int, newLine, newCol int) {
	l.pos += n
	l.line = newLine
	l.col = newCol
}

// PeekDocComment attempts to scan a doc-comment block at the current
// position (after skipping ordinary whitespace/line-comments), returning
// ok=false and leaving the lexer positioned for a normal Next() call if none
// is present.
func (l *Lexer) PeekDocComment() (token.Token, bool) {
	l.skipSpaceAndComments()
	return l.lexDocCommentIfPresent()
}
