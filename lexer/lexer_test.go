package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/lexer"
	"github.com/lazylang/lazylang/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	l := lexer.New("test.lazy", src)
	var out []token.Kind
	for {
		tok := l.Next()
		out = append(out, tok.Kind)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func TestLexerTokenizesBasicExpression(t *testing.T) {
	got := kinds(t, `x -> x + 1`)
	assert.Equal(t, []token.Kind{token.Ident, token.Arrow, token.Ident, token.Plus, token.Integer, token.EOF}, got)
}

func TestLexerTokenizesObjectLiteral(t *testing.T) {
	got := kinds(t, `{ a: 1, b: 2 }`)
	assert.Equal(t, []token.Kind{
		token.LBrace, token.Ident, token.Colon, token.Integer, token.Comma,
		token.Ident, token.Colon, token.Integer, token.RBrace, token.EOF,
	}, got)
}

func TestLexerDistinguishesAmpFromAndAnd(t *testing.T) {
	assert.Equal(t, []token.Kind{token.Ident, token.Amp, token.Ident, token.EOF}, kinds(t, `a & b`))
	assert.Equal(t, []token.Kind{token.Ident, token.AndAnd, token.Ident, token.EOF}, kinds(t, `a && b`))
}

func TestLexerSymbolLiteral(t *testing.T) {
	got := kinds(t, `#ok`)
	assert.Equal(t, []token.Kind{token.Symbol, token.EOF}, got)
}

func TestLexerFloatVsIntegerVsDot(t *testing.T) {
	got := kinds(t, `1.5`)
	assert.Equal(t, []token.Kind{token.Float, token.EOF}, got)

	got = kinds(t, `x.y`)
	assert.Equal(t, []token.Kind{token.Ident, token.Dot, token.Ident, token.EOF}, got)
}

func TestLexerUnterminatedStringErrors(t *testing.T) {
	l := lexer.New("test.lazy", `"unterminated`)
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected the lexer to signal an error for an unterminated string")
		ee, ok := r.(*errs.Error)
		require.True(t, ok, "expected a panic with *errs.Error, got %T", r)
		assert.Equal(t, errs.UnterminatedString, ee.Kind)
	}()
	l.Next()
}

func TestSplitInterpolationBareIdentAndBracedExpr(t *testing.T) {
	segs, err := lexer.SplitInterpolation("test.lazy", `hello $name, ${1 + 2}!`, 1, 1, 0)
	require.NoError(t, err)
	require.True(t, len(segs) > 0)
}

func TestSplitInterpolationPlainStringHasNoExpressions(t *testing.T) {
	segs, err := lexer.SplitInterpolation("test.lazy", `no interpolation here`, 1, 1, 0)
	require.NoError(t, err)
	for _, s := range segs {
		assert.False(t, s.IsExpr, "plain string should not produce expression segments")
	}
}
