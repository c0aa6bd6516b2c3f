package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/match"
	"github.com/lazylang/lazylang/value"
)

func intLit(n int64) *ast.IntLit { return &ast.IntLit{Value: n} }

func TestMatchIdentAlwaysBinds(t *testing.T) {
	env, err := match.Match(&ast.PatIdent{Name: "x"}, value.Int(7), nil)
	require.NoError(t, err)
	v, ok := env.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, value.Int(7), v)
}

func TestMatchLiteralSuccessAndFailure(t *testing.T) {
	_, err := match.Match(&ast.PatLiteral{Value: intLit(5)}, value.Int(5), nil)
	require.NoError(t, err)

	_, err = match.Match(&ast.PatLiteral{Value: intLit(5)}, value.Int(6), nil)
	require.Error(t, err)
	ee, ok := err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, errs.TypeMismatch, ee.Kind)
}

func TestMatchLiteralPromotesIntAndFloat(t *testing.T) {
	_, err := match.Match(&ast.PatLiteral{Value: intLit(5)}, value.Float(5.0), nil)
	assert.NoError(t, err)
}

func TestMatchTupleBindsElementwise(t *testing.T) {
	pat := &ast.PatTuple{Elements: []ast.Pattern{
		&ast.PatLiteral{Value: &ast.SymbolLit{Name: "ok"}},
		&ast.PatIdent{Name: "v"},
	}}
	tup := value.Tuple{Elements: []value.Value{value.Symbol{Name: "ok"}, value.Int(42)}}
	env, err := match.Match(pat, tup, nil)
	require.NoError(t, err)
	v, ok := env.Lookup("v")
	require.True(t, ok)
	assert.Equal(t, value.Int(42), v)
}

func TestMatchTupleWrongArityMismatches(t *testing.T) {
	pat := &ast.PatTuple{Elements: []ast.Pattern{&ast.PatIdent{Name: "a"}}}
	tup := value.Tuple{Elements: []value.Value{value.Int(1), value.Int(2)}}
	_, err := match.Match(pat, tup, nil)
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, err.(*errs.Error).Kind)
}

func TestMatchArrayWithRestBindsTail(t *testing.T) {
	pat := &ast.PatArray{
		Prefix:  []ast.Pattern{&ast.PatIdent{Name: "head"}},
		HasRest: true,
		Rest:    "tail",
	}
	arr := value.Array{Elements: []value.Value{value.Int(1), value.Int(2), value.Int(3)}}
	env, err := match.Match(pat, arr, nil)
	require.NoError(t, err)

	head, _ := env.Lookup("head")
	assert.Equal(t, value.Int(1), head)
	tail, _ := env.Lookup("tail")
	assert.Equal(t, value.Array{Elements: []value.Value{value.Int(2), value.Int(3)}}, tail)
}

func TestMatchArrayExactLengthRequiredWithoutRest(t *testing.T) {
	pat := &ast.PatArray{Prefix: []ast.Pattern{&ast.PatIdent{Name: "a"}, &ast.PatIdent{Name: "b"}}}
	arr := value.Array{Elements: []value.Value{value.Int(1)}}
	_, err := match.Match(pat, arr, nil)
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, err.(*errs.Error).Kind)
}

func TestMatchObjectBindsFieldsAndSubpatterns(t *testing.T) {
	pat := &ast.PatObject{Fields: []ast.PatObjectField{
		{Name: "first"},
		{Name: "meta", HasSub: true, Sub: &ast.PatIdent{Name: "m"}},
	}}
	obj := value.Object{}.With("first", value.String("Ada")).With("meta", value.Int(1))
	env, err := match.Match(pat, obj, nil)
	require.NoError(t, err)

	first, _ := env.Lookup("first")
	assert.Equal(t, value.String("Ada"), first)
	m, _ := env.Lookup("m")
	assert.Equal(t, value.Int(1), m)
}

func TestMatchObjectMissingFieldMismatches(t *testing.T) {
	pat := &ast.PatObject{Fields: []ast.PatObjectField{{Name: "missing"}}}
	obj := value.Object{}.With("present", value.Int(1))
	_, err := match.Match(pat, obj, nil)
	require.Error(t, err)
	ee := err.(*errs.Error)
	assert.Equal(t, errs.TypeMismatch, ee.Kind)
}

func TestMatchAgainstWrongRuntimeTypeMismatches(t *testing.T) {
	_, err := match.Match(&ast.PatTuple{}, value.Int(1), nil)
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, err.(*errs.Error).Kind)
}
