package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazylang/lazylang/builtins"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/value"
)

// call looks up a native by its __-prefixed name in Root() and invokes it
// directly, bypassing the parser/evaluator entirely.
func call(t *testing.T, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	env := builtins.Root()
	v, ok := env.Lookup(name)
	require.True(t, ok, "no native bound as %q", name)
	nat, ok := v.(*value.Native)
	require.True(t, ok, "%q is not a native", name)
	var in value.Value
	if len(args) == 1 {
		in = args[0]
	} else {
		var elems []value.Value
		elems = append(elems, args...)
		in = value.Tuple{Elements: elems}
	}
	return nat.Fn([]value.Value{in})
}

func kindOf(t *testing.T, err error) errs.Kind {
	t.Helper()
	ee, ok := err.(*errs.Error)
	require.True(t, ok, "expected *errs.Error, got %T (%v)", err, err)
	return ee.Kind
}

func TestArrayNatives(t *testing.T) {
	arr := value.Array{Elements: []value.Value{value.Int(1), value.Int(2), value.Int(3)}}

	v, err := call(t, "__arrayLength", arr)
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)

	v, err = call(t, "__arrayHead", arr)
	require.NoError(t, err)
	assert.Equal(t, "(#ok, 1)", v.String())

	v, err = call(t, "__arrayPush", arr, value.Int(4))
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3, 4]", v.String())
}

func TestArrayGetOutOfBounds(t *testing.T) {
	arr := value.Array{Elements: []value.Value{value.Int(1)}}
	v, err := call(t, "__arrayGet", arr, value.Int(5))
	require.NoError(t, err)
	sym, ok := v.(value.Symbol)
	require.True(t, ok)
	assert.Equal(t, "outOfBounds", sym.Name)
}

func TestStringNatives(t *testing.T) {
	v, err := call(t, "__stringLength", value.String("héllo"))
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), v)

	v, err = call(t, "__stringUpper", value.String("abc"))
	require.NoError(t, err)
	assert.Equal(t, value.String("ABC"), v)

	v, err = call(t, "__stringConcat", value.String("a"), value.String("b"))
	require.NoError(t, err)
	assert.Equal(t, value.String("ab"), v)
}

func TestObjectNatives(t *testing.T) {
	obj := value.Object{}.With("a", value.Int(1)).With("b", value.Int(2))

	v, err := call(t, "__objectKeys", obj)
	require.NoError(t, err)
	assert.Equal(t, `["a", "b"]`, v.String())

	v, err = call(t, "__objectHas", obj, value.String("a"))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), v)

	v, err = call(t, "__objectWithout", obj, value.String("a"))
	require.NoError(t, err)
	assert.Equal(t, `{ b: 2 }`, v.String())
}

func TestMathNatives(t *testing.T) {
	v, err := call(t, "__mathAbs", value.Int(-3))
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)

	v, err = call(t, "__mathSqrt", value.Float(9.0))
	require.NoError(t, err)
	assert.Equal(t, value.Float(3.0), v)

	_, err = call(t, "__mathSqrt", value.Float(-1.0))
	require.Error(t, err)
	assert.Equal(t, errs.InvalidArgument, kindOf(t, err))
}

func TestMathModAndRemSignSemantics(t *testing.T) {
	v, err := call(t, "__mathMod", value.Int(-7), value.Int(3))
	require.NoError(t, err)
	assert.Equal(t, value.Int(-1), v, "mod follows the dividend's sign")

	v, err = call(t, "__mathRem", value.Int(-7), value.Int(3))
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v, "rem follows the divisor's sign")
}

func TestMathModByZeroIsTypeMismatch(t *testing.T) {
	_, err := call(t, "__mathMod", value.Int(1), value.Int(0))
	require.Error(t, err)
	assert.Equal(t, errs.TypeMismatch, kindOf(t, err))
}

func TestRangeNatives(t *testing.T) {
	v, err := call(t, "__rangeMake", value.Int(1), value.Int(4))
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", v.String())

	v, err = call(t, "__rangeStep", value.Int(10), value.Int(0), value.Int(-5))
	require.NoError(t, err)
	assert.Equal(t, "[10, 5]", v.String())

	_, err = call(t, "__rangeStep", value.Int(0), value.Int(10), value.Int(0))
	require.Error(t, err)
	assert.Equal(t, errs.InvalidArgument, kindOf(t, err))
}

func TestCrashRecordsLastMessageAndErrors(t *testing.T) {
	_, err := call(t, "__crash", value.String("boom"))
	require.Error(t, err)
	assert.Equal(t, errs.UserCrash, kindOf(t, err))

	msg, ok := builtins.LastCrashMessage()
	require.True(t, ok)
	assert.Equal(t, "boom", msg)
}
