package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/eval"
	"github.com/lazylang/lazylang/parser"
	"github.com/lazylang/lazylang/value"
)

func run(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	node, err := parser.Parse("test.lazy", src)
	require.NoError(t, err)
	ev := eval.New(eval.Context{})
	return ev.Eval(node, nil)
}

func runOK(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := run(t, src)
	require.NoError(t, err)
	return v
}

func kindOf(t *testing.T, err error) errs.Kind {
	t.Helper()
	ee, ok := err.(*errs.Error)
	require.True(t, ok, "expected *errs.Error, got %T", err)
	return ee.Kind
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, "3", runOK(t, "1 + 2").String())
	assert.Equal(t, "-1", runOK(t, "1 - 2").String())
	assert.Equal(t, "6", runOK(t, "2 * 3").String())
	assert.Equal(t, "2", runOK(t, "7 / 3").String())
	assert.Equal(t, "2.5", runOK(t, "5 / 2.0").String())
}

// IntModSignMatchesDividend asserts "%" follows the dividend's sign, per
// the spec's stated default, not the divisor's.
func TestIntModSignMatchesDividend(t *testing.T) {
	assert.Equal(t, "-1", runOK(t, "-7 % 3").String())
	assert.Equal(t, "1", runOK(t, "7 % -3").String())
}

func TestDivisionByZeroIsTypeMismatch(t *testing.T) {
	_, err := run(t, "1 / 0")
	assert.Equal(t, errs.TypeMismatch, kindOf(t, err))
	_, err = run(t, "1 % 0")
	assert.Equal(t, errs.TypeMismatch, kindOf(t, err))
}

func TestNumericPromotionInComparison(t *testing.T) {
	assert.Equal(t, "true", runOK(t, "1 == 1.0").String())
	assert.Equal(t, "true", runOK(t, "1 < 1.5").String())
}

func TestLambdaApplication(t *testing.T) {
	assert.Equal(t, "42", runOK(t, "(x -> x + 1) 41").String())
}

func TestClosureCapturesDefiningEnvironment(t *testing.T) {
	assert.Equal(t, "13", runOK(t, "make = k -> (x -> x + k); add10 = make 10; add10 3").String())
}

func TestLetDestructuring(t *testing.T) {
	assert.Equal(t, `"John"`, runOK(t, `{ first, last } = { first: "John", last: "Doe" }; first`).String())
}

func TestArrayComprehensionNestedLoops(t *testing.T) {
	assert.Equal(t, "[11, 21, 12, 22]", runOK(t, "[x + y for x in [1, 2] for y in [10, 20]]").String())
}

func TestObjectFieldsAreLazy(t *testing.T) {
	v := runOK(t, `result = { valid: 42, errorValue: crash "never" }; result.valid`)
	assert.Equal(t, "42", v.String())
}

func TestWhenMatchesTriesArmsInOrder(t *testing.T) {
	v := runOK(t, `when (#error, "msg") matches (#ok, v) then v; (#error, m) then m`)
	assert.Equal(t, `"msg"`, v.String())
}

func TestWhenMatchesNoArmNoOtherwiseErrors(t *testing.T) {
	_, err := run(t, `when 5 matches "a" then 1`)
	assert.Equal(t, errs.TypeMismatch, kindOf(t, err))
}

func TestWhenMatchesOtherwiseCatchesAll(t *testing.T) {
	assert.Equal(t, "99", runOK(t, `when 5 matches "a" then 1; otherwise 99`).String())
}

func TestObjectMergeRightWinsPreservesLeftOrder(t *testing.T) {
	v := runOK(t, `{ a: 1, b: 2 } & { b: 3, c: 4 }`)
	assert.Equal(t, `{ a: 1, b: 3, c: 4 }`, v.String())
}

func TestObjectPatchRecursesIntoNestedLiterals(t *testing.T) {
	v := runOK(t, `{ a: { x: 1, y: 2 } } { a { y: 99 } }`)
	assert.Equal(t, `{ a: { x: 1, y: 99 } }`, v.String())
}

func TestObjectExtendAppendsAndOverwrites(t *testing.T) {
	v := runOK(t, `{ a: 1, b: 2 } { b: 3, c: 4 }`)
	assert.Equal(t, `{ a: 1, b: 3, c: 4 }`, v.String())
}

func TestObjectExtendChains(t *testing.T) {
	v := runOK(t, `{ a: 1 } { b: 2 } { c: 3 }`)
	assert.Equal(t, `{ a: 1, b: 2, c: 3 }`, v.String())
}

func TestFreshLiteralBraceFieldIsPlainNestedObject(t *testing.T) {
	v := runOK(t, `{ a { x: 1 } }`)
	assert.Equal(t, `{ a: { x: 1 } }`, v.String())
}

func TestDuplicateObjectKeyLastWinsKeepsFirstPosition(t *testing.T) {
	v := runOK(t, `{ a: 1, b: 2, a: 3 }`)
	assert.Equal(t, `{ a: 3, b: 2 }`, v.String())
}

func TestUnknownIdentifierSuggestsClosestMatch(t *testing.T) {
	_, err := run(t, `helllo = 1; hello`)
	ee, ok := err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, errs.UnknownIdentifier, ee.Kind)
	assert.Equal(t, "did you mean helllo?", ee.Suggestion)
}

func TestApplyingNonFunctionErrors(t *testing.T) {
	_, err := run(t, `5 6`)
	assert.Equal(t, errs.ExpectedFunction, kindOf(t, err))
}

func TestFieldAccessOnMissingFieldErrors(t *testing.T) {
	_, err := run(t, `{ a: 1 }.b`)
	assert.Equal(t, errs.UnknownField, kindOf(t, err))
}

func TestArrayOutOfBoundsIndexErrors(t *testing.T) {
	_, err := run(t, `[1, 2, 3][10]`)
	assert.Equal(t, errs.OutOfBounds, kindOf(t, err))
}

func TestFieldProjectionSelectsSubset(t *testing.T) {
	v := runOK(t, `{ a: 1, b: 2, c: 3 }.{a, c}`)
	assert.Equal(t, `{ a: 1, c: 3 }`, v.String())
}

func TestStringInterpolation(t *testing.T) {
	v := runOK(t, `name = "world"; "hello $name!"`)
	assert.Equal(t, `"hello world!"`, v.String())
}

func TestImportWithoutImporterErrors(t *testing.T) {
	_, err := run(t, `import './Lib'`)
	assert.Equal(t, errs.ModuleNotFound, kindOf(t, err))
}
