package builtins

import (
	"math"

	"github.com/lazylang/lazylang/value"
)

var mathNatives = []native{
	{"__mathAbs", unary(mathAbs)},
	{"__mathFloor", unary(mathFloor)},
	{"__mathCeil", unary(mathCeil)},
	{"__mathRound", unary(mathRound)},
	{"__mathSqrt", unary(mathSqrt)},
	{"__mathPow", pair(mathPow)},
	// __mathMod matches the "%" operator's dividend-sign remainder; __mathRem
	// is the complementary divisor-sign (floored) remainder, exposed as
	// Math.rem, which "%" deliberately does not provide.
	{"__mathMod", pair(mathMod)},
	{"__mathRem", pair(mathRem)},
	{"__mathMin", pair(mathMin)},
	{"__mathMax", pair(mathMax)},
}

func asFloatValue(v value.Value) (float64, error) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), nil
	case value.Float:
		return float64(n), nil
	}
	return 0, typeErr("a number", v)
}

func mathAbs(v value.Value) (value.Value, error) {
	switch n := v.(type) {
	case value.Int:
		if n < 0 {
			return -n, nil
		}
		return n, nil
	case value.Float:
		return value.Float(math.Abs(float64(n))), nil
	}
	return nil, typeErr("a number", v)
}

func mathFloor(v value.Value) (value.Value, error) {
	f, err := asFloatValue(v)
	if err != nil {
		return nil, err
	}
	return value.Int(int64(math.Floor(f))), nil
}

func mathCeil(v value.Value) (value.Value, error) {
	f, err := asFloatValue(v)
	if err != nil {
		return nil, err
	}
	return value.Int(int64(math.Ceil(f))), nil
}

func mathRound(v value.Value) (value.Value, error) {
	f, err := asFloatValue(v)
	if err != nil {
		return nil, err
	}
	return value.Int(int64(math.Round(f))), nil
}

func mathSqrt(v value.Value) (value.Value, error) {
	f, err := asFloatValue(v)
	if err != nil {
		return nil, err
	}
	if f < 0 {
		return nil, argErr("sqrt of a negative number %v", f)
	}
	return value.Float(math.Sqrt(f)), nil
}

func mathPow(aV, bV value.Value) (value.Value, error) {
	a, err := asFloatValue(aV)
	if err != nil {
		return nil, err
	}
	b, err := asFloatValue(bV)
	if err != nil {
		return nil, err
	}
	result := math.Pow(a, b)
	if _, aInt := aV.(value.Int); aInt {
		if _, bInt := bV.(value.Int); bInt && b >= 0 {
			return value.Int(int64(result)), nil
		}
	}
	return value.Float(result), nil
}

func mathMod(aV, bV value.Value) (value.Value, error) {
	ai, aIsInt := aV.(value.Int)
	bi, bIsInt := bV.(value.Int)
	if aIsInt && bIsInt {
		if bi == 0 {
			return nil, typeErr("a non-zero divisor", bV)
		}
		return ai % bi, nil
	}
	a, err := asFloatValue(aV)
	if err != nil {
		return nil, err
	}
	b, err := asFloatValue(bV)
	if err != nil {
		return nil, err
	}
	return value.Float(math.Mod(a, b)), nil
}

func mathRem(aV, bV value.Value) (value.Value, error) {
	ai, aIsInt := aV.(value.Int)
	bi, bIsInt := bV.(value.Int)
	if aIsInt && bIsInt {
		if bi == 0 {
			return nil, typeErr("a non-zero divisor", bV)
		}
		m := ai % bi
		if m != 0 && (m < 0) != (bi < 0) {
			m += bi
		}
		return m, nil
	}
	a, err := asFloatValue(aV)
	if err != nil {
		return nil, err
	}
	b, err := asFloatValue(bV)
	if err != nil {
		return nil, err
	}
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return value.Float(m), nil
}

func mathMin(aV, bV value.Value) (value.Value, error) {
	a, err := asFloatValue(aV)
	if err != nil {
		return nil, err
	}
	b, err := asFloatValue(bV)
	if err != nil {
		return nil, err
	}
	if a <= b {
		return aV, nil
	}
	return bV, nil
}

func mathMax(aV, bV value.Value) (value.Value, error) {
	a, err := asFloatValue(aV)
	if err != nil {
		return nil, err
	}
	b, err := asFloatValue(bV)
	if err != nil {
		return nil, err
	}
	if a >= b {
		return aV, nil
	}
	return bV, nil
}
