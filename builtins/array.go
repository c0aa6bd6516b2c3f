package builtins

import (
	"github.com/lazylang/lazylang/eval"
	"github.com/lazylang/lazylang/value"
)

var arrayNatives = []native{
	{"__arrayLength", unary(arrayLength)},
	{"__arrayGet", pair(arrayGet)},
	{"__arrayAt", pair(arrayGet)},
	{"__arrayHead", unary(arrayHead)},
	{"__arrayTail", unary(arrayTail)},
	{"__arrayConcat", pair(arrayConcat)},
	{"__arrayPush", pair(arrayPush)},
	{"__arrayFold", arrayFold},
}

func asArray(v value.Value) (value.Array, error) {
	a, ok := v.(value.Array)
	if !ok {
		return value.Array{}, typeErr("an array", v)
	}
	return a, nil
}

func arrayLength(v value.Value) (value.Value, error) {
	a, err := asArray(v)
	if err != nil {
		return nil, err
	}
	return value.Int(len(a.Elements)), nil
}

// arrayGet returns (#ok, element) on success, the bare symbol #outOfBounds
// on failure, matching §4.6's documented result shape exactly.
func arrayGet(arrV, idxV value.Value) (value.Value, error) {
	a, err := asArray(arrV)
	if err != nil {
		return nil, err
	}
	idx, ok := idxV.(value.Int)
	if !ok {
		return nil, typeErr("an integer index", idxV)
	}
	i := int64(idx)
	if i < 0 || i >= int64(len(a.Elements)) {
		return value.Symbol{Name: "outOfBounds"}, nil
	}
	el, err := value.Force(a.Elements[i])
	if err != nil {
		return nil, err
	}
	return value.Tuple{Elements: []value.Value{value.Symbol{Name: "ok"}, el}}, nil
}

func arrayHead(v value.Value) (value.Value, error) {
	a, err := asArray(v)
	if err != nil {
		return nil, err
	}
	if len(a.Elements) == 0 {
		return value.Symbol{Name: "outOfBounds"}, nil
	}
	el, err := value.Force(a.Elements[0])
	if err != nil {
		return nil, err
	}
	return value.Tuple{Elements: []value.Value{value.Symbol{Name: "ok"}, el}}, nil
}

func arrayTail(v value.Value) (value.Value, error) {
	a, err := asArray(v)
	if err != nil {
		return nil, err
	}
	if len(a.Elements) == 0 {
		return value.Symbol{Name: "outOfBounds"}, nil
	}
	return value.Array{Elements: append([]value.Value(nil), a.Elements[1:]...)}, nil
}

func arrayConcat(aV, bV value.Value) (value.Value, error) {
	a, err := asArray(aV)
	if err != nil {
		return nil, err
	}
	b, err := asArray(bV)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(a.Elements)+len(b.Elements))
	out = append(out, a.Elements...)
	out = append(out, b.Elements...)
	return value.Array{Elements: out}, nil
}

func arrayPush(aV, elV value.Value) (value.Value, error) {
	a, err := asArray(aV)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(a.Elements)+1)
	out = append(out, a.Elements...)
	out = append(out, elV)
	return value.Array{Elements: out}, nil
}

// arrayFold packs (array, seed, fn) into a 3-tuple argument and folds fn
// (a function Value taking a (seed, element) tuple) left to right — the
// native primitive the documented map/filter-like stdlib combinators are
// expressed over, per §4.6's "available via direct native ... over a
// native fold" allowance.
func arrayFold(args []value.Value) (value.Value, error) {
	v, err := value.Force(args[0])
	if err != nil {
		return nil, err
	}
	tup, ok := v.(value.Tuple)
	if !ok || len(tup.Elements) != 3 {
		return nil, typeErr("a 3-element (array, seed, fn) tuple", v)
	}
	a, err := asArrayForced(tup.Elements[0])
	if err != nil {
		return nil, err
	}
	acc, err := value.Force(tup.Elements[1])
	if err != nil {
		return nil, err
	}
	fn, err := value.Force(tup.Elements[2])
	if err != nil {
		return nil, err
	}
	for _, elRaw := range a.Elements {
		el, err := value.Force(elRaw)
		if err != nil {
			return nil, err
		}
		acc, err = eval.Apply(fn, value.Tuple{Elements: []value.Value{acc, el}})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func asArrayForced(v value.Value) (value.Array, error) {
	fv, err := value.Force(v)
	if err != nil {
		return value.Array{}, err
	}
	return asArray(fv)
}
