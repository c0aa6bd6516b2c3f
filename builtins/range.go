package builtins

import "github.com/lazylang/lazylang/value"

var rangeNatives = []native{
	{"__rangeMake", pair(rangeMake)},
	{"__rangeStep", rangeStep},
}

func asIntValue(v value.Value, what string) (int64, error) {
	i, ok := v.(value.Int)
	if !ok {
		return 0, typeErr(what, v)
	}
	return int64(i), nil
}

// rangeMake builds [from, upto) as a plain array of integers.
func rangeMake(fromV, uptoV value.Value) (value.Value, error) {
	from, err := asIntValue(fromV, "an integer range start")
	if err != nil {
		return nil, err
	}
	upto, err := asIntValue(uptoV, "an integer range end")
	if err != nil {
		return nil, err
	}
	if upto <= from {
		return value.Array{}, nil
	}
	elems := make([]value.Value, 0, upto-from)
	for i := from; i < upto; i++ {
		elems = append(elems, value.Int(i))
	}
	return value.Array{Elements: elems}, nil
}

// rangeStep packs (from, upto, by) into a 3-tuple, building [from, upto)
// stepping by `by`, which may be negative to count down.
func rangeStep(args []value.Value) (value.Value, error) {
	v, err := value.Force(args[0])
	if err != nil {
		return nil, err
	}
	tup, ok := v.(value.Tuple)
	if !ok || len(tup.Elements) != 3 {
		return nil, typeErr("a 3-element (from, upto, by) tuple", v)
	}
	fromV, err := value.Force(tup.Elements[0])
	if err != nil {
		return nil, err
	}
	uptoV, err := value.Force(tup.Elements[1])
	if err != nil {
		return nil, err
	}
	byV, err := value.Force(tup.Elements[2])
	if err != nil {
		return nil, err
	}
	from, err := asIntValue(fromV, "an integer range start")
	if err != nil {
		return nil, err
	}
	upto, err := asIntValue(uptoV, "an integer range end")
	if err != nil {
		return nil, err
	}
	by, err := asIntValue(byV, "a non-zero integer step")
	if err != nil {
		return nil, err
	}
	if by == 0 {
		return nil, argErr("range step must be non-zero")
	}
	var elems []value.Value
	if by > 0 {
		for i := from; i < upto; i += by {
			elems = append(elems, value.Int(i))
		}
	} else {
		for i := from; i > upto; i += by {
			elems = append(elems, value.Int(i))
		}
	}
	return value.Array{Elements: elems}, nil
}
