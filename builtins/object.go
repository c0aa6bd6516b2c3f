package builtins

import "github.com/lazylang/lazylang/value"

var objectNatives = []native{
	{"__objectKeys", unary(objectKeys)},
	{"__objectValues", unary(objectValues)},
	{"__objectHas", pair(objectHas)},
	{"__objectMerge", pair(objectMerge)},
	{"__objectWithout", pair(objectWithout)},
}

func asObject(v value.Value) (value.Object, error) {
	o, ok := v.(value.Object)
	if !ok {
		return value.Object{}, typeErr("an object", v)
	}
	return o, nil
}

func objectKeys(v value.Value) (value.Value, error) {
	o, err := asObject(v)
	if err != nil {
		return nil, err
	}
	names := o.Names()
	elems := make([]value.Value, len(names))
	for i, n := range names {
		elems[i] = value.String(n)
	}
	return value.Array{Elements: elems}, nil
}

func objectValues(v value.Value) (value.Value, error) {
	o, err := asObject(v)
	if err != nil {
		return nil, err
	}
	names := o.Names()
	elems := make([]value.Value, len(names))
	for i, n := range names {
		fv, _ := o.Get(n)
		forced, err := value.Force(fv)
		if err != nil {
			return nil, err
		}
		elems[i] = forced
	}
	return value.Array{Elements: elems}, nil
}

func objectHas(objV, nameV value.Value) (value.Value, error) {
	o, err := asObject(objV)
	if err != nil {
		return nil, err
	}
	name, ok := nameV.(value.String)
	if !ok {
		return nil, typeErr("a string field name", nameV)
	}
	_, has := o.Get(name.Raw())
	return value.Bool(has), nil
}

// objectMerge implements the same "all keys from left in left order, then
// right-only keys in right order, right wins" rule the "&" operator uses —
// duplicated here rather than routed through eval, since it needs no
// function application and introducing an eval dependency for it alone
// would be pure plumbing.
func objectMerge(aV, bV value.Value) (value.Value, error) {
	a, err := asObject(aV)
	if err != nil {
		return nil, err
	}
	b, err := asObject(bV)
	if err != nil {
		return nil, err
	}
	result := a
	for _, name := range b.Names() {
		v, _ := b.Get(name)
		result = result.With(name, v)
	}
	return result, nil
}

func objectWithout(objV, nameV value.Value) (value.Value, error) {
	o, err := asObject(objV)
	if err != nil {
		return nil, err
	}
	name, ok := nameV.(value.String)
	if !ok {
		return nil, typeErr("a string field name", nameV)
	}
	result := value.Object{}
	for _, n := range o.Names() {
		if n == name.Raw() {
			continue
		}
		v, _ := o.Get(n)
		result = result.With(n, v)
	}
	return result, nil
}
