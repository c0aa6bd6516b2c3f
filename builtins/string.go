package builtins

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lazylang/lazylang/value"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

var stringNatives = []native{
	{"__stringLength", unary(stringLength)},
	{"__stringConcat", pair(stringConcat)},
	{"__stringSplit", pair(stringSplit)},
	{"__stringJoin", pair(stringJoin)},
	{"__stringLower", unary(stringLower)},
	{"__stringUpper", unary(stringUpper)},
	{"__stringTrim", unary(stringTrim)},
	{"__stringStartsWith", pair(stringStartsWith)},
	{"__stringEndsWith", pair(stringEndsWith)},
	{"__stringShow", unary(stringShow)},
}

func asString(v value.Value) (value.String, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", typeErr("a string", v)
	}
	return s, nil
}

func stringLength(v value.Value) (value.Value, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return value.Int(len([]rune(s.Raw()))), nil
}

func stringConcat(aV, bV value.Value) (value.Value, error) {
	a, err := asString(aV)
	if err != nil {
		return nil, err
	}
	b, err := asString(bV)
	if err != nil {
		return nil, err
	}
	return value.String(a.Raw() + b.Raw()), nil
}

// stringSplit uses the "++"-named pairing convention (string, separator).
func stringSplit(sV, sepV value.Value) (value.Value, error) {
	s, err := asString(sV)
	if err != nil {
		return nil, err
	}
	sep, err := asString(sepV)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s.Raw(), sep.Raw())
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.String(p)
	}
	return value.Array{Elements: elems}, nil
}

// stringJoin packs (array-of-strings, separator).
func stringJoin(arrV, sepV value.Value) (value.Value, error) {
	arr, ok := arrV.(value.Array)
	if !ok {
		return nil, typeErr("an array of strings", arrV)
	}
	sep, err := asString(sepV)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(arr.Elements))
	for i, elRaw := range arr.Elements {
		el, err := value.Force(elRaw)
		if err != nil {
			return nil, err
		}
		s, ok := el.(value.String)
		if !ok {
			return nil, typeErr("an array of strings", el)
		}
		parts[i] = s.Raw()
	}
	return value.String(strings.Join(parts, sep.Raw())), nil
}

func stringLower(v value.Value) (value.Value, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return value.String(lowerCaser.String(s.Raw())), nil
}

func stringUpper(v value.Value) (value.Value, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return value.String(upperCaser.String(s.Raw())), nil
}

func stringTrim(v value.Value) (value.Value, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return value.String(strings.TrimSpace(s.Raw())), nil
}

func stringStartsWith(sV, prefixV value.Value) (value.Value, error) {
	s, err := asString(sV)
	if err != nil {
		return nil, err
	}
	p, err := asString(prefixV)
	if err != nil {
		return nil, err
	}
	return value.Bool(strings.HasPrefix(s.Raw(), p.Raw())), nil
}

func stringEndsWith(sV, suffixV value.Value) (value.Value, error) {
	s, err := asString(sV)
	if err != nil {
		return nil, err
	}
	suf, err := asString(suffixV)
	if err != nil {
		return nil, err
	}
	return value.Bool(strings.HasSuffix(s.Raw(), suf.Raw())), nil
}

// stringShow renders any value via its canonical String() form — the same
// single-line algorithm string interpolation (eval.stringify) uses, minus
// the raw-string unwrapping special case (show always quotes a string).
func stringShow(v value.Value) (value.Value, error) {
	return value.String(v.String()), nil
}
