// Package builtins implements the native function surface lazylang's
// standard library wrappers call into: every exported native is bound
// under a double-underscore-prefixed name (§4.6), taking a single
// argument (a bare Value or a Tuple, since application is always unary)
// and returning (Value, error).
package builtins

import (
	"github.com/lazylang/lazylang/value"
)

// native pairs a reserved __-prefixed name with its implementation.
type native struct {
	name string
	fn   func(args []value.Value) (value.Value, error)
}

// Root returns the environment the standard-library .lazy wrappers are
// evaluated against: every native below, bound by name, and nothing else.
// A program's root environment (module.Resolver.RootEnv) is built on top of
// it, so the __-prefixed names are reachable from user code as well.
func Root() *value.Env {
	var env *value.Env
	for _, group := range [][]native{arrayNatives, stringNatives, objectNatives, mathNatives, controlNatives, rangeNatives} {
		for _, n := range group {
			env = env.Extend(n.name, &value.Native{Name: n.name, Fn: n.fn})
		}
	}
	return env
}

// unary is a convenience for natives that ignore the unary-application
// convention and just want the single argument value.
func unary(fn func(value.Value) (value.Value, error)) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		v, err := value.Force(args[0])
		if err != nil {
			return nil, err
		}
		return fn(v)
	}
}

// pair unpacks args[0] as a 2-tuple, forcing both elements, for natives
// whose __-prefixed signature takes two logical arguments packed into one
// Tuple (the convention the stdlib .lazy wrappers use for multi-arg calls).
func pair(fn func(a, b value.Value) (value.Value, error)) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		v, err := value.Force(args[0])
		if err != nil {
			return nil, err
		}
		tup, ok := v.(value.Tuple)
		if !ok || len(tup.Elements) != 2 {
			return nil, typeErr("a 2-element tuple", v)
		}
		a, err := value.Force(tup.Elements[0])
		if err != nil {
			return nil, err
		}
		b, err := value.Force(tup.Elements[1])
		if err != nil {
			return nil, err
		}
		return fn(a, b)
	}
}
