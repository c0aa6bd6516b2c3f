package eval

import (
	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/match"
	"github.com/lazylang/lazylang/value"
)

// evalApply evaluates callee and arg eagerly (application's argument is the
// one place besides object fields the spec lets a value be needed before
// its bindings are forced, but the argument itself is evaluated, not
// deferred — only the callee's parameter pattern decides what of it, if
// anything, actually gets forced via match.Match) and dispatches on the
// callee's forced kind.
func (e *Evaluator) evalApply(n *ast.Apply, env *value.Env) value.Value {
	callee := e.force(e.eval(n.Callee, env))
	arg := e.eval(n.Arg, env)
	return e.apply(n.Pos, callee, arg)
}

func (e *Evaluator) apply(pos ast.Pos, callee, arg value.Value) value.Value {
	switch fn := callee.(type) {
	case *value.Function:
		extended, err := match.Match(fn.Param, arg, fn.Env)
		if err != nil {
			panic(err)
		}
		return e.eval(fn.Body, extended)
	case *value.Native:
		result, err := fn.Fn([]value.Value{arg})
		if err != nil {
			panic(err)
		}
		return result
	}
	e.errorf(errs.ExpectedFunction, pos, "cannot apply %s as a function", callee.Type())
	panic("unreachable")
}

// Apply applies fn to arg outside of any particular tree walk — used by
// native built-ins (such as the array fold primitive) that themselves need
// to call back into a lazylang function value. It has no import context of
// its own: a folded function whose body contains an import expression will
// fail with ModuleNotFound, a documented limitation of calling back in from
// outside a running evaluation.
func Apply(fn, arg value.Value) (result value.Value, err error) {
	e := &Evaluator{}
	defer func() {
		if r := recover(); r != nil {
			if ee, ok := r.(*errs.Error); ok {
				err = ee
				return
			}
			panic(r)
		}
	}()
	result = e.apply(ast.Pos{}, fn, arg)
	return result, nil
}

func (e *Evaluator) evalFieldAccess(n *ast.FieldAccess, env *value.Env) value.Value {
	obj := e.forceObject(n.Pos, e.eval(n.Object, env))
	v, ok := obj.Get(n.Name)
	if !ok {
		panic(unknownFieldErr(n.Pos, n.Name, obj))
	}
	return e.force(v)
}

func (e *Evaluator) evalFieldAccessor(n *ast.FieldAccessor, env *value.Env) value.Value {
	names := n.Names
	pos := n.Pos
	return &value.Native{
		Name: "." + joinDots(names),
		Fn: func(args []value.Value) (value.Value, error) {
			cur := args[0]
			for _, name := range names {
				forced, err := value.Force(cur)
				if err != nil {
					return nil, err
				}
				obj, ok := forced.(value.Object)
				if !ok {
					return nil, errs.New(errs.TypeMismatch, posOf(pos), "field access requires an object, found %s", forced.Type())
				}
				fv, ok := obj.Get(name)
				if !ok {
					return nil, unknownFieldErr(pos, name, obj)
				}
				cur = fv
			}
			return value.Force(cur)
		},
	}
}

func joinDots(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "."
		}
		out += n
	}
	return out
}

func (e *Evaluator) evalFieldProjection(n *ast.FieldProjection, env *value.Env) value.Value {
	obj := e.forceObject(n.Pos, e.eval(n.Object, env))
	result := value.Object{}
	for _, name := range n.Names {
		v, ok := obj.Get(name)
		if !ok {
			panic(unknownFieldErr(n.Pos, name, obj))
		}
		result = result.With(name, v)
	}
	return result
}

func (e *Evaluator) evalIndex(n *ast.Index, env *value.Env) value.Value {
	coll := e.force(e.eval(n.Collection, env))
	key := e.force(e.eval(n.Key, env))
	switch c := coll.(type) {
	case value.Array:
		return e.indexSequence(n.Pos, c.Elements, key)
	case value.Tuple:
		return e.indexSequence(n.Pos, c.Elements, key)
	case value.Object:
		name, ok := key.(value.String)
		if !ok {
			e.errorf(errs.TypeMismatch, n.Pos, "object index requires a string key, found %s", key.Type())
		}
		v, ok := c.Get(name.Raw())
		if !ok {
			panic(unknownFieldErr(n.Pos, name.Raw(), c))
		}
		return e.force(v)
	}
	e.errorf(errs.TypeMismatch, n.Pos, "cannot index into %s", coll.Type())
	panic("unreachable")
}

func (e *Evaluator) indexSequence(pos ast.Pos, elems []value.Value, key value.Value) value.Value {
	i, ok := key.(value.Int)
	if !ok {
		e.errorf(errs.TypeMismatch, pos, "array/tuple index requires an integer, found %s", key.Type())
	}
	idx := int64(i)
	if idx < 0 {
		idx += int64(len(elems))
	}
	if idx < 0 || idx >= int64(len(elems)) {
		e.errorf(errs.OutOfBounds, pos, "index %d out of bounds for a collection of length %d", int64(i), len(elems))
	}
	return e.force(elems[idx])
}

func (e *Evaluator) forceObject(pos ast.Pos, v value.Value) value.Object {
	fv := e.force(v)
	obj, ok := fv.(value.Object)
	if !ok {
		e.errorf(errs.TypeMismatch, pos, "expected an object, found %s", fv.Type())
	}
	return obj
}

func unknownFieldErr(pos ast.Pos, name string, obj value.Object) *errs.Error {
	return errs.New(errs.UnknownField, posOf(pos), "object has no field %q", name).WithFields(obj.Names())
}

func (e *Evaluator) evalIf(n *ast.If, env *value.Env) value.Value {
	cond := e.force(e.eval(n.Cond, env))
	b, ok := cond.(value.Bool)
	if !ok {
		e.errorf(errs.TypeMismatch, n.Pos, "'if' condition requires a boolean, found %s", cond.Type())
	}
	if bool(b) {
		return e.eval(n.Then, env)
	}
	if n.Else == nil {
		return value.Null{}
	}
	return e.eval(n.Else, env)
}

// evalWhenMatches tries each arm's pattern in order; a TypeMismatch from
// match.Match means "this arm doesn't apply", so the loop tries the next
// one, but any other error kind propagates immediately.
func (e *Evaluator) evalWhenMatches(n *ast.WhenMatches, env *value.Env) value.Value {
	scrutinee := e.eval(n.Scrutinee, env)
	for _, arm := range n.Arms {
		extended, err := match.Match(arm.Pattern, scrutinee, env)
		if err == nil {
			return e.eval(arm.Body, extended)
		}
		if ee, ok := err.(*errs.Error); ok && ee.Kind == errs.TypeMismatch {
			continue
		}
		panic(err)
	}
	if n.Otherwise != nil {
		return e.eval(n.Otherwise, env)
	}
	e.errorf(errs.TypeMismatch, n.Pos, "no arm of 'when matches' matched the scrutinee and no 'otherwise' clause was given")
	panic("unreachable")
}
