package eval

import (
	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/value"
)

func (e *Evaluator) evalArrayLit(n *ast.ArrayLit, env *value.Env) value.Value {
	var elems []value.Value
	for _, el := range n.Elements {
		if el.Guard != nil {
			guard := e.force(e.eval(el.Guard, env))
			gb, ok := guard.(value.Bool)
			if !ok {
				e.errorf(errs.TypeMismatch, el.Guard.Position(), "array element guard requires a boolean, found %s", guard.Type())
			}
			include := bool(gb)
			if el.GuardIsUnless {
				include = !include
			}
			if !include {
				continue
			}
		}
		elems = append(elems, e.eval(el.Expr, env))
	}
	return value.Array{Elements: elems}
}

// evalObjectLit builds an object field-by-field, deferring each field's
// value behind a thunk (closed over env at this point) so unused fields
// never force. Dynamic keys are resolved eagerly (the key expression itself
// is never deferred): null skips the field, an array fans out one field per
// non-null entry sharing a single thunk, a string names one field, and any
// other key (including a non-null, non-string array entry) is a
// TypeMismatch.
func (e *Evaluator) evalObjectLit(n *ast.ObjectLit, env *value.Env) value.Value {
	obj := value.Object{}
	for _, f := range n.Fields {
		obj = e.applyObjectLitField(obj, f, env)
	}
	return obj
}

func (e *Evaluator) applyObjectLitField(obj value.Object, f ast.ObjectField, env *value.Env) value.Object {
	if !f.Key.Dynamic {
		if f.Merge {
			return e.applyPatch(obj, f.Key.Name, f.Value, env)
		}
		return obj.With(f.Key.Name, e.makeFieldThunk(f.Value, env))
	}
	keyVal := e.force(e.eval(f.Key.KeyExpr, env))
	switch k := keyVal.(type) {
	case value.Null:
		return obj
	case value.Array:
		th := e.makeFieldThunk(f.Value, env)
		for _, elemRaw := range k.Elements {
			elem := e.force(elemRaw)
			if _, isNull := elem.(value.Null); isNull {
				continue
			}
			obj = obj.With(e.keyToName(f.Key.KeyExpr.Position(), elem), th)
		}
		return obj
	default:
		th := e.makeFieldThunk(f.Value, env)
		return obj.With(e.keyToName(f.Key.KeyExpr.Position(), keyVal), th)
	}
}

func (e *Evaluator) keyToName(pos ast.Pos, v value.Value) string {
	if s, ok := v.(value.String); ok {
		return s.Raw()
	}
	e.errorf(errs.TypeMismatch, pos, "object key must be a string or null, found %s", v.Type())
	panic("unreachable")
}

// makeFieldThunk wraps expr as a lazily-forced field value.
func (e *Evaluator) makeFieldThunk(expr ast.Node, env *value.Env) *value.Thunk {
	return value.NewThunk(posOf(expr.Position()), func() (value.Value, error) {
		return e.Eval(expr, env)
	})
}

// evalObjectExtend applies Fields on top of Base. Base must evaluate to an
// object.
func (e *Evaluator) evalObjectExtend(n *ast.ObjectExtend, env *value.Env) value.Value {
	base := e.force(e.eval(n.Base, env))
	obj, ok := base.(value.Object)
	if !ok {
		e.errorf(errs.TypeMismatch, n.Pos, "object-extend requires an object base, found %s", base.Type())
	}
	for _, f := range n.Fields {
		obj = e.applyObjectLitField(obj, f, env)
	}
	return obj
}

// applyPatch implements "name { inner }": when inner is literally an
// *ast.ObjectLit, it recurses structurally field-by-field into the
// existing nested object (so a patch several levels deep only replaces the
// leaves it names); any other patch-value expression form is merged one
// level via the same Object.With-based merge binary '&' uses, since there
// is no further literal structure to recurse into.
func (e *Evaluator) applyPatch(obj value.Object, name string, patchExpr ast.Node, env *value.Env) value.Object {
	existing, ok := obj.Get(name)
	var existingObj value.Object
	if ok {
		forced := e.force(existing)
		eo, isObj := forced.(value.Object)
		if !isObj {
			e.errorf(errs.TypeMismatch, patchExpr.Position(), "cannot patch field %q: existing value is %s, not an object", name, forced.Type())
		}
		existingObj = eo
	}
	if lit, isLit := patchExpr.(*ast.ObjectLit); isLit {
		merged := existingObj
		for _, f := range lit.Fields {
			merged = e.applyObjectLitField(merged, f, env)
		}
		return obj.With(name, merged)
	}
	patched := e.force(e.eval(patchExpr, env))
	patchObj, ok := patched.(value.Object)
	if !ok {
		e.errorf(errs.TypeMismatch, patchExpr.Position(), "patch value must be an object, found %s", patched.Type())
	}
	return obj.With(name, mergeObjects(existingObj, patchObj))
}
