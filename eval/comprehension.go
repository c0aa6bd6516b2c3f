package eval

import (
	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/match"
	"github.com/lazylang/lazylang/value"
)

// clauseValues produces the sequence of values this clause's generator
// yields for its pattern to match: arrays yield their elements, objects
// yield (key, value) tuples with the value forced, per §4.4.
func (e *Evaluator) clauseValues(pos ast.Pos, src value.Value) []value.Value {
	switch c := src.(type) {
	case value.Array:
		out := make([]value.Value, len(c.Elements))
		for i, el := range c.Elements {
			out[i] = e.force(el)
		}
		return out
	case value.Object:
		out := make([]value.Value, len(c.Fields))
		for i, f := range c.Fields {
			out[i] = value.Tuple{Elements: []value.Value{value.String(f.Key), e.force(f.Value)}}
		}
		return out
	}
	e.errorf(errs.TypeMismatch, pos, "comprehension source must be an array or object, found %s", src.Type())
	panic("unreachable")
}

// walkClauses drives the nested-loop iteration over clauses in source
// order, invoking emit once per surviving combination of bindings with the
// fully extended environment.
func (e *Evaluator) walkClauses(clauses []ast.Clause, env *value.Env, emit func(*value.Env)) {
	if len(clauses) == 0 {
		emit(env)
		return
	}
	head, rest := clauses[0], clauses[1:]
	if head.IsGuard {
		guard := e.force(e.eval(head.Guard, env))
		gb, ok := guard.(value.Bool)
		if !ok {
			e.errorf(errs.TypeMismatch, head.Pos, "comprehension 'when' guard requires a boolean, found %s", guard.Type())
		}
		if bool(gb) {
			e.walkClauses(rest, env, emit)
		}
		return
	}
	src := e.force(e.eval(head.Source, env))
	for _, item := range e.clauseValues(head.Pos, src) {
		extended, err := match.Match(head.Pattern, item, env)
		if err != nil {
			panic(err)
		}
		e.walkClauses(rest, extended, emit)
	}
}

func (e *Evaluator) evalArrayComprehension(n *ast.ArrayComprehension, env *value.Env) value.Value {
	var elems []value.Value
	e.walkClauses(n.Clauses, env, func(scoped *value.Env) {
		elems = append(elems, e.eval(n.Body, scoped))
	})
	return value.Array{Elements: elems}
}

func (e *Evaluator) evalObjectComprehension(n *ast.ObjectComprehension, env *value.Env) value.Value {
	obj := value.Object{}
	e.walkClauses(n.Clauses, env, func(scoped *value.Env) {
		key := e.force(e.eval(n.Key, scoped))
		name := e.keyToName(n.Key.Position(), key)
		th := e.makeFieldThunk(n.Value, scoped)
		obj = obj.With(name, th)
	})
	return obj
}
