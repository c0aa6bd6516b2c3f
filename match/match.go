// Package match implements the lazylang structural pattern matcher:
// attempting to bind a pattern against a runtime value, producing either
// an extended environment or a typed mismatch error.
package match

import (
	"fmt"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/value"
)

// posOf adapts an ast.Pos to an errs.Pos for error reporting.
func posOf(p ast.Pos) errs.Pos {
	return errs.Pos{File: p.File, Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// Match attempts to bind pat against v in env. On success it returns the
// extended environment. On failure it returns a *errs.Error of kind
// TypeMismatch — callers inside a `when` arm are expected to catch that
// specific kind and move to the next arm rather than propagate it; every
// other caller (let-destructuring, lambda parameters) lets it propagate.
func Match(pat ast.Pattern, v value.Value, env *value.Env) (*value.Env, error) {
	switch p := pat.(type) {
	case *ast.PatIdent:
		return env.Extend(p.Name, v), nil

	case *ast.PatLiteral:
		return matchLiteral(p, v, env)

	case *ast.PatTuple:
		return matchTuple(p, v, env)

	case *ast.PatArray:
		return matchArray(p, v, env)

	case *ast.PatObject:
		return matchObject(p, v, env)
	}
	return nil, fmt.Errorf("match: unhandled pattern type %T", pat)
}

func matchLiteral(p *ast.PatLiteral, v value.Value, env *value.Env) (*value.Env, error) {
	lit, err := literalValue(p.Value)
	if err != nil {
		return nil, err
	}
	forced, err := value.Force(v)
	if err != nil {
		return nil, err
	}
	eq, err := value.Equal(lit, forced)
	if err != nil {
		return nil, err
	}
	if !eq {
		return nil, errs.New(errs.TypeMismatch, posOf(p.Pos), "value %s does not match pattern %s", forced.String(), p.String()).
			WithTypes(lit.Type(), forced.Type())
	}
	return env, nil
}

// literalValue converts the literal expression node carried by a
// PatLiteral into the runtime value it denotes.
func literalValue(n ast.Node) (value.Value, error) {
	switch l := n.(type) {
	case *ast.IntLit:
		return value.Int(l.Value), nil
	case *ast.FloatLit:
		return value.Float(l.Value), nil
	case *ast.BoolLit:
		return value.Bool(l.Value), nil
	case *ast.NullLit:
		return value.Null{}, nil
	case *ast.StringLit:
		return value.String(l.Value), nil
	case *ast.SymbolLit:
		return value.Symbol{Name: l.Name}, nil
	}
	return nil, fmt.Errorf("match: unsupported literal pattern node %T", n)
}

func matchTuple(p *ast.PatTuple, v value.Value, env *value.Env) (*value.Env, error) {
	forced, err := value.Force(v)
	if err != nil {
		return nil, err
	}
	tup, ok := forced.(value.Tuple)
	if !ok || len(tup.Elements) != len(p.Elements) {
		return nil, errs.New(errs.TypeMismatch, posOf(p.Pos), "expected a tuple of length %d", len(p.Elements)).
			WithTypes(fmt.Sprintf("tuple(%d)", len(p.Elements)), forced.Type())
	}
	for i, sub := range p.Elements {
		var err error
		env, err = Match(sub, tup.Elements[i], env)
		if err != nil {
			return nil, err
		}
	}
	return env, nil
}

func matchArray(p *ast.PatArray, v value.Value, env *value.Env) (*value.Env, error) {
	forced, err := value.Force(v)
	if err != nil {
		return nil, err
	}
	arr, ok := forced.(value.Array)
	if !ok {
		return nil, errs.New(errs.TypeMismatch, posOf(p.Pos), "expected an array").WithTypes("array", forced.Type())
	}
	k := len(p.Prefix)
	if p.HasRest {
		if len(arr.Elements) < k {
			return nil, errs.New(errs.TypeMismatch, posOf(p.Pos),
				"expected an array of at least %d elements, got %d", k, len(arr.Elements))
		}
	} else if len(arr.Elements) != k {
		return nil, errs.New(errs.TypeMismatch, posOf(p.Pos),
			"expected an array of exactly %d elements, got %d", k, len(arr.Elements))
	}
	for i, sub := range p.Prefix {
		var err error
		env, err = Match(sub, arr.Elements[i], env)
		if err != nil {
			return nil, err
		}
	}
	if p.HasRest {
		env = env.Extend(p.Rest, value.Array{Elements: arr.Elements[k:]})
	}
	return env, nil
}

func matchObject(p *ast.PatObject, v value.Value, env *value.Env) (*value.Env, error) {
	forced, err := value.Force(v)
	if err != nil {
		return nil, err
	}
	obj, ok := forced.(value.Object)
	if !ok {
		return nil, errs.New(errs.TypeMismatch, posOf(p.Pos), "expected an object").WithTypes("object", forced.Type())
	}
	for _, f := range p.Fields {
		fv, ok := obj.Get(f.Name)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, posOf(p.Pos), "object has no field %q", f.Name).
				WithFields(obj.Names())
		}
		forcedField, err := value.Force(fv)
		if err != nil {
			return nil, err
		}
		if f.HasSub {
			env, err = Match(f.Sub, forcedField, env)
			if err != nil {
				return nil, err
			}
		} else {
			env = env.Extend(f.Name, forcedField)
		}
	}
	return env, nil
}
