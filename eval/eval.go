// Package eval implements the lazylang tree-walking evaluator: a
// single-threaded recursive walk over an ast.Node that manages environment
// chains, forces thunks at the spec's mandated points, and dispatches to
// the native built-in surface.
package eval

import (
	"fmt"
	"log"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/match"
	"github.com/lazylang/lazylang/value"
)

// Logger receives diagnostic output during evaluation (currently unused by
// the core walk itself, but held here in the same place the teacher keeps
// its {log}-command sink, for any future built-in that wants one).
var Logger = log.New(logDiscard{}, "", 0)

type logDiscard struct{}

func (logDiscard) Write(p []byte) (int, error) { return len(p), nil }

// Importer resolves and loads an import expression's target module. It is
// an interface, not a concrete dependency on the module package, because
// the module package's Resolver itself needs to evaluate the files it
// loads — a direct import of package eval. Routing the dependency through
// an interface here, the same way value.Thunk takes an injected closure
// instead of importing eval, keeps this package free of the cycle.
type Importer interface {
	Import(path, fromDir string) (value.Value, error)
}

// Context carries the state threaded through one evaluation run: the
// importer for resolving `import` expressions and the current working
// directory used to make relative import paths absolute.
type Context struct {
	Importer Importer
	CWD      string
}

// Evaluator walks one expression tree under a fixed Context.
type Evaluator struct {
	ctx Context
}

// New creates an Evaluator under ctx.
func New(ctx Context) *Evaluator {
	return &Evaluator{ctx: ctx}
}

// Eval walks node in env and returns its value, converting any raised
// *errs.Error into a returned error at this boundary — one of the two places
// in the evaluator that recover a panic (Apply is the other), mirroring the
// teacher's errorf-panics/errRecover-at-the-top idiom.
func (e *Evaluator) Eval(node ast.Node, env *value.Env) (result value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ee, ok := r.(*errs.Error); ok {
				err = ee
				return
			}
			panic(r)
		}
	}()
	result = e.eval(node, env)
	return result, nil
}

func posOf(p ast.Pos) errs.Pos {
	return errs.Pos{File: p.File, Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func (e *Evaluator) errorf(kind errs.Kind, pos ast.Pos, format string, args ...interface{}) {
	panic(errs.New(kind, posOf(pos), format, args...))
}

// force forces v, re-panicking any CyclicReference (or other) error so it
// propagates to this evaluator's Eval boundary rather than needing every
// call site to separately check a returned error.
func (e *Evaluator) force(v value.Value) value.Value {
	fv, err := value.Force(v)
	if err != nil {
		panic(err)
	}
	return fv
}

// eval is the internal walk: it panics with *errs.Error on any failure
// rather than returning one, so the recursive descent below never has to
// thread an error return through every call.
func (e *Evaluator) eval(node ast.Node, env *value.Env) value.Value {
	switch n := node.(type) {
	case *ast.IntLit:
		return value.Int(n.Value)
	case *ast.FloatLit:
		return value.Float(n.Value)
	case *ast.BoolLit:
		return value.Bool(n.Value)
	case *ast.NullLit:
		return value.Null{}
	case *ast.StringLit:
		return value.String(n.Value)
	case *ast.SymbolLit:
		return value.Symbol{Name: n.Name}
	case *ast.InterpString:
		return e.evalInterpString(n, env)
	case *ast.Ident:
		return e.evalIdent(n, env)
	case *ast.ArrayLit:
		return e.evalArrayLit(n, env)
	case *ast.TupleLit:
		elems := make([]value.Value, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = e.eval(el, env)
		}
		return value.Tuple{Elements: elems}
	case *ast.ObjectLit:
		return e.evalObjectLit(n, env)
	case *ast.ObjectExtend:
		return e.evalObjectExtend(n, env)
	case *ast.Unary:
		return e.evalUnary(n, env)
	case *ast.Binary:
		return e.evalBinary(n, env)
	case *ast.Lambda:
		return &value.Function{Param: n.Param, Body: n.Body, Env: env}
	case *ast.Let:
		return e.evalLet(n, env)
	case *ast.Apply:
		return e.evalApply(n, env)
	case *ast.FieldAccess:
		return e.evalFieldAccess(n, env)
	case *ast.FieldAccessor:
		return e.evalFieldAccessor(n, env)
	case *ast.FieldProjection:
		return e.evalFieldProjection(n, env)
	case *ast.Index:
		return e.evalIndex(n, env)
	case *ast.If:
		return e.evalIf(n, env)
	case *ast.WhenMatches:
		return e.evalWhenMatches(n, env)
	case *ast.ArrayComprehension:
		return e.evalArrayComprehension(n, env)
	case *ast.ObjectComprehension:
		return e.evalObjectComprehension(n, env)
	case *ast.Import:
		return e.evalImport(n, env)
	}
	panic(fmt.Sprintf("eval: unhandled node type %T", node))
}

func (e *Evaluator) evalLet(n *ast.Let, env *value.Env) value.Value {
	val := e.eval(n.Value, env)
	extended, err := match.Match(n.Pattern, val, env)
	if err != nil {
		panic(err)
	}
	return e.eval(n.Body, extended)
}
