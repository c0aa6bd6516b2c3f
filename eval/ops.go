package eval

import (
	"math"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/value"
)

func (e *Evaluator) evalUnary(n *ast.Unary, env *value.Env) value.Value {
	arg := e.force(e.eval(n.Arg, env))
	switch n.Op {
	case "!":
		b, ok := arg.(value.Bool)
		if !ok {
			e.errorf(errs.TypeMismatch, n.Pos, "'!' requires a boolean, found %s", arg.Type())
		}
		return value.Bool(!bool(b))
	case "-":
		switch v := arg.(type) {
		case value.Int:
			return value.Int(-v)
		case value.Float:
			return value.Float(-v)
		}
		e.errorf(errs.TypeMismatch, n.Pos, "unary '-' requires a number, found %s", arg.Type())
	}
	panic("eval: unhandled unary operator " + n.Op)
}

func (e *Evaluator) evalBinary(n *ast.Binary, env *value.Env) value.Value {
	switch n.Op {
	case "&&":
		left := e.force(e.eval(n.Left, env))
		lb, ok := left.(value.Bool)
		if !ok {
			e.errorf(errs.TypeMismatch, n.Pos, "'&&' requires a boolean, found %s", left.Type())
		}
		if !bool(lb) {
			return value.Bool(false)
		}
		right := e.force(e.eval(n.Right, env))
		rb, ok := right.(value.Bool)
		if !ok {
			e.errorf(errs.TypeMismatch, n.Pos, "'&&' requires a boolean, found %s", right.Type())
		}
		return rb
	case "||":
		left := e.force(e.eval(n.Left, env))
		lb, ok := left.(value.Bool)
		if !ok {
			e.errorf(errs.TypeMismatch, n.Pos, "'||' requires a boolean, found %s", left.Type())
		}
		if bool(lb) {
			return value.Bool(true)
		}
		right := e.force(e.eval(n.Right, env))
		rb, ok := right.(value.Bool)
		if !ok {
			e.errorf(errs.TypeMismatch, n.Pos, "'||' requires a boolean, found %s", right.Type())
		}
		return rb
	}

	left := e.force(e.eval(n.Left, env))
	right := e.force(e.eval(n.Right, env))

	switch n.Op {
	case "==":
		eq, err := value.Equal(left, right)
		if err != nil {
			panic(err)
		}
		return value.Bool(eq)
	case "!=":
		eq, err := value.Equal(left, right)
		if err != nil {
			panic(err)
		}
		return value.Bool(!eq)
	case "++":
		ls, ok1 := left.(value.String)
		rs, ok2 := right.(value.String)
		if !ok1 || !ok2 {
			e.errorf(errs.TypeMismatch, n.Pos, "'++' requires two strings, found %s and %s", left.Type(), right.Type())
		}
		return value.String(string(ls) + string(rs))
	case "&":
		lo, ok1 := left.(value.Object)
		ro, ok2 := right.(value.Object)
		if !ok1 || !ok2 {
			e.errorf(errs.TypeMismatch, n.Pos, "'&' requires two objects, found %s and %s", left.Type(), right.Type())
		}
		return mergeObjects(lo, ro)
	case "<", "<=", ">", ">=":
		return e.evalComparison(n, left, right)
	case "+", "-", "*", "/", "%":
		return e.evalArithmetic(n, left, right)
	}
	panic("eval: unhandled binary operator " + n.Op)
}

func (e *Evaluator) evalComparison(n *ast.Binary, left, right value.Value) value.Value {
	li, lIsInt := left.(value.Int)
	ri, rIsInt := right.(value.Int)
	if lIsInt && rIsInt {
		switch n.Op {
		case "<":
			return value.Bool(li < ri)
		case "<=":
			return value.Bool(li <= ri)
		case ">":
			return value.Bool(li > ri)
		case ">=":
			return value.Bool(li >= ri)
		}
	}
	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		e.errorf(errs.TypeMismatch, n.Pos, "'%s' requires two numbers, found %s and %s", n.Op, left.Type(), right.Type())
	}
	var result bool
	switch n.Op {
	case "<":
		result = lf < rf
	case "<=":
		result = lf <= rf
	case ">":
		result = lf > rf
	case ">=":
		result = lf >= rf
	}
	return value.Bool(result)
}

// evalArithmetic applies +, -, *, /, % with integer/integer producing an
// integer result and any float operand promoting the whole operation to
// float.
func (e *Evaluator) evalArithmetic(n *ast.Binary, left, right value.Value) value.Value {
	li, lIsInt := left.(value.Int)
	ri, rIsInt := right.(value.Int)
	if lIsInt && rIsInt {
		switch n.Op {
		case "+":
			return li + ri
		case "-":
			return li - ri
		case "*":
			return li * ri
		case "/":
			if ri == 0 {
				e.errorf(errs.TypeMismatch, n.Pos, "division by zero")
			}
			return li / ri
		case "%":
			if ri == 0 {
				e.errorf(errs.TypeMismatch, n.Pos, "division by zero")
			}
			// Go's % already yields a remainder with the dividend's sign,
			// matching the mathematical-remainder rule this language uses.
			return li % ri
		}
	}
	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		e.errorf(errs.TypeMismatch, n.Pos, "'%s' requires two numbers, found %s and %s", n.Op, left.Type(), right.Type())
	}
	switch n.Op {
	case "+":
		return value.Float(lf + rf)
	case "-":
		return value.Float(lf - rf)
	case "*":
		return value.Float(lf * rf)
	case "/":
		if rf == 0 {
			e.errorf(errs.TypeMismatch, n.Pos, "division by zero")
		}
		return value.Float(lf / rf)
	case "%":
		if rf == 0 {
			e.errorf(errs.TypeMismatch, n.Pos, "division by zero")
		}
		return value.Float(math.Mod(lf, rf))
	}
	panic("eval: unhandled arithmetic operator " + n.Op)
}

func numericValue(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case value.Int:
		return float64(x), true
	case value.Float:
		return float64(x), true
	}
	return 0, false
}

// mergeObjects implements the binary '&' object merge and the non-recursive
// branch of object-extend's patch semantics: every field of left followed
// by right's fields applied with Object.With, which keeps an overwritten
// field's original position and appends a new one at the end — "all keys
// from left in left order, then right-only keys in right order, right
// wins".
func mergeObjects(left, right value.Object) value.Object {
	result := left
	for _, f := range right.Fields {
		result = result.With(f.Key, f.Value)
	}
	return result
}
