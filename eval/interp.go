package eval

import (
	"strings"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/value"
)

// evalInterpString concatenates an interpolated string's literal runs with
// the stringified value of each embedded expression.
func (e *Evaluator) evalInterpString(n *ast.InterpString, env *value.Env) value.Value {
	var b strings.Builder
	for _, seg := range n.Segments {
		if seg.Expr == nil {
			b.WriteString(seg.Literal)
			continue
		}
		v := e.force(e.eval(seg.Expr, env))
		b.WriteString(stringify(v))
	}
	return value.String(b.String())
}

// stringify renders v for interpolation: a raw string is spliced in
// unquoted (re-quoting it would defeat the point of interpolating it),
// every other value uses its own canonical String() form. The full pretty
// formatter this would ideally delegate to is out of scope (spec.md §1);
// this is the same single-line rendering the builtins' show-style
// functions use.
func stringify(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return s.Raw()
	}
	return v.String()
}
