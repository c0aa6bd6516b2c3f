package eval

import (
	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/value"
)

// evalImport delegates path resolution and loading entirely to the
// Context's Importer, keeping this package ignorant of the filesystem and
// of how stdlib modules are bootstrapped — that lives in package module.
func (e *Evaluator) evalImport(n *ast.Import, env *value.Env) value.Value {
	if e.ctx.Importer == nil {
		e.errorf(errs.ModuleNotFound, n.Pos, "no importer configured, cannot resolve %q", n.Path)
	}
	v, err := e.ctx.Importer.Import(n.Path, e.ctx.CWD)
	if err != nil {
		panic(err)
	}
	return v
}
