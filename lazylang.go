// Package lazylang is the embeddable core described by the driver contract:
// a tokenizer, parser, pattern matcher, and lazy tree-walking evaluator
// wired together behind two entry points, Evaluate and Run. Everything
// about how a host turns the result into process exit codes, formatted
// output, or files on disk (manifest mode, the pretty/json/yaml output
// selector) is the out-of-scope driver's job; this package only returns
// values and errors.
package lazylang

import (
	"path/filepath"
	"sort"

	"github.com/lazylang/lazylang/builtins"
	"github.com/lazylang/lazylang/eval"
	"github.com/lazylang/lazylang/module"
	"github.com/lazylang/lazylang/parser"
	"github.com/lazylang/lazylang/stdlib"
	"github.com/lazylang/lazylang/value"
)

// NewResolver builds a module resolver wired to the embedded standard
// library and the native builtins surface. Each call starts a fresh,
// independent module cache. Evaluate and Run each call it, so they never
// share imported-module state; only code in this package can reuse one
// Resolver across evaluations, through the unexported evalWith helper.
func NewResolver() *module.Resolver {
	return module.NewResolver(stdlib.FS, builtins.Root())
}

// Evaluate loads filename (its source already read into src) and returns
// its final value. This is the first of the two core entry points (§6).
func Evaluate(filename, src string) (value.Value, error) {
	return evalWith(NewResolver(), filename, src)
}

func evalWith(resolver *module.Resolver, filename, src string) (value.Value, error) {
	root, err := resolver.RootEnv()
	if err != nil {
		return nil, err
	}
	node, err := parser.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	ev := eval.New(eval.Context{Importer: resolver, CWD: filepath.Dir(filename)})
	return ev.Eval(node, root)
}

// Run loads filename, requires the result to be a function, and applies it
// to a single system-context value `{ args, env }` — args a string array,
// env a string-to-string object — returning the application's result. This
// is the second core entry point (§6); assembling sysArgs/sysEnv from the
// actual process argv/environ, and everything past this return value, is
// the driver's job.
func Run(filename, src string, sysArgs []string, sysEnv map[string]string) (value.Value, error) {
	result, err := Evaluate(filename, src)
	if err != nil {
		return nil, err
	}
	return eval.Apply(result, SystemContext(sysArgs, sysEnv))
}

// SystemContext builds the `{ args, env }` value Run applies the loaded
// module's function to. env's fields are sorted by name for a
// deterministic, reproducible value despite map's undefined range order.
func SystemContext(sysArgs []string, sysEnv map[string]string) value.Value {
	args := make([]value.Value, len(sysArgs))
	for i, a := range sysArgs {
		args[i] = value.String(a)
	}
	keys := make([]string, 0, len(sysEnv))
	for k := range sysEnv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var env value.Object
	for _, k := range keys {
		env = env.With(k, value.String(sysEnv[k]))
	}
	var sysCtx value.Object
	sysCtx = sysCtx.With("args", value.Array{Elements: args})
	sysCtx = sysCtx.With("env", env)
	return sysCtx
}
