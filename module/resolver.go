// Package module implements the lazylang import-path resolver: search-path
// lookup, the fixed auto-imported standard-library set, and a process-local
// cache keyed on canonicalized absolute path.
package module

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/eval"
	"github.com/lazylang/lazylang/parser"
	"github.com/lazylang/lazylang/value"
)

// SearchPathEnv is the environment variable consulted for additional module
// search directories, colon-separated, consulted before the embedded
// standard library.
const SearchPathEnv = "LAZYLANG_PATH"

// autoImported is the fixed set of modules made available without an
// explicit import (§4.5); Basics is additionally promoted field-by-field
// into the unqualified top-level environment.
var autoImported = []string{"Array", "Basics", "Float", "Math", "Object", "Range", "Result", "String", "Tuple"}

// stdlibKey is the canonical cache/loading key used for a standard-library
// module, distinct from any real filesystem path a user search directory
// could produce.
func stdlibKey(name string) string { return "stdlib:" + name }

// Resolver implements eval.Importer: it resolves and loads both
// user-authored and standard-library modules, and is the one package in
// this module that concretely imports both parser and eval (everything
// else routes around that dependency through eval.Importer).
type Resolver struct {
	searchPath []string
	stdlib     fs.FS

	cache   map[string]value.Value
	loading map[string]bool

	builtinsEnv *value.Env
}

// NewResolver builds a Resolver whose search path is LAZYLANG_PATH
// (colon-separated), consulted before the embedded standard library
// (stdlib.FS) supplied at link time per the driver contract's default
// fallback. builtinsEnv is the native function surface (builtins.Root())
// every module, including the standard library itself, evaluates against.
func NewResolver(stdlib fs.FS, builtinsEnv *value.Env) *Resolver {
	var path []string
	if v := os.Getenv(SearchPathEnv); v != "" {
		path = strings.Split(v, ":")
	}
	return &Resolver{
		searchPath:  path,
		stdlib:      stdlib,
		cache:       map[string]value.Value{},
		loading:     map[string]bool{},
		builtinsEnv: builtinsEnv,
	}
}

// RootEnv builds the top-level environment: builtins plus every
// auto-imported module bound by name, with Basics' fields additionally
// promoted unqualified.
func (r *Resolver) RootEnv() (*value.Env, error) {
	env := r.builtinsEnv
	var basics value.Object
	for _, name := range autoImported {
		v, err := r.importStdlib(name)
		if err != nil {
			return nil, fmt.Errorf("module: loading auto-imported module %q: %w", name, err)
		}
		env = env.Extend(name, v)
		if name == "Basics" {
			if obj, ok := v.(value.Object); ok {
				basics = obj
			}
		}
	}
	for _, f := range basics.Fields {
		env = env.Extend(f.Key, f.Value)
	}
	return env, nil
}

// Import resolves path relative to fromDir, loading and evaluating it if
// not already cached. It satisfies eval.Importer.
func (r *Resolver) Import(path, fromDir string) (value.Value, error) {
	resolved, err := r.resolveOnSearchPath(path, fromDir)
	if err != nil {
		if !isPathLike(path) && isStdlibModule(r.stdlib, path) {
			return r.importStdlib(path)
		}
		return nil, err
	}
	canon, err := filepath.Abs(resolved)
	if err != nil {
		canon = resolved
	}
	return r.loadCached(canon, func() (value.Value, error) { return r.loadFile(canon) })
}

// importStdlib loads (or returns the cached) embedded standard-library
// module by its bare name (e.g. "Array", never a path).
func (r *Resolver) importStdlib(name string) (value.Value, error) {
	return r.loadCached(stdlibKey(name), func() (value.Value, error) { return r.loadStdlibFile(name) })
}

func (r *Resolver) loadCached(key string, load func() (value.Value, error)) (value.Value, error) {
	if v, ok := r.cache[key]; ok {
		return v, nil
	}
	if r.loading[key] {
		return nil, errs.New(errs.CyclicReference, errs.Pos{}, "import cycle detected loading %q", key)
	}
	r.loading[key] = true
	defer delete(r.loading, key)

	v, err := load()
	if err != nil {
		return nil, err
	}
	r.cache[key] = v
	return v, nil
}

func isPathLike(path string) bool {
	return strings.ContainsAny(path, "/.") || filepath.IsAbs(path)
}

func isStdlibModule(stdlib fs.FS, name string) bool {
	_, err := fs.Stat(stdlib, name+".lazy")
	return err == nil
}

// resolveOnSearchPath implements §4.5's explicit-path and search-directory
// resolution rules for user-authored imports (the standard library itself
// is resolved separately, from the embedded FS, never from disk).
func (r *Resolver) resolveOnSearchPath(path, fromDir string) (string, error) {
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		base := path
		if !strings.HasPrefix(path, "/") {
			base = filepath.Join(fromDir, path)
		}
		for _, candidate := range candidatesFor(base) {
			if isReadableFile(candidate) {
				return candidate, nil
			}
		}
		return "", errs.New(errs.ModuleNotFound, errs.Pos{}, "module not found: %q", path)
	}
	for _, dir := range r.searchPath {
		base := filepath.Join(dir, path)
		for _, candidate := range candidatesFor(base) {
			if isReadableFile(candidate) {
				return candidate, nil
			}
		}
	}
	return "", errs.New(errs.ModuleNotFound, errs.Pos{}, "module not found: %q", path)
}

func candidatesFor(base string) []string {
	if strings.HasSuffix(base, ".lazy") {
		return []string{base}
	}
	return []string{base, base + ".lazy"}
}

func isReadableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadFile reads, tokenizes, parses, and evaluates the user module at canon
// in a fresh environment containing only builtins plus auto-imported
// modules (never the caller's own bindings), with current_directory set to
// the loaded file's directory, per §4.5's loading rule.
func (r *Resolver) loadFile(canon string) (value.Value, error) {
	src, err := os.ReadFile(canon)
	if err != nil {
		return nil, errs.New(errs.ModuleNotFound, errs.Pos{}, "cannot read module %q: %v", canon, err)
	}
	return r.evalModuleSource(canon, string(src), filepath.Dir(canon))
}

// loadStdlibFile reads and evaluates an embedded standard-library module by
// name. It runs with current_directory set to "" since stdlib modules never
// perform relative imports of their own.
func (r *Resolver) loadStdlibFile(name string) (value.Value, error) {
	src, err := fs.ReadFile(r.stdlib, name+".lazy")
	if err != nil {
		return nil, errs.New(errs.ModuleNotFound, errs.Pos{}, "standard library module %q not found: %v", name, err)
	}
	return r.evalModuleSource(name+".lazy", string(src), "")
}

func (r *Resolver) evalModuleSource(displayPath, src, cwd string) (value.Value, error) {
	node, err := parser.Parse(displayPath, src)
	if err != nil {
		return nil, err
	}
	env := r.moduleEnv(displayPath)
	ev := eval.New(eval.Context{Importer: r, CWD: cwd})
	return ev.Eval(node, env)
}

// moduleEnv is the environment a loaded module's top-level expression
// evaluates in: the raw builtins environment plus every already-cached
// auto-imported module, so loading the standard library itself doesn't
// recurse into RootEnv and each stdlib module sees only the ones loaded
// before it.
func (r *Resolver) moduleEnv(displayPath string) *value.Env {
	env := r.builtinsEnv
	skip := strings.TrimSuffix(filepath.Base(displayPath), ".lazy")
	for _, name := range autoImported {
		if name == skip {
			continue
		}
		if v, ok := r.cache[stdlibKey(name)]; ok {
			env = env.Extend(name, v)
		}
	}
	return env
}
