package module_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazylang/lazylang/builtins"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/module"
	"github.com/lazylang/lazylang/stdlib"
)

func newResolver(t *testing.T) *module.Resolver {
	t.Helper()
	return module.NewResolver(stdlib.FS, builtins.Root())
}

func TestRootEnvBindsAutoImportedModulesAndPromotesBasics(t *testing.T) {
	r := newResolver(t)
	env, err := r.RootEnv()
	require.NoError(t, err)

	for _, name := range []string{"Array", "Basics", "Float", "Math", "Object", "Range", "Result", "String", "Tuple"} {
		_, ok := env.Lookup(name)
		assert.True(t, ok, "expected %s to be bound", name)
	}
	// Basics' own fields are promoted unqualified.
	_, ok := env.Lookup("crash")
	assert.True(t, ok, "expected Basics.crash to be promoted unqualified")
	_, ok = env.Lookup("identity")
	assert.True(t, ok, "expected Basics.identity to be promoted unqualified")
}

func TestImportStdlibModuleByBareName(t *testing.T) {
	r := newResolver(t)
	v, err := r.Import("Math", "")
	require.NoError(t, err)
	assert.Contains(t, v.String(), "sqrt")
}

func TestImportUserFileRelativeToFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Lib.lazy"), []byte(`{ double: x -> x * 2 }`), 0o644))

	r := newResolver(t)
	v, err := r.Import("./Lib", dir)
	require.NoError(t, err)
	assert.Contains(t, v.String(), "double")
}

func TestImportUserFileNotFoundIsModuleNotFound(t *testing.T) {
	r := newResolver(t)
	_, err := r.Import("./NoSuchFile", t.TempDir())
	require.Error(t, err)
	ee, ok := err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, errs.ModuleNotFound, ee.Kind)
}

func TestImportCachesRepeatedLoads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Lib.lazy"), []byte(`{ n: 1 }`), 0o644))

	r := newResolver(t)
	a, err := r.Import("./Lib", dir)
	require.NoError(t, err)
	// A reload would see the new contents; a cache hit still returns n: 1.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Lib.lazy"), []byte(`{ n: 2 }`), 0o644))
	b, err := r.Import("./Lib", dir)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestImportBareNameResolvesOnLazylangPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Extra.lazy"), []byte(`{ v: 7 }`), 0o644))
	t.Setenv(module.SearchPathEnv, dir)

	r := newResolver(t)
	v, err := r.Import("Extra", "")
	require.NoError(t, err)
	assert.Contains(t, v.String(), "7")
}
