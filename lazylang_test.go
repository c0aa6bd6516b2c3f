package lazylang

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_EndToEndScenarios(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		expect string
	}{
		{"lambda application", `(x -> x + 1) 41`, "42"},
		{"object destructure", `{ first, last } = { first: "John", last: "Doe" }; first`, `"John"`},
		{"nested array comprehension", `[x + y for x in [1, 2] for y in [10, 20]]`, "[11, 21, 12, 22]"},
		{"field access skips unevaluated sibling", `result = { valid: 42, errorValue: crash "never" }; result.valid`, "42"},
		{"when matches over a tagged tuple", `when (#error, "msg") matches (#ok, v) then v; (#error, m) then m`, `"msg"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Evaluate("main.lazy", tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, v.String())
		})
	}
}

func TestEvaluate_TwoFileImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/Lib.lazy", `{ double: x -> x * 2 }`)
	v, err := Evaluate(dir+"/main.lazy", `{ double } = import './Lib'; double 21`)
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())
}

func TestRun_AppliesSystemContext(t *testing.T) {
	v, err := Run("main.lazy", `ctx -> Array.length ctx.args`, []string{"a", "b", "c"}, map[string]string{"X": "1"})
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())
}

func TestRun_NonFunctionResultErrors(t *testing.T) {
	_, err := Run("main.lazy", `42`, nil, nil)
	require.Error(t, err)
}

func TestEvaluate_CrashPropagates(t *testing.T) {
	_, err := Evaluate("main.lazy", `crash "boom"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestEvaluate_MisspelledFieldNameIsNotAnIdentifierLookup(t *testing.T) {
	_, err := Evaluate("main.lazy", `{ total: 1 } & { totla: 2 }`)
	// "totla" is a valid field name here (object literal), not an identifier
	// lookup, so this should succeed rather than error.
	require.NoError(t, err)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
