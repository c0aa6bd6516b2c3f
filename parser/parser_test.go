package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/parser"
)

// ignorePos excludes every node's embedded Pos from comparison: hand-writing
// exact byte/line/column offsets for expected trees is brittle busywork that
// tests nothing about parsing structure.
var ignorePos = cmpopts.IgnoreTypes(ast.Pos{})

func parseOK(t *testing.T, src string) ast.Node {
	t.Helper()
	node, err := parser.Parse("test.lazy", src)
	require.NoError(t, err)
	return node
}

func TestParseArithmeticPrecedence(t *testing.T) {
	got := parseOK(t, "1 + 2 * 3")
	want := &ast.Binary{
		Op:   "+",
		Left: &ast.IntLit{Value: 1},
		Right: &ast.Binary{
			Op:    "*",
			Left:  &ast.IntLit{Value: 2},
			Right: &ast.IntLit{Value: 3},
		},
	}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("parse tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLambdaIsRightAssociativeCurried(t *testing.T) {
	got := parseOK(t, "x -> y -> x + y")
	want := &ast.Lambda{
		Param: &ast.PatIdent{Name: "x"},
		Body: &ast.Lambda{
			Param: &ast.PatIdent{Name: "y"},
			Body: &ast.Binary{
				Op:    "+",
				Left:  &ast.Ident{Name: "x"},
				Right: &ast.Ident{Name: "y"},
			},
		},
	}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("parse tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseObjectExtendVsFreshNestedLiteral(t *testing.T) {
	extend := parseOK(t, `base { a: 1 }`)
	_, isExtend := extend.(*ast.ObjectExtend)
	require.True(t, isExtend, "base { ... } must parse as ObjectExtend, not Apply")

	fresh := parseOK(t, `{ a: 1 }`)
	_, isLit := fresh.(*ast.ObjectLit)
	require.True(t, isLit)
}

func TestParseApplicationIsLeftAssociative(t *testing.T) {
	got := parseOK(t, "f x y")
	want := &ast.Apply{
		Callee: &ast.Apply{
			Callee: &ast.Ident{Name: "f"},
			Arg:    &ast.Ident{Name: "x"},
		},
		Arg: &ast.Ident{Name: "y"},
	}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("parse tree mismatch (-want +got):\n%s", diff)
	}
}
