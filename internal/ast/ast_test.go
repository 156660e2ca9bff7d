package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/stevan/slight/internal/ast"
	"github.com/stevan/slight/internal/parser"
)

// TestPrintRoundTrip verifies spec.md §8: reparsing ast.Print(A) yields an
// AST equal to A up to source positions, for every node shape the parser
// produces.
func TestPrintRoundTrip(t *testing.T) {
	sources := []string{
		"42",
		`"hello world"`,
		"true",
		"false",
		"some-symbol",
		"'(a b c)",
		"(+ 1 2 3)",
		"(def x 10)",
		"(def add (x y) (+ x y))",
		"(defmacro my-when (c body) (list 'cond (list c body) (list 'else false)))",
		"(set! x 2)",
		"(let ((x 1) (y 2)) (+ x y))",
		"(fun (x) (* x x))",
		`(try (throw "boom") (catch e e.message))`,
		"(begin (def x 1) (set! x 2) x)",
		"(cond ((== 1 1) 1) ((== 1 2) 2) (else 3))",
	}

	opts := cmp.Options{
		cmpopts.IgnoreFields(ast.Number{}, "Pos"),
		cmpopts.IgnoreFields(ast.String{}, "Pos"),
		cmpopts.IgnoreFields(ast.Boolean{}, "Pos"),
		cmpopts.IgnoreFields(ast.Symbol{}, "Pos"),
		cmpopts.IgnoreFields(ast.Call{}, "Pos"),
		cmpopts.IgnoreFields(ast.Quote{}, "Pos"),
		cmpopts.IgnoreFields(ast.Cond{}, "Pos"),
		cmpopts.IgnoreFields(ast.Def{}, "Pos"),
		cmpopts.IgnoreFields(ast.DefMacro{}, "Pos"),
		cmpopts.IgnoreFields(ast.Set{}, "Pos"),
		cmpopts.IgnoreFields(ast.Let{}, "Pos"),
		cmpopts.IgnoreFields(ast.Lambda{}, "Pos"),
		cmpopts.IgnoreFields(ast.Try{}, "Pos"),
		cmpopts.IgnoreFields(ast.Throw{}, "Pos"),
		cmpopts.IgnoreFields(ast.Begin{}, "Pos"),
	}

	for _, src := range sources {
		items := parser.NewFromSource(src).All()
		require.Len(t, items, 1, "src=%q", src)
		require.False(t, items[0].IsError(), "src=%q err=%v", src, items[0].Err)
		original := items[0].Node

		reprinted := ast.Print(original)
		reparsed := parser.NewFromSource(reprinted).All()
		require.Len(t, reparsed, 1, "src=%q reprinted=%q", src, reprinted)
		require.False(t, reparsed[0].IsError(), "src=%q reprinted=%q err=%v", src, reprinted, reparsed[0].Err)

		if diff := cmp.Diff(original, reparsed[0].Node, opts...); diff != "" {
			t.Errorf("round-trip mismatch for %q (reprinted as %q):\n%s", src, reprinted, diff)
		}
	}
}

func TestPrintIsIdempotentOnReprint(t *testing.T) {
	src := "(def add5 (x) (+ x 5))"
	items := parser.NewFromSource(src).All()
	require.Len(t, items, 1)
	first := ast.Print(items[0].Node)

	reparsed := parser.NewFromSource(first).All()
	require.Len(t, reparsed, 1)
	second := ast.Print(reparsed[0].Node)

	require.Equal(t, first, second)
}
