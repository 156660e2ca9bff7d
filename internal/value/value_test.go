package value

import (
	"testing"

	"github.com/stevan/slight/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintCanonicalForms(t *testing.T) {
	assert.Equal(t, "true", Print(Boolean{Value: true}))
	assert.Equal(t, "false", Print(Boolean{Value: false}))
	assert.Equal(t, "()", Print(Nil{}))
	assert.Equal(t, "()", Print(List{}))
	assert.Equal(t, "3", Print(Number{Value: 3}))
	assert.Equal(t, `"hi"`, Print(String{Value: "hi"}))
	assert.Equal(t, "(1 2 3)", Print(List{Elements: []Value{Number{Value: 1}, Number{Value: 2}, Number{Value: 3}}}))
}

func TestTypeOfEmptyListIsNil(t *testing.T) {
	assert.Equal(t, "NIL", TypeOf(List{}))
	assert.Equal(t, "LIST", TypeOf(List{Elements: []Value{Number{Value: 1}}}))
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(Boolean{Value: false}))
	assert.False(t, Truthy(Nil{}))
	assert.True(t, Truthy(Boolean{Value: true}))
	assert.True(t, Truthy(Number{Value: 0}))
	assert.True(t, Truthy(String{Value: ""}))
}

func TestMapInsertionOrderAndOps(t *testing.T) {
	m := &Map{}
	m.Set(String{Value: "a"}, Number{Value: 1})
	m.Set(String{Value: "b"}, Number{Value: 2})
	m.Set(String{Value: "a"}, Number{Value: 9})
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "a", m.Entries[0].Key.(String).Value)
	v, ok := m.Get(String{Value: "a"})
	require.True(t, ok)
	assert.Equal(t, Number{Value: 9}, v)
	assert.True(t, m.Delete(String{Value: "a"}))
	_, ok = m.Get(String{Value: "a"})
	assert.False(t, ok)
}

func TestErrorFieldAccess(t *testing.T) {
	e := &Error{Message: "boom", Line: 4, Column: 2, HasPos: true}
	v, ok := e.Field("message")
	require.True(t, ok)
	assert.Equal(t, String{Value: "boom"}, v)
	v, ok = e.Field("line")
	require.True(t, ok)
	assert.Equal(t, Number{Value: 4}, v)
	_, ok = e.Field("nope")
	assert.False(t, ok)
}

// TestASTValueRoundTrip checks the AST<->Value round trip for the shapes
// the parser produces, compared through their Value form:
// FromAST(ToAST(FromAST(A))) must print the same as FromAST(A). It does
// not check ToAST(FromAST(A)) = A, which does not hold for string
// literals (they come back as symbols).
func TestASTValueRoundTrip(t *testing.T) {
	sources := []string{
		"(+ 1 2)",
		"(def x 10)",
		"(def f (x) (+ x 1))",
		"(let ((x 1) (y 2)) (+ x y))",
		"(cond ((== n 0) 1) (else 2))",
		"(fun (y) (+ x y))",
		`(try (throw "boom") (catch e e.message))`,
		"(begin (def x 1) (set! x 2) x)",
		"(quote (a (b c)))",
	}
	for _, src := range sources {
		items := parser.NewFromSource(src).All()
		require.Len(t, items, 1)
		require.False(t, items[0].IsError())
		original := items[0].Node

		v := FromAST(original)
		back, err := ToAST(v)
		require.NoError(t, err, "src=%q", src)

		// Re-quote both sides and compare their printed forms: ToAST maps
		// every string to a Symbol, so Print(FromAST(x)) is the stable
		// comparison surface rather than deep struct equality.
		assert.Equal(t, Print(FromAST(original)), Print(FromAST(back)), "round-trip mismatch for %q", src)
	}
}
