package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevan/slight/internal/builtins"
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/parser"
	"github.com/stevan/slight/internal/sink"
	"github.com/stevan/slight/internal/value"
)

func newInterp() *interp.Interpreter {
	ip := interp.New()
	builtins.Register(ip, sink.NewSilentSink(), nil)
	return ip
}

// run parses source, skips macro expansion (none of these cases define
// macros), and drives every top-level form through ip, returning the
// outputs in order.
func run(t *testing.T, ip *interp.Interpreter, source string) []interp.Output {
	t.Helper()
	items := parser.NewFromSource(source).All()
	var outs []interp.Output
	for _, it := range items {
		outs = append(outs, ip.RunOne(interp.Item{Node: it.Node, Err: it.Err}))
	}
	return outs
}

func lastValue(t *testing.T, outs []interp.Output) value.Value {
	t.Helper()
	require.NotEmpty(t, outs)
	last := outs[len(outs)-1]
	require.Nil(t, last.Err, "unexpected error: %v", last.Err)
	return last.Value
}

func TestArithmeticAndDef(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, "(def x 10) (+ x 5)")
	require.Len(t, outs, 2)
	assert.Equal(t, interp.ChanInfo, outs[0].Channel)
	assert.Equal(t, value.Number{Value: 15}, lastValue(t, outs[1:]))
}

func TestDefWithParamsIsAFunction(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, "(def add5 (x) (+ x 5)) (add5 10)")
	assert.Equal(t, value.Number{Value: 15}, lastValue(t, outs[1:]))
}

func TestDefWithoutParamsButCallValueIsAVariable(t *testing.T) {
	// A trailing value with no parameter list is a variable def, even
	// when the value itself is a call expression.
	ip := newInterp()
	run(t, ip, "(def make-adder (n) (fun (x) (+ x n)))")
	outs := run(t, ip, "(def add5 (make-adder 5)) (add5 10)")
	assert.Equal(t, value.Number{Value: 15}, lastValue(t, outs[1:]))
}

func TestClosureCapturesEnclosingScope(t *testing.T) {
	ip := newInterp()
	run(t, ip, "(def make-adder (n) (fun (x) (+ x n)))")
	outs := run(t, ip, "(def add5 (make-adder 5)) (def add10 (make-adder 10)) (+ (add5 1) (add10 1))")
	assert.Equal(t, value.Number{Value: 17}, lastValue(t, outs[2:]))
}

func TestLetStarSequentialBinding(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, "(let ((x 1) (y (+ x 1))) (+ x y))")
	assert.Equal(t, value.Number{Value: 3}, lastValue(t, outs))
}

func TestSetMutatesNearestBinding(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, "(def x 1) (set! x 2) x")
	assert.Equal(t, value.Number{Value: 2}, lastValue(t, outs[2:]))
}

func TestSetUndefinedSymbolErrors(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, "(set! nope 1)")
	require.Len(t, outs, 1)
	require.NotNil(t, outs[0].Err)
	assert.Contains(t, outs[0].Err.Error(), "undefined symbol")
}

func TestCondFallsThroughToElse(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, `(cond ((== 1 2) "no") (else "yes"))`)
	assert.Equal(t, value.String{Value: "yes"}, lastValue(t, outs))
}

func TestTryCatchBindsErrorValue(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, `(try (throw "boom") (catch e e.message))`)
	assert.Equal(t, value.String{Value: "boom"}, lastValue(t, outs))
}

func TestDottedFieldAccessOnMap(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, `(def m (make-map)) (map-set! m "name" "ava") m.name`)
	assert.Equal(t, value.String{Value: "ava"}, lastValue(t, outs))
}

func TestDottedFieldAccessOnMapMissingKeyErrors(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, `(def m (make-map)) m.missing`)
	require.Len(t, outs, 2)
	require.NotNil(t, outs[1].Err)
	assert.Contains(t, outs[1].Err.Error(), "undefined field")
}

func TestUncaughtThrowBecomesErrorChannelOutput(t *testing.T) {
	ip := newInterp()
	outs := run(t, ip, `(throw "boom")`)
	require.Len(t, outs, 1)
	require.NotNil(t, outs[0].Err)
	assert.Contains(t, outs[0].Err.Error(), "boom")
}

func TestUndefinedSymbolSuggestsClosestMatch(t *testing.T) {
	ip := newInterp()
	run(t, ip, "(def counter 1)")
	outs := run(t, ip, "countr")
	require.Len(t, outs, 1)
	require.NotNil(t, outs[0].Err)
	assert.Contains(t, outs[0].Err.Error(), `did you mean "counter"`)
}

func TestCloneDeepCopiesBindingsNotBuiltins(t *testing.T) {
	ip := newInterp()
	ip.RegisterBuiltin("noop", func(args []value.Value) (value.Value, error) { return value.Nil{}, nil })
	run(t, ip, "(def x 1)")

	child := ip.Clone()
	child.Bindings["x"] = value.Number{Value: 99}

	assert.Equal(t, value.Number{Value: 1}, ip.Bindings["x"], "parent must be unaffected by child mutation")
	assert.Same(t, ip.Builtins["noop"], child.Builtins["noop"], "builtins table is shared, not copied")
}
