package macroexpand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevan/slight/internal/builtins"
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/macroexpand"
	"github.com/stevan/slight/internal/parser"
	"github.com/stevan/slight/internal/sink"
	"github.com/stevan/slight/internal/value"
)

func newInterp() *interp.Interpreter {
	ip := interp.New()
	builtins.Register(ip, sink.NewSilentSink(), nil)
	return ip
}

func expandAndRun(t *testing.T, ip *interp.Interpreter, source string) []interp.Output {
	t.Helper()
	p := parser.NewFromSource(source)
	exp := macroexpand.New(p, ip)
	var outs []interp.Output
	for {
		it, ok := exp.Next()
		if !ok {
			break
		}
		outs = append(outs, ip.RunOne(interp.Item{Node: it.Node, Err: it.Err}))
	}
	return outs
}

func TestDefMacroIsRegisteredAsANoOpInfoOutput(t *testing.T) {
	ip := newInterp()
	outs := expandAndRun(t, ip, `(defmacro my-if (c t f) (list 'cond (list c t) (list 'else f)))`)
	require.Len(t, outs, 1)
	assert.Equal(t, interp.ChanInfo, outs[0].Channel)
	assert.Contains(t, ip.Macros, "my-if")
}

func TestMacroExpandsAtCallSite(t *testing.T) {
	ip := newInterp()
	expandAndRun(t, ip, `(defmacro my-if (c t f) (list 'cond (list c t) (list 'else f)))`)
	outs := expandAndRun(t, ip, `(my-if (== 1 1) "yes" "no")`)
	require.Len(t, outs, 1)
	require.Nil(t, outs[0].Err)
	assert.Equal(t, value.String{Value: "yes"}, outs[0].Value)
}

func TestMacroArityMismatchIsAnError(t *testing.T) {
	ip := newInterp()
	expandAndRun(t, ip, `(defmacro unless (c body) (list 'cond (list c false) (list 'else body)))`)
	outs := expandAndRun(t, ip, `(unless true)`)
	require.Len(t, outs, 1)
	require.NotNil(t, outs[0].Err)
	assert.Contains(t, outs[0].Err.Error(), "wrong number of arguments")
}

func TestQuotedFormsAreNotExpanded(t *testing.T) {
	ip := newInterp()
	expandAndRun(t, ip, `(defmacro boom (x) (throw "should never run"))`)
	outs := expandAndRun(t, ip, `(quote (boom 1))`)
	require.Len(t, outs, 1)
	require.Nil(t, outs[0].Err)
	assert.Equal(t, "(boom 1)", value.Print(outs[0].Value))
}

func TestRecursiveMacroExpansionTerminates(t *testing.T) {
	ip := newInterp()
	// Expands to a nested call to itself with a decremented counter,
	// wrapped at zero so it bottoms out well under the fuel limit.
	expandAndRun(t, ip, `(defmacro countdown (n) (cond ((== n 0) (quote 42)) (else (list 'countdown (- n 1)))))`)
	outs := expandAndRun(t, ip, `(countdown 5)`)
	require.Len(t, outs, 1)
	require.Nil(t, outs[0].Err)
	assert.Equal(t, value.Number{Value: 42}, outs[0].Value)
}
