package process_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevan/slight/internal/builtins"
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/parser"
	"github.com/stevan/slight/internal/process"
	"github.com/stevan/slight/internal/sink"
	"github.com/stevan/slight/internal/value"
)

func newInterp() (*interp.Interpreter, *process.Runtime) {
	ip := interp.New()
	out := sink.NewSilentSink()
	builtins.Register(ip, out, nil)
	rt := process.NewRuntime()
	process.RegisterBuiltinsWithSink(ip, rt, out)
	return ip, rt
}

func evalOne(t *testing.T, ip *interp.Interpreter, source string) value.Value {
	t.Helper()
	items := parser.NewFromSource(source).All()
	require.Len(t, items, 1)
	out := ip.RunOne(interp.Item{Node: items[0].Node, Err: items[0].Err})
	require.Nil(t, out.Err, "%v", out.Err)
	return out.Value
}

func TestSpawnRunsChildAndSendsBackToParent(t *testing.T) {
	ip, _ := newInterp()
	evalOne(t, ip, "(def echo (x) (send 0 x))")

	pid := evalOne(t, ip, "(spawn echo 42)")
	require.IsType(t, value.Number{}, pid)

	msg := evalOne(t, ip, "(recv 2000)")
	list, ok := msg.(value.List)
	require.True(t, ok, "expected [from value] list, got %s", value.Print(msg))
	require.Len(t, list.Elements, 2)
	assert.Equal(t, pid, list.Elements[0])
	assert.Equal(t, value.Number{Value: 42}, list.Elements[1])
}

func TestSpawnRejectsAnonymousFunction(t *testing.T) {
	ip, _ := newInterp()
	items := parser.NewFromSource("(spawn (fun (x) x) 1)").All()
	out := ip.RunOne(interp.Item{Node: items[0].Node, Err: items[0].Err})
	require.NotNil(t, out.Err)
	assert.Contains(t, out.Err.Error(), "anonymous")
}

func TestSpawnRejectsUnserialisableArgument(t *testing.T) {
	ip, _ := newInterp()
	evalOne(t, ip, "(def f (x) x)")
	items := parser.NewFromSource("(spawn f (make-map))").All()
	out := ip.RunOne(interp.Item{Node: items[0].Node, Err: items[0].Err})
	require.NotNil(t, out.Err)
	assert.Contains(t, out.Err.Error(), "not serialisable")
}

func TestSelfAndIsAliveAndProcesses(t *testing.T) {
	ip, _ := newInterp()
	assert.Equal(t, value.Number{Value: 0}, evalOne(t, ip, "(self)"))
	assert.Equal(t, value.Boolean{Value: true}, evalOne(t, ip, "(is-alive? 0)"))
	assert.Equal(t, value.Boolean{Value: false}, evalOne(t, ip, "(is-alive? 999)"))

	pids := evalOne(t, ip, "(processes)")
	list, ok := pids.(value.List)
	require.True(t, ok)
	assert.Contains(t, list.Elements, value.Number{Value: 0})
}

func TestKillBuiltin(t *testing.T) {
	ip, _ := newInterp()
	evalOne(t, ip, "(def loop-forever () (recv 50))")
	pid := evalOne(t, ip, "(spawn loop-forever)")
	n := pid.(value.Number)
	killCall := "(kill " + value.Print(n) + ")"
	assert.Equal(t, value.Boolean{Value: true}, evalOne(t, ip, killCall))
}
