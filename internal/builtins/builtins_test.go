package builtins_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevan/slight/internal/builtins"
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/parser"
	"github.com/stevan/slight/internal/sink"
	"github.com/stevan/slight/internal/value"
)

func newInterp(t *testing.T, includeDirs []string) *interp.Interpreter {
	t.Helper()
	ip := interp.New()
	builtins.Register(ip, sink.NewSilentSink(), includeDirs)
	return ip
}

// eval runs source (assumed to be exactly one top-level form) through
// Parser -> Interpreter (no macros needed for these builtin checks) and
// returns its value, failing the test on any error.
func eval(t *testing.T, ip *interp.Interpreter, source string) value.Value {
	t.Helper()
	items := parser.NewFromSource(source).All()
	require.Len(t, items, 1)
	require.False(t, items[0].IsError(), "%v", items[0].Err)
	out := ip.RunOne(interp.Item{Node: items[0].Node, Err: items[0].Err})
	require.Nil(t, out.Err, "%v", out.Err)
	return out.Value
}

func TestArithmeticBuiltins(t *testing.T) {
	ip := newInterp(t, nil)
	assert.Equal(t, value.Number{Value: 6}, eval(t, ip, "(+ 1 2 3)"))
	assert.Equal(t, value.Number{Value: -2}, eval(t, ip, "(- 1 3)"))
	assert.Equal(t, value.Number{Value: 24}, eval(t, ip, "(* 2 3 4)"))
	assert.Equal(t, value.Number{Value: 2}, eval(t, ip, "(/ 8 4)"))
	assert.Equal(t, value.Number{Value: 1}, eval(t, ip, "(mod 7 3)"))
	assert.Equal(t, value.Number{Value: 3}, eval(t, ip, "(max 1 3 2)"))
}

func TestComparisonBuiltins(t *testing.T) {
	ip := newInterp(t, nil)
	assert.Equal(t, value.Boolean{Value: true}, eval(t, ip, "(== 1 1)"))
	assert.Equal(t, value.Boolean{Value: true}, eval(t, ip, `(!= "a" "b")`))
	assert.Equal(t, value.Boolean{Value: true}, eval(t, ip, "(< 1 2 3)"))
	assert.Equal(t, value.Boolean{Value: false}, eval(t, ip, "(< 1 3 2)"))
}

func TestLogicalBuiltins(t *testing.T) {
	ip := newInterp(t, nil)
	assert.Equal(t, value.Boolean{Value: false}, eval(t, ip, "(and true false)"))
	assert.Equal(t, value.Boolean{Value: true}, eval(t, ip, "(or false true)"))
	assert.Equal(t, value.Boolean{Value: false}, eval(t, ip, "(not true)"))
}

func TestListBuiltins(t *testing.T) {
	ip := newInterp(t, nil)
	assert.Equal(t, value.Number{Value: 1}, eval(t, ip, "(head (list 1 2 3))"))
	assert.Equal(t, "(2 3)", value.Print(eval(t, ip, "(tail (list 1 2 3))")))
	assert.Equal(t, "(0 1 2)", value.Print(eval(t, ip, "(cons 0 (list 1 2))")))
	assert.Equal(t, value.Boolean{Value: true}, eval(t, ip, "(empty? (list))"))
	assert.Equal(t, value.Number{Value: 3}, eval(t, ip, "(length (list 1 2 3))"))
	assert.Equal(t, "(3 2 1)", value.Print(eval(t, ip, "(reverse (list 1 2 3))")))
}

func TestMapBuiltins(t *testing.T) {
	ip := newInterp(t, nil)
	v := eval(t, ip, `(map-set! (make-map) "a" 1)`)
	m, ok := v.(*value.Map)
	require.True(t, ok)
	got, ok := m.Get(value.String{Value: "a"})
	require.True(t, ok)
	assert.Equal(t, value.Number{Value: 1}, got)
	assert.Equal(t, value.Boolean{Value: true}, eval(t, ip, `(map-has? (make-map "a" 1) "a")`))
}

func TestStringBuiltins(t *testing.T) {
	ip := newInterp(t, nil)
	assert.Equal(t, value.Number{Value: 5}, eval(t, ip, `(str/len "hello")`))
	assert.Equal(t, value.String{Value: "HELLO"}, eval(t, ip, `(str/upper "hello")`))
	assert.Equal(t, value.String{Value: "ab"}, eval(t, ip, `(str/concat "a" "b")`))
}

func TestJSONEncodeDecodeRoundTrip(t *testing.T) {
	ip := newInterp(t, nil)
	encoded := eval(t, ip, `(json/encode (list 1 2 3))`)
	assert.Equal(t, value.String{Value: "[1,2,3]"}, encoded)

	decoded := eval(t, ip, `(json/decode "[1,2,3]")`)
	assert.Equal(t, "(1 2 3)", value.Print(decoded))
}

func TestJSONValidAgainstSchema(t *testing.T) {
	ip := newInterp(t, nil)
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`
	doc := `{"name":"slight"}`
	result := eval(t, ip, `(json/valid? `+quote(doc)+` `+quote(schema)+`)`)
	assert.Equal(t, value.Boolean{Value: true}, result)

	badDoc := `{}`
	result = eval(t, ip, `(json/valid? `+quote(badDoc)+` `+quote(schema)+`)`)
	assert.Equal(t, value.Boolean{Value: false}, result)
}

func quote(s string) string {
	return strconv.Quote(s)
}

func TestTypeOfBuiltin(t *testing.T) {
	ip := newInterp(t, nil)
	assert.Equal(t, value.String{Value: "NUMBER"}, eval(t, ip, "(type/of 1)"))
	assert.Equal(t, value.String{Value: "STRING"}, eval(t, ip, `(type/of "x")`))
}

func TestEnvBuiltins(t *testing.T) {
	require.NoError(t, os.Setenv("SLIGHT_TEST_VAR", "hi"))
	defer os.Unsetenv("SLIGHT_TEST_VAR")

	ip := newInterp(t, nil)
	assert.Equal(t, value.String{Value: "hi"}, eval(t, ip, `(env/get "SLIGHT_TEST_VAR")`))
	assert.Equal(t, value.Nil{}, eval(t, ip, `(env/get "SLIGHT_VAR_NOT_SET")`))
}

func TestFileBuiltins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")

	ip := newInterp(t, nil)
	eval(t, ip, `(file/write `+quote(path)+` "hello")`)
	assert.Equal(t, value.Boolean{Value: true}, eval(t, ip, `(file/exists? `+quote(path)+`)`))
	assert.Equal(t, value.String{Value: "hello"}, eval(t, ip, `(file/read `+quote(path)+`)`))
}

func TestIncludeRunsFileThroughThePipeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.slight")
	require.NoError(t, os.WriteFile(path, []byte("(def magic 42)"), 0o644))

	ip := newInterp(t, nil)
	eval(t, ip, `(include `+quote(path)+`)`)
	assert.Equal(t, value.Number{Value: 42}, ip.Bindings["magic"])
}

func TestIncludePrefersConfiguredDirOverCwd(t *testing.T) {
	includeDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(includeDir, "lib.slight"), []byte("(def which 1)"), 0o644))

	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "lib.slight"), []byte("(def which 2)"), 0o644))

	origWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(cwd))
	defer os.Chdir(origWd)

	ip := newInterp(t, []string{includeDir})
	eval(t, ip, `(include "lib.slight")`)
	assert.Equal(t, value.Number{Value: 1}, ip.Bindings["which"])
}

func TestIncludeDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "self.slight")
	require.NoError(t, os.WriteFile(path, []byte(`(include "self.slight")`), 0o644))

	ip := newInterp(t, nil)
	ip.CurrentFile = path
	items := parser.NewFromSource(`(include `+quote(path)+`)`).All()
	out := ip.RunOne(interp.Item{Node: items[0].Node, Err: items[0].Err})
	require.NotNil(t, out.Err)
	assert.Contains(t, out.Err.Error(), "cycle")
}
