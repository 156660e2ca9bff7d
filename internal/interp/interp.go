// Package interp implements the Interpreter stage of the slight pipeline
// (spec.md §4.4): AST|Error in, tagged output tokens out, driving builtins,
// user functions, closures, and the try/throw error model. Dispatch over
// ast.Node mirrors the teacher's EvaluateNode type switch
// (runtime/execution/evaluator.go) — a small, bounded match, never
// inheritance.
package interp

import (
	"github.com/stevan/slight/internal/ast"
	"github.com/stevan/slight/internal/errs"
	"github.com/stevan/slight/internal/token"
	"github.com/stevan/slight/internal/value"
)

// Channel tags an output token (spec.md §4.4, §4.6).
type Channel string

const (
	ChanStdout Channel = "STDOUT"
	ChanInfo   Channel = "INFO"
	ChanWarn   Channel = "WARN"
	ChanError  Channel = "ERROR"
	ChanDebug  Channel = "DEBUG"
)

// Output is one item of the interpreter's output sequence.
type Output struct {
	Channel Channel
	Value   value.Value
	Err     *errs.SlightError
}

// thrown carries a thrown Value up the Go call stack to the nearest Try.
// It is not an errs.SlightError: throw is a language-level control flow
// construct distinct from pipeline-stage errors (spec.md §4.4, §7).
type thrown struct {
	val value.Value
}

func (t thrown) Error() string { return "uncaught throw: " + value.Print(t.val) }

// IncludeLoader resolves and reads the source for an `include` builtin
// call; implemented by the builtins package to avoid an import cycle
// (interp must not depend on builtins, which depends on interp to run
// included code through the same pipeline).
type IncludeLoader interface {
	Load(path string, fromFile string) (source string, resolvedPath string, err error)
}

// Interpreter owns the three process-global mappings plus the builtin
// table (spec.md §3 Ownership) and evaluates AST nodes one at a time.
type Interpreter struct {
	Functions map[string]*value.Function
	Macros    map[string]*value.Function
	Bindings  map[string]value.Value
	Builtins  map[string]*value.Builtin

	// CurrentFile supports include's path resolution; empty outside file
	// execution.
	CurrentFile string
	// LoadingFiles detects include cycles (spec.md §4.4).
	LoadingFiles map[string]bool
	IncludePaths []string

	Pid int // this interpreter's owning process id (spec.md §4.5); 0 = main
}

// New constructs an Interpreter with empty global tables; builtins are
// registered separately by the builtins package to avoid a cycle.
func New() *Interpreter {
	return &Interpreter{
		Functions:    make(map[string]*value.Function),
		Macros:       make(map[string]*value.Function),
		Bindings:     make(map[string]value.Value),
		Builtins:     make(map[string]*value.Builtin),
		LoadingFiles: make(map[string]bool),
	}
}

// Clone deep-copies functions/macros/bindings for a spawned process
// (spec.md §4.5: "deep-copy parent's functions, macros, and bindings").
// Builtins are shared read-only state and not copied.
func (ip *Interpreter) Clone() *Interpreter {
	child := &Interpreter{
		Functions:    make(map[string]*value.Function, len(ip.Functions)),
		Macros:       make(map[string]*value.Function, len(ip.Macros)),
		Bindings:     make(map[string]value.Value, len(ip.Bindings)),
		Builtins:     ip.Builtins,
		LoadingFiles: make(map[string]bool),
		IncludePaths: append([]string(nil), ip.IncludePaths...),
	}
	for k, v := range ip.Functions {
		child.Functions[k] = v
	}
	for k, v := range ip.Macros {
		child.Macros[k] = v
	}
	for k, v := range ip.Bindings {
		child.Bindings[k] = v
	}
	return child
}

// RegisterBuiltin adds a native primitive to the builtin table.
func (ip *Interpreter) RegisterBuiltin(name string, fn value.BuiltinFn) {
	ip.Builtins[name] = &value.Builtin{Name: name, Fn: fn}
}

// Run consumes a lazy sequence of AST|Error items (as produced by the
// macro expander) and emits output tokens, one per top-level form
// (spec.md §4.4).
func (ip *Interpreter) Run(items func() (Item, bool)) []Output {
	var out []Output
	for {
		it, ok := items()
		if !ok {
			break
		}
		out = append(out, ip.RunOne(it))
	}
	return out
}

// Item mirrors macroexpand.Item without importing it (avoids a cycle
// since macroexpand depends on interp to evaluate macro bodies).
type Item struct {
	Node ast.Node
	Err  *errs.SlightError
}

// RunOne evaluates a single top-level item, per the table in spec.md §4.4:
// errors pass through as ERROR, Def/DefMacro/Set emit INFO true, anything
// else emits its value on STDOUT.
func (ip *Interpreter) RunOne(it Item) Output {
	if it.Err != nil {
		return Output{Channel: ChanError, Err: it.Err}
	}
	switch it.Node.(type) {
	case *ast.Def, *ast.DefMacro, *ast.Set:
		_, err := ip.evalTopLevel(it.Node)
		if err != nil {
			return Output{Channel: ChanError, Err: toSlightError(err, it.Node.Position())}
		}
		return Output{Channel: ChanInfo, Value: value.Boolean{Value: true}}
	default:
		v, err := ip.evalTopLevel(it.Node)
		if err != nil {
			return Output{Channel: ChanError, Err: toSlightError(err, it.Node.Position())}
		}
		return Output{Channel: ChanStdout, Value: v}
	}
}

// evalTopLevel evaluates one top-level form, converting an uncaught throw
// (spec.md §7: "Errors outside a try become ERROR-channel output and do
// not abort the pipeline") into a regular error return instead of letting
// the panic escape to the caller.
func (ip *Interpreter) evalTopLevel(n ast.Node) (v value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if t, ok := r.(thrown); ok {
				err = runtimeErrFromThrow(n.Position(), t)
				return
			}
			panic(r)
		}
	}()
	return ip.Eval(n, nil)
}

func runtimeErrFromThrow(pos token.Position, t thrown) *errs.SlightError {
	return errs.New(errs.StageInterpreter, "uncaught-throw", t.Error(), errs.Position{Line: pos.Line, Column: pos.Column}, "")
}

func toSlightError(err error, pos token.Position) *errs.SlightError {
	if se, ok := err.(*errs.SlightError); ok {
		return se
	}
	return errs.New(errs.StageInterpreter, "runtime-error", err.Error(), errs.Position{Line: pos.Line, Column: pos.Column}, "")
}
