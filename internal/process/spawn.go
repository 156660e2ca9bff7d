package process

import (
	"fmt"
	"strings"

	"github.com/stevan/slight/internal/errs"
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/macroexpand"
	"github.com/stevan/slight/internal/parser"
	"github.com/stevan/slight/internal/sink"
	"github.com/stevan/slight/internal/value"
)

// Spawn allocates a pid, deep-copies parent's functions/macros/bindings
// into a fresh Interpreter (interp.Clone), and runs a synthesised call to
// callee with args on it in its own goroutine (spec.md §4.5). callee must
// be a named Function; anonymous functions can't be named in the child.
// Errors raised while running the child are routed to out as ERROR
// tokens, never propagated back to the spawner.
func (rt *Runtime) Spawn(parent *interp.Interpreter, out sink.Sink, callee value.Value, args []value.Value) (int, error) {
	fn, ok := callee.(*value.Function)
	if !ok {
		return 0, fmt.Errorf("spawn: first argument must be a function")
	}
	if fn.Name == "" {
		return 0, fmt.Errorf("spawn: cannot spawn an anonymous function")
	}
	serialized := make([]string, len(args))
	for i, a := range args {
		s, err := serializeArg(a)
		if err != nil {
			return 0, fmt.Errorf("spawn: %w", err)
		}
		serialized[i] = s
	}

	h := rt.allocate()
	child := parent.Clone()
	child.Pid = h.Pid
	// Give the child its own builtin table so that binding its process
	// builtins to its pid leaves the parent's table untouched.
	own := make(map[string]*value.Builtin, len(child.Builtins))
	for name, b := range child.Builtins {
		own[name] = b
	}
	child.Builtins = own
	RegisterBuiltins(child, rt)

	source := fmt.Sprintf("(%s %s)", fn.Name, strings.Join(serialized, " "))
	go rt.runChild(h, child, out, source)
	return h.Pid, nil
}

func (rt *Runtime) runChild(h *Handle, ip *interp.Interpreter, out sink.Sink, source string) {
	p := parser.NewFromSource(source)
	exp := macroexpand.New(p, ip)

	var (
		last  value.Value = value.Nil{}
		first *errs.SlightError
	)
	for {
		it, ok := exp.Next()
		if !ok {
			break
		}
		o := ip.RunOne(interp.Item{Node: it.Node, Err: it.Err})
		if o.Err != nil {
			if first == nil {
				first = o.Err
			}
			out.Emit(o)
			continue
		}
		last = o.Value
	}
	if first != nil {
		h.setDone(StatusError, nil, first)
		return
	}
	h.setDone(StatusCompleted, last, nil)
}

// serializeArg renders a spawn argument to source text, per spec.md §4.5:
// numbers, strings, booleans, nil, and lists of such serialise; maps and
// functions are rejected.
func serializeArg(v value.Value) (string, error) {
	switch x := v.(type) {
	case value.Number, value.String, value.Boolean, value.Nil:
		return value.Print(x), nil
	case value.List:
		parts := make([]string, len(x.Elements))
		for i, e := range x.Elements {
			s, err := serializeArg(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "(list " + strings.Join(parts, " ") + ")", nil
	default:
		return "", fmt.Errorf("value of type %s is not serialisable across a spawn boundary", value.TypeOf(v))
	}
}

