package interp

import (
	"fmt"

	"github.com/stevan/slight/internal/ast"
	"github.com/stevan/slight/internal/token"
	"github.com/stevan/slight/internal/value"
)

// evalCall implements spec.md §4.4's Call rule: empty call is Nil;
// otherwise evaluate the head, then dispatch on its runtime type.
func (ip *Interpreter) evalCall(node *ast.Call, local *value.Env) (value.Value, error) {
	if len(node.Elements) == 0 {
		return value.Nil{}, nil
	}
	head, err := ip.Eval(node.Elements[0], local)
	if err != nil {
		return nil, err
	}
	args := node.Elements[1:]

	switch callee := head.(type) {
	case *value.Builtin:
		argVals, err := ip.evalArgs(args, local)
		if err != nil {
			return nil, err
		}
		v, err := callee.Fn(argVals)
		if err != nil {
			panic(thrown{val: asErrorValue(errorToValue(err))})
		}
		return v, nil
	case *value.Function:
		argVals, err := ip.evalArgs(args, local)
		if err != nil {
			return nil, err
		}
		return ip.Apply(callee, argVals, node.Pos)
	default:
		return nil, runtimeErr(node.Pos, "not-callable", fmt.Sprintf("value is not callable: %s", value.Print(head)))
	}
}

func (ip *Interpreter) evalArgs(args []ast.Node, local *value.Env) ([]value.Value, error) {
	out := make([]value.Value, len(args))
	for i, a := range args {
		v, err := ip.Eval(a, local)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Apply invokes a user Function or Closure with already-evaluated
// arguments, per spec.md §4.4: a plain Function without a captured env
// binds args to params in a fresh (empty-parent) environment; a Closure
// starts from its captured env and overlays the param bindings.
func (ip *Interpreter) Apply(fn *value.Function, args []value.Value, pos token.Position) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, runtimeErr(pos, "wrong-arity", runtimeErrArity(fn.Name, len(fn.Params), len(args)).Error())
	}
	var parent *value.Env
	if fn.CapturedEnv != nil {
		parent = fn.CapturedEnv
	}
	env := value.NewEnv(parent)
	for i, p := range fn.Params {
		env.Local[p] = args[i]
	}
	body, ok := fn.Body.(ast.Node)
	if !ok {
		return nil, fmt.Errorf("function %s has no body", fn.Name)
	}
	return ip.Eval(body, env)
}

func runtimeErrArity(name string, want, got int) error {
	label := name
	if label == "" {
		label = "<anonymous>"
	}
	return fmt.Errorf("wrong arity calling %s: expected %d arg(s), got %d", label, want, got)
}

// errorToValue lets a builtin's plain Go error surface as a thrown Error
// value, so it can be caught by try/catch like any other throw.
func errorToValue(err error) value.Value {
	return &value.Error{Message: err.Error()}
}
