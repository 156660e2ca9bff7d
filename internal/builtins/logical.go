package builtins

import (
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/value"
)

// registerLogical wires and/or/not. Variadic identities: (and) = true,
// (or) = false (spec.md §4.4, §8).
func registerLogical(ip *interp.Interpreter) {
	ip.RegisterBuiltin("and", func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			if !value.Truthy(a) {
				return value.Boolean{Value: false}, nil
			}
		}
		return value.Boolean{Value: true}, nil
	})
	ip.RegisterBuiltin("or", func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			if value.Truthy(a) {
				return value.Boolean{Value: true}, nil
			}
		}
		return value.Boolean{Value: false}, nil
	})
	ip.RegisterBuiltin("not", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return value.Boolean{Value: false}, nil
		}
		return value.Boolean{Value: !value.Truthy(args[0])}, nil
	})
}
