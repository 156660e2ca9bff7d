package builtins

import (
	"fmt"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/value"
)

func registerIntrospection(ip *interp.Interpreter) {
	ip.RegisterBuiltin("type/of", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("type/of requires exactly one argument")
		}
		return value.String{Value: value.TypeOf(args[0])}, nil
	})
}
