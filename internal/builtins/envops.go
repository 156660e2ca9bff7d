package builtins

import (
	"fmt"
	"os"
	"strings"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/value"
)

func registerEnv(ip *interp.Interpreter) {
	ip.RegisterBuiltin("env/get", func(args []value.Value) (value.Value, error) {
		name, err := asString1(args, "env/get")
		if err != nil {
			return nil, err
		}
		v, ok := os.LookupEnv(name)
		if !ok {
			return value.Nil{}, nil
		}
		return value.String{Value: v}, nil
	})
	ip.RegisterBuiltin("env/set!", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("env/set! requires exactly two arguments")
		}
		name, err := asString(args[0], "env/set!")
		if err != nil {
			return nil, err
		}
		val, err := asString(args[1], "env/set!")
		if err != nil {
			return nil, err
		}
		if err := os.Setenv(name, val); err != nil {
			return nil, fmt.Errorf("env/set!: %w", err)
		}
		return value.Nil{}, nil
	})
	ip.RegisterBuiltin("env/keys", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("env/keys takes no arguments")
		}
		environ := os.Environ()
		out := make([]value.Value, len(environ))
		for i, kv := range environ {
			name, _, _ := strings.Cut(kv, "=")
			out[i] = value.String{Value: name}
		}
		return value.List{Elements: out}, nil
	})
}
