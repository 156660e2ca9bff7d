package builtins

import (
	"fmt"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/value"
)

func registerMap(ip *interp.Interpreter) {
	ip.RegisterBuiltin("make-map", func(args []value.Value) (value.Value, error) {
		if len(args)%2 != 0 {
			return nil, fmt.Errorf("make-map requires an even number of key/value arguments")
		}
		m := &value.Map{}
		for i := 0; i < len(args); i += 2 {
			m.Set(args[i], args[i+1])
		}
		return m, nil
	})
	ip.RegisterBuiltin("map-get", func(args []value.Value) (value.Value, error) {
		m, err := asMap(args, 2, "map-get")
		if err != nil {
			return nil, err
		}
		v, ok := m.Get(args[1])
		if !ok {
			return value.Nil{}, nil
		}
		return v, nil
	})
	ip.RegisterBuiltin("map-set!", func(args []value.Value) (value.Value, error) {
		m, err := asMap(args, 3, "map-set!")
		if err != nil {
			return nil, err
		}
		m.Set(args[1], args[2])
		return m, nil
	})
	ip.RegisterBuiltin("map-has?", func(args []value.Value) (value.Value, error) {
		m, err := asMap(args, 2, "map-has?")
		if err != nil {
			return nil, err
		}
		_, ok := m.Get(args[1])
		return value.Boolean{Value: ok}, nil
	})
	ip.RegisterBuiltin("map-delete!", func(args []value.Value) (value.Value, error) {
		m, err := asMap(args, 2, "map-delete!")
		if err != nil {
			return nil, err
		}
		return value.Boolean{Value: m.Delete(args[1])}, nil
	})
	ip.RegisterBuiltin("map-keys", func(args []value.Value) (value.Value, error) {
		m, err := asMap(args, 1, "map-keys")
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(m.Entries))
		for i, e := range m.Entries {
			out[i] = e.Key
		}
		return value.List{Elements: out}, nil
	})
	ip.RegisterBuiltin("map-values", func(args []value.Value) (value.Value, error) {
		m, err := asMap(args, 1, "map-values")
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(m.Entries))
		for i, e := range m.Entries {
			out[i] = e.Value
		}
		return value.List{Elements: out}, nil
	})
	ip.RegisterBuiltin("map-size", func(args []value.Value) (value.Value, error) {
		m, err := asMap(args, 1, "map-size")
		if err != nil {
			return nil, err
		}
		return value.Number{Value: float64(len(m.Entries))}, nil
	})
}

func asMap(args []value.Value, n int, op string) (*value.Map, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d argument(s)", op, n)
	}
	m, ok := args[0].(*value.Map)
	if !ok {
		return nil, fmt.Errorf("%s: expected a map, got %s", op, value.TypeOf(args[0]))
	}
	return m, nil
}
