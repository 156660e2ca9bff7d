package builtins

import (
	"fmt"
	"strings"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/value"
)

func registerString(ip *interp.Interpreter) {
	ip.RegisterBuiltin("str/concat", func(args []value.Value) (value.Value, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteString(stringify(a))
		}
		return value.String{Value: b.String()}, nil
	})
	ip.RegisterBuiltin("str/len", func(args []value.Value) (value.Value, error) {
		s, err := asString1(args, "str/len")
		if err != nil {
			return nil, err
		}
		return value.Number{Value: float64(len([]rune(s)))}, nil
	})
	ip.RegisterBuiltin("str/upper", func(args []value.Value) (value.Value, error) {
		s, err := asString1(args, "str/upper")
		if err != nil {
			return nil, err
		}
		return value.String{Value: strings.ToUpper(s)}, nil
	})
	ip.RegisterBuiltin("str/lower", func(args []value.Value) (value.Value, error) {
		s, err := asString1(args, "str/lower")
		if err != nil {
			return nil, err
		}
		return value.String{Value: strings.ToLower(s)}, nil
	})
	ip.RegisterBuiltin("str/trim", func(args []value.Value) (value.Value, error) {
		s, err := asString1(args, "str/trim")
		if err != nil {
			return nil, err
		}
		return value.String{Value: strings.TrimSpace(s)}, nil
	})
	ip.RegisterBuiltin("str/split", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("str/split requires exactly two arguments")
		}
		s, err := asString(args[0], "str/split")
		if err != nil {
			return nil, err
		}
		sep, err := asString(args[1], "str/split")
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.String{Value: p}
		}
		return value.List{Elements: out}, nil
	})
	ip.RegisterBuiltin("str/slice", func(args []value.Value) (value.Value, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("str/slice requires exactly three arguments")
		}
		s, err := asString(args[0], "str/slice")
		if err != nil {
			return nil, err
		}
		start, err := asNumber(args[1], "str/slice")
		if err != nil {
			return nil, err
		}
		end, err := asNumber(args[2], "str/slice")
		if err != nil {
			return nil, err
		}
		runes := []rune(s)
		lo, hi := int(start), int(end)
		if lo < 0 || hi > len(runes) || lo > hi {
			return nil, fmt.Errorf("str/slice: out of range [%d:%d] for string of length %d", lo, hi, len(runes))
		}
		return value.String{Value: string(runes[lo:hi])}, nil
	})
}

func stringify(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return s.Value
	}
	return value.Print(v)
}

func asString(v value.Value, op string) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", fmt.Errorf("%s: expected a string, got %s", op, value.TypeOf(v))
	}
	return s.Value, nil
}

func asString1(args []value.Value, op string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s requires exactly one argument", op)
	}
	return asString(args[0], op)
}
