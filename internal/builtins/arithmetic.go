package builtins

import (
	"fmt"
	"math"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/value"
)

func registerArithmetic(ip *interp.Interpreter) {
	ip.RegisterBuiltin("+", func(args []value.Value) (value.Value, error) {
		sum := 0.0
		for _, a := range args {
			n, err := asNumber(a, "+")
			if err != nil {
				return nil, err
			}
			sum += n
		}
		return value.Number{Value: sum}, nil
	})
	ip.RegisterBuiltin("*", func(args []value.Value) (value.Value, error) {
		product := 1.0
		for _, a := range args {
			n, err := asNumber(a, "*")
			if err != nil {
				return nil, err
			}
			product *= n
		}
		return value.Number{Value: product}, nil
	})
	ip.RegisterBuiltin("-", func(args []value.Value) (value.Value, error) {
		nums, err := asNumbers(args, "-")
		if err != nil {
			return nil, err
		}
		if len(nums) == 0 {
			return nil, fmt.Errorf("- requires at least one argument")
		}
		if len(nums) == 1 {
			return value.Number{Value: -nums[0]}, nil
		}
		result := nums[0]
		for _, n := range nums[1:] {
			result -= n
		}
		return value.Number{Value: result}, nil
	})
	ip.RegisterBuiltin("/", func(args []value.Value) (value.Value, error) {
		nums, err := asNumbers(args, "/")
		if err != nil {
			return nil, err
		}
		if len(nums) < 2 {
			return nil, fmt.Errorf("/ requires at least two arguments")
		}
		result := nums[0]
		for _, n := range nums[1:] {
			result /= n // floating division; div by zero yields +/-Inf or NaN, not an error (spec.md §7)
		}
		return value.Number{Value: result}, nil
	})
	ip.RegisterBuiltin("mod", func(args []value.Value) (value.Value, error) {
		nums, err := asNumbers(args, "mod")
		if err != nil {
			return nil, err
		}
		if len(nums) != 2 {
			return nil, fmt.Errorf("mod requires exactly two arguments")
		}
		return value.Number{Value: math.Mod(nums[0], nums[1])}, nil
	})
	ip.RegisterBuiltin("abs", unary("abs", math.Abs))
	ip.RegisterBuiltin("floor", unary("floor", math.Floor))
	ip.RegisterBuiltin("ceil", unary("ceil", math.Ceil))
	ip.RegisterBuiltin("round", unary("round", math.Round))
	ip.RegisterBuiltin("min", variadicExtremum("min", func(a, b float64) bool { return a < b }))
	ip.RegisterBuiltin("max", variadicExtremum("max", func(a, b float64) bool { return a > b }))
}

func unary(name string, fn func(float64) float64) value.BuiltinFn {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s requires exactly one argument", name)
		}
		n, err := asNumber(args[0], name)
		if err != nil {
			return nil, err
		}
		return value.Number{Value: fn(n)}, nil
	}
}

func variadicExtremum(name string, better func(a, b float64) bool) value.BuiltinFn {
	return func(args []value.Value) (value.Value, error) {
		nums, err := asNumbers(args, name)
		if err != nil {
			return nil, err
		}
		if len(nums) == 0 {
			return nil, fmt.Errorf("%s requires at least one argument", name)
		}
		best := nums[0]
		for _, n := range nums[1:] {
			if better(n, best) {
				best = n
			}
		}
		return value.Number{Value: best}, nil
	}
}

func asNumber(v value.Value, op string) (float64, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, fmt.Errorf("%s: expected a number, got %s", op, value.TypeOf(v))
	}
	return n.Value, nil
}

func asNumbers(args []value.Value, op string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		n, err := asNumber(a, op)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
