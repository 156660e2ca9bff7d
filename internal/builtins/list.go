package builtins

import (
	"fmt"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/token"
	"github.com/stevan/slight/internal/value"
)

func registerList(ip *interp.Interpreter) {
	ip.RegisterBuiltin("list", func(args []value.Value) (value.Value, error) {
		return value.List{Elements: append([]value.Value(nil), args...)}, nil
	})
	ip.RegisterBuiltin("head", func(args []value.Value) (value.Value, error) {
		l, err := asList(args, "head")
		if err != nil {
			return nil, err
		}
		if len(l.Elements) == 0 {
			return nil, fmt.Errorf("head: empty list")
		}
		return l.Elements[0], nil
	})
	ip.RegisterBuiltin("tail", func(args []value.Value) (value.Value, error) {
		l, err := asList(args, "tail")
		if err != nil {
			return nil, err
		}
		if len(l.Elements) == 0 {
			return nil, fmt.Errorf("tail: empty list")
		}
		return value.List{Elements: append([]value.Value(nil), l.Elements[1:]...)}, nil
	})
	ip.RegisterBuiltin("cons", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("cons requires exactly two arguments")
		}
		rest, ok := asListLike(args[1])
		if !ok {
			return nil, fmt.Errorf("cons: second argument must be a list")
		}
		return value.List{Elements: append([]value.Value{args[0]}, rest...)}, nil
	})
	ip.RegisterBuiltin("empty?", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("empty? requires exactly one argument")
		}
		elems, ok := asListLike(args[0])
		return value.Boolean{Value: ok && len(elems) == 0}, nil
	})
	ip.RegisterBuiltin("length", func(args []value.Value) (value.Value, error) {
		l, err := asList(args, "length")
		if err != nil {
			return nil, err
		}
		return value.Number{Value: float64(len(l.Elements))}, nil
	})
	ip.RegisterBuiltin("append", func(args []value.Value) (value.Value, error) {
		var out []value.Value
		for _, a := range args {
			elems, ok := asListLike(a)
			if !ok {
				return nil, fmt.Errorf("append: all arguments must be lists")
			}
			out = append(out, elems...)
		}
		return value.List{Elements: out}, nil
	})
	ip.RegisterBuiltin("reverse", func(args []value.Value) (value.Value, error) {
		l, err := asList(args, "reverse")
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(l.Elements))
		for i, e := range l.Elements {
			out[len(l.Elements)-1-i] = e
		}
		return value.List{Elements: out}, nil
	})
	ip.RegisterBuiltin("nth", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("nth requires exactly two arguments")
		}
		l, err := asList(args[:1], "nth")
		if err != nil {
			return nil, err
		}
		idx, err := asNumber(args[1], "nth")
		if err != nil {
			return nil, err
		}
		i := int(idx)
		if i < 0 || i >= len(l.Elements) {
			return nil, fmt.Errorf("nth: index %d out of range for list of length %d", i, len(l.Elements))
		}
		return l.Elements[i], nil
	})

	ip.RegisterBuiltin("map", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("map requires exactly two arguments: (map fn list)")
		}
		l, err := asList(args[1:], "map")
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(l.Elements))
		for i, e := range l.Elements {
			v, err := applyCallable(ip, args[0], []value.Value{e})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return value.List{Elements: out}, nil
	})
	ip.RegisterBuiltin("filter", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("filter requires exactly two arguments: (filter fn list)")
		}
		l, err := asList(args[1:], "filter")
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for _, e := range l.Elements {
			v, err := applyCallable(ip, args[0], []value.Value{e})
			if err != nil {
				return nil, err
			}
			if value.Truthy(v) {
				out = append(out, e)
			}
		}
		return value.List{Elements: out}, nil
	})
	ip.RegisterBuiltin("fold", func(args []value.Value) (value.Value, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("fold requires exactly three arguments: (fold fn init list)")
		}
		l, err := asList(args[2:], "fold")
		if err != nil {
			return nil, err
		}
		acc := args[1]
		for _, e := range l.Elements {
			v, err := applyCallable(ip, args[0], []value.Value{acc, e})
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	})
}

// applyCallable dispatches a Value callee the same way Call evaluation
// does (spec.md §4.4), so map/filter/fold share the interpreter's one
// notion of "applicable" rather than reimplementing dispatch.
func applyCallable(ip *interp.Interpreter, callee value.Value, args []value.Value) (value.Value, error) {
	switch c := callee.(type) {
	case *value.Builtin:
		return c.Fn(args)
	case *value.Function:
		return ip.Apply(c, args, token.Position{})
	default:
		return nil, fmt.Errorf("value is not callable: %s", value.Print(callee))
	}
}

func asListLike(v value.Value) ([]value.Value, bool) {
	switch x := v.(type) {
	case value.List:
		return x.Elements, true
	case value.Nil:
		return nil, true
	default:
		return nil, false
	}
}

func asList(args []value.Value, op string) (value.List, error) {
	if len(args) != 1 {
		return value.List{}, fmt.Errorf("%s requires exactly one argument", op)
	}
	elems, ok := asListLike(args[0])
	if !ok {
		return value.List{}, fmt.Errorf("%s: expected a list, got %s", op, value.TypeOf(args[0]))
	}
	return value.List{Elements: elems}, nil
}
