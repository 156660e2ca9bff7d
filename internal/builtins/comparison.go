package builtins

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/value"
)

func registerComparison(ip *interp.Interpreter) {
	ip.RegisterBuiltin("==", binaryPredicate("==", valuesEqual))
	ip.RegisterBuiltin("!=", binaryPredicate("!=", func(a, b value.Value) bool { return !valuesEqual(a, b) }))
	ip.RegisterBuiltin("<", numericChain("<", func(a, b float64) bool { return a < b }))
	ip.RegisterBuiltin(">", numericChain(">", func(a, b float64) bool { return a > b }))
	ip.RegisterBuiltin("<=", numericChain("<=", func(a, b float64) bool { return a <= b }))
	ip.RegisterBuiltin(">=", numericChain(">=", func(a, b float64) bool { return a >= b }))

	// semver/valid? and semver/compare are grounded on core/types/validation.go's
	// use of golang.org/x/mod/semver, which requires a leading "v".
	ip.RegisterBuiltin("semver/valid?", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("semver/valid? requires exactly one argument")
		}
		s, err := asString(args[0], "semver/valid?")
		if err != nil {
			return nil, err
		}
		return value.Boolean{Value: semver.IsValid(withV(s))}, nil
	})
	ip.RegisterBuiltin("semver/compare", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("semver/compare requires exactly two arguments")
		}
		a, err := asString(args[0], "semver/compare")
		if err != nil {
			return nil, err
		}
		b, err := asString(args[1], "semver/compare")
		if err != nil {
			return nil, err
		}
		return value.Number{Value: float64(semver.Compare(withV(a), withV(b)))}, nil
	})
}

func withV(s string) string {
	if strings.HasPrefix(s, "v") {
		return s
	}
	return "v" + s
}

func binaryPredicate(name string, pred func(a, b value.Value) bool) value.BuiltinFn {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s requires exactly two arguments", name)
		}
		return value.Boolean{Value: pred(args[0], args[1])}, nil
	}
}

// numericChain implements chained comparison across all args, e.g.
// (< 1 2 3) is true iff 1<2 and 2<3.
func numericChain(name string, pred func(a, b float64) bool) value.BuiltinFn {
	return func(args []value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("%s requires at least two arguments", name)
		}
		nums, err := asNumbers(args, name)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(nums); i++ {
			if !pred(nums[i-1], nums[i]) {
				return value.Boolean{Value: false}, nil
			}
		}
		return value.Boolean{Value: true}, nil
	}
}

func valuesEqual(a, b value.Value) bool {
	switch x := a.(type) {
	case value.Number:
		y, ok := b.(value.Number)
		return ok && x.Value == y.Value
	case value.String:
		y, ok := b.(value.String)
		return ok && x.Value == y.Value
	case value.Boolean:
		y, ok := b.(value.Boolean)
		return ok && x.Value == y.Value
	case value.Nil:
		_, ok := b.(value.Nil)
		if ok {
			return true
		}
		yl, ok := b.(value.List)
		return ok && len(yl.Elements) == 0
	case value.List:
		if len(x.Elements) == 0 {
			if _, ok := b.(value.Nil); ok {
				return true
			}
		}
		y, ok := b.(value.List)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !valuesEqual(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
