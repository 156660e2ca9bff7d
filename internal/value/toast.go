package value

import (
	"fmt"

	"github.com/stevan/slight/internal/ast"
	"github.com/stevan/slight/internal/token"
)

// ToAST implements the Value→AST half of the round-trip (spec.md §4.4),
// used by the MacroExpander to turn a macro body's result back into code.
// Reconstructed nodes carry a zero Position: they were never lexed.
//
// Symbols and strings both collapse to Value String on the way in
// (FromAST); reconstructing the distinction exactly is undecidable in
// general. This implementation treats every String as a Symbol, matching
// how quasi-quoted macro bodies actually use them (`(list 'cond …)`
// produces symbol names, not string literals) — see DESIGN.md.
func ToAST(v Value) (ast.Node, error) {
	var zero token.Position
	switch x := v.(type) {
	case Number:
		return ast.NewNumber(x.Value, zero), nil
	case String:
		return ast.NewSymbol(x.Value, zero), nil
	case Boolean:
		return ast.NewBoolean(x.Value, zero), nil
	case Nil:
		return ast.NewCall(nil, zero), nil
	case List:
		return listToAST(x, zero)
	default:
		return nil, fmt.Errorf("macro expansion result is not list-like: %s", TypeOf(v))
	}
}

func listToAST(l List, pos token.Position) (ast.Node, error) {
	if len(l.Elements) == 0 {
		return ast.NewCall(nil, pos), nil
	}
	if head, ok := l.Elements[0].(String); ok {
		switch head.Value {
		case "quote":
			if len(l.Elements) != 2 {
				return nil, fmt.Errorf("malformed quote in macro result")
			}
			inner, err := ToAST(l.Elements[1])
			if err != nil {
				return nil, err
			}
			return ast.NewQuote(inner, pos), nil
		case "cond":
			return condToAST(l, pos)
		case "def":
			return defToAST(l, pos)
		case "defmacro":
			return defMacroToAST(l, pos)
		case "set!":
			if len(l.Elements) != 3 {
				return nil, fmt.Errorf("malformed set! in macro result")
			}
			name, ok := l.Elements[1].(String)
			if !ok {
				return nil, fmt.Errorf("set! name must be a symbol")
			}
			val, err := ToAST(l.Elements[2])
			if err != nil {
				return nil, err
			}
			return ast.NewSet(name.Value, val, pos), nil
		case "let":
			return letToAST(l, pos)
		case "fun":
			return lambdaToAST(l, pos)
		case "try":
			return tryToAST(l, pos)
		case "throw":
			if len(l.Elements) != 2 {
				return nil, fmt.Errorf("malformed throw in macro result")
			}
			val, err := ToAST(l.Elements[1])
			if err != nil {
				return nil, err
			}
			return ast.NewThrow(val, pos), nil
		case "begin":
			body, err := toASTSlice(l.Elements[1:])
			if err != nil {
				return nil, err
			}
			return ast.NewBegin(body, pos), nil
		}
	}
	elems, err := toASTSlice(l.Elements)
	if err != nil {
		return nil, err
	}
	return ast.NewCall(elems, pos), nil
}

func toASTSlice(vs []Value) ([]ast.Node, error) {
	out := make([]ast.Node, len(vs))
	for i, v := range vs {
		n, err := ToAST(v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func paramsFromValue(v Value) ([]string, error) {
	l, ok := v.(List)
	if !ok {
		return nil, fmt.Errorf("expected a parameter list in macro result")
	}
	params := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		s, ok := e.(String)
		if !ok {
			return nil, fmt.Errorf("each parameter must be a symbol")
		}
		params[i] = s.Value
	}
	return params, nil
}

func condToAST(l List, pos token.Position) (ast.Node, error) {
	var clauses []ast.CondClause
	var elseClause ast.Node
	for i, raw := range l.Elements[1:] {
		clauseList, ok := raw.(List)
		if !ok || len(clauseList.Elements) != 2 {
			return nil, fmt.Errorf("malformed cond clause in macro result")
		}
		if head, ok := clauseList.Elements[0].(String); ok && head.Value == "else" && i == len(l.Elements)-2 {
			elseNode, err := ToAST(clauseList.Elements[1])
			if err != nil {
				return nil, err
			}
			elseClause = elseNode
			continue
		}
		test, err := ToAST(clauseList.Elements[0])
		if err != nil {
			return nil, err
		}
		result, err := ToAST(clauseList.Elements[1])
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.CondClause{Test: test, Result: result})
	}
	return ast.NewCond(clauses, elseClause, pos), nil
}

func defToAST(l List, pos token.Position) (ast.Node, error) {
	if len(l.Elements) < 3 {
		return nil, fmt.Errorf("malformed def in macro result")
	}
	name, ok := l.Elements[1].(String)
	if !ok {
		return nil, fmt.Errorf("def name must be a symbol")
	}
	if len(l.Elements) == 3 {
		body, err := ToAST(l.Elements[2])
		if err != nil {
			return nil, err
		}
		return ast.NewDef(name.Value, nil, body, pos), nil
	}
	params, err := paramsFromValue(l.Elements[2])
	if err != nil {
		return nil, err
	}
	body, err := ToAST(l.Elements[3])
	if err != nil {
		return nil, err
	}
	return ast.NewDef(name.Value, params, body, pos), nil
}

func defMacroToAST(l List, pos token.Position) (ast.Node, error) {
	if len(l.Elements) != 4 {
		return nil, fmt.Errorf("malformed defmacro in macro result")
	}
	name, ok := l.Elements[1].(String)
	if !ok {
		return nil, fmt.Errorf("defmacro name must be a symbol")
	}
	params, err := paramsFromValue(l.Elements[2])
	if err != nil {
		return nil, err
	}
	body, err := ToAST(l.Elements[3])
	if err != nil {
		return nil, err
	}
	return ast.NewDefMacro(name.Value, params, body, pos), nil
}

func letToAST(l List, pos token.Position) (ast.Node, error) {
	if len(l.Elements) != 3 {
		return nil, fmt.Errorf("malformed let in macro result")
	}
	bindingList, ok := l.Elements[1].(List)
	if !ok {
		return nil, fmt.Errorf("let bindings must be a list")
	}
	bindings := make([]ast.Binding, 0, len(bindingList.Elements))
	for _, raw := range bindingList.Elements {
		pair, ok := raw.(List)
		if !ok || len(pair.Elements) != 2 {
			return nil, fmt.Errorf("each let binding must be (name value)")
		}
		name, ok := pair.Elements[0].(String)
		if !ok {
			return nil, fmt.Errorf("let binding name must be a symbol")
		}
		val, err := ToAST(pair.Elements[1])
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.Binding{Name: name.Value, Value: val})
	}
	body, err := ToAST(l.Elements[2])
	if err != nil {
		return nil, err
	}
	return ast.NewLet(bindings, body, pos), nil
}

func lambdaToAST(l List, pos token.Position) (ast.Node, error) {
	if len(l.Elements) != 3 {
		return nil, fmt.Errorf("malformed fun in macro result")
	}
	params, err := paramsFromValue(l.Elements[1])
	if err != nil {
		return nil, err
	}
	body, err := ToAST(l.Elements[2])
	if err != nil {
		return nil, err
	}
	return ast.NewLambda(params, body, pos), nil
}

func tryToAST(l List, pos token.Position) (ast.Node, error) {
	if len(l.Elements) < 2 {
		return nil, fmt.Errorf("malformed try in macro result")
	}
	catchList, ok := l.Elements[len(l.Elements)-1].(List)
	if !ok || len(catchList.Elements) < 2 {
		return nil, fmt.Errorf("try must end with a catch clause")
	}
	head, ok := catchList.Elements[0].(String)
	if !ok || head.Value != "catch" {
		return nil, fmt.Errorf("try must end with a catch clause")
	}
	catchVar, ok := catchList.Elements[1].(String)
	if !ok {
		return nil, fmt.Errorf("catch variable must be a symbol")
	}
	tryBody, err := toASTSlice(l.Elements[1 : len(l.Elements)-1])
	if err != nil {
		return nil, err
	}
	catchBody, err := toASTSlice(catchList.Elements[2:])
	if err != nil {
		return nil, err
	}
	return ast.NewTry(tryBody, catchVar.Value, catchBody, pos), nil
}
