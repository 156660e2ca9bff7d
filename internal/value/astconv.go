package value

import "github.com/stevan/slight/internal/ast"

// FromAST implements the AST→Value conversion used by Quote and by the
// MacroExpander to hand unevaluated argument ASTs to a macro body
// (spec.md §4.4, "AST↔Value round-trip").
func FromAST(n ast.Node) Value {
	switch v := n.(type) {
	case *ast.Number:
		return Number{Value: v.Value}
	case *ast.String:
		return String{Value: v.Value}
	case *ast.Boolean:
		return Boolean{Value: v.Value}
	case *ast.Symbol:
		return String{Value: v.Name}
	case *ast.Quote:
		return List{Elements: []Value{String{Value: "quote"}, FromAST(v.Expr)}}
	case *ast.Call:
		elems := make([]Value, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = FromAST(e)
		}
		return List{Elements: elems}
	case *ast.Cond:
		elems := []Value{String{Value: "cond"}}
		for _, c := range v.Clauses {
			elems = append(elems, List{Elements: []Value{FromAST(c.Test), FromAST(c.Result)}})
		}
		if v.Else != nil {
			elems = append(elems, List{Elements: []Value{String{Value: "else"}, FromAST(v.Else)}})
		}
		return List{Elements: elems}
	case *ast.Def:
		elems := []Value{String{Value: "def"}, String{Value: v.Name}}
		if v.Params != nil {
			elems = append(elems, paramList(v.Params))
		}
		elems = append(elems, FromAST(v.Body))
		return List{Elements: elems}
	case *ast.DefMacro:
		return List{Elements: []Value{
			String{Value: "defmacro"}, String{Value: v.Name}, paramList(v.Params), FromAST(v.Body),
		}}
	case *ast.Set:
		return List{Elements: []Value{String{Value: "set!"}, String{Value: v.Name}, FromAST(v.Value)}}
	case *ast.Let:
		elems := []Value{String{Value: "let"}}
		bindings := make([]Value, len(v.Bindings))
		for i, bind := range v.Bindings {
			bindings[i] = List{Elements: []Value{String{Value: bind.Name}, FromAST(bind.Value)}}
		}
		elems = append(elems, List{Elements: bindings}, FromAST(v.Body))
		return List{Elements: elems}
	case *ast.Lambda:
		return List{Elements: []Value{String{Value: "fun"}, paramList(v.Params), FromAST(v.Body)}}
	case *ast.Try:
		elems := []Value{String{Value: "try"}}
		for _, f := range v.TryBody {
			elems = append(elems, FromAST(f))
		}
		catch := []Value{String{Value: "catch"}, String{Value: v.CatchVar}}
		for _, f := range v.CatchBody {
			catch = append(catch, FromAST(f))
		}
		elems = append(elems, List{Elements: catch})
		return List{Elements: elems}
	case *ast.Throw:
		return List{Elements: []Value{String{Value: "throw"}, FromAST(v.Value)}}
	case *ast.Begin:
		elems := []Value{String{Value: "begin"}}
		for _, f := range v.Body {
			elems = append(elems, FromAST(f))
		}
		return List{Elements: elems}
	default:
		return Nil{}
	}
}

func paramList(params []string) List {
	elems := make([]Value, len(params))
	for i, p := range params {
		elems[i] = String{Value: p}
	}
	return List{Elements: elems}
}
