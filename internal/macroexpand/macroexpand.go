// Package macroexpand implements the MacroExpander stage (spec.md §4.3):
// AST|Error in, AST|Error out, expanding calls to user-defined macros by
// evaluating their bodies through the Interpreter itself over
// AST-as-Value representations (quasi-quotation via quote + list
// builtins).
package macroexpand

import (
	"github.com/stevan/slight/internal/ast"
	"github.com/stevan/slight/internal/errs"
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/invariant"
	"github.com/stevan/slight/internal/parser"
	"github.com/stevan/slight/internal/value"
)

// maxExpansionFuel bounds runaway macro recursion per top-level form
// (spec.md §4.3).
const maxExpansionFuel = 10000

// Item mirrors parser.Item: the expander's own AST|Error output unit.
type Item struct {
	Node ast.Node
	Err  *errs.SlightError
}

func (it Item) IsError() bool { return it.Err != nil }

// Source is anything yielding AST|Error items; *parser.Parser satisfies
// this directly.
type Source interface {
	Next() (parser.Item, bool)
}

// Expander walks each top-level AST, expanding macro calls using the
// macros registered in the given Interpreter.
type Expander struct {
	src Source
	ip  *interp.Interpreter
}

func New(src Source, ip *interp.Interpreter) *Expander {
	return &Expander{src: src, ip: ip}
}

// Next expands and returns the next top-level form.
func (e *Expander) Next() (Item, bool) {
	it, ok := e.src.Next()
	if !ok {
		return Item{}, false
	}
	if it.IsError() {
		return Item{Err: it.Err}, true
	}
	// DefMacro nodes are registered here and passed on unchanged; the
	// interpreter's evalDefMacro re-registers the same definition without
	// evaluating its body and reports it as a successful definition
	// (spec.md §4.3).
	if dm, ok := it.Node.(*ast.DefMacro); ok {
		e.ip.Macros[dm.Name] = &value.Function{Name: dm.Name, Params: dm.Params, Body: dm.Body}
		return Item{Node: dm}, true
	}
	expanded, err := e.expand(it.Node, maxExpansionFuel)
	if err != nil {
		return Item{Err: err}, true
	}
	return Item{Node: expanded}, true
}

// All drains the expander eagerly.
func (e *Expander) All() []Item {
	var out []Item
	for {
		it, ok := e.Next()
		if !ok {
			break
		}
		out = append(out, it)
	}
	return out
}

// expand recursively rewrites n, expanding any Call whose head names a
// defined macro, until no further macro calls remain at any position or
// fuel is exhausted.
func (e *Expander) expand(n ast.Node, fuel int) (ast.Node, *errs.SlightError) {
	invariant.Precondition(fuel >= 0, "macro expansion fuel must never go negative, got %d", fuel)
	if fuel <= 0 {
		return nil, errs.New(errs.StageMacroExpander, "expansion-fuel-exhausted",
			"macro expansion fuel exhausted (possible runaway recursion)", errs.Position{}, "")
	}
	call, ok := n.(*ast.Call)
	if ok && len(call.Elements) > 0 {
		if sym, ok := call.Elements[0].(*ast.Symbol); ok {
			if macro, ok := e.ip.Macros[sym.Name]; ok {
				expanded, err := e.expandOnce(macro, call)
				if err != nil {
					return nil, err
				}
				return e.expand(expanded, fuel-1)
			}
		}
	}
	return e.expandChildren(n, fuel)
}

// expandOnce binds macro parameters to the unevaluated argument ASTs,
// evaluates the macro body via the interpreter, and converts the result
// back to an AST (spec.md §4.3).
func (e *Expander) expandOnce(macro *value.Function, call *ast.Call) (ast.Node, *errs.SlightError) {
	args := call.Elements[1:]
	if len(args) != len(macro.Params) {
		return nil, errs.New(errs.StageMacroExpander, "macro-arity",
			"macro "+macro.Name+" called with wrong number of arguments", posOf(call), "")
	}
	env := value.NewEnv(nil)
	for i, p := range macro.Params {
		env.Local[p] = value.FromAST(args[i])
	}
	body, ok := macro.Body.(ast.Node)
	if !ok {
		return nil, errs.New(errs.StageMacroExpander, "macro-body-error", "malformed macro body", posOf(call), "")
	}
	result, err := e.ip.Eval(body, env)
	if err != nil {
		return nil, errs.Wrap(errs.StageMacroExpander, "macro-body-error", "error evaluating macro "+macro.Name+": "+err.Error(), posOf(call), "", err)
	}
	node, cerr := value.ToAST(result)
	if cerr != nil {
		return nil, errs.Wrap(errs.StageMacroExpander, "non-list-macro-result", "macro "+macro.Name+" did not produce a list-like result: "+cerr.Error(), posOf(call), "", cerr)
	}
	return node, nil
}

func posOf(n ast.Node) errs.Position {
	p := n.Position()
	return errs.Position{Line: p.Line, Column: p.Column}
}

// expandChildren recurses into every AST variant's sub-nodes without
// consuming fuel at this level (fuel only bounds macro re-expansion, not
// tree depth).
func (e *Expander) expandChildren(n ast.Node, fuel int) (ast.Node, *errs.SlightError) {
	switch v := n.(type) {
	case *ast.Number, *ast.String, *ast.Boolean, *ast.Symbol:
		return n, nil
	case *ast.Quote:
		return v, nil // quoted content is data, never expanded
	case *ast.Call:
		elems, err := e.expandSlice(v.Elements, fuel)
		if err != nil {
			return nil, err
		}
		return ast.NewCall(elems, v.Pos), nil
	case *ast.Cond:
		var clauses []ast.CondClause
		for _, c := range v.Clauses {
			test, err := e.expand(c.Test, fuel)
			if err != nil {
				return nil, err
			}
			res, err := e.expand(c.Result, fuel)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, ast.CondClause{Test: test, Result: res})
		}
		var elseClause ast.Node
		if v.Else != nil {
			ec, err := e.expand(v.Else, fuel)
			if err != nil {
				return nil, err
			}
			elseClause = ec
		}
		return ast.NewCond(clauses, elseClause, v.Pos), nil
	case *ast.Def:
		body, err := e.expand(v.Body, fuel)
		if err != nil {
			return nil, err
		}
		return ast.NewDef(v.Name, v.Params, body, v.Pos), nil
	case *ast.Set:
		val, err := e.expand(v.Value, fuel)
		if err != nil {
			return nil, err
		}
		return ast.NewSet(v.Name, val, v.Pos), nil
	case *ast.Let:
		var bindings []ast.Binding
		for _, b := range v.Bindings {
			val, err := e.expand(b.Value, fuel)
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, ast.Binding{Name: b.Name, Value: val})
		}
		body, err := e.expand(v.Body, fuel)
		if err != nil {
			return nil, err
		}
		return ast.NewLet(bindings, body, v.Pos), nil
	case *ast.Lambda:
		body, err := e.expand(v.Body, fuel)
		if err != nil {
			return nil, err
		}
		return ast.NewLambda(v.Params, body, v.Pos), nil
	case *ast.Try:
		tryBody, err := e.expandSlice(v.TryBody, fuel)
		if err != nil {
			return nil, err
		}
		catchBody, err := e.expandSlice(v.CatchBody, fuel)
		if err != nil {
			return nil, err
		}
		return ast.NewTry(tryBody, v.CatchVar, catchBody, v.Pos), nil
	case *ast.Throw:
		val, err := e.expand(v.Value, fuel)
		if err != nil {
			return nil, err
		}
		return ast.NewThrow(val, v.Pos), nil
	case *ast.Begin:
		body, err := e.expandSlice(v.Body, fuel)
		if err != nil {
			return nil, err
		}
		return ast.NewBegin(body, v.Pos), nil
	case *ast.DefMacro:
		return v, nil
	default:
		return n, nil
	}
}

func (e *Expander) expandSlice(nodes []ast.Node, fuel int) ([]ast.Node, *errs.SlightError) {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		ex, err := e.expand(n, fuel)
		if err != nil {
			return nil, err
		}
		out[i] = ex
	}
	return out, nil
}
