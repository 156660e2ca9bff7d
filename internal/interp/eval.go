package interp

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/stevan/slight/internal/ast"
	"github.com/stevan/slight/internal/errs"
	"github.com/stevan/slight/internal/token"
	"github.com/stevan/slight/internal/value"
)

// Eval implements spec.md §4.4's per-node-type evaluation table. local is
// nil at the top level; nested lets/lambda bodies extend it.
func (ip *Interpreter) Eval(n ast.Node, local *value.Env) (result value.Value, err error) {
	switch node := n.(type) {
	case *ast.Number:
		return value.Number{Value: node.Value}, nil
	case *ast.String:
		return value.String{Value: node.Value}, nil
	case *ast.Boolean:
		return value.Boolean{Value: node.Value}, nil
	case *ast.Symbol:
		return ip.evalSymbol(node, local)
	case *ast.Quote:
		return value.FromAST(node.Expr), nil
	case *ast.Call:
		return ip.evalCall(node, local)
	case *ast.Cond:
		return ip.evalCond(node, local)
	case *ast.Def:
		return ip.evalDef(node, local)
	case *ast.DefMacro:
		return ip.evalDefMacro(node, local)
	case *ast.Set:
		return ip.evalSet(node, local)
	case *ast.Let:
		return ip.evalLet(node, local)
	case *ast.Lambda:
		return &value.Function{Params: node.Params, Body: node.Body, CapturedEnv: local.Snapshot()}, nil
	case *ast.Try:
		return ip.evalTry(node, local)
	case *ast.Throw:
		return ip.evalThrow(node, local)
	case *ast.Begin:
		return ip.evalBody(node.Body, local)
	default:
		return nil, runtimeErr(n.Position(), "unknown-node", fmt.Sprintf("unknown AST node %T", n))
	}
}

func runtimeErr(pos token.Position, kind, msg string) *errs.SlightError {
	return errs.New(errs.StageInterpreter, kind, msg, errs.Position{Line: pos.Line, Column: pos.Column}, "")
}

// evalSymbol implements spec.md §3's lookup order: local params → global
// bindings → functions → macros (as callable) → builtins. It also
// recognises the dotted `name.field` accessor form on a bound Error
// (spec.md §4.4, "Error value access") and, more generally, on any Map
// with string keys (spec.md §4.4, "Field access beyond .message": `m.key`
// reads the value stored under "key"; unlike `(map-get m "key")`, a
// missing key is an undefined-field error).
func (ip *Interpreter) evalSymbol(sym *ast.Symbol, local *value.Env) (value.Value, error) {
	if dot := dotSplit(sym.Name); dot != nil {
		base, err := ip.evalSymbol(&ast.Symbol{Name: dot.base, Pos: sym.Pos}, local)
		if err != nil {
			return nil, err
		}
		switch b := base.(type) {
		case *value.Error:
			fv, ok := b.Field(dot.field)
			if !ok {
				return nil, runtimeErr(sym.Pos, "undefined-field", "undefined field: "+dot.field)
			}
			return fv, nil
		case *value.Map:
			fv, ok := b.Get(value.String{Value: dot.field})
			if !ok {
				return nil, runtimeErr(sym.Pos, "undefined-field", "undefined field: "+dot.field)
			}
			return fv, nil
		default:
			return nil, runtimeErr(sym.Pos, "undefined-field", "cannot access field ."+dot.field+" on a non-error, non-map value")
		}
	}
	v, ok := ip.lookup(sym.Name, local)
	if !ok {
		return nil, runtimeErr(sym.Pos, "undefined-symbol", ip.undefinedSymbolMessage(sym.Name))
	}
	return v, nil
}

// undefinedSymbolMessage appends a "did you mean" suggestion ranked by
// fuzzy.RankFindFold over every known name, the way planner.go suggests
// decorator names on a lookup miss.
func (ip *Interpreter) undefinedSymbolMessage(name string) string {
	msg := "undefined symbol: " + name
	known := make([]string, 0, len(ip.Bindings)+len(ip.Functions)+len(ip.Macros)+len(ip.Builtins))
	for k := range ip.Bindings {
		known = append(known, k)
	}
	for k := range ip.Functions {
		known = append(known, k)
	}
	for k := range ip.Macros {
		known = append(known, k)
	}
	for k := range ip.Builtins {
		known = append(known, k)
	}
	if ranks := fuzzy.RankFindFold(name, known); len(ranks) > 0 {
		sort.Sort(ranks)
		msg += fmt.Sprintf(" (did you mean %q?)", ranks[0].Target)
	}
	return msg
}

type dottedName struct{ base, field string }

// dotSplit splits "e.message" into ("e", "message") on the *last* dot, so
// namespaced builtins like "math/pi" (no dot) and field-access chains both
// work. Returns nil if name contains no dot.
func dotSplit(name string) *dottedName {
	idx := -1
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			idx = i
			break
		}
	}
	if idx <= 0 || idx == len(name)-1 {
		return nil
	}
	return &dottedName{base: name[:idx], field: name[idx+1:]}
}

func (ip *Interpreter) lookup(name string, local *value.Env) (value.Value, bool) {
	if v, ok := local.Lookup(name); ok {
		return v, true
	}
	if v, ok := ip.Bindings[name]; ok {
		return v, true
	}
	if fn, ok := ip.Functions[name]; ok {
		return fn, true
	}
	if m, ok := ip.Macros[name]; ok {
		return m, true
	}
	if b, ok := ip.Builtins[name]; ok {
		return b, true
	}
	return nil, false
}

func (ip *Interpreter) evalCond(node *ast.Cond, local *value.Env) (value.Value, error) {
	for _, clause := range node.Clauses {
		test, err := ip.Eval(clause.Test, local)
		if err != nil {
			return nil, err
		}
		if value.Truthy(test) {
			return ip.Eval(clause.Result, local)
		}
	}
	if node.Else != nil {
		return ip.Eval(node.Else, local)
	}
	return value.Boolean{Value: false}, nil
}

// evalDef implements spec.md §4.4: a params-less Def stores a value
// binding; a Def with params stores a function, capturing the enclosing
// local environment into a closure only when one exists (nested def).
func (ip *Interpreter) evalDef(node *ast.Def, local *value.Env) (value.Value, error) {
	if node.Params == nil {
		v, err := ip.Eval(node.Body, local)
		if err != nil {
			return nil, err
		}
		ip.Bindings[node.Name] = v
		return value.Boolean{Value: true}, nil
	}
	fn := &value.Function{Name: node.Name, Params: node.Params, Body: node.Body}
	if local != nil {
		fn.CapturedEnv = local.Snapshot()
	}
	ip.Functions[node.Name] = fn
	return value.Boolean{Value: true}, nil
}

func (ip *Interpreter) evalDefMacro(node *ast.DefMacro, local *value.Env) (value.Value, error) {
	ip.Macros[node.Name] = &value.Function{Name: node.Name, Params: node.Params, Body: node.Body}
	return value.Boolean{Value: true}, nil
}

// evalSet implements spec.md §4.4: update the innermost scope that already
// binds name (local chain first, then global bindings); error if undefined.
func (ip *Interpreter) evalSet(node *ast.Set, local *value.Env) (value.Value, error) {
	v, err := ip.Eval(node.Value, local)
	if err != nil {
		return nil, err
	}
	if local.Set(node.Name, v) {
		return v, nil
	}
	if _, ok := ip.Bindings[node.Name]; ok {
		ip.Bindings[node.Name] = v
		return v, nil
	}
	return nil, runtimeErr(node.Pos, "undefined-symbol", "cannot set! undefined symbol: "+node.Name)
}

// evalLet implements let* semantics (spec.md §4.4): each binding's value
// is evaluated in the environment extended with all prior bindings.
func (ip *Interpreter) evalLet(node *ast.Let, local *value.Env) (value.Value, error) {
	env := value.NewEnv(local)
	for _, b := range node.Bindings {
		v, err := ip.Eval(b.Value, env)
		if err != nil {
			return nil, err
		}
		env.Local[b.Name] = v
		env = value.NewEnv(env)
	}
	return ip.Eval(node.Body, env)
}

// evalTry implements spec.md §4.4: evaluate try_body sequentially; on a
// thrown value, bind the catch variable to an Error and evaluate
// catch_body. Thrown non-Error values are auto-wrapped (spec.md §4.4,
// "Throw").
func (ip *Interpreter) evalTry(node *ast.Try, local *value.Env) (result value.Value, err error) {
	result, err = ip.runCatching(node.TryBody, local)
	if err == nil {
		return result, nil
	}
	t, ok := err.(thrown)
	if !ok {
		return nil, err
	}
	errVal := asErrorValue(t.val)
	env := value.NewEnv(local)
	env.Local[node.CatchVar] = errVal
	return ip.evalBody(node.CatchBody, env)
}

// runCatching evaluates a body, converting a panic'd throw into a returned
// `thrown` error so evalTry can observe it without unwinding past this
// frame's own defers. Throw uses Go's panic/recover rather than a sentinel
// error value so that a throw from deep inside nested Calls unwinds
// directly to the nearest enclosing Try without every call site having to
// propagate it by hand.
func (ip *Interpreter) runCatching(body []ast.Node, local *value.Env) (result value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if t, ok := r.(thrown); ok {
				err = t
				return
			}
			panic(r)
		}
	}()
	return ip.evalBody(body, local)
}

func (ip *Interpreter) evalThrow(node *ast.Throw, local *value.Env) (value.Value, error) {
	v, err := ip.Eval(node.Value, local)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(*value.Error); !ok {
		v = &value.Error{Message: stringify(v), Line: node.Pos.Line, Column: node.Pos.Column, HasPos: node.Pos.Line > 0}
	}
	panic(thrown{val: v})
}

func asErrorValue(v value.Value) *value.Error {
	if e, ok := v.(*value.Error); ok {
		return e
	}
	return &value.Error{Message: stringify(v)}
}

// stringify renders a value for embedding in a message: strings pass through
// raw (unlike value.Print, which re-quotes them for source-level printing),
// everything else falls back to value.Print.
func stringify(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return s.Value
	}
	return value.Print(v)
}

func (ip *Interpreter) evalBody(body []ast.Node, local *value.Env) (value.Value, error) {
	var result value.Value = value.Nil{}
	for _, form := range body {
		v, err := ip.Eval(form, local)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}
