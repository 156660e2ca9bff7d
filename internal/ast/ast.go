// Package ast defines the tagged-variant AST produced by internal/parser,
// per spec.md §3. Dispatch over the variant set is a small, bounded type
// switch — never class inheritance, per spec.md §9's design notes.
package ast

import "github.com/stevan/slight/internal/token"

// Node is any AST node. Every concrete type below implements it.
type Node interface {
	Position() token.Position
}

// Number, String, Boolean are the atomic literal variants.
type Number struct {
	Value float64
	Pos   token.Position
}

func (n *Number) Position() token.Position { return n.Pos }

type String struct {
	Value string
	Pos   token.Position
}

func (n *String) Position() token.Position { return n.Pos }

type Boolean struct {
	Value bool
	Pos   token.Position
}

func (n *Boolean) Position() token.Position { return n.Pos }

// Symbol is a bare name reference, resolved by lookup order at eval time
// (spec.md §3 Environment).
type Symbol struct {
	Name string
	Pos  token.Position
}

func (n *Symbol) Position() token.Position { return n.Pos }

// Call is an applicative call; the head (Elements[0]) is the callee.
// An empty Call (no elements) evaluates to Nil (spec.md §4.4).
type Call struct {
	Elements []Node
	Pos      token.Position
}

func (n *Call) Position() token.Position { return n.Pos }

// Quote holds a literal, unevaluated AST.
type Quote struct {
	Expr Node
	Pos  token.Position
}

func (n *Quote) Position() token.Position { return n.Pos }

// CondClause is one (test, result) pair of a Cond.
type CondClause struct {
	Test   Node
	Result Node
}

// Cond is the `(cond (test result)* (else result)?)` special form.
// Else is nil when no else-clause was written.
type Cond struct {
	Clauses []CondClause
	Else    Node
	Pos     token.Position
}

func (n *Cond) Position() token.Position { return n.Pos }

// Def is `(def name (params…) body…)`. When Params is nil, this is a
// variable definition and Body is the value expression; otherwise (even
// with an empty, non-nil Params, as in `(def f () 1)`) it is a function
// definition (spec.md §4.2).
type Def struct {
	Name   string
	Params []string
	Body   Node
	Pos    token.Position
}

func (n *Def) Position() token.Position { return n.Pos }

// DefMacro is `(defmacro name (params…) body)`, consumed entirely by the
// MacroExpander (spec.md §4.3).
type DefMacro struct {
	Name   string
	Params []string
	Body   Node
	Pos    token.Position
}

func (n *DefMacro) Position() token.Position { return n.Pos }

// Set is `(set! name value)`.
type Set struct {
	Name  string
	Value Node
	Pos   token.Position
}

func (n *Set) Position() token.Position { return n.Pos }

// Binding is one `(name value)` pair of a Let.
type Binding struct {
	Name  string
	Value Node
}

// Let is `(let ((n1 v1) …) body)`, evaluated with let* semantics
// (spec.md §4.4).
type Let struct {
	Bindings []Binding
	Body     Node
	Pos      token.Position
}

func (n *Let) Position() token.Position { return n.Pos }

// Lambda is `(fun (params…) body)` / `(lambda …)`. Evaluating a Lambda
// produces a closure value capturing the current local environment
// (spec.md §4.4); the AST itself carries no environment. (spec.md §3
// additionally lists a distinct "Closure" AST variant; this implementation
// treats that as describing the runtime Value produced by evaluating a
// Lambda, not a second parser-level node — see DESIGN.md.)
type Lambda struct {
	Params []string
	Body   Node
	Pos    token.Position
}

func (n *Lambda) Position() token.Position { return n.Pos }

// Try is `(try body… (catch var body…))`.
type Try struct {
	TryBody   []Node
	CatchVar  string
	CatchBody []Node
	Pos       token.Position
}

func (n *Try) Position() token.Position { return n.Pos }

// Throw is `(throw value)`.
type Throw struct {
	Value Node
	Pos   token.Position
}

func (n *Throw) Position() token.Position { return n.Pos }

// Begin is `(begin body…)`.
type Begin struct {
	Body []Node
	Pos  token.Position
}

func (n *Begin) Position() token.Position { return n.Pos }

// Constructors below give parser.go named-field struct literals for every
// variant, independent of field declaration order.

func NewNumber(v float64, pos token.Position) *Number { return &Number{Value: v, Pos: pos} }

func NewString(v string, pos token.Position) *String { return &String{Value: v, Pos: pos} }

func NewBoolean(v bool, pos token.Position) *Boolean { return &Boolean{Value: v, Pos: pos} }

func NewSymbol(name string, pos token.Position) *Symbol { return &Symbol{Name: name, Pos: pos} }

func NewCall(elements []Node, pos token.Position) *Call { return &Call{Elements: elements, Pos: pos} }

func NewQuote(expr Node, pos token.Position) *Quote { return &Quote{Expr: expr, Pos: pos} }

func NewCond(clauses []CondClause, elseClause Node, pos token.Position) *Cond {
	return &Cond{Clauses: clauses, Else: elseClause, Pos: pos}
}

func NewDef(name string, params []string, body Node, pos token.Position) *Def {
	return &Def{Name: name, Params: params, Body: body, Pos: pos}
}

func NewDefMacro(name string, params []string, body Node, pos token.Position) *DefMacro {
	return &DefMacro{Name: name, Params: params, Body: body, Pos: pos}
}

func NewSet(name string, value Node, pos token.Position) *Set {
	return &Set{Name: name, Value: value, Pos: pos}
}

func NewLet(bindings []Binding, body Node, pos token.Position) *Let {
	return &Let{Bindings: bindings, Body: body, Pos: pos}
}

func NewLambda(params []string, body Node, pos token.Position) *Lambda {
	return &Lambda{Params: params, Body: body, Pos: pos}
}

func NewTry(tryBody []Node, catchVar string, catchBody []Node, pos token.Position) *Try {
	return &Try{TryBody: tryBody, CatchVar: catchVar, CatchBody: catchBody, Pos: pos}
}

func NewThrow(value Node, pos token.Position) *Throw { return &Throw{Value: value, Pos: pos} }

func NewBegin(body []Node, pos token.Position) *Begin { return &Begin{Body: body, Pos: pos} }
