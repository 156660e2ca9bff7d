// Package value defines the runtime-inhabited tagged variant (spec.md §3)
// produced by evaluation: Number, String, Boolean, Nil, List, Function,
// Builtin, Map, Error. Dispatch is a bounded type switch, matching the
// ast package's convention — never class inheritance (spec.md §9).
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is any runtime value.
type Value interface {
	typeName() string
}

type Number struct{ Value float64 }

func (Number) typeName() string { return "NUMBER" }

type String struct{ Value string }

func (String) typeName() string { return "STRING" }

type Boolean struct{ Value bool }

func (Boolean) typeName() string { return "BOOLEAN" }

// Nil is the sole nil value; the empty List prints identically but is a
// distinct variant (spec.md §3).
type Nil struct{}

func (Nil) typeName() string { return "NIL" }

// List is an ordered sequence of Values. An empty List prints as `()` like
// Nil but type/of still reports NIL for it, per spec.md §3.
type List struct{ Elements []Value }

func (List) typeName() string { return "LIST" }

// Env is the chain of local parameter frames (spec.md §3); the
// process-global mappings live on the interpreter, which consults them
// after the chain. Captured by Function values that are closures. The
// Bindings field is not read by Lookup, Set or Snapshot.
type Env struct {
	Local    map[string]Value
	Bindings map[string]Value
	Parent   *Env // enclosing local frame, for nested let/lambda bodies
}

func NewEnv(parent *Env) *Env {
	return &Env{Local: make(map[string]Value), Parent: parent}
}

// Lookup searches the local frame chain only (not the global bindings/
// functions/macros/builtins tables, which the interpreter consults next).
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.Parent {
		if v, ok := env.Local[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set updates name in the innermost frame that already binds it. Returns
// false if no frame in the chain binds name.
func (e *Env) Set(name string, v Value) bool {
	for env := e; env != nil; env = env.Parent {
		if _, ok := env.Local[name]; ok {
			env.Local[name] = v
			return true
		}
	}
	return false
}

// Snapshot produces an independent copy of the frame chain, used when a
// Lambda captures its environment to form a closure (spec.md §9: captured
// frames are snapshots at closure creation time).
func (e *Env) Snapshot() *Env {
	if e == nil {
		return nil
	}
	cp := &Env{Local: make(map[string]Value, len(e.Local)), Parent: e.Parent.Snapshot()}
	for k, v := range e.Local {
		cp.Local[k] = v
	}
	return cp
}

// Function is a user-defined function or closure. CapturedEnv is nil for
// plain top-level functions and for a Lambda evaluated at top level;
// non-nil for closures produced by evaluating a Lambda or a Def inside a
// function or let body (spec.md §4.4).
type Function struct {
	Name        string // empty for anonymous closures
	Params      []string
	Body        interface{} // holds an ast.Node; callers type-assert it
	CapturedEnv *Env
}

func (*Function) typeName() string { return "FUNCTION" }

// BuiltinFn is a native primitive's Go implementation.
type BuiltinFn func(args []Value) (Value, error)

type Builtin struct {
	Name string
	Fn   BuiltinFn
}

func (*Builtin) typeName() string { return "BUILTIN" }

// MapEntry preserves insertion order for Map's iteration (spec.md §3).
type MapEntry struct {
	Key   Value
	Value Value
}

type Map struct {
	Entries []MapEntry
}

func (*Map) typeName() string { return "MAP" }

func (m *Map) Get(key Value) (Value, bool) {
	k := PrintKey(key)
	for _, e := range m.Entries {
		if PrintKey(e.Key) == k {
			return e.Value, true
		}
	}
	return nil, false
}

func (m *Map) Set(key, val Value) {
	k := PrintKey(key)
	for i, e := range m.Entries {
		if PrintKey(e.Key) == k {
			m.Entries[i].Value = val
			return
		}
	}
	m.Entries = append(m.Entries, MapEntry{Key: key, Value: val})
}

func (m *Map) Delete(key Value) bool {
	k := PrintKey(key)
	for i, e := range m.Entries {
		if PrintKey(e.Key) == k {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// PrintKey gives Map a hashable string identity for its Value keys; Map
// keys in practice are strings or numbers per the builtin surface.
func PrintKey(v Value) string { return Print(v) }

// Error is the runtime representation of a thrown value when it is not
// itself a string (spec.md §3). Line/Column are set (HasPos true) when a
// throw form wraps a non-Error value at a known position; errors raised by
// builtins carry no position.
type Error struct {
	Message string
	Line    int
	Column  int
	HasPos  bool
}

func (*Error) typeName() string { return "ERROR" }

// Field looks up a dotted accessor on an Error, e.g. the `.message` field
// recognised by catch clauses (spec.md §4.4).
func (e *Error) Field(name string) (Value, bool) {
	switch name {
	case "message":
		return String{Value: e.Message}, true
	case "line":
		if !e.HasPos {
			return Nil{}, true
		}
		return Number{Value: float64(e.Line)}, true
	case "column":
		if !e.HasPos {
			return Nil{}, true
		}
		return Number{Value: float64(e.Column)}, true
	}
	return nil, false
}

// TypeOf returns the spec.md §4.9 type tag for type/of.
func TypeOf(v Value) string {
	if l, ok := v.(List); ok && len(l.Elements) == 0 {
		return "NIL"
	}
	return v.typeName()
}

// Truthy implements the language's truth rule: everything is truthy except
// false and nil (spec.md §4.4 Cond evaluates on "truthy").
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Boolean:
		return x.Value
	case Nil:
		return false
	default:
		return true
	}
}

// Print renders a Value using the canonical textual form (spec.md §6). A
// String prints in double quotes on its own and bare inside a List, so a
// quoted form such as '(a (b c)) prints as (a (b c)).
func Print(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case Number:
		b.WriteString(strconv.FormatFloat(x.Value, 'g', -1, 64))
	case String:
		b.WriteByte('"')
		b.WriteString(x.Value)
		b.WriteByte('"')
	case Boolean:
		if x.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Nil:
		b.WriteString("()")
	case List:
		if len(x.Elements) == 0 {
			b.WriteString("()")
			return
		}
		b.WriteByte('(')
		for i, e := range x.Elements {
			if i > 0 {
				b.WriteByte(' ')
			}
			if s, ok := e.(String); ok {
				b.WriteString(s.Value)
				continue
			}
			writeValue(b, e)
		}
		b.WriteByte(')')
	case *Function:
		name := x.Name
		if name == "" {
			name = "anonymous"
		}
		fmt.Fprintf(b, "#<function:%s>", name)
	case *Builtin:
		fmt.Fprintf(b, "#<builtin:%s>", x.Name)
	case *Map:
		b.WriteString("#<map>")
	case *Error:
		fmt.Fprintf(b, "#<error:%s>", x.Message)
	default:
		b.WriteString("#<unknown>")
	}
}
