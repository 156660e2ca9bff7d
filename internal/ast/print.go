package ast

import (
	"strconv"
	"strings"
)

// Print renders a Node back to canonical source text. Re-parsing the
// result must yield an AST equal to the original, up to source locations
// (spec.md §8).
func Print(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Number:
		b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *String:
		b.WriteByte('"')
		b.WriteString(escapeString(v.Value))
		b.WriteByte('"')
	case *Boolean:
		if v.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *Symbol:
		b.WriteString(v.Name)
	case *Quote:
		b.WriteByte('\'')
		write(b, v.Expr)
	case *Call:
		b.WriteByte('(')
		for i, e := range v.Elements {
			if i > 0 {
				b.WriteByte(' ')
			}
			write(b, e)
		}
		b.WriteByte(')')
	case *Cond:
		b.WriteString("(cond")
		for _, c := range v.Clauses {
			b.WriteByte(' ')
			b.WriteByte('(')
			write(b, c.Test)
			b.WriteByte(' ')
			write(b, c.Result)
			b.WriteByte(')')
		}
		if v.Else != nil {
			b.WriteString(" (else ")
			write(b, v.Else)
			b.WriteByte(')')
		}
		b.WriteByte(')')
	case *Def:
		b.WriteString("(def ")
		b.WriteString(v.Name)
		if v.Params == nil {
			b.WriteByte(' ')
			write(b, v.Body)
		} else {
			b.WriteString(" (")
			b.WriteString(strings.Join(v.Params, " "))
			b.WriteString(") ")
			write(b, v.Body)
		}
		b.WriteByte(')')
	case *DefMacro:
		b.WriteString("(defmacro ")
		b.WriteString(v.Name)
		b.WriteString(" (")
		b.WriteString(strings.Join(v.Params, " "))
		b.WriteString(") ")
		write(b, v.Body)
		b.WriteByte(')')
	case *Set:
		b.WriteString("(set! ")
		b.WriteString(v.Name)
		b.WriteByte(' ')
		write(b, v.Value)
		b.WriteByte(')')
	case *Let:
		b.WriteString("(let (")
		for i, bind := range v.Bindings {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('(')
			b.WriteString(bind.Name)
			b.WriteByte(' ')
			write(b, bind.Value)
			b.WriteByte(')')
		}
		b.WriteString(") ")
		write(b, v.Body)
		b.WriteByte(')')
	case *Lambda:
		b.WriteString("(fun (")
		b.WriteString(strings.Join(v.Params, " "))
		b.WriteString(") ")
		write(b, v.Body)
		b.WriteByte(')')
	case *Try:
		b.WriteString("(try")
		for _, form := range v.TryBody {
			b.WriteByte(' ')
			write(b, form)
		}
		b.WriteString(" (catch ")
		b.WriteString(v.CatchVar)
		for _, form := range v.CatchBody {
			b.WriteByte(' ')
			write(b, form)
		}
		b.WriteString("))")
	case *Throw:
		b.WriteString("(throw ")
		write(b, v.Value)
		b.WriteByte(')')
	case *Begin:
		b.WriteString("(begin")
		for _, form := range v.Body {
			b.WriteByte(' ')
			write(b, form)
		}
		b.WriteByte(')')
	default:
		b.WriteString("<unknown-node>")
	}
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
