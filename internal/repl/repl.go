// Package repl implements the interactive REPL (spec.md §6): accumulates
// lines until paren depth returns to zero, submits the buffered form
// through the full Tokenizer -> Parser -> MacroExpander -> Interpreter
// pipeline, and (in --debug mode) exposes the :ast/:tokens/:expand/...
// introspection commands.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/stevan/slight/internal/ast"
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/lexer"
	"github.com/stevan/slight/internal/macroexpand"
	"github.com/stevan/slight/internal/parser"
	"github.com/stevan/slight/internal/sink"
	"github.com/stevan/slight/internal/value"
)

// REPL is the read-eval-print loop.
type REPL struct {
	ip      *interp.Interpreter
	out     sink.Sink
	debug   bool
	w       io.Writer
	r       *bufio.Scanner
	history []Entry
}

func New(ip *interp.Interpreter, out sink.Sink, debug bool, in io.Reader, w io.Writer) *REPL {
	entries, err := LoadHistory()
	if err != nil {
		fmt.Fprintf(w, "⚡ could not load history: %v\n", err)
	}
	return &REPL{ip: ip, out: out, debug: debug, w: w, r: bufio.NewScanner(in), history: entries}
}

// Run drives the loop until :q or EOF, saving history on exit.
func (rl *REPL) Run() {
	defer func() {
		if err := SaveHistory(rl.history); err != nil {
			fmt.Fprintf(rl.w, "⚡ could not save history: %v\n", err)
		}
	}()

	var buf strings.Builder
	var scan scanState
	for {
		if scan.atTopLevel() {
			fmt.Fprint(rl.w, "? ")
		} else {
			fmt.Fprint(rl.w, "... ")
		}
		if !rl.r.Scan() {
			return
		}
		line := rl.r.Text()
		buf.WriteString(line)
		buf.WriteByte('\n')
		scan.feed(line)
		if !scan.atTopLevel() {
			continue
		}

		source := strings.TrimSpace(buf.String())
		buf.Reset()
		scan = scanState{}
		if source == "" {
			continue
		}
		if source == ":q" {
			return
		}
		if strings.HasPrefix(source, ":") {
			if rl.debug {
				rl.runDebugCommand(source)
			} else {
				fmt.Fprintln(rl.w, "⚡ debug commands require --debug")
			}
			continue
		}

		output := rl.evalChunk(source)
		rl.history = append(rl.history, Entry{Input: source, Output: output})
	}
}

// evalChunk runs one buffered form through the full pipeline and returns a
// rendering of its outputs (for history), after emitting them to the sink.
func (rl *REPL) evalChunk(source string) string {
	p := parser.NewFromSource(source)
	exp := macroexpand.New(p, rl.ip)
	var rendered []string
	for {
		it, ok := exp.Next()
		if !ok {
			break
		}
		o := rl.ip.RunOne(interp.Item{Node: it.Node, Err: it.Err})
		rl.out.Emit(o)
		if o.Err != nil {
			rendered = append(rendered, o.Err.Error())
		} else {
			rendered = append(rendered, value.Print(o.Value))
		}
	}
	return strings.Join(rendered, "\n")
}

func (rl *REPL) runDebugCommand(cmd string) {
	fields := strings.SplitN(cmd, " ", 2)
	name := fields[0]
	var arg string
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}
	switch name {
	case ":help":
		fmt.Fprintln(rl.w, "commands: :ast :tokens :expand :env :bindings :functions :macros :history :clear :help :q")
	case ":clear":
		rl.history = nil
		fmt.Fprintln(rl.w, "history cleared")
	case ":history":
		for i, e := range rl.history {
			fmt.Fprintf(rl.w, "%d: %s => %s\n", i, e.Input, e.Output)
		}
	case ":tokens":
		rl.dumpTokens(arg)
	case ":ast":
		rl.dumpAST(arg)
	case ":expand":
		rl.dumpExpand(arg)
	case ":env", ":bindings":
		for k, v := range rl.ip.Bindings {
			fmt.Fprintf(rl.w, "%s = %s\n", k, value.Print(v))
		}
	case ":functions":
		for k := range rl.ip.Functions {
			fmt.Fprintln(rl.w, k)
		}
	case ":macros":
		for k := range rl.ip.Macros {
			fmt.Fprintln(rl.w, k)
		}
	default:
		fmt.Fprintf(rl.w, "⚡ unknown debug command: %s\n", name)
	}
}

func (rl *REPL) dumpTokens(source string) {
	lex := lexer.New(lexer.Chunks(source))
	for {
		it, ok := lex.Next()
		if !ok {
			return
		}
		if it.Err != nil {
			fmt.Fprintln(rl.w, it.Err.Error())
			return
		}
		fmt.Fprintf(rl.w, "%s %q (%d:%d)\n", it.Tok.Kind, it.Tok.Source, it.Tok.Pos.Line, it.Tok.Pos.Column)
	}
}

func (rl *REPL) dumpAST(source string) {
	p := parser.NewFromSource(source)
	for {
		it, ok := p.Next()
		if !ok {
			return
		}
		if it.Err != nil {
			fmt.Fprintln(rl.w, it.Err.Error())
			return
		}
		fmt.Fprintln(rl.w, describeNode(it.Node))
	}
}

func (rl *REPL) dumpExpand(source string) {
	p := parser.NewFromSource(source)
	exp := macroexpand.New(p, rl.ip)
	for {
		it, ok := exp.Next()
		if !ok {
			return
		}
		if it.Err != nil {
			fmt.Fprintln(rl.w, it.Err.Error())
			return
		}
		fmt.Fprintln(rl.w, describeNode(it.Node))
	}
}

func describeNode(n ast.Node) string {
	return value.Print(value.FromAST(n))
}
