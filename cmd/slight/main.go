// Command slight is the CLI entry point (spec.md §6), grounded on the
// teacher's cli/main.go cobra wiring: a single root command with flags
// for file/eval/include-path/debug/watch modes, REPL by default.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/stevan/slight/internal/builtins"
	"github.com/stevan/slight/internal/errs"
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/macroexpand"
	"github.com/stevan/slight/internal/parser"
	"github.com/stevan/slight/internal/process"
	"github.com/stevan/slight/internal/repl"
	"github.com/stevan/slight/internal/sink"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		evalExpr    string
		includeDirs []string
		debug       bool
		watch       bool
	)

	rootCmd := &cobra.Command{
		Use:           "slight [file]",
		Short:         "An embeddable, streaming Lisp-family interpreter",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := sink.NewStandardSink()
			ip, _ := newInterpreter(includeDirs, out)

			switch {
			case evalExpr != "":
				runSource(ip, out, evalExpr)
			case len(args) == 1:
				if watch {
					return watchFile(args[0], includeDirs)
				}
				if err := runFile(ip, out, args[0]); err != nil {
					var se *errs.SlightError
					if !errors.As(err, &se) {
						return err
					}
					return errAlreadyReported
				}
			default:
				repl.New(ip, out, debug, os.Stdin, os.Stdout).Run()
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate an expression then exit")
	rootCmd.Flags().StringArrayVarP(&includeDirs, "include-path", "i", nil, "add an include search directory (repeatable)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "start the REPL with debug commands enabled")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "re-run the given file whenever it changes")

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errAlreadyReported) {
			fmt.Fprintln(os.Stderr, "⚡", err)
		}
		return 1
	}
	return 0
}

// errAlreadyReported signals a failing run whose error was already
// emitted on the ERROR channel by the sink, so run() doesn't print it
// twice.
var errAlreadyReported = errors.New("slight: run failed")

// newInterpreter wires one Interpreter with the full builtin table plus
// the process runtime's own builtins (spec.md §4.5), sharing the process
// singleton across the program's lifetime.
func newInterpreter(includeDirs []string, out sink.Sink) (*interp.Interpreter, *process.Runtime) {
	ip := interp.New()
	builtins.Register(ip, out, includeDirs)
	rt := process.NewRuntime()
	process.RegisterBuiltinsWithSink(ip, rt, out)
	return ip, rt
}

func runFile(ip *interp.Interpreter, out sink.Sink, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ip.CurrentFile = path
	return runSourceErr(ip, out, string(src))
}

func runSource(ip *interp.Interpreter, out sink.Sink, source string) {
	_ = runSourceErr(ip, out, source)
}

// runSourceErr drives one source blob through Parser -> MacroExpander ->
// Interpreter -> sink, returning the first error encountered (errors
// outside try already became ERROR-channel output per spec.md §7; this
// return value only drives the CLI's own exit code).
func runSourceErr(ip *interp.Interpreter, out sink.Sink, source string) error {
	p := parser.NewFromSource(source)
	exp := macroexpand.New(p, ip)
	var firstErr error
	for {
		it, ok := exp.Next()
		if !ok {
			break
		}
		o := ip.RunOne(interp.Item{Node: it.Node, Err: it.Err})
		out.Emit(o)
		if o.Err != nil && firstErr == nil {
			firstErr = o.Err
		}
	}
	return firstErr
}

// watchFile re-runs path on every write, using fsnotify the way the
// teacher's CLI would wire a filesystem watcher for a dev-loop command.
func watchFile(path string, includeDirs []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}

	runOnce := func() {
		out := sink.NewStandardSink()
		ip, _ := newInterpreter(includeDirs, out)
		if err := runFile(ip, out, path); err != nil {
			fmt.Fprintln(os.Stderr, "⚡", err)
		}
	}
	runOnce()
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				runOnce()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "⚡ watch error:", err)
		}
	}
}
