// Package errs defines the structured, in-band error values that flow
// through every stage of the slight pipeline (spec.md §7).
package errs

import (
	"fmt"
	"strings"
)

// Stage identifies which pipeline stage raised an error.
type Stage string

const (
	StageTokenizer     Stage = "Tokenizer"
	StageParser        Stage = "Parser"
	StageMacroExpander Stage = "MacroExpander"
	StageInterpreter   Stage = "Interpreter"
	StageProcess       Stage = "Process"
)

// Position is a source location; the zero value means "unknown".
type Position struct {
	Line   int
	Column int
}

func (p Position) Known() bool { return p.Line > 0 }

// SlightError is the structured error value carried in-band through the
// pipeline (spec.md §7). It implements the standard error interface so it
// composes with Go idioms, but callers that need the stage/location should
// use the typed accessors rather than string-matching Error().
type SlightError struct {
	Stage   Stage
	Kind    string // short machine-readable category, e.g. "undefined-symbol"
	Message string
	Pos     Position
	Source  string // the full source text, for snippet rendering
	Cause   error
}

func (e *SlightError) Error() string {
	if e.Pos.Known() {
		return fmt.Sprintf("%s: %s (at %d:%d)", e.Stage, e.Message, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *SlightError) Unwrap() error { return e.Cause }

// Snippet renders a Rust/Clang-style code snippet pointing at the error's
// position, matching the teacher's pkgs/parser/errors.go formatting.
func (e *SlightError) Snippet() string {
	if e.Source == "" || !e.Pos.Known() {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line > len(lines) || e.Pos.Line < 1 {
		return ""
	}
	line := lines[e.Pos.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", e.Pos.Line, e.Pos.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", e.Pos.Line, line)
	b.WriteString("   | ")
	if e.Pos.Column > 0 && e.Pos.Column <= len(line)+1 {
		b.WriteString(strings.Repeat(" ", e.Pos.Column-1) + "^")
	}
	return b.String()
}

func New(stage Stage, kind, message string, pos Position, source string) *SlightError {
	return &SlightError{Stage: stage, Kind: kind, Message: message, Pos: pos, Source: source}
}

func Wrap(stage Stage, kind, message string, pos Position, source string, cause error) *SlightError {
	e := New(stage, kind, message, pos, source)
	e.Cause = cause
	return e
}
