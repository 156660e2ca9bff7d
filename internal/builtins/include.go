package builtins

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stevan/slight/internal/errs"
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/macroexpand"
	"github.com/stevan/slight/internal/parser"
	"github.com/stevan/slight/internal/value"
)

// loader implements interp.IncludeLoader, resolving an include path
// relative to the including file only; resolveInclude handles the
// remaining precedence (include directories, then cwd) (spec.md §4.4).
type loader struct{}

func (loader) Load(path, fromFile string) (string, string, error) {
	if fromFile != "" {
		candidate := filepath.Join(filepath.Dir(fromFile), path)
		if b, err := os.ReadFile(candidate); err == nil {
			return string(b), candidate, nil
		}
	}
	return "", "", fmt.Errorf("include: could not find %q", path)
}

// registerInclude wires the include builtin, which re-runs the whole
// Tokenizer -> Parser -> MacroExpander -> Interpreter pipeline for the
// included file's source, sharing ip's Functions/Macros/Bindings/Builtins
// tables (spec.md §4.4: include "behaves as if the file's forms were
// written at that point"). The last top-level form's value is returned.
func registerInclude(ip *interp.Interpreter) {
	ld := loader{}
	ip.RegisterBuiltin("include", func(args []value.Value) (value.Value, error) {
		path, err := asString1(args, "include")
		if err != nil {
			return nil, err
		}
		return runInclude(ip, ld, path, ip.CurrentFile, ip.IncludePaths)
	})
}

func runInclude(ip *interp.Interpreter, ld interp.IncludeLoader, path, fromFile string, includeDirs []string) (value.Value, error) {
	source, resolved, err := resolveInclude(ld, path, fromFile, includeDirs)
	if err != nil {
		return nil, err
	}
	if ip.LoadingFiles[resolved] {
		return nil, fmt.Errorf("include: cycle detected loading %q", resolved)
	}
	ip.LoadingFiles[resolved] = true
	defer delete(ip.LoadingFiles, resolved)

	prevFile := ip.CurrentFile
	ip.CurrentFile = resolved
	defer func() { ip.CurrentFile = prevFile }()

	p := parser.NewFromSource(source)
	exp := macroexpand.New(p, ip)

	var (
		last value.Value = value.Nil{}
		firstErr *errs.SlightError
	)
	for {
		it, ok := exp.Next()
		if !ok {
			break
		}
		out := ip.RunOne(toInterpItem(it))
		if out.Err != nil && firstErr == nil {
			firstErr = out.Err
		}
		if out.Channel != interp.ChanError {
			last = out.Value
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return last, nil
}

// resolveInclude tries, in order: file-relative (via ld), each configured
// include directory, then the process's working directory (spec.md §4.4).
func resolveInclude(ld interp.IncludeLoader, path, fromFile string, includeDirs []string) (source, resolved string, err error) {
	if source, resolved, err = ld.Load(path, fromFile); err == nil {
		return source, resolved, nil
	}
	for _, dir := range includeDirs {
		candidate := filepath.Join(dir, path)
		if b, readErr := os.ReadFile(candidate); readErr == nil {
			return string(b), candidate, nil
		}
	}
	if b, readErr := os.ReadFile(path); readErr == nil {
		return string(b), path, nil
	}
	return "", "", err
}

func toInterpItem(it macroexpand.Item) interp.Item {
	return interp.Item{Node: it.Node, Err: it.Err}
}
