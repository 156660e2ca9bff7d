package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stevan/slight/internal/errs"
)

func TestErrorIncludesPositionWhenKnown(t *testing.T) {
	e := errs.New(errs.StageParser, "bad-token", "unexpected token", errs.Position{Line: 3, Column: 5}, "")
	assert.Equal(t, "Parser: unexpected token (at 3:5)", e.Error())
}

func TestErrorOmitsPositionWhenUnknown(t *testing.T) {
	e := errs.New(errs.StageInterpreter, "runtime-error", "something broke", errs.Position{}, "")
	assert.Equal(t, "Interpreter: something broke", e.Error())
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("underlying failure")
	e := errs.Wrap(errs.StageMacroExpander, "macro-body-error", "macro failed", errs.Position{}, "", cause)
	assert.Same(t, cause, errors.Unwrap(e))
}

func TestSnippetRendersCaretUnderColumn(t *testing.T) {
	source := "(+ 1 2)\n(bad-call)"
	e := errs.New(errs.StageInterpreter, "undefined-symbol", "undefined symbol: bad-call", errs.Position{Line: 2, Column: 2}, source)
	snippet := e.Snippet()
	assert.Contains(t, snippet, "--> 2:2")
	assert.Contains(t, snippet, "(bad-call)")
	assert.Contains(t, snippet, "^")
}

func TestSnippetEmptyWithoutSourceOrPosition(t *testing.T) {
	e := errs.New(errs.StageInterpreter, "k", "msg", errs.Position{}, "(+ 1 2)")
	assert.Empty(t, e.Snippet())

	e2 := errs.New(errs.StageInterpreter, "k", "msg", errs.Position{Line: 1, Column: 1}, "")
	assert.Empty(t, e2.Snippet())
}
