// Package parser implements the Parser stage of the slight pipeline
// (spec.md §4.2): Token|Error in, AST|Error out, one top-level form per
// yield, recursive-descent over a paren-balanced grammar.
package parser

import (
	"strconv"
	"strings"

	"github.com/stevan/slight/internal/ast"
	"github.com/stevan/slight/internal/errs"
	"github.com/stevan/slight/internal/lexer"
	"github.com/stevan/slight/internal/token"
)

// Item is one element of the parser's output sequence.
type Item struct {
	Node ast.Node
	Err  *errs.SlightError
}

func (it Item) IsError() bool { return it.Err != nil }

// TokenSource is anything that yields Token|Error items; *lexer.Lexer
// satisfies this directly.
type TokenSource interface {
	Next() (lexer.Item, bool)
}

// Parser is a pull-driven recursive-descent parser.
type Parser struct {
	src    TokenSource
	source string // best-effort source text for error snippets
}

// New constructs a Parser over a token source.
func New(src TokenSource) *Parser { return &Parser{src: src} }

// NewFromSource wires a Lexer over a single source string; the convenience
// path used by the REPL (which already buffers one balanced chunk) and by
// the CLI's file/-e modes.
func NewFromSource(src string) *Parser {
	return &Parser{src: lexer.New(lexer.Chunks(src)), source: src}
}

// Next parses and returns exactly one top-level form, per spec.md §4.2.
func (p *Parser) Next() (Item, bool) {
	t, eof, err := p.nextToken()
	if err != nil {
		return Item{Err: err}, true
	}
	if eof {
		return Item{}, false
	}
	if t.Kind == token.RPAREN {
		return Item{Err: p.errorAt(t.Pos, "unbalanced-parens", "unexpected )")}, true
	}
	node, perr := p.nodeFromLeadToken(t)
	if perr != nil {
		return Item{Err: perr}, true
	}
	return Item{Node: node}, true
}

// All drains the parser eagerly; used by tests and by the CLI, which reads
// the whole of a file or -e expression as one unit anyway.
func (p *Parser) All() []Item {
	var out []Item
	for {
		it, ok := p.Next()
		if !ok {
			break
		}
		out = append(out, it)
	}
	return out
}

// --- token plumbing -------------------------------------------------------

func (p *Parser) nextToken() (tok token.Token, eof bool, err *errs.SlightError) {
	it, ok := p.src.Next()
	if !ok {
		return token.Token{}, true, nil
	}
	if it.IsError() {
		return token.Token{}, false, it.Err
	}
	return it.Tok, false, nil
}

func (p *Parser) errorAt(pos token.Position, kind, msg string) *errs.SlightError {
	return errs.New(errs.StageParser, kind, msg, errs.Position{Line: pos.Line, Column: pos.Column}, p.source)
}

// --- generic form grammar --------------------------------------------------

// parseForm reads and dispatches exactly one form (atom, quote, or
// parenthesized form).
func (p *Parser) parseForm() (ast.Node, *errs.SlightError) {
	t, eof, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	if eof {
		return nil, p.errorAt(token.Position{}, "unexpected-eof", "unexpected end of input")
	}
	return p.nodeFromLeadToken(t)
}

// nodeFromLeadToken converts an already-consumed token into a Node,
// recursing into parenthesized/quoted structure as needed.
func (p *Parser) nodeFromLeadToken(t token.Token) (ast.Node, *errs.SlightError) {
	switch t.Kind {
	case token.LPAREN:
		return p.parseAfterLParen(t.Pos)
	case token.QUOTE:
		inner, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		return ast.NewQuote(inner, t.Pos), nil
	case token.NUMBER:
		clean := strings.ReplaceAll(t.Source, "_", "")
		v, convErr := strconv.ParseFloat(clean, 64)
		if convErr != nil {
			return nil, p.errorAt(t.Pos, "invalid-number", "invalid number literal: "+t.Source)
		}
		return ast.NewNumber(v, t.Pos), nil
	case token.STRING:
		return ast.NewString(t.Source, t.Pos), nil
	case token.BOOLEAN:
		return ast.NewBoolean(t.Source == "true", t.Pos), nil
	case token.SYMBOL:
		return ast.NewSymbol(t.Source, t.Pos), nil
	case token.RPAREN:
		return nil, p.errorAt(t.Pos, "unexpected-rparen", "unexpected )")
	default:
		return nil, p.errorAt(t.Pos, "unexpected-token", "unexpected token")
	}
}

// parseFormsUntilRParen reads an ordered sequence of forms up to (and
// consuming) the matching RPAREN. EOF before the close is an error
// (spec.md §4.2: "EOF at depth > 0 is an error").
func (p *Parser) parseFormsUntilRParen() ([]ast.Node, *errs.SlightError) {
	var forms []ast.Node
	for {
		t, eof, err := p.nextToken()
		if err != nil {
			return nil, err
		}
		if eof {
			return nil, p.errorAt(token.Position{}, "unbalanced-parens", "unexpected end of input: unclosed '('")
		}
		if t.Kind == token.RPAREN {
			return forms, nil
		}
		node, ferr := p.nodeFromLeadToken(t)
		if ferr != nil {
			return nil, ferr
		}
		forms = append(forms, node)
	}
}

// parseAfterLParen is called with '(' already consumed; openPos is that
// paren's position. It recognises the special forms of spec.md §4.2 by
// the head symbol, falling back to a generic Call.
func (p *Parser) parseAfterLParen(openPos token.Position) (ast.Node, *errs.SlightError) {
	t1, eof, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	if eof {
		return nil, p.errorAt(openPos, "unbalanced-parens", "unexpected end of input: unclosed '('")
	}
	if t1.Kind == token.RPAREN {
		return ast.NewCall(nil, openPos), nil
	}
	if t1.Kind == token.SYMBOL {
		switch t1.Source {
		case "def":
			return p.parseDef(openPos)
		case "defmacro":
			return p.parseDefMacro(openPos)
		case "set!":
			return p.parseSet(openPos)
		case "let":
			return p.parseLet(openPos)
		case "cond":
			return p.parseCond(openPos)
		case "quote":
			return p.parseQuoteForm(openPos)
		case "fun", "lambda":
			return p.parseLambda(openPos)
		case "try":
			return p.parseTry(openPos)
		case "throw":
			return p.parseThrow(openPos)
		case "begin":
			return p.parseBegin(openPos)
		}
	}

	first, ferr := p.nodeFromLeadToken(t1)
	if ferr != nil {
		return nil, ferr
	}
	rest, rerr := p.parseFormsUntilRParen()
	if rerr != nil {
		return nil, rerr
	}
	elements := append([]ast.Node{first}, rest...)
	return ast.NewCall(elements, openPos), nil
}

// parseParamsList expects "(sym…)", a flat list of parameter symbols.
func (p *Parser) parseParamsList(openPos token.Position, formName string) ([]string, *errs.SlightError) {
	t, eof, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	if eof || t.Kind != token.LPAREN {
		return nil, p.errorAt(openPos, "invalid-"+formName, "invalid "+formName+" syntax: expected a parameter list")
	}
	params := []string{}
	for {
		pt, peof, perr := p.nextToken()
		if perr != nil {
			return nil, perr
		}
		if peof {
			return nil, p.errorAt(openPos, "invalid-"+formName, "invalid "+formName+" syntax: unclosed parameter list")
		}
		if pt.Kind == token.RPAREN {
			return params, nil
		}
		if pt.Kind != token.SYMBOL {
			return nil, p.errorAt(pt.Pos, "invalid-"+formName, "each parameter must be a symbol")
		}
		params = append(params, pt.Source)
	}
}

// --- special forms ---------------------------------------------------------

func (p *Parser) parseDef(openPos token.Position) (ast.Node, *errs.SlightError) {
	nameTok, eof, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	if eof || nameTok.Kind != token.SYMBOL {
		return nil, p.errorAt(openPos, "invalid-def", "invalid def syntax: expected a name")
	}
	rest, rerr := p.parseFormsUntilRParen()
	if rerr != nil {
		return nil, rerr
	}
	switch len(rest) {
	case 0:
		return nil, p.errorAt(openPos, "invalid-def", "invalid def syntax: expected a value or body")
	case 1:
		// spec.md §4.2: a single following value (with no further body)
		// is always a variable definition, even if that value happens to
		// look like a parameter list.
		return ast.NewDef(nameTok.Source, nil, rest[0], openPos), nil
	default:
		paramsCall, ok := rest[0].(*ast.Call)
		if !ok {
			return nil, p.errorAt(openPos, "invalid-def", "invalid def syntax: expected a parameter list")
		}
		params := make([]string, 0, len(paramsCall.Elements))
		for _, el := range paramsCall.Elements {
			sym, ok := el.(*ast.Symbol)
			if !ok {
				return nil, p.errorAt(openPos, "invalid-def", "invalid def syntax: each parameter must be a symbol")
			}
			params = append(params, sym.Name)
		}
		var body ast.Node
		if len(rest) == 2 {
			body = rest[1]
		} else {
			body = ast.NewBegin(rest[1:], openPos)
		}
		return ast.NewDef(nameTok.Source, params, body, openPos), nil
	}
}

func (p *Parser) parseDefMacro(openPos token.Position) (ast.Node, *errs.SlightError) {
	nameTok, eof, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	if eof || nameTok.Kind != token.SYMBOL {
		return nil, p.errorAt(openPos, "invalid-defmacro", "invalid defmacro syntax: expected a name")
	}
	params, perr := p.parseParamsList(openPos, "defmacro")
	if perr != nil {
		return nil, perr
	}
	rest, rerr := p.parseFormsUntilRParen()
	if rerr != nil {
		return nil, rerr
	}
	if len(rest) != 1 {
		return nil, p.errorAt(openPos, "invalid-defmacro", "invalid defmacro syntax: expected exactly one body form")
	}
	return ast.NewDefMacro(nameTok.Source, params, rest[0], openPos), nil
}

func (p *Parser) parseSet(openPos token.Position) (ast.Node, *errs.SlightError) {
	nameTok, eof, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	if eof || nameTok.Kind != token.SYMBOL {
		return nil, p.errorAt(openPos, "invalid-set!", "invalid set! syntax: expected a name")
	}
	rest, rerr := p.parseFormsUntilRParen()
	if rerr != nil {
		return nil, rerr
	}
	if len(rest) != 1 {
		return nil, p.errorAt(openPos, "invalid-set!", "invalid set! syntax: expected (set! name value)")
	}
	return ast.NewSet(nameTok.Source, rest[0], openPos), nil
}

func (p *Parser) parseLet(openPos token.Position) (ast.Node, *errs.SlightError) {
	bt, eof, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	if eof || bt.Kind != token.LPAREN {
		return nil, p.errorAt(openPos, "invalid-let", "invalid let syntax: expected a bindings list")
	}
	var bindings []ast.Binding
	for {
		t, eof2, err2 := p.nextToken()
		if err2 != nil {
			return nil, err2
		}
		if eof2 {
			return nil, p.errorAt(openPos, "invalid-let", "invalid let syntax: unclosed bindings list")
		}
		if t.Kind == token.RPAREN {
			break
		}
		if t.Kind != token.LPAREN {
			return nil, p.errorAt(t.Pos, "invalid-let", "each binding must be (name value)")
		}
		nameTok, eof3, err3 := p.nextToken()
		if err3 != nil {
			return nil, err3
		}
		if eof3 || nameTok.Kind != token.SYMBOL {
			return nil, p.errorAt(t.Pos, "invalid-let", "each binding must be (name value)")
		}
		valForms, verr := p.parseFormsUntilRParen()
		if verr != nil {
			return nil, verr
		}
		if len(valForms) != 1 {
			return nil, p.errorAt(t.Pos, "invalid-let", "each binding must be (name value)")
		}
		bindings = append(bindings, ast.Binding{Name: nameTok.Source, Value: valForms[0]})
	}
	body, berr := p.parseFormsUntilRParen()
	if berr != nil {
		return nil, berr
	}
	var bodyNode ast.Node
	switch len(body) {
	case 0:
		return nil, p.errorAt(openPos, "invalid-let", "invalid let syntax: expected a body")
	case 1:
		bodyNode = body[0]
	default:
		bodyNode = ast.NewBegin(body, openPos)
	}
	return ast.NewLet(bindings, bodyNode, openPos), nil
}

func (p *Parser) parseCond(openPos token.Position) (ast.Node, *errs.SlightError) {
	clauseForms, err := p.parseFormsUntilRParen()
	if err != nil {
		return nil, err
	}
	if len(clauseForms) == 0 {
		return nil, p.errorAt(openPos, "invalid-cond", "invalid cond syntax: expected at least one clause")
	}
	var clauses []ast.CondClause
	var elseClause ast.Node
	for i, cf := range clauseForms {
		call, ok := cf.(*ast.Call)
		if !ok || len(call.Elements) != 2 {
			return nil, p.errorAt(cf.Position(), "invalid-cond", "each cond clause must be (test result)")
		}
		if sym, ok := call.Elements[0].(*ast.Symbol); ok && sym.Name == "else" && i == len(clauseForms)-1 {
			elseClause = call.Elements[1]
			continue
		}
		clauses = append(clauses, ast.CondClause{Test: call.Elements[0], Result: call.Elements[1]})
	}
	return ast.NewCond(clauses, elseClause, openPos), nil
}

func (p *Parser) parseQuoteForm(openPos token.Position) (ast.Node, *errs.SlightError) {
	forms, err := p.parseFormsUntilRParen()
	if err != nil {
		return nil, err
	}
	if len(forms) != 1 {
		return nil, p.errorAt(openPos, "invalid-quote", "invalid quote syntax: expected (quote expr)")
	}
	return ast.NewQuote(forms[0], openPos), nil
}

func (p *Parser) parseLambda(openPos token.Position) (ast.Node, *errs.SlightError) {
	params, perr := p.parseParamsList(openPos, "fun")
	if perr != nil {
		return nil, perr
	}
	body, berr := p.parseFormsUntilRParen()
	if berr != nil {
		return nil, berr
	}
	if len(body) == 0 {
		return nil, p.errorAt(openPos, "invalid-fun", "invalid fun syntax: expected a body")
	}
	var bodyNode ast.Node
	if len(body) == 1 {
		bodyNode = body[0]
	} else {
		bodyNode = ast.NewBegin(body, openPos)
	}
	return ast.NewLambda(params, bodyNode, openPos), nil
}

func (p *Parser) parseTry(openPos token.Position) (ast.Node, *errs.SlightError) {
	forms, err := p.parseFormsUntilRParen()
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return nil, p.errorAt(openPos, "invalid-try", "invalid try syntax: expected a catch clause")
	}
	last := forms[len(forms)-1]
	catchCall, ok := last.(*ast.Call)
	if !ok || len(catchCall.Elements) < 2 {
		return nil, p.errorAt(openPos, "invalid-try", "invalid try syntax: expected a (catch var body…) clause")
	}
	headSym, ok := catchCall.Elements[0].(*ast.Symbol)
	if !ok || headSym.Name != "catch" {
		return nil, p.errorAt(openPos, "invalid-try", "invalid try syntax: expected a (catch var body…) clause")
	}
	varSym, ok := catchCall.Elements[1].(*ast.Symbol)
	if !ok {
		return nil, p.errorAt(openPos, "invalid-try", "invalid try syntax: catch variable must be a symbol")
	}
	tryBody := forms[:len(forms)-1]
	if len(tryBody) == 0 {
		return nil, p.errorAt(openPos, "invalid-try", "invalid try syntax: expected a body")
	}
	catchBody := catchCall.Elements[2:]
	if len(catchBody) == 0 {
		return nil, p.errorAt(openPos, "invalid-try", "invalid try syntax: expected a catch body")
	}
	return ast.NewTry(tryBody, varSym.Name, catchBody, openPos), nil
}

func (p *Parser) parseThrow(openPos token.Position) (ast.Node, *errs.SlightError) {
	forms, err := p.parseFormsUntilRParen()
	if err != nil {
		return nil, err
	}
	if len(forms) != 1 {
		return nil, p.errorAt(openPos, "invalid-throw", "invalid throw syntax: expected (throw value)")
	}
	return ast.NewThrow(forms[0], openPos), nil
}

func (p *Parser) parseBegin(openPos token.Position) (ast.Node, *errs.SlightError) {
	forms, err := p.parseFormsUntilRParen()
	if err != nil {
		return nil, err
	}
	return ast.NewBegin(forms, openPos), nil
}
