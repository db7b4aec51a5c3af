// Package parser converts a token stream into a SelectStatement tree. The
// expression grammar is handled by a Pratt (precedence-climbing) parser in
// expression.go; the table-reference/join grammar by a second, smaller
// Pratt parser in select.go; everything else (SELECT/WHERE/GROUP BY/...)
// is straightforward sequential combinators.
package parser

import (
	"fmt"

	"github.com/juju/errors"

	"github.com/selectql/selectql/ast"
	"github.com/selectql/selectql/lexer"
	"github.com/selectql/selectql/token"
)

// ParseError is a single structural parse failure: an unexpected token
// kind, a missing delimiter, an operator without an operand, a NOT not
// followed by EXISTS/IN, and so on. There is no error accumulation — the
// first ParseError wins and aborts the parse.
type ParseError struct {
	Pos     token.Pos
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Parser holds the scanning state for one parse call.
type Parser struct {
	lex *lexer.Lexer
	cur token.Item
}

// New constructs a Parser scanning input from the start.
func New(input string) *Parser {
	return &Parser{lex: lexer.New(input)}
}

func (p *Parser) advance() error {
	it, err := p.lex.Next()
	if err != nil {
		return errors.Trace(err)
	}
	p.cur = it
	return nil
}

func (p *Parser) curIs(t token.Token) bool { return p.cur.Type == t }

func (p *Parser) peek() (token.Item, error) {
	it, err := p.lex.Peek()
	if err != nil {
		return token.Item{}, errors.Trace(err)
	}
	return it, nil
}

func (p *Parser) peekIs(t token.Token) bool {
	it, err := p.peek()
	return err == nil && it.Type == t
}

// expect requires the current token to be t, consuming it; otherwise it
// returns a ParseError describing the mismatch.
func (p *Parser) expect(t token.Token) error {
	if !p.curIs(t) {
		return p.errorf("expected %s, got %s %q", t, p.cur.Type, p.cur.Value)
	}
	return p.advance()
}

func (p *Parser) errorf(format string, args ...any) error {
	return errors.Trace(&ParseError{Pos: p.cur.Pos, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) identValue() (string, error) {
	if !p.curIs(token.IDENT) {
		return "", p.errorf("expected identifier, got %s %q", p.cur.Type, p.cur.Value)
	}
	v := p.cur.Value
	return v, p.advance()
}

// ParseSelectStatement parses a single statement from input, requiring the
// whole token stream (aside from one optional trailing ';') to be consumed.
func ParseSelectStatement(input string) (*ast.SelectStatement, error) {
	p := New(input)
	if err := p.advance(); err != nil {
		return nil, errors.Trace(err)
	}

	stmt, err := p.parseSelectStatement()
	if err != nil {
		return nil, errors.Trace(err)
	}

	if p.curIs(token.SEMICOLON) {
		if err := p.advance(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if !p.curIs(token.EOF) {
		return nil, p.errorf("unexpected trailing token %s %q", p.cur.Type, p.cur.Value)
	}

	return stmt, nil
}
