// Package lexer turns SELECT-dialect source text into a stream of tokens.
package lexer

import (
	"unicode/utf8"

	"github.com/juju/errors"

	"github.com/selectql/selectql/token"
)

// LexError reports an unrecognizable byte at a source offset.
type LexError struct {
	Pos     token.Pos
	Message string
}

func (e *LexError) Error() string {
	return errors.Annotatef(errors.New(e.Message), "line %d, column %d", e.Pos.Line, e.Pos.Column).Error()
}

// Lexer scans a source string into token.Items on demand.
type Lexer struct {
	input     string
	pos       int
	line      int
	lineStart int

	peeked    *token.Item
	peekedErr error
}

// New constructs a Lexer scanning input from the start.
func New(input string) *Lexer {
	l := &Lexer{}
	l.Reset(input)
	return l
}

// Reset rewinds l to scan a new input from the start.
func (l *Lexer) Reset(input string) {
	l.input = input
	l.pos = 0
	l.line = 1
	l.lineStart = 0
	l.peeked = nil
	l.peekedErr = nil
}

func (l *Lexer) curPos() token.Pos {
	return token.Pos{Offset: l.pos, Line: l.line, Column: l.pos - l.lineStart + 1}
}

// Next consumes and returns the next token.
func (l *Lexer) Next() (token.Item, error) {
	if l.peeked != nil {
		it := *l.peeked
		l.peeked = nil
		err := l.peekedErr
		l.peekedErr = nil
		return it, err
	}
	return l.scan()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (token.Item, error) {
	if l.peeked == nil {
		it, err := l.scan()
		l.peeked = &it
		l.peekedErr = err
	}
	return *l.peeked, l.peekedErr
}

func (l *Lexer) advance() byte {
	c := l.input[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.lineStart = l.pos
	}
	return c
}

func (l *Lexer) byteAt(off int) byte {
	p := l.pos + off
	if p >= len(l.input) {
		return 0
	}
	return l.input[p]
}

func (l *Lexer) skipInsignificant() error {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f':
			l.advance()
		case c == '-' && l.byteAt(1) == '-':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		case c == '/' && l.byteAt(1) == '*':
			l.advance()
			l.advance()
			for {
				if l.pos >= len(l.input) {
					return &LexError{Pos: l.curPos(), Message: "unterminated block comment"}
				}
				if l.input[l.pos] == '*' && l.byteAt(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *Lexer) scan() (token.Item, error) {
	if err := l.skipInsignificant(); err != nil {
		return token.Item{}, err
	}
	if l.pos >= len(l.input) {
		return token.Item{Type: token.EOF, Pos: l.curPos()}, nil
	}

	pos := l.curPos()
	c := l.input[l.pos]

	switch {
	case isIdentStart(c):
		return l.scanIdent(pos)
	case isDigit(c):
		return l.scanNumber(pos)
	case c == '\'' || c == '"' || c == '`':
		return l.scanQuoted(pos, c)
	}

	switch c {
	case '(':
		l.advance()
		return token.Item{Type: token.LPAREN, Value: "(", Pos: pos}, nil
	case ')':
		l.advance()
		return token.Item{Type: token.RPAREN, Value: ")", Pos: pos}, nil
	case ',':
		l.advance()
		return token.Item{Type: token.COMMA, Value: ",", Pos: pos}, nil
	case ';':
		l.advance()
		return token.Item{Type: token.SEMICOLON, Value: ";", Pos: pos}, nil
	case '.':
		if isDigit(l.byteAt(1)) {
			return l.scanNumber(pos)
		}
		l.advance()
		return token.Item{Type: token.DOT, Value: ".", Pos: pos}, nil
	case '+':
		l.advance()
		return token.Item{Type: token.PLUS, Value: "+", Pos: pos}, nil
	case '-':
		l.advance()
		return token.Item{Type: token.MINUS, Value: "-", Pos: pos}, nil
	case '*':
		l.advance()
		return token.Item{Type: token.STAR, Value: "*", Pos: pos}, nil
	case '/':
		l.advance()
		if l.byteAt(0) == '/' {
			l.advance()
			return token.Item{Type: token.IDIV, Value: "//", Pos: pos}, nil
		}
		return token.Item{Type: token.SLASH, Value: "/", Pos: pos}, nil
	case '%':
		l.advance()
		return token.Item{Type: token.PERCENT, Value: "%", Pos: pos}, nil
	case '=':
		l.advance()
		return token.Item{Type: token.EQ, Value: "=", Pos: pos}, nil
	case '<':
		l.advance()
		switch l.byteAt(0) {
		case '=':
			l.advance()
			return token.Item{Type: token.LEQ, Value: "<=", Pos: pos}, nil
		case '>':
			l.advance()
			return token.Item{Type: token.NEQ, Value: "<>", Pos: pos}, nil
		}
		return token.Item{Type: token.LT, Value: "<", Pos: pos}, nil
	case '>':
		l.advance()
		if l.byteAt(0) == '=' {
			l.advance()
			return token.Item{Type: token.GEQ, Value: ">=", Pos: pos}, nil
		}
		return token.Item{Type: token.GT, Value: ">", Pos: pos}, nil
	case '!':
		if l.byteAt(1) == '=' {
			l.advance()
			l.advance()
			return token.Item{Type: token.NEQ, Value: "!=", Pos: pos}, nil
		}
		return token.Item{}, &LexError{Pos: pos, Message: "unexpected character '!'"}
	case '|':
		if l.byteAt(1) == '|' {
			l.advance()
			l.advance()
			return token.Item{Type: token.CONCAT, Value: "||", Pos: pos}, nil
		}
		return token.Item{}, &LexError{Pos: pos, Message: "unexpected character '|'"}
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	_ = r
	l.pos += size
	return token.Item{}, &LexError{Pos: pos, Message: "unrecognized character"}
}

func (l *Lexer) scanIdent(pos token.Pos) (token.Item, error) {
	start := l.pos
	l.advance()
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.advance()
	}
	text := l.input[start:l.pos]
	return token.Item{Type: token.LookupIdent(text), Value: text, Pos: pos}, nil
}

func (l *Lexer) scanNumber(pos token.Pos) (token.Item, error) {
	start := l.pos
	isFloat := false

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance()
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' && isDigit(l.byteAt(1)) {
		isFloat = true
		l.advance()
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance()
		}
	} else if l.pos < len(l.input) && l.input[l.pos] == '.' && !isIdentStart(l.byteAt(1)) && l.byteAt(1) != '.' {
		// trailing dot with no fractional digits, e.g. "1." still a float
		isFloat = true
		l.advance()
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		save := l.pos
		l.advance()
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.advance()
		}
		if l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			isFloat = true
			for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
				l.advance()
			}
		} else {
			l.pos = save
		}
	}

	text := l.input[start:l.pos]
	typ := token.INT
	if isFloat {
		typ = token.FLOAT
	}
	return token.Item{Type: typ, Value: text, Pos: pos}, nil
}

// scanQuoted scans a delimited literal. The returned Value includes the
// surrounding delimiters; callers that need the inner text strip them.
func (l *Lexer) scanQuoted(pos token.Pos, delim byte) (token.Item, error) {
	start := l.pos
	l.advance() // opening delimiter
	for {
		if l.pos >= len(l.input) {
			return token.Item{}, &LexError{Pos: pos, Message: "unterminated quoted literal"}
		}
		c := l.input[l.pos]
		if c == '\\' {
			l.advance()
			if l.pos < len(l.input) {
				l.advance()
			}
			continue
		}
		if c == delim {
			if l.byteAt(1) == delim {
				l.advance()
				l.advance()
				continue
			}
			l.advance() // closing delimiter
			break
		}
		l.advance()
	}
	text := l.input[start:l.pos]
	return token.Item{Type: token.STRING, Value: text, Pos: pos}, nil
}
