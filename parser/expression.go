package parser

import (
	"strconv"
	"strings"

	"github.com/selectql/selectql/ast"
	"github.com/selectql/selectql/token"
)

// Precedence levels, pinned to spec: IN/NOT IN bind loosest of the
// operators (7), then OR (8), AND (9), comparisons (10), +/- (11), */ (12).
// Unary +/- sub-parse at 300, effectively binding tighter than anything
// else in the table.
const (
	precLowest     = 0
	precIn         = 7
	precOr         = 8
	precAnd        = 9
	precComparison = 10
	precAddSub     = 11
	precMulDiv     = 12
	precUnary      = 300
)

func binaryPrecedence(t token.Token) (int, ast.BinaryOperator, bool) {
	switch t {
	case token.OR:
		return precOr, ast.OpOr, true
	case token.AND:
		return precAnd, ast.OpAnd, true
	case token.EQ:
		return precComparison, ast.OpEq, true
	case token.NEQ:
		return precComparison, ast.OpNeq, true
	case token.LT:
		return precComparison, ast.OpLt, true
	case token.GT:
		return precComparison, ast.OpGt, true
	case token.LEQ:
		return precComparison, ast.OpLeq, true
	case token.GEQ:
		return precComparison, ast.OpGeq, true
	case token.PLUS:
		return precAddSub, ast.OpAdd, true
	case token.MINUS:
		return precAddSub, ast.OpSub, true
	case token.STAR:
		return precMulDiv, ast.OpMul, true
	case token.SLASH:
		return precMulDiv, ast.OpDiv, true
	}
	return 0, 0, false
}

// parseExpr is the Pratt/precedence-climbing expression parser: consume a
// prefix expression, then loop consuming infix/postfix operators whose
// precedence is at least minPrec, recursing at prec+1 so same-precedence
// operators stay left-associative.
func (p *Parser) parseExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parsePrefixExpr()
	if err != nil {
		return nil, err
	}

	for {
		// Postfix IN / NOT IN, precedence 7.
		if precIn >= minPrec {
			if p.curIs(token.IN) {
				if err := p.advance(); err != nil {
					return nil, err
				}
				left, err = p.parseInTail(left, false)
				if err != nil {
					return nil, err
				}
				continue
			}
			if p.curIs(token.NOT) && p.peekIs(token.IN) {
				if err := p.advance(); err != nil { // NOT
					return nil, err
				}
				if err := p.advance(); err != nil { // IN
					return nil, err
				}
				left, err = p.parseInTail(left, true)
				if err != nil {
					return nil, err
				}
				continue
			}
		}

		prec, op, ok := binaryPrecedence(p.cur.Type)
		if !ok || prec < minPrec {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: op, Right: right}
	}

	return left, nil
}

// parseInTail parses the right-hand side of IN/NOT IN once the operator
// has been consumed: try "(SELECT ...)" first, fall back to a
// comma-separated expression list.
func (p *Parser) parseInTail(left ast.Expr, not bool) (ast.Expr, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if p.curIs(token.SELECT) || p.curIs(token.WITH) {
		stmt, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.InSubquery{Not: not, Expr: left, Subquery: stmt}, nil
	}
	list, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.InList{Not: not, Expr: left, List: list}, nil
}

func (p *Parser) parsePrefixExpr() (ast.Expr, error) {
	switch p.cur.Type {
	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case token.INT:
		v, err := strconv.ParseUint(p.cur.Value, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", p.cur.Value)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewIntegerLiteral(v), nil

	case token.FLOAT:
		v, err := strconv.ParseFloat(p.cur.Value, 64)
		if err != nil {
			return nil, p.errorf("invalid float literal %q", p.cur.Value)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewFloatLiteral(v), nil

	case token.STRING:
		s := unquote(p.cur.Value)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewStringLiteral(s), nil

	case token.IDENT:
		return p.parseIdentOrFunc()

	case token.PLUS:
		if err := p.advance(); err != nil {
			return nil, err
		}
		sub, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryPlus, Expr: sub}, nil

	case token.MINUS:
		if err := p.advance(); err != nil {
			return nil, err
		}
		sub, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryMinus, Expr: sub}, nil

	case token.NOT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.curIs(token.EXISTS) {
			return nil, p.errorf("NOT must be followed by EXISTS, got %s %q", p.cur.Type, p.cur.Value)
		}
		return p.parseExistsExpr(true)

	case token.EXISTS:
		return p.parseExistsExpr(false)

	case token.SELECT:
		stmt, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		return &ast.Subquery{Query: stmt}, nil
	}

	return nil, p.errorf("unexpected token %s %q in expression", p.cur.Type, p.cur.Value)
}

func (p *Parser) parseExistsExpr(not bool) (ast.Expr, error) {
	if err := p.expect(token.EXISTS); err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	stmt, err := p.parseSelectStatement()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Exists{Not: not, Subquery: stmt}, nil
}

// parseIdentOrFunc resolves the Ident-vs-function-call ambiguity by
// requiring '(' immediately after the identifier for a function call;
// otherwise collects a 1-to-3-dotted column reference.
func (p *Parser) parseIdentOrFunc() (ast.Expr, error) {
	name := p.cur.Value
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.curIs(token.LPAREN) {
		return p.parseFunctionCall(name)
	}

	parts := []string{name}
	for p.curIs(token.DOT) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.curIs(token.IDENT) {
			return nil, p.errorf("expected identifier after '.', got %s %q", p.cur.Type, p.cur.Value)
		}
		parts = append(parts, p.cur.Value)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if len(parts) > 3 {
			return nil, p.errorf("column reference has too many parts")
		}
	}
	return buildColumnRef(parts), nil
}

func buildColumnRef(parts []string) *ast.ColumnRef {
	ref := &ast.ColumnRef{Column: parts[len(parts)-1]}
	if len(parts) >= 2 {
		t := parts[len(parts)-2]
		ref.Table = &t
	}
	if len(parts) >= 3 {
		d := parts[len(parts)-3]
		ref.Database = &d
	}
	return ref
}

func (p *Parser) parseFunctionCall(name string) (ast.Expr, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	fn := &ast.Function{Name: name}
	if p.curIs(token.DISTINCT) {
		fn.Distinct = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if !p.curIs(token.RPAREN) {
		for {
			if p.curIs(token.STAR) {
				fn.Args = append(fn.Args, &ast.Wildcard{})
				if err := p.advance(); err != nil {
					return nil, err
				}
			} else {
				e, err := p.parseExpr(precLowest)
				if err != nil {
					return nil, err
				}
				fn.Args = append(fn.Args, &ast.ExprArg{Expr: e})
			}
			if p.curIs(token.COMMA) {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if p.curIs(token.OVER) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		win, err := p.parseWindow()
		if err != nil {
			return nil, err
		}
		fn.Over = win
	}
	return fn, nil
}

func (p *Parser) parseWindow() (ast.Window, error) {
	if p.curIs(token.IDENT) {
		name := p.cur.Value
		return &ast.WindowRef{Name: name}, p.advance()
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	spec, err := p.parseWindowSpecInner()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (p *Parser) parseWindowSpecInner() (ast.WindowSpec, error) {
	var spec ast.WindowSpec
	if p.curIs(token.PARTITION) {
		if err := p.advance(); err != nil {
			return spec, err
		}
		if err := p.expect(token.BY); err != nil {
			return spec, err
		}
		list, err := p.parseExprList()
		if err != nil {
			return spec, err
		}
		spec.PartitionBy = list
	}
	if p.curIs(token.ORDER) {
		list, err := p.parseOrderByList()
		if err != nil {
			return spec, err
		}
		spec.OrderBy = list
	}
	return spec, nil
}

func (p *Parser) parseExprList() ([]ast.Expr, error) {
	var list []ast.Expr
	for {
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if p.curIs(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return list, nil
}

// parseOrderByList parses "ORDER BY order_by_expr (',' order_by_expr)*".
func (p *Parser) parseOrderByList() ([]ast.OrderByExpr, error) {
	if err := p.expect(token.ORDER); err != nil {
		return nil, err
	}
	if err := p.expect(token.BY); err != nil {
		return nil, err
	}
	var list []ast.OrderByExpr
	for {
		ob, err := p.parseOrderByExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, ob)
		if p.curIs(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return list, nil
}

// parseOrderByExpr parses the full expression first and only then checks
// for a trailing ASC/DESC keyword. Since ASC/DESC are reserved keyword
// tokens (never lexed as Ident), parseExpr can never accidentally swallow
// one as a bare identifier, so this order is safe either way; it is
// written ASC/DESC-aware-after-expr to match the resolution spec.md picks
// for the "bare expr first" ambiguity some combinator implementations hit.
func (p *Parser) parseOrderByExpr() (ast.OrderByExpr, error) {
	e, err := p.parseExpr(precLowest)
	if err != nil {
		return ast.OrderByExpr{}, err
	}
	dir := ast.Unspecified
	switch {
	case p.curIs(token.ASC):
		dir = ast.Asc
		if err := p.advance(); err != nil {
			return ast.OrderByExpr{}, err
		}
	case p.curIs(token.DESC):
		dir = ast.Desc
		if err := p.advance(); err != nil {
			return ast.OrderByExpr{}, err
		}
	}
	return ast.OrderByExpr{Expr: e, Dir: dir}, nil
}

// unquote strips the lexer's preserved delimiter bytes and resolves the two
// escape forms spec.md allows: a backslash escape and a doubled delimiter.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	delim := raw[0]
	inner := raw[1 : len(raw)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			b.WriteByte(inner[i+1])
			i++
			continue
		}
		if c == delim && i+1 < len(inner) && inner[i+1] == delim {
			b.WriteByte(delim)
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
