package parser

import (
	"github.com/selectql/selectql/ast"
	"github.com/selectql/selectql/token"
)

// parseTableRef is the table-reference Pratt parser: a prefix table-primary
// followed by a left-associative loop over join operators, all at a single
// precedence level.
func (p *Parser) parseTableRef() (ast.TableRef, error) {
	left, err := p.parseTablePrimary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok, err := p.checkJoinOp()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		right, err := p.parseTablePrimary()
		if err != nil {
			return nil, err
		}
		var cond ast.JoinCondition = &ast.NoCondition{}
		if p.curIs(token.ON) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			e, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			cond = &ast.OnCondition{Expr: e}
		}
		left = &ast.Join{Op: op, Condition: cond, Left: left, Right: right}
	}

	return left, nil
}

func (p *Parser) parseTablePrimary() (ast.TableRef, error) {
	switch p.cur.Type {
	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return p.finishParenTableRef(inner)

	case token.SELECT, token.WITH:
		// A bare leading subquery at a FROM position takes no alias here;
		// an alias is only reachable through the '(' branch above.
		stmt, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		return &ast.SubqueryTableRef{Query: stmt}, nil

	case token.IDENT:
		name, err := p.parseTableName()
		if err != nil {
			return nil, err
		}
		return p.tryAttachAlias(&ast.BaseTable{Name: name})
	}

	return nil, p.errorf("expected table name, subquery or '(' in FROM, got %s %q", p.cur.Type, p.cur.Value)
}

// finishParenTableRef consumes the optional alias that may follow a
// parenthesized table-ref. A join may not be aliased; a base table or
// subquery takes the alias directly rather than being wrapped.
func (p *Parser) finishParenTableRef(inner ast.TableRef) (ast.TableRef, error) {
	has, alias, err := p.tryParseAlias()
	if err != nil {
		return nil, err
	}
	if !has {
		return &ast.ParenTableRef{Inner: inner}, nil
	}
	switch t := inner.(type) {
	case *ast.BaseTable:
		t.Alias = &alias
		return t, nil
	case *ast.SubqueryTableRef:
		t.Alias = &alias
		return t, nil
	default:
		return nil, p.errorf("cannot alias a parenthesized join")
	}
}

// tryParseAlias consumes "[AS] Ident" if present. Reserved keywords are
// never lexed as Ident, so a bare Ident following a table-ref is
// unambiguous and needs no further lookahead.
func (p *Parser) tryParseAlias() (bool, string, error) {
	if p.curIs(token.AS) {
		if err := p.advance(); err != nil {
			return false, "", err
		}
		name, err := p.identValue()
		if err != nil {
			return false, "", err
		}
		return true, name, nil
	}
	if p.curIs(token.IDENT) {
		name := p.cur.Value
		if err := p.advance(); err != nil {
			return false, "", err
		}
		return true, name, nil
	}
	return false, "", nil
}

func (p *Parser) tryAttachAlias(ref *ast.BaseTable) (ast.TableRef, error) {
	has, alias, err := p.tryParseAlias()
	if err != nil {
		return nil, err
	}
	if has {
		ref.Alias = &alias
	}
	return ref, nil
}

func (p *Parser) parseTableName() (ast.TableName, error) {
	first, err := p.identValue()
	if err != nil {
		return ast.TableName{}, err
	}
	if p.curIs(token.DOT) {
		if err := p.advance(); err != nil {
			return ast.TableName{}, err
		}
		second, err := p.identValue()
		if err != nil {
			return ast.TableName{}, err
		}
		return ast.TableName{Database: &first, Table: second}, nil
	}
	return ast.TableName{Table: first}, nil
}

// checkJoinOp consumes a join operator's keyword sequence (if the current
// token starts one) and reports which JoinOp it names.
func (p *Parser) checkJoinOp() (ast.JoinOp, bool, error) {
	switch p.cur.Type {
	case token.JOIN:
		if err := p.advance(); err != nil {
			return 0, false, err
		}
		return ast.Inner, true, nil

	case token.INNER:
		if err := p.advance(); err != nil {
			return 0, false, err
		}
		return ast.Inner, true, p.expect(token.JOIN)

	case token.LEFT:
		if err := p.advance(); err != nil {
			return 0, false, err
		}
		if p.curIs(token.OUTER) {
			if err := p.advance(); err != nil {
				return 0, false, err
			}
		}
		return ast.LeftOuter, true, p.expect(token.JOIN)

	case token.RIGHT:
		if err := p.advance(); err != nil {
			return 0, false, err
		}
		if p.curIs(token.OUTER) {
			if err := p.advance(); err != nil {
				return 0, false, err
			}
		}
		return ast.RightOuter, true, p.expect(token.JOIN)

	case token.FULL:
		if err := p.advance(); err != nil {
			return 0, false, err
		}
		if p.curIs(token.OUTER) {
			if err := p.advance(); err != nil {
				return 0, false, err
			}
		}
		return ast.FullOuter, true, p.expect(token.JOIN)

	case token.CROSS:
		if err := p.advance(); err != nil {
			return 0, false, err
		}
		return ast.CrossJoin, true, p.expect(token.JOIN)
	}
	return 0, false, nil
}

func (p *Parser) parseSelectItemList() ([]ast.SelectItem, error) {
	var items []ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.curIs(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return items, nil
}

// parseSelectItem handles the three select_item shapes. Unlike table-ref
// and CTE aliases, this grammar has no bare-alias-without-AS form: an alias
// is only recognized after an explicit AS.
func (p *Parser) parseSelectItem() (ast.SelectItem, error) {
	if p.curIs(token.STAR) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var opts ast.WildcardOptions
		if p.curIs(token.EXCLUDE) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			list, err := p.parseIdentListParen()
			if err != nil {
				return nil, err
			}
			opts.Exclude = list
		}
		if p.curIs(token.EXCEPT) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			list, err := p.parseIdentListParen()
			if err != nil {
				return nil, err
			}
			opts.Except = list
		}
		return &ast.WildcardItem{Options: opts}, nil
	}

	e, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.curIs(token.AS) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		alias, err := p.identValue()
		if err != nil {
			return nil, err
		}
		return &ast.ExprWithAlias{Expr: e, Alias: alias}, nil
	}
	return &ast.UnnamedExpr{Expr: e}, nil
}

func (p *Parser) parseIdentListParen() ([]string, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	list, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseIdentList() ([]string, error) {
	var list []string
	for {
		name, err := p.identValue()
		if err != nil {
			return nil, err
		}
		list = append(list, name)
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

func (p *Parser) parseNamedWindowDefs() ([]ast.NamedWindowDef, error) {
	if err := p.expect(token.WINDOW); err != nil {
		return nil, err
	}
	var defs []ast.NamedWindowDef
	for {
		name, err := p.identValue()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.AS); err != nil {
			return nil, err
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
		defs = append(defs, ast.NamedWindowDef{Name: name, Spec: spec})
		if p.curIs(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return defs, nil
}

func (p *Parser) parseWith() (*ast.With, error) {
	if err := p.expect(token.WITH); err != nil {
		return nil, err
	}
	with := &ast.With{}
	if p.curIs(token.RECURSIVE) {
		with.Recursive = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	for {
		cte, err := p.parseCte()
		if err != nil {
			return nil, err
		}
		with.CTEs = append(with.CTEs, cte)
		if p.curIs(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return with, nil
}

func (p *Parser) parseCte() (ast.Cte, error) {
	alias, err := p.parseTableAlias()
	if err != nil {
		return ast.Cte{}, err
	}
	if err := p.expect(token.AS); err != nil {
		return ast.Cte{}, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return ast.Cte{}, err
	}
	stmt, err := p.parseSelectStatement()
	if err != nil {
		return ast.Cte{}, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return ast.Cte{}, err
	}
	return ast.Cte{Alias: alias, Query: stmt}, nil
}

func (p *Parser) parseTableAlias() (ast.TableAlias, error) {
	name, err := p.identValue()
	if err != nil {
		return ast.TableAlias{}, err
	}
	ta := ast.TableAlias{Name: name}
	if p.curIs(token.LPAREN) {
		list, err := p.parseIdentListParen()
		if err != nil {
			return ast.TableAlias{}, err
		}
		ta.Columns = list
	}
	return ta, nil
}

// parseSelectBody parses everything of select_set_expr except the leading
// WITH and the trailing ORDER BY / LIMIT / OFFSET, which belong to the
// enclosing SelectStatement.
func (p *Parser) parseSelectBody() (*ast.Select, error) {
	if err := p.expect(token.SELECT); err != nil {
		return nil, err
	}
	sel := &ast.Select{}
	if p.curIs(token.DISTINCT) {
		sel.Distinct = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	items, err := p.parseSelectItemList()
	if err != nil {
		return nil, err
	}
	sel.Projection = items

	if p.curIs(token.FROM) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		from, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		sel.From = from
	}

	if p.curIs(token.WHERE) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		sel.Selection = e
	}

	if p.curIs(token.GROUP) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(token.BY); err != nil {
			return nil, err
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		sel.GroupBy = list
	}

	if p.curIs(token.HAVING) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		sel.Having = e
	}

	if p.curIs(token.WINDOW) {
		defs, err := p.parseNamedWindowDefs()
		if err != nil {
			return nil, err
		}
		sel.NamedWindows = defs
	}

	return sel, nil
}

// parseSelectStatement parses [with_clause] select_set_expr
// [order_by_clause] [limit_offset_clause]. It is called both at the top
// level and recursively for every subquery position.
func (p *Parser) parseSelectStatement() (*ast.SelectStatement, error) {
	stmt := &ast.SelectStatement{}

	if p.curIs(token.WITH) {
		with, err := p.parseWith()
		if err != nil {
			return nil, err
		}
		stmt.With = with
	}

	body, err := p.parseSelectBody()
	if err != nil {
		return nil, err
	}
	stmt.Body = body

	if p.curIs(token.ORDER) {
		list, err := p.parseOrderByList()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = list
	}

	limit, offset, err := p.parseLimitOffset()
	if err != nil {
		return nil, err
	}
	stmt.Limit = limit
	stmt.Offset = offset

	return stmt, nil
}

// parseLimitOffset tries, in order: "LIMIT a OFFSET b", "LIMIT a, b",
// "LIMIT a", "OFFSET a". The comma form is read MySQL-style: the first
// expression is the offset and the second the row count.
func (p *Parser) parseLimitOffset() (ast.Expr, ast.Expr, error) {
	if p.curIs(token.LIMIT) {
		if err := p.advance(); err != nil {
			return nil, nil, err
		}
		a, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, nil, err
		}

		switch {
		case p.curIs(token.OFFSET):
			if err := p.advance(); err != nil {
				return nil, nil, err
			}
			b, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, nil, err
			}
			return a, b, nil

		case p.curIs(token.COMMA):
			if err := p.advance(); err != nil {
				return nil, nil, err
			}
			b, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, nil, err
			}
			return b, a, nil
		}
		return a, nil, nil
	}

	if p.curIs(token.OFFSET) {
		if err := p.advance(); err != nil {
			return nil, nil, err
		}
		a, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, nil, err
		}
		return nil, a, nil
	}

	return nil, nil, nil
}
