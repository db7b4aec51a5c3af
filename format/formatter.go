// Package format renders an AST back into canonical SQL text.
//
// Rendering is canonical, not a round-trip of the original source: keywords
// are uppercase (with one deliberate exception, see writeSelect), every
// BinaryOp is fully parenthesized, and whitespace follows a single fixed
// style rather than whatever the input used.
package format

import (
	"strconv"
	"strings"

	"github.com/selectql/selectql/ast"
)

// String renders stmt as canonical SQL.
func String(stmt *ast.SelectStatement) string {
	var b strings.Builder
	writeStatement(&b, stmt)
	return b.String()
}

func writeStatement(b *strings.Builder, stmt *ast.SelectStatement) {
	if stmt.With != nil {
		writeWith(b, stmt.With)
		b.WriteByte(' ')
	}
	writeSelect(b, stmt.Body)
	if len(stmt.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, ob := range stmt.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			writeOrderByExpr(b, ob)
		}
	}
	if stmt.Limit != nil {
		b.WriteString(" LIMIT ")
		writeExpr(b, stmt.Limit)
	}
	if stmt.Offset != nil {
		b.WriteString(" OFFSET ")
		writeExpr(b, stmt.Offset)
	}
}

func writeWith(b *strings.Builder, w *ast.With) {
	b.WriteString("WITH ")
	if w.Recursive {
		b.WriteString("RECURSIVE ")
	}
	for i, cte := range w.CTEs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(cte.Alias.Name)
		if len(cte.Alias.Columns) > 0 {
			b.WriteString(" (")
			b.WriteString(strings.Join(cte.Alias.Columns, ", "))
			b.WriteByte(')')
		}
		b.WriteString(" AS (")
		writeStatement(b, cte.Query)
		b.WriteByte(')')
	}
}

// writeSelect renders a Select body. The HAVING keyword deliberately
// renders as "Having", matching the upstream Display impl this grammar was
// distilled from (see SPEC_FULL.md §4.5) — every other keyword here is
// full uppercase.
func writeSelect(b *strings.Builder, s *ast.Select) {
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	for i, item := range s.Projection {
		if i > 0 {
			b.WriteString(", ")
		}
		writeSelectItem(b, item)
	}
	if s.From != nil {
		b.WriteString(" FROM ")
		writeTableRef(b, s.From)
	}
	if s.Selection != nil {
		b.WriteString(" WHERE ")
		writeExpr(b, s.Selection)
	}
	if len(s.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, e := range s.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, e)
		}
	}
	if s.Having != nil {
		b.WriteString(" Having ")
		writeExpr(b, s.Having)
	}
	if len(s.NamedWindows) > 0 {
		b.WriteString(" WINDOW ")
		for i, wd := range s.NamedWindows {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(wd.Name)
			b.WriteString(" AS (")
			writeWindowSpecInner(b, wd.Spec)
			b.WriteByte(')')
		}
	}
}

func writeSelectItem(b *strings.Builder, item ast.SelectItem) {
	switch it := item.(type) {
	case *ast.UnnamedExpr:
		writeExpr(b, it.Expr)
	case *ast.ExprWithAlias:
		writeExpr(b, it.Expr)
		b.WriteString(" AS ")
		b.WriteString(it.Alias)
	case *ast.WildcardItem:
		b.WriteByte('*')
		if len(it.Options.Exclude) > 0 {
			b.WriteString(" EXCLUDE (")
			b.WriteString(strings.Join(it.Options.Exclude, ", "))
			b.WriteByte(')')
		}
		if len(it.Options.Except) > 0 {
			b.WriteString(" EXCEPT (")
			b.WriteString(strings.Join(it.Options.Except, ", "))
			b.WriteByte(')')
		}
	}
}

func writeTableName(b *strings.Builder, tn ast.TableName) {
	if tn.Database != nil {
		b.WriteString(*tn.Database)
		b.WriteByte('.')
	}
	b.WriteString(tn.Table)
}

func writeTableRef(b *strings.Builder, ref ast.TableRef) {
	switch r := ref.(type) {
	case *ast.BaseTable:
		writeTableName(b, r.Name)
		if r.Alias != nil {
			b.WriteString(" AS ")
			b.WriteString(*r.Alias)
		}
	case *ast.SubqueryTableRef:
		b.WriteByte('(')
		writeStatement(b, r.Query)
		b.WriteByte(')')
		if r.Alias != nil {
			b.WriteString(" AS ")
			b.WriteString(*r.Alias)
		}
	case *ast.Join:
		b.WriteByte('(')
		writeTableRef(b, r.Left)
		b.WriteByte(' ')
		b.WriteString(r.Op.String())
		b.WriteByte(' ')
		writeTableRef(b, r.Right)
		if on, ok := r.Condition.(*ast.OnCondition); ok {
			b.WriteString(" ON ")
			writeExpr(b, on.Expr)
		}
		b.WriteByte(')')
	case *ast.ParenTableRef:
		b.WriteByte('(')
		writeTableRef(b, r.Inner)
		b.WriteByte(')')
	}
}

func writeOrderByExpr(b *strings.Builder, ob ast.OrderByExpr) {
	writeExpr(b, ob.Expr)
	switch ob.Dir {
	case ast.Asc:
		b.WriteString(" ASC")
	case ast.Desc:
		b.WriteString(" DESC")
	}
}

func writeWindowSpecInner(b *strings.Builder, spec ast.WindowSpec) {
	wrote := false
	if len(spec.PartitionBy) > 0 {
		b.WriteString("PARTITION BY ")
		for i, e := range spec.PartitionBy {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, e)
		}
		wrote = true
	}
	if len(spec.OrderBy) > 0 {
		if wrote {
			b.WriteByte(' ')
		}
		b.WriteString("ORDER BY ")
		for i, ob := range spec.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			writeOrderByExpr(b, ob)
		}
	}
}

func writeWindow(b *strings.Builder, w ast.Window) {
	switch win := w.(type) {
	case *ast.WindowRef:
		b.WriteString(win.Name)
	case *ast.WindowSpec:
		b.WriteByte('(')
		writeWindowSpecInner(b, *win)
		b.WriteByte(')')
	}
}

func writeFunctionArg(b *strings.Builder, a ast.FunctionArg) {
	switch arg := a.(type) {
	case *ast.Wildcard:
		b.WriteByte('*')
	case *ast.ExprArg:
		writeExpr(b, arg.Expr)
	}
}

var binaryOpSymbols = map[ast.BinaryOperator]string{
	ast.OpAdd: "+",
	ast.OpSub: "-",
	ast.OpMul: "*",
	ast.OpDiv: "/",
	ast.OpMod: "%",
	ast.OpGt:  ">",
	ast.OpLt:  "<",
	ast.OpGeq: ">=",
	ast.OpLeq: "<=",
	ast.OpEq:  "=",
	ast.OpNeq: "!=",
	ast.OpAnd: "AND",
	ast.OpOr:  "OR",
}

func writeExpr(b *strings.Builder, e ast.Expr) {
	switch expr := e.(type) {
	case *ast.ColumnRef:
		if expr.Database != nil {
			b.WriteString(*expr.Database)
			b.WriteByte('.')
		}
		if expr.Table != nil {
			b.WriteString(*expr.Table)
			b.WriteByte('.')
		}
		b.WriteString(expr.Column)
	case *ast.Literal:
		writeLiteral(b, expr)
	case *ast.UnaryOp:
		if expr.Op == ast.UnaryMinus {
			b.WriteByte('-')
		} else {
			b.WriteByte('+')
		}
		writeExpr(b, expr.Expr)
	case *ast.BinaryOp:
		b.WriteByte('(')
		writeExpr(b, expr.Left)
		b.WriteByte(' ')
		b.WriteString(binaryOpSymbols[expr.Op])
		b.WriteByte(' ')
		writeExpr(b, expr.Right)
		b.WriteByte(')')
	case *ast.Function:
		b.WriteString(expr.Name)
		b.WriteByte('(')
		if expr.Distinct {
			b.WriteString("DISTINCT ")
		}
		for i, arg := range expr.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeFunctionArg(b, arg)
		}
		b.WriteByte(')')
		if expr.Over != nil {
			b.WriteString(" OVER ")
			writeWindow(b, expr.Over)
		}
	case *ast.Subquery:
		b.WriteByte('(')
		writeStatement(b, expr.Query)
		b.WriteByte(')')
	case *ast.Exists:
		if expr.Not {
			b.WriteString("NOT EXISTS (")
		} else {
			b.WriteString("EXISTS (")
		}
		writeStatement(b, expr.Subquery)
		b.WriteByte(')')
	case *ast.InList:
		writeExpr(b, expr.Expr)
		if expr.Not {
			b.WriteString(" NOT IN (")
		} else {
			b.WriteString(" IN (")
		}
		for i, e := range expr.List {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, e)
		}
		b.WriteByte(')')
	case *ast.InSubquery:
		writeExpr(b, expr.Expr)
		if expr.Not {
			b.WriteString(" NOT IN (")
		} else {
			b.WriteString(" IN (")
		}
		writeStatement(b, expr.Subquery)
		b.WriteByte(')')
	}
}

func writeLiteral(b *strings.Builder, lit *ast.Literal) {
	switch lit.Kind {
	case ast.LiteralString:
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(lit.Str, "'", "''"))
		b.WriteByte('\'')
	case ast.LiteralUnsignedInteger:
		b.WriteString(strconv.FormatUint(lit.Integer, 10))
	case ast.LiteralUnsignedFloat:
		b.WriteString(strconv.FormatFloat(lit.Float, 'g', -1, 64))
	}
}
