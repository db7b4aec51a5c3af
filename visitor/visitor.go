// Package visitor provides read-only AST traversal. There is no rewriting
// half: AST nodes are built once by the parser and never mutated (see the
// ast package doc comment), so this package only ever hands nodes to a
// Visitor, never swaps them out.
package visitor

import "github.com/selectql/selectql/ast"

// Visitor is the interface for AST traversal. Visit is called once per
// node; a nil return stops descent into that node's children.
type Visitor interface {
	Visit(node ast.Node) Visitor
}

// Walk traverses an AST in depth-first order.
func Walk(v Visitor, node ast.Node) {
	if node == nil || v == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	walkChildren(v, node)
}

func walkChildren(v Visitor, node ast.Node) {
	switch n := node.(type) {
	case *ast.SelectStatement:
		if n.With != nil {
			for _, cte := range n.With.CTEs {
				Walk(v, cte.Query)
			}
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
		for _, ob := range n.OrderBy {
			Walk(v, ob.Expr)
		}
		if n.Limit != nil {
			Walk(v, n.Limit)
		}
		if n.Offset != nil {
			Walk(v, n.Offset)
		}

	case *ast.Select:
		for _, item := range n.Projection {
			Walk(v, item)
		}
		if n.From != nil {
			Walk(v, n.From)
		}
		if n.Selection != nil {
			Walk(v, n.Selection)
		}
		for _, e := range n.GroupBy {
			Walk(v, e)
		}
		if n.Having != nil {
			Walk(v, n.Having)
		}
		for _, wd := range n.NamedWindows {
			for _, e := range wd.Spec.PartitionBy {
				Walk(v, e)
			}
			for _, ob := range wd.Spec.OrderBy {
				Walk(v, ob.Expr)
			}
		}

	case *ast.UnnamedExpr:
		Walk(v, n.Expr)
	case *ast.ExprWithAlias:
		Walk(v, n.Expr)
	case *ast.WildcardItem:
		// Exclude/Except are plain names, nothing to walk.

	case *ast.BaseTable:
		// leaf
	case *ast.SubqueryTableRef:
		Walk(v, n.Query)
	case *ast.ParenTableRef:
		Walk(v, n.Inner)
	case *ast.Join:
		Walk(v, n.Left)
		Walk(v, n.Right)
		if on, ok := n.Condition.(*ast.OnCondition); ok {
			Walk(v, on.Expr)
		}

	case *ast.ColumnRef, *ast.Literal:
		// leaves

	case *ast.UnaryOp:
		Walk(v, n.Expr)
	case *ast.BinaryOp:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *ast.Function:
		for _, a := range n.Args {
			if ea, ok := a.(*ast.ExprArg); ok {
				Walk(v, ea.Expr)
			}
		}
		if spec, ok := n.Over.(*ast.WindowSpec); ok {
			for _, e := range spec.PartitionBy {
				Walk(v, e)
			}
			for _, ob := range spec.OrderBy {
				Walk(v, ob.Expr)
			}
		}
	case *ast.Subquery:
		Walk(v, n.Query)
	case *ast.Exists:
		Walk(v, n.Subquery)
	case *ast.InList:
		Walk(v, n.Expr)
		for _, e := range n.List {
			Walk(v, e)
		}
	case *ast.InSubquery:
		Walk(v, n.Expr)
		Walk(v, n.Subquery)
	}
}

// Inspect calls f for each node in the AST, in depth-first order. If f
// returns false for a node, that node's children are not visited.
func Inspect(node ast.Node, f func(ast.Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(ast.Node) bool

func (f inspector) Visit(node ast.Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
