// Package selectql provides a SELECT-only SQL dialect parser.
//
// selectql parses a single, closed SELECT grammar into an AST and renders
// it back to canonical SQL. It provides Parse, Tokenize, String, and Walk.
//
// Basic usage:
//
//	stmt, err := selectql.Parse("SELECT * FROM users WHERE id = 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(selectql.String(stmt))
//
// Walking the AST:
//
//	selectql.Walk(visitorFunc, stmt)
package selectql

import (
	"github.com/selectql/selectql/ast"
	"github.com/selectql/selectql/format"
	"github.com/selectql/selectql/lexer"
	"github.com/selectql/selectql/parser"
	"github.com/selectql/selectql/token"
	"github.com/selectql/selectql/visitor"
)

// Parse parses a single SELECT statement.
func Parse(sql string) (*ast.SelectStatement, error) {
	return parser.ParseSelectStatement(sql)
}

// Tokenize returns the full token stream for sql, stopping at (and
// including) EOF. It exists for tooling and tests; it performs no grammar
// validation beyond the lexer's own rules.
func Tokenize(sql string) ([]token.Item, error) {
	l := lexer.New(sql)
	var items []token.Item
	for {
		it, err := l.Next()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
		if it.Type == token.EOF {
			break
		}
	}
	return items, nil
}

// String renders stmt back to canonical SQL (see format.String).
func String(stmt *ast.SelectStatement) string {
	return format.String(stmt)
}

// Walk traverses the AST rooted at node in depth-first order.
func Walk(v visitor.Visitor, node ast.Node) {
	visitor.Walk(v, node)
}

// Statement, Expr, and Node re-export the ast package's top-level
// interfaces for callers that only need the public surface.
type (
	Statement = ast.Statement
	Expr      = ast.Expr
	Node      = ast.Node
)

// SelectStatement is the parse result of Parse.
type SelectStatement = ast.SelectStatement
