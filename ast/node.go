// Package ast defines the abstract syntax tree produced by the parser.
//
// Nodes carry no source position: spans live only on lexer tokens and are
// discarded once a node is built. Every node is built once by the parser
// and never mutated afterward.
package ast

// Node is the root marker interface implemented by every AST type.
type Node interface {
	node()
}

// Statement is a top-level parse result.
type Statement interface {
	Node
	stmtNode()
}

// Expr is any scalar-producing expression.
type Expr interface {
	Node
	exprNode()
}

// TableRef is anything that can appear in a FROM position.
type TableRef interface {
	Node
	tableRefNode()
}

// SelectItem is one entry of a SELECT projection list.
type SelectItem interface {
	Node
	selectItemNode()
}

// FunctionArg is one argument of a function call.
type FunctionArg interface {
	Node
	functionArgNode()
}

// Window is either a reference to a named window or an inline spec.
type Window interface {
	Node
	windowNode()
}

// JoinCondition is the optional ON clause of a Join.
type JoinCondition interface {
	Node
	joinConditionNode()
}
