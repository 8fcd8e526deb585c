// Package ast defines the abstract syntax tree for the Bella language.
package ast

import (
	"bella-lang/internal/span"
	"bella-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Program (top-level AST root)
// ============================================================

// Program represents an entire source program: one top-level block.
type Program struct {
	NodeBase
	Body *Block
}

// Block represents an ordered sequence of statements.
// A block does not introduce a scope; only function calls do.
type Block struct {
	StmtBase
	Stmts []Stmt
}

// ============================================================
// Statements
// ============================================================

// VarDecl represents a variable declaration: let x = expr;
type VarDecl struct {
	StmtBase
	Name *Ident
	Init Expr
}

// Assign represents an assignment to an existing variable: x = expr;
type Assign struct {
	StmtBase
	Target *Ident
	Value  Expr
}

// PrintStmt represents: print expr;
type PrintStmt struct {
	StmtBase
	Value Expr
}

// WhileStmt represents a conditional loop: while expr { ... }
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      *Block
}

// FuncDecl represents a function declaration with a single-expression body:
// function f(a, b) = expr;
type FuncDecl struct {
	StmtBase
	Name   *Ident
	Params []*Ident
	Body   Expr
}

// ============================================================
// Expressions
// ============================================================

// Ident represents an identifier reference.
type Ident struct {
	ExprBase
	Name string
}

// Numeral represents a numeric literal.
type Numeral struct {
	ExprBase
	Value float64
}

// Bool represents true or false.
type Bool struct {
	ExprBase
	Value bool
}

// UnaryExpr represents a unary operation: -x, !x.
type UnaryExpr struct {
	ExprBase
	Op      token.Kind
	Operand Expr
}

// BinaryExpr represents a binary operation: a + b, x < y, p && q.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// ConditionalExpr represents: test ? consequent : alternate.
// The test is evaluated first; exactly one branch is ever evaluated.
type ConditionalExpr struct {
	ExprBase
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

// CallExpr represents a function call: f(a, b).
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// ArrayLiteral represents an array literal: [a, b, c].
type ArrayLiteral struct {
	ExprBase
	Elements []Expr
}

// Subscript represents array indexing: a[i].
type Subscript struct {
	ExprBase
	Array Expr
	Index Expr
}
