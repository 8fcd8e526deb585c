package ast

import (
	"github.com/samber/lo"

	"bella-lang/internal/span"
	"bella-lang/internal/token"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return m("Program", n.Span, "body", NodeToMap(n.Body))
	case *Block:
		return m("Block", n.Span, "stmts", stmtSlice(n.Stmts))

	// ---- Statements ----
	case *VarDecl:
		return m("VarDecl", n.Span,
			"name", n.Name.Name,
			"init", NodeToMap(n.Init))
	case *Assign:
		return m("Assign", n.Span,
			"target", n.Target.Name,
			"value", NodeToMap(n.Value))
	case *PrintStmt:
		return m("PrintStmt", n.Span, "value", NodeToMap(n.Value))
	case *WhileStmt:
		return m("WhileStmt", n.Span,
			"condition", NodeToMap(n.Condition),
			"body", NodeToMap(n.Body))
	case *FuncDecl:
		return m("FuncDecl", n.Span,
			"name", n.Name.Name,
			"params", lo.Map(n.Params, func(p *Ident, _ int) string { return p.Name }),
			"body", NodeToMap(n.Body))

	// ---- Expressions ----
	case *Ident:
		return m("Ident", n.Span, "name", n.Name)
	case *Numeral:
		return m("Numeral", n.Span, "value", n.Value)
	case *Bool:
		return m("Bool", n.Span, "value", n.Value)
	case *UnaryExpr:
		return m("UnaryExpr", n.Span, "op", opStr(n.Op), "operand", NodeToMap(n.Operand))
	case *BinaryExpr:
		return m("BinaryExpr", n.Span,
			"op", opStr(n.Op),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *ConditionalExpr:
		return m("ConditionalExpr", n.Span,
			"test", NodeToMap(n.Test),
			"consequent", NodeToMap(n.Consequent),
			"alternate", NodeToMap(n.Alternate))
	case *CallExpr:
		return m("CallExpr", n.Span,
			"callee", NodeToMap(n.Callee),
			"args", exprSlice(n.Args))
	case *ArrayLiteral:
		return m("ArrayLiteral", n.Span, "elements", exprSlice(n.Elements))
	case *Subscript:
		return m("Subscript", n.Span,
			"array", NodeToMap(n.Array),
			"index", NodeToMap(n.Index))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func stmtSlice(stmts []Stmt) []interface{} {
	return lo.Map(stmts, func(s Stmt, _ int) interface{} { return NodeToMap(s) })
}

func exprSlice(exprs []Expr) []interface{} {
	return lo.Map(exprs, func(e Expr, _ int) interface{} { return NodeToMap(e) })
}

func opStr(kind token.Kind) string {
	return kind.String()
}
