package parser

import (
	"encoding/json"
	"testing"

	"bella-lang/internal/ast"
	"bella-lang/internal/lexer"
	"bella-lang/internal/token"
)

// helper: parse source and return AST + check for no errors
func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	l := lexer.New(source, "test.bella")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	p := New(tokens)
	prog, parseDiags := p.ParseProgram()
	if len(parseDiags) > 0 {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	return prog
}

func firstStmt(t *testing.T, source string) ast.Stmt {
	t.Helper()
	prog := parseOK(t, source)
	if len(prog.Body.Stmts) == 0 {
		t.Fatal("program body is empty")
	}
	return prog.Body.Stmts[0]
}

func TestParseVarDecl(t *testing.T) {
	stmt := firstStmt(t, `let x = 42`)
	decl, ok := stmt.(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", stmt)
	}
	if decl.Name.Name != "x" {
		t.Errorf("expected name 'x', got %q", decl.Name.Name)
	}
	num, ok := decl.Init.(*ast.Numeral)
	if !ok {
		t.Fatalf("expected Numeral init, got %T", decl.Init)
	}
	if num.Value != 42 {
		t.Errorf("expected 42, got %v", num.Value)
	}
}

func TestParseAssignment(t *testing.T) {
	assign, ok := firstStmt(t, `x = 42`).(*ast.Assign)
	if !ok {
		t.Fatal("expected Assign")
	}
	if assign.Target.Name != "x" {
		t.Errorf("expected 'x', got %q", assign.Target.Name)
	}
}

func TestParsePrintStmt(t *testing.T) {
	stmt, ok := firstStmt(t, `print 1 + 2`).(*ast.PrintStmt)
	if !ok {
		t.Fatal("expected PrintStmt")
	}
	if _, ok := stmt.Value.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected BinaryExpr value, got %T", stmt.Value)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	decl := firstStmt(t, `let z = 1 + 2 * 3`).(*ast.VarDecl)
	// init should be BinaryExpr: 1 + (2 * 3)
	binExpr, ok := decl.Init.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Init)
	}
	if binExpr.Op != token.PLUS {
		t.Errorf("expected '+', got %s", binExpr.Op)
	}
	rightBin, ok := binExpr.Right.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected right BinaryExpr, got %T", binExpr.Right)
	}
	if rightBin.Op != token.STAR {
		t.Errorf("expected '*', got %s", rightBin.Op)
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	decl := firstStmt(t, `let z = 2 ** 3 ** 2`).(*ast.VarDecl)
	// 2 ** (3 ** 2)
	outer, ok := decl.Init.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Init)
	}
	if outer.Op != token.STARSTAR {
		t.Errorf("expected '**', got %s", outer.Op)
	}
	if _, ok := outer.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected right BinaryExpr, got %T", outer.Right)
	}
	if _, ok := outer.Left.(*ast.Numeral); !ok {
		t.Fatalf("expected left Numeral, got %T", outer.Left)
	}
}

func TestParseUnaryBindsTighterThanBinary(t *testing.T) {
	decl := firstStmt(t, `let z = -a + b`).(*ast.VarDecl)
	// (-a) + b
	binExpr, ok := decl.Init.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Init)
	}
	if _, ok := binExpr.Left.(*ast.UnaryExpr); !ok {
		t.Fatalf("expected left UnaryExpr, got %T", binExpr.Left)
	}
}

func TestParseConditional(t *testing.T) {
	stmt := firstStmt(t, `print a < b ? 1 : 0`).(*ast.PrintStmt)
	cond, ok := stmt.Value.(*ast.ConditionalExpr)
	if !ok {
		t.Fatalf("expected ConditionalExpr, got %T", stmt.Value)
	}
	if _, ok := cond.Test.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected BinaryExpr test, got %T", cond.Test)
	}
	if cond.Consequent == nil || cond.Alternate == nil {
		t.Fatal("conditional branch is nil")
	}
}

func TestParseNestedConditionalIsRightAssociative(t *testing.T) {
	stmt := firstStmt(t, `print a ? 1 : b ? 2 : 3`).(*ast.PrintStmt)
	// a ? 1 : (b ? 2 : 3)
	outer, ok := stmt.Value.(*ast.ConditionalExpr)
	if !ok {
		t.Fatalf("expected ConditionalExpr, got %T", stmt.Value)
	}
	if _, ok := outer.Alternate.(*ast.ConditionalExpr); !ok {
		t.Fatalf("expected nested ConditionalExpr alternate, got %T", outer.Alternate)
	}
}

func TestParseWhileStmt(t *testing.T) {
	source := `while i < 10 {
  i = i + 1
}`
	whileStmt, ok := firstStmt(t, source).(*ast.WhileStmt)
	if !ok {
		t.Fatal("expected WhileStmt")
	}
	if whileStmt.Condition == nil {
		t.Fatal("condition is nil")
	}
	if whileStmt.Body == nil || len(whileStmt.Body.Stmts) != 1 {
		t.Fatal("expected 1 body statement")
	}
}

func TestParseFuncDecl(t *testing.T) {
	fn, ok := firstStmt(t, `function add(a, b) = a + b`).(*ast.FuncDecl)
	if !ok {
		t.Fatal("expected FuncDecl")
	}
	if fn.Name.Name != "add" {
		t.Errorf("expected name 'add', got %q", fn.Name.Name)
	}
	if len(fn.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(fn.Params))
	}
	if _, ok := fn.Body.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected BinaryExpr body, got %T", fn.Body)
	}
}

func TestParseFuncDeclNoParams(t *testing.T) {
	fn := firstStmt(t, `function answer() = 42`).(*ast.FuncDecl)
	if len(fn.Params) != 0 {
		t.Errorf("expected 0 params, got %d", len(fn.Params))
	}
}

func TestParseCallExpr(t *testing.T) {
	stmt := firstStmt(t, `print hypot(3, 4)`).(*ast.PrintStmt)
	call, ok := stmt.Value.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", stmt.Value)
	}
	if len(call.Args) != 2 {
		t.Errorf("expected 2 args, got %d", len(call.Args))
	}
	callee, ok := call.Callee.(*ast.Ident)
	if !ok {
		t.Fatalf("expected Ident callee, got %T", call.Callee)
	}
	if callee.Name != "hypot" {
		t.Errorf("expected 'hypot', got %q", callee.Name)
	}
}

func TestParseArrayLiteral(t *testing.T) {
	stmt := firstStmt(t, `print [1, true, [2, 3]]`).(*ast.PrintStmt)
	arr, ok := stmt.Value.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expected ArrayLiteral, got %T", stmt.Value)
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elements))
	}
	if _, ok := arr.Elements[2].(*ast.ArrayLiteral); !ok {
		t.Fatalf("expected nested ArrayLiteral, got %T", arr.Elements[2])
	}
}

func TestParseEmptyArrayLiteral(t *testing.T) {
	stmt := firstStmt(t, `print []`).(*ast.PrintStmt)
	arr := stmt.Value.(*ast.ArrayLiteral)
	if len(arr.Elements) != 0 {
		t.Errorf("expected empty array, got %d elements", len(arr.Elements))
	}
}

func TestParseSubscript(t *testing.T) {
	stmt := firstStmt(t, `print a[i + 1]`).(*ast.PrintStmt)
	sub, ok := stmt.Value.(*ast.Subscript)
	if !ok {
		t.Fatalf("expected Subscript, got %T", stmt.Value)
	}
	if _, ok := sub.Array.(*ast.Ident); !ok {
		t.Fatalf("expected Ident array, got %T", sub.Array)
	}
	if _, ok := sub.Index.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected BinaryExpr index, got %T", sub.Index)
	}
}

func TestParseChainedSubscript(t *testing.T) {
	stmt := firstStmt(t, `print m[0][1]`).(*ast.PrintStmt)
	outer, ok := stmt.Value.(*ast.Subscript)
	if !ok {
		t.Fatalf("expected Subscript, got %T", stmt.Value)
	}
	if _, ok := outer.Array.(*ast.Subscript); !ok {
		t.Fatalf("expected inner Subscript, got %T", outer.Array)
	}
}

func TestParseJSONOutput(t *testing.T) {
	prog := parseOK(t, `let x = 1`)
	data, err := json.Marshal(ast.NodeToMap(prog))
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["kind"] != "Program" {
		t.Errorf("expected kind 'Program', got %v", m["kind"])
	}
}

func TestParseErrorRecovery(t *testing.T) {
	// Malformed first statement; the parser should report an error and
	// still pick up the following declaration.
	source := `let = 5
let y = 3`
	l := lexer.New(source, "test.bella")
	tokens, _ := l.Tokenize()
	p := New(tokens)
	prog, diags := p.ParseProgram()

	if len(diags) == 0 {
		t.Error("expected parse errors")
	}
	if prog == nil {
		t.Fatal("program is nil")
	}
}
