// Package parser implements the syntax analysis for Bella.
// It uses Pratt parsing for expressions and recursive descent for statements.
package parser

import (
	"fmt"
	"strconv"

	"bella-lang/internal/ast"
	"bella-lang/internal/diag"
	"bella-lang/internal/span"
	"bella-lang/internal/token"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone        = 0
	bpConditional = 5  // ?:
	bpOr          = 10 // ||
	bpAnd         = 20 // &&
	bpEquality    = 30 // == !=
	bpComparison  = 40 // < <= > >=
	bpAdditive    = 50 // + -
	bpMultiply    = 60 // * / %
	bpPrefix      = 70 // ! -
	bpPower       = 80 // ** (right-associative)
	bpPostfix     = 90 // () []
)

// infixBP returns the left binding power for an infix/postfix operator.
func infixBP(kind token.Kind) int {
	switch kind {
	case token.QUESTION:
		return bpConditional
	case token.OR:
		return bpOr
	case token.AND:
		return bpAnd
	case token.EQ, token.NEQ:
		return bpEquality
	case token.LT, token.LTE, token.GT, token.GTE:
		return bpComparison
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return bpMultiply
	case token.STARSTAR:
		return bpPower
	case token.LPAREN, token.LBRACKET:
		return bpPostfix
	default:
		return bpNone
	}
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseProgram parses the entire source and returns the AST root and diagnostics.
func (p *Parser) ParseProgram() (*ast.Program, []diag.Diagnostic) {
	startPos := p.peek().Span.Start
	body := &ast.Block{}

	p.skipSep()
	for !p.isAtEnd() {
		stmt := p.parseStmt()
		if stmt != nil {
			body.Stmts = append(body.Stmts, stmt)
		}
		p.skipSep()
	}

	endPos := p.peek().Span.End
	body.StmtBase = makeStmtBase(startPos, endPos)
	prog := &ast.Program{
		NodeBase: ast.NodeBase{Span: span.Span{Start: startPos, End: endPos}},
		Body:     body,
	}
	return prog, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error("E2001", tok.Span, fmt.Sprintf("expected '%s', got '%s'", kind, tok.Kind))
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// skipSep skips NEWLINE and SEMICOLON tokens (separators).
func (p *Parser) skipSep() {
	for p.match(token.NEWLINE, token.SEMICOLON) {
		p.advance()
	}
}

// skipNewlines skips NEWLINE tokens only.
func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) error(code string, s span.Span, msg string) {
	p.diags = append(p.diags, diag.Errorf(code, s, "%s", msg))
}

// ============================================================
// Error recovery
// ============================================================

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		// Stop at separators
		if p.match(token.NEWLINE, token.SEMICOLON) {
			p.advance()
			return
		}
		// Stop at closing brace
		if p.check(token.RBRACE) {
			return
		}
		// Stop at statement-starting keywords
		if p.match(token.KW_LET, token.KW_PRINT, token.KW_WHILE, token.KW_FUNCTION) {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peekKind() {
	case token.KW_LET:
		return p.parseVarDecl()
	case token.KW_PRINT:
		return p.parsePrintStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.KW_FUNCTION:
		return p.parseFuncDecl()
	case token.IDENT:
		return p.parseAssign()
	default:
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("unexpected token: '%s'", tok.Lexeme))
		p.synchronize()
		return nil
	}
}

// parseVarDecl parses: let IDENT = expr
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.advance() // consume 'let'
	stmt := &ast.VarDecl{}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		stmt.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
		return stmt
	}
	stmt.Name = identFrom(nameTok)

	if _, ok := p.expect(token.ASSIGN); ok {
		stmt.Init = p.parseExpr(bpNone)
	}

	stmt.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
	return stmt
}

// parseAssign parses: IDENT = expr
func (p *Parser) parseAssign() *ast.Assign {
	nameTok := p.advance() // consume IDENT
	stmt := &ast.Assign{Target: identFrom(nameTok)}

	if _, ok := p.expect(token.ASSIGN); !ok {
		p.synchronize()
		stmt.StmtBase = makeStmtBase(nameTok.Span.Start, p.prevEnd())
		return stmt
	}
	stmt.Value = p.parseExpr(bpNone)

	stmt.StmtBase = makeStmtBase(nameTok.Span.Start, p.prevEnd())
	return stmt
}

// parsePrintStmt parses: print expr
func (p *Parser) parsePrintStmt() *ast.PrintStmt {
	start := p.advance() // consume 'print'
	stmt := &ast.PrintStmt{}
	stmt.Value = p.parseExpr(bpNone)
	stmt.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
	return stmt
}

// parseWhileStmt parses: while expr block
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.advance() // consume 'while'
	stmt := &ast.WhileStmt{}

	stmt.Condition = p.parseExpr(bpNone)
	stmt.Body = p.parseBlock()
	stmt.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
	return stmt
}

// parseFuncDecl parses: function IDENT ( params ) = expr
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.advance() // consume 'function'
	decl := &ast.FuncDecl{}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		decl.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
		return decl
	}
	decl.Name = identFrom(nameTok)

	decl.Params = p.parseParamList()

	if _, ok := p.expect(token.ASSIGN); ok {
		p.skipNewlines()
		decl.Body = p.parseExpr(bpNone)
	}

	decl.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
	return decl
}

// parseParamList parses: ( ident, ident, ... )
func (p *Parser) parseParamList() []*ast.Ident {
	var params []*ast.Ident

	if _, ok := p.expect(token.LPAREN); !ok {
		return params
	}

	if !p.check(token.RPAREN) {
		nameTok, ok := p.expect(token.IDENT)
		if ok {
			params = append(params, identFrom(nameTok))
		}
		for p.check(token.COMMA) {
			p.advance() // consume ','
			p.skipNewlines()
			nameTok, ok = p.expect(token.IDENT)
			if ok {
				params = append(params, identFrom(nameTok))
			}
		}
	}

	p.expect(token.RPAREN)
	return params
}

// parseBlock parses: { stmts }
func (p *Parser) parseBlock() *ast.Block {
	start := p.peek()
	block := &ast.Block{}

	if _, ok := p.expect(token.LBRACE); !ok {
		p.synchronize()
		block.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
		return block
	}

	p.skipSep()
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt := p.parseStmt()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.skipSep()
	}

	p.expect(token.RBRACE)
	block.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
	return block
}

// ============================================================
// Expression parsing (Pratt / precedence climbing)
// ============================================================

// parseExpr parses an expression with the given minimum binding power.
func (p *Parser) parseExpr(minBP int) ast.Expr {
	left := p.nud()
	if left == nil {
		tok := p.peek()
		p.error("E2003", tok.Span, fmt.Sprintf("expected expression, got '%s'", tok.Kind))
		return nil
	}

	for {
		kind := p.peekKind()
		bp := infixBP(kind)
		if bp <= minBP {
			break
		}
		left = p.led(left)
	}

	return left
}

// nud handles prefix (null denotation) parsing.
func (p *Parser) nud() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.NUMERAL:
		p.advance()
		val, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.error("E2004", tok.Span, fmt.Sprintf("invalid numeral: '%s'", tok.Lexeme))
		}
		return &ast.Numeral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    val,
		}

	case token.KW_TRUE:
		p.advance()
		return &ast.Bool{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    true,
		}

	case token.KW_FALSE:
		p.advance()
		return &ast.Bool{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    false,
		}

	case token.IDENT:
		p.advance()
		return identFrom(tok)

	case token.LPAREN:
		// Grouped expression: ( expr )
		p.advance() // consume '('
		p.skipNewlines()
		expr := p.parseExpr(bpNone)
		p.skipNewlines()
		p.expect(token.RPAREN)
		return expr

	case token.BANG:
		// Unary: !expr
		p.advance()
		p.skipNewlines()
		operand := p.parseExpr(bpPrefix)
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{
			ExprBase: makeExprBase(tok.Span.Start, operand.GetSpan().End),
			Op:       token.BANG,
			Operand:  operand,
		}

	case token.MINUS:
		// Unary: -expr
		p.advance()
		p.skipNewlines()
		operand := p.parseExpr(bpPrefix)
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{
			ExprBase: makeExprBase(tok.Span.Start, operand.GetSpan().End),
			Op:       token.MINUS,
			Operand:  operand,
		}

	case token.LBRACKET:
		return p.parseArrayLiteral()

	default:
		return nil
	}
}

// led handles infix/postfix (left denotation) parsing.
func (p *Parser) led(left ast.Expr) ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE,
		token.AND, token.OR:
		// Binary infix operator (left-associative)
		bp := infixBP(tok.Kind)
		p.advance()
		p.skipNewlines() // allow continuation on next line after operator
		right := p.parseExpr(bp)
		if right == nil {
			return left
		}
		return &ast.BinaryExpr{
			ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
			Op:       tok.Kind,
			Left:     left,
			Right:    right,
		}

	case token.STARSTAR:
		// Exponentiation (right-associative)
		p.advance()
		p.skipNewlines()
		right := p.parseExpr(bpPower - 1)
		if right == nil {
			return left
		}
		return &ast.BinaryExpr{
			ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
			Op:       token.STARSTAR,
			Left:     left,
			Right:    right,
		}

	case token.QUESTION:
		// Conditional: test ? consequent : alternate (right-associative)
		p.advance() // consume '?'
		p.skipNewlines()
		consequent := p.parseExpr(bpNone)
		p.skipNewlines()
		p.expect(token.COLON)
		p.skipNewlines()
		alternate := p.parseExpr(bpConditional - 1)
		end := left.GetSpan().End
		if alternate != nil {
			end = alternate.GetSpan().End
		}
		return &ast.ConditionalExpr{
			ExprBase:   makeExprBase(left.GetSpan().Start, end),
			Test:       left,
			Consequent: consequent,
			Alternate:  alternate,
		}

	case token.LPAREN:
		// Call expression: callee(args)
		return p.parseCallExpr(left)

	case token.LBRACKET:
		// Subscript expression: array[index]
		p.advance() // consume '['
		p.skipNewlines()
		index := p.parseExpr(bpNone)
		p.skipNewlines()
		end, _ := p.expect(token.RBRACKET)
		return &ast.Subscript{
			ExprBase: makeExprBase(left.GetSpan().Start, end.Span.End),
			Array:    left,
			Index:    index,
		}

	default:
		return left
	}
}

// parseCallExpr parses: callee ( args )
func (p *Parser) parseCallExpr(callee ast.Expr) *ast.CallExpr {
	p.advance() // consume '('
	var args []ast.Expr

	p.skipNewlines()
	if !p.check(token.RPAREN) {
		args = append(args, p.parseExpr(bpNone))
		for p.check(token.COMMA) {
			p.advance() // consume ','
			p.skipNewlines()
			args = append(args, p.parseExpr(bpNone))
		}
	}
	p.skipNewlines()
	end, _ := p.expect(token.RPAREN)

	return &ast.CallExpr{
		ExprBase: makeExprBase(callee.GetSpan().Start, end.Span.End),
		Callee:   callee,
		Args:     args,
	}
}

// parseArrayLiteral parses: [ expr, expr, ... ]
func (p *Parser) parseArrayLiteral() *ast.ArrayLiteral {
	start := p.advance() // consume '['
	var elements []ast.Expr

	p.skipNewlines()
	if !p.check(token.RBRACKET) {
		elements = append(elements, p.parseExpr(bpNone))
		for p.check(token.COMMA) {
			p.advance() // consume ','
			p.skipNewlines()
			if p.check(token.RBRACKET) {
				break // trailing comma
			}
			elements = append(elements, p.parseExpr(bpNone))
		}
	}
	p.skipNewlines()
	end, _ := p.expect(token.RBRACKET)

	return &ast.ArrayLiteral{
		ExprBase: makeExprBase(start.Span.Start, end.Span.End),
		Elements: elements,
	}
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func identFrom(tok token.Token) *ast.Ident {
	return &ast.Ident{
		ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
		Name:     tok.Lexeme,
	}
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}
