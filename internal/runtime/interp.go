package runtime

import (
	"fmt"
	"io"
	"math"

	"bella-lang/internal/ast"
	"bella-lang/internal/token"
)

// Interpreter walks the AST and executes it.
type Interpreter struct {
	global *Environment
	output io.Writer
}

// NewInterpreter creates a new interpreter with the built-in library bound
// into the root frame.
func NewInterpreter(output io.Writer) *Interpreter {
	global := NewEnvironment(nil)
	RegisterBuiltins(global)
	return &Interpreter{
		global: global,
		output: output,
	}
}

// Run executes the program's top-level block. The first error aborts
// execution and is returned unmodified.
func (i *Interpreter) Run(prog *ast.Program) error {
	return i.execBlock(prog.Body, i.global)
}

// Env returns the root environment (useful for REPL state inspection).
func (i *Interpreter) Env() *Environment {
	return i.global
}

// ============================================================
// Statement execution
// ============================================================

// execBlock executes the statements of a block in order. A block does not
// introduce a scope; only a function call creates a new frame.
func (i *Interpreter) execBlock(block *ast.Block, env *Environment) error {
	for _, stmt := range block.Stmts {
		if err := i.execStmt(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execStmt(stmt ast.Stmt, env *Environment) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		val, err := i.evalExpr(s.Init, env)
		if err != nil {
			return err
		}
		if derr := env.Declare(s.Name.Name, val); derr != nil {
			return derr.At(s.GetSpan())
		}
		return nil

	case *ast.Assign:
		val, err := i.evalExpr(s.Value, env)
		if err != nil {
			return err
		}
		if aerr := env.Assign(s.Target.Name, val); aerr != nil {
			return aerr.At(s.GetSpan())
		}
		return nil

	case *ast.PrintStmt:
		val, err := i.evalExpr(s.Value, env)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.output, val.String())
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := i.evalExpr(s.Condition, env)
			if err != nil {
				return err
			}
			guard, ok := cond.(BoolVal)
			if !ok {
				return errAt(ErrType, s.Condition.GetSpan(),
					"while guard must be a boolean, got '%s'", cond.TypeName())
			}
			if !bool(guard) {
				return nil
			}
			if err := i.execBlock(s.Body, env); err != nil {
				return err
			}
		}

	case *ast.FuncDecl:
		params := make([]string, len(s.Params))
		for idx, p := range s.Params {
			params[idx] = p.Name
		}
		fn := &ClosureVal{
			Name:    s.Name.Name,
			Params:  params,
			Body:    s.Body,
			Closure: env,
		}
		if derr := env.Declare(s.Name.Name, fn); derr != nil {
			return derr.At(s.GetSpan())
		}
		return nil

	case *ast.Block:
		return i.execBlock(s, env)

	default:
		return fmt.Errorf("unhandled statement type: %T", stmt)
	}
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evalExpr(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.Numeral:
		return NumberVal(e.Value), nil
	case *ast.Bool:
		return BoolVal(e.Value), nil
	case *ast.Ident:
		val, err := env.Lookup(e.Name)
		if err != nil {
			return nil, err.At(e.GetSpan())
		}
		return val, nil
	case *ast.UnaryExpr:
		return i.evalUnary(e, env)
	case *ast.BinaryExpr:
		return i.evalBinary(e, env)
	case *ast.ConditionalExpr:
		return i.evalConditional(e, env)
	case *ast.CallExpr:
		return i.evalCall(e, env)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(e, env)
	case *ast.Subscript:
		return i.evalSubscript(e, env)
	default:
		return nil, fmt.Errorf("unhandled expression type: %T", expr)
	}
}

func (i *Interpreter) evalUnary(e *ast.UnaryExpr, env *Environment) (Value, error) {
	operand, err := i.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.MINUS:
		n, ok := operand.(NumberVal)
		if !ok {
			return nil, errAt(ErrType, e.GetSpan(),
				"operator '-' requires a number, got '%s'", operand.TypeName())
		}
		return NumberVal(-float64(n)), nil
	case token.BANG:
		b, ok := operand.(BoolVal)
		if !ok {
			return nil, errAt(ErrType, e.GetSpan(),
				"operator '!' requires a boolean, got '%s'", operand.TypeName())
		}
		return BoolVal(!bool(b)), nil
	default:
		return nil, errAt(ErrUnknownOperator, e.GetSpan(), "unknown unary operator: '%s'", e.Op)
	}
}

func (i *Interpreter) evalBinary(e *ast.BinaryExpr, env *Environment) (Value, error) {
	// Logical operators short-circuit: the right operand is evaluated only
	// if the left does not already determine the result.
	if e.Op == token.AND || e.Op == token.OR {
		return i.evalLogical(e, env)
	}

	left, err := i.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}

	l, lok := left.(NumberVal)
	r, rok := right.(NumberVal)
	if !lok || !rok {
		return nil, errAt(ErrType, e.GetSpan(),
			"operator '%s' requires number operands, got '%s' and '%s'",
			e.Op, left.TypeName(), right.TypeName())
	}
	lf, rf := float64(l), float64(r)

	switch e.Op {
	case token.PLUS:
		return NumberVal(lf + rf), nil
	case token.MINUS:
		return NumberVal(lf - rf), nil
	case token.STAR:
		return NumberVal(lf * rf), nil
	case token.SLASH:
		// Division by zero follows IEEE-754: ±Inf or NaN, never an error.
		return NumberVal(lf / rf), nil
	case token.PERCENT:
		return NumberVal(math.Mod(lf, rf)), nil
	case token.STARSTAR:
		return NumberVal(math.Pow(lf, rf)), nil
	case token.LT:
		return BoolVal(lf < rf), nil
	case token.LTE:
		return BoolVal(lf <= rf), nil
	case token.EQ:
		return BoolVal(lf == rf), nil
	case token.NEQ:
		return BoolVal(lf != rf), nil
	case token.GTE:
		return BoolVal(lf >= rf), nil
	case token.GT:
		return BoolVal(lf > rf), nil
	default:
		return nil, errAt(ErrUnknownOperator, e.GetSpan(), "unknown binary operator: '%s'", e.Op)
	}
}

func (i *Interpreter) evalLogical(e *ast.BinaryExpr, env *Environment) (Value, error) {
	left, err := i.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	l, ok := left.(BoolVal)
	if !ok {
		return nil, errAt(ErrType, e.Left.GetSpan(),
			"operator '%s' requires boolean operands, got '%s'", e.Op, left.TypeName())
	}

	if e.Op == token.AND && !bool(l) {
		return BoolVal(false), nil
	}
	if e.Op == token.OR && bool(l) {
		return BoolVal(true), nil
	}

	right, err := i.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}
	r, ok := right.(BoolVal)
	if !ok {
		return nil, errAt(ErrType, e.Right.GetSpan(),
			"operator '%s' requires boolean operands, got '%s'", e.Op, right.TypeName())
	}
	return r, nil
}

func (i *Interpreter) evalConditional(e *ast.ConditionalExpr, env *Environment) (Value, error) {
	test, err := i.evalExpr(e.Test, env)
	if err != nil {
		return nil, err
	}
	b, ok := test.(BoolVal)
	if !ok {
		return nil, errAt(ErrType, e.Test.GetSpan(),
			"conditional test must be a boolean, got '%s'", test.TypeName())
	}
	// Exactly one branch is ever evaluated.
	if bool(b) {
		return i.evalExpr(e.Consequent, env)
	}
	return i.evalExpr(e.Alternate, env)
}

func (i *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral, env *Environment) (Value, error) {
	elements := make([]Value, len(e.Elements))
	for idx, elemExpr := range e.Elements {
		val, err := i.evalExpr(elemExpr, env)
		if err != nil {
			return nil, err
		}
		elements[idx] = val
	}
	return &ArrayVal{Elements: elements}, nil
}

func (i *Interpreter) evalSubscript(e *ast.Subscript, env *Environment) (Value, error) {
	obj, err := i.evalExpr(e.Array, env)
	if err != nil {
		return nil, err
	}
	arr, ok := obj.(*ArrayVal)
	if !ok {
		return nil, errAt(ErrType, e.Array.GetSpan(),
			"cannot subscript value of type '%s'", obj.TypeName())
	}

	idxVal, err := i.evalExpr(e.Index, env)
	if err != nil {
		return nil, err
	}
	n, ok := idxVal.(NumberVal)
	if !ok {
		return nil, errAt(ErrType, e.Index.GetSpan(),
			"array index must be a number, got '%s'", idxVal.TypeName())
	}
	f := float64(n)
	if f != math.Trunc(f) || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errAt(ErrType, e.Index.GetSpan(), "array index must be an integer, got %s", n)
	}

	idx := int(f)
	if idx < 0 || idx >= len(arr.Elements) {
		return nil, errAt(ErrIndexOutOfRange, e.GetSpan(),
			"index %d out of range (length %d)", idx, len(arr.Elements))
	}
	return arr.Elements[idx], nil
}

func (i *Interpreter) evalCall(e *ast.CallExpr, env *Environment) (Value, error) {
	callee, err := i.evalExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}

	// Arguments evaluate left-to-right before dispatch.
	args := make([]Value, len(e.Args))
	for idx, argExpr := range e.Args {
		val, err := i.evalExpr(argExpr, env)
		if err != nil {
			return nil, err
		}
		args[idx] = val
	}

	switch fn := callee.(type) {
	case *ClosureVal:
		return i.callClosure(fn, args, e)
	case *BuiltinVal:
		return i.callBuiltin(fn, args, e)
	default:
		return nil, errAt(ErrNotCallable, e.GetSpan(),
			"cannot call value of type '%s'", callee.TypeName())
	}
}

// callClosure binds arguments in a fresh frame parented to the closure's
// captured frame and evaluates the body there. The frame is discarded when
// the call returns.
func (i *Interpreter) callClosure(fn *ClosureVal, args []Value, e *ast.CallExpr) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, errAt(ErrArityMismatch, e.GetSpan(),
			"%s() expects %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}

	frame := NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		if derr := frame.Declare(param, args[idx]); derr != nil {
			return nil, derr.At(e.GetSpan())
		}
	}
	return i.evalExpr(fn.Body, frame)
}

func (i *Interpreter) callBuiltin(fn *BuiltinVal, args []Value, e *ast.CallExpr) (Value, error) {
	if len(args) != fn.Arity {
		return nil, errAt(ErrArityMismatch, e.GetSpan(),
			"%s() expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
	}

	nums := make([]float64, len(args))
	for idx, arg := range args {
		n, ok := arg.(NumberVal)
		if !ok {
			return nil, errAt(ErrType, e.Args[idx].GetSpan(),
				"%s() requires number arguments, got '%s'", fn.Name, arg.TypeName())
		}
		nums[idx] = float64(n)
	}
	return NumberVal(fn.Fn(nums)), nil
}
