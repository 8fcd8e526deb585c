// Package runtime implements the evaluator and runtime value system for Bella.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"bella-lang/internal/ast"
)

// Value is the interface for all runtime values.
type Value interface {
	TypeName() string
	String() string
}

// ---- Primitive values ----

// NumberVal represents a 64-bit floating-point number.
type NumberVal float64

func (v NumberVal) TypeName() string { return "number" }

// String renders the shortest decimal form that round-trips, independent of
// locale.
func (v NumberVal) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "boolean" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }

// ---- Array value ----

// ArrayVal represents an array. Arrays are reference values: assigning or
// passing one never copies its elements.
type ArrayVal struct {
	Elements []Value
}

func (v *ArrayVal) TypeName() string { return "array" }
func (v *ArrayVal) String() string {
	parts := lo.Map(v.Elements, func(e Value, _ int) string { return e.String() })
	return "[" + strings.Join(parts, ", ") + "]"
}

// ---- Callable values ----

// ClosureVal represents a user-defined function: parameter names, a single
// body expression, and the environment frame captured at declaration.
type ClosureVal struct {
	Name    string
	Params  []string
	Body    ast.Expr
	Closure *Environment
}

func (v *ClosureVal) TypeName() string { return "function" }
func (v *ClosureVal) String() string   { return fmt.Sprintf("<function %s>", v.Name) }

// BuiltinFn is the Go signature for native functions. All natives take and
// return numbers.
type BuiltinFn func(args []float64) float64

// BuiltinVal represents a built-in (native) function with fixed arity.
type BuiltinVal struct {
	Name  string
	Arity int
	Fn    BuiltinFn
}

func (v *BuiltinVal) TypeName() string { return "function" }
func (v *BuiltinVal) String() string   { return fmt.Sprintf("<builtin %s>", v.Name) }
