package runtime

import "math"

// RegisterBuiltins binds the native math library into the given frame.
// Every built-in is mathematically pure.
func RegisterBuiltins(env *Environment) {
	natives := []*BuiltinVal{
		{Name: "sin", Arity: 1, Fn: func(args []float64) float64 { return math.Sin(args[0]) }},
		{Name: "cos", Arity: 1, Fn: func(args []float64) float64 { return math.Cos(args[0]) }},
		{Name: "sqrt", Arity: 1, Fn: func(args []float64) float64 { return math.Sqrt(args[0]) }},
		{Name: "exp", Arity: 1, Fn: func(args []float64) float64 { return math.Exp(args[0]) }},
		{Name: "ln", Arity: 1, Fn: func(args []float64) float64 { return math.Log(args[0]) }},
		{Name: "hypot", Arity: 2, Fn: func(args []float64) float64 { return math.Hypot(args[0], args[1]) }},
	}
	for _, fn := range natives {
		env.Declare(fn.Name, fn)
	}
	env.Declare("π", NumberVal(math.Pi))
}
