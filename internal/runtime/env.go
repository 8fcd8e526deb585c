package runtime

// Environment represents a scope frame with a parent chain. The root frame
// holds the built-ins; a child frame is created per function call, parented
// to the closure's captured frame.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new frame with an optional parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Declare binds a new name in the current frame. A name may be declared at
// most once per frame.
func (e *Environment) Declare(name string, value Value) *Error {
	if _, exists := e.values[name]; exists {
		return newError(ErrRedeclaration, "variable '%s' already declared in this scope", name)
	}
	e.values[name] = value
	return nil
}

// Assign mutates an existing binding, searching the frame chain from the
// current frame to the root.
func (e *Environment) Assign(name string, value Value) *Error {
	for env := e; env != nil; env = env.parent {
		if _, exists := env.values[name]; exists {
			env.values[name] = value
			return nil
		}
	}
	return newError(ErrUnboundVariable, "undefined variable '%s'", name)
}

// Lookup finds a binding by walking the frame chain.
func (e *Environment) Lookup(name string) (Value, *Error) {
	for env := e; env != nil; env = env.parent {
		if val, exists := env.values[name]; exists {
			return val, nil
		}
	}
	return nil, newError(ErrUnboundVariable, "undefined variable '%s'", name)
}
