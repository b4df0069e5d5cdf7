package value

// Environment is a persistent, immutable binding chain. Insert never
// mutates the receiver: it returns a new frame pointing at the old one,
// so any caller still holding the prior *Environment sees it unaffected
// by bindings introduced afterward. This is what gives `let`, `for`
// iterations and function calls scope hygiene for free — a child scope
// is simply a new frame on top of its parent's pointer.
type Environment struct {
	parent *Environment
	name   string
	value  Expression
}

// NewEnvironment returns the empty root environment.
func NewEnvironment() *Environment {
	return nil
}

// Insert returns a new environment with name bound to v, shadowing any
// existing binding of the same name without disturbing it.
func (e *Environment) Insert(name string, v Expression) *Environment {
	return &Environment{parent: e, name: name, value: v}
}

// Lookup walks the frame chain from the most recently inserted binding
// outward, returning the first match.
func (e *Environment) Lookup(name string) (Expression, bool) {
	for f := e; f != nil; f = f.parent {
		if f.name == name {
			return f.value, true
		}
	}
	return nil, false
}
