package value

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// FunctionClause is one (pattern, body) arm of a multi-clause function.
// Params is matched positionally against the call's argument list by the
// pattern matcher; Body is evaluated sequentially once Params
// matches, keeping only its last value.
type FunctionClause struct {
	Params Array
	Body   []Expression
}

// Function is a user-defined, possibly multi-clause, pattern-matched
// procedure closing over the environment in which it was defined. Name
// is non-empty only for functions bound via `defn` and is used for
// display. `defn` also binds `*self*` in Captured, from which the
// evaluator injects the function under its own name at every call so
// the body can recurse by name.
type Function struct {
	Name     string
	Clauses  []FunctionClause
	Captured *Environment
}

func (f Function) String() string {
	var b strings.Builder
	b.WriteString("#function(")
	if f.Name != "" {
		b.WriteString(f.Name)
	} else {
		b.WriteString("anonymous")
	}
	b.WriteByte(')')
	return b.String()
}

func (f Function) Equal(other Expression) bool {
	o, ok := other.(Function)
	return ok && sameClauses(f.Clauses, o.Clauses) && f.Captured == o.Captured
}

func sameClauses(a, b []FunctionClause) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Params.Equal(b[i].Params) || len(a[i].Body) != len(b[i].Body) {
			return false
		}
		for j := range a[i].Body {
			if !a[i].Body[j].Equal(b[i].Body[j]) {
				return false
			}
		}
	}
	return true
}

func (f Function) Compare(other Expression) int { return compareRank(f, other) }
func (f Function) CanonKey() string             { return "fn:" + f.String() }
func (Function) exprTag() tag                   { return tagFunction }

// Evaluator is the callback a NativeFunction uses to evaluate its own
// raw arguments. lang.Evaluate is passed down through every call
// rather than imported, since value cannot depend on lang.
type Evaluator func(env *Environment, expr Expression) (*Environment, Expression, error)

// NativeFunction wraps a Go-implemented intrinsic or special form.
// Unlike Function, it receives its arguments unevaluated along
// with the calling environment and an Evaluator callback, and returns a
// (possibly extended) environment alongside its result — this is how
// `def`, `defn`, and `import` thread bindings back to the caller. A
// non-nil Go error signals a host-level failure (I/O, internal
// invariant); a language-level failure is reported by returning an
// Effect value with a nil error.
type NativeFunction struct {
	Name string
	Fn   func(env *Environment, args []Expression, eval Evaluator) (*Environment, Expression, error)
}

func (n NativeFunction) String() string { return "#native-function(" + n.Name + ")" }
func (n NativeFunction) Equal(other Expression) bool {
	o, ok := other.(NativeFunction)
	return ok && n.Name == o.Name
}
func (n NativeFunction) Compare(other Expression) int {
	o, ok := other.(NativeFunction)
	if !ok {
		return compareRank(n, other)
	}
	return strings.Compare(n.Name, o.Name)
}
func (n NativeFunction) CanonKey() string { return "nf:" + n.Name }
func (NativeFunction) exprTag() tag       { return tagNativeFunction }

// Module is the result of `import`ing a source file or installing a
// native module table: an opaque environment dereferenced only through
// namespaced symbols.
type Module struct {
	Name string
	Env  *Environment
}

func (m Module) String() string { return "#module(" + m.Name + ")" }
func (m Module) Equal(other Expression) bool {
	o, ok := other.(Module)
	return ok && m.Name == o.Name && m.Env == o.Env
}
func (m Module) Compare(other Expression) int {
	o, ok := other.(Module)
	if !ok {
		return compareRank(m, other)
	}
	return strings.Compare(m.Name, o.Name)
}
func (m Module) CanonKey() string { return "mo:" + m.Name }
func (Module) exprTag() tag       { return tagModule }

// NativeType wraps an arbitrary Go value opaque to yeti code (e.g. a
// database handle from an external module). Equality, ordering and
// display are all by handle identity, never by the wrapped value's
// contents.
type NativeType struct {
	id    uuid.UUID
	Name  string
	mu    *sync.Mutex
	Value any
}

// NewNativeType wraps v under the given display name.
func NewNativeType(name string, v any) NativeType {
	return NativeType{id: uuid.New(), Name: name, mu: &sync.Mutex{}, Value: v}
}

// With runs fn with exclusive access to the wrapped value.
func (n NativeType) With(fn func(v any)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn(n.Value)
}

func (n NativeType) String() string { return "#" + n.Name + "(" + n.id.String() + ")" }
func (n NativeType) Equal(other Expression) bool {
	o, ok := other.(NativeType)
	return ok && n.id == o.id
}
func (n NativeType) Compare(other Expression) int {
	o, ok := other.(NativeType)
	if !ok {
		return compareRank(n, other)
	}
	switch {
	case n.id == o.id:
		return 0
	case n.id.String() < o.id.String():
		return -1
	default:
		return 1
	}
}
func (n NativeType) CanonKey() string { return "nt:" + n.id.String() }
func (NativeType) exprTag() tag       { return tagNativeType }
