package value

import "strings"

// Effect is a failure value surfaced out of evaluation: a
// kind tag plus a sequence of arguments. The only kind the core itself
// produces is "error" carrying a single String argument, but the shape
// is general so native modules can report richer effects; the evaluator
// treats any Effect uniformly as a short-circuiting failure regardless
// of kind.
type Effect struct {
	Kind      string
	Arguments []Expression
}

// NewError builds the core's one production Effect kind: a single
// String-carrying "error" effect.
func NewError(message string) Effect {
	return Effect{Kind: "error", Arguments: []Expression{String(message)}}
}

// Message returns the effect's display message: the first argument's
// string form if present, else the kind itself.
func (e Effect) Message() string {
	if len(e.Arguments) == 0 {
		return e.Kind
	}
	if s, ok := e.Arguments[0].(String); ok {
		return string(s)
	}
	return e.Arguments[0].String()
}

func (e Effect) String() string {
	var b strings.Builder
	b.WriteString("#effect(")
	b.WriteString(e.Kind)
	for _, a := range e.Arguments {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (e Effect) Equal(other Expression) bool {
	o, ok := other.(Effect)
	if !ok || e.Kind != o.Kind || len(e.Arguments) != len(o.Arguments) {
		return false
	}
	for i := range e.Arguments {
		if !e.Arguments[i].Equal(o.Arguments[i]) {
			return false
		}
	}
	return true
}

func (e Effect) Compare(other Expression) int { return compareRank(e, other) }
func (e Effect) CanonKey() string             { return "ef:" + e.String() }
func (Effect) exprTag() tag                   { return tagEffect }
