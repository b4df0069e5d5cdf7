package value

import (
	"sync"

	"github.com/google/uuid"
)

// Atom is a mutex-protected mutable cell holding exactly one Expression.
// It is the language's one escape hatch from persistent-value semantics:
// every other value is immutable, but an Atom may be reset or
// atomically swapped in place. Equality and ordering are by handle
// identity, never by the held value.
type Atom struct {
	id    uuid.UUID
	mu    *sync.Mutex
	value *Expression
}

// NewAtom creates a fresh Atom holding initial.
func NewAtom(initial Expression) Atom {
	v := orNil(initial)
	return Atom{id: uuid.New(), mu: &sync.Mutex{}, value: &v}
}

// Get returns the currently held value.
func (a Atom) Get() Expression {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.value
}

// Reset unconditionally replaces the held value and returns it.
func (a Atom) Reset(v Expression) Expression {
	a.mu.Lock()
	defer a.mu.Unlock()
	*a.value = orNil(v)
	return *a.value
}

// Swap replaces the held value with fn(current), evaluated while the
// lock is held so concurrent swaps serialize and never interleave reads
// of a stale value with another goroutine's write. Returns the new
// value.
func (a Atom) Swap(fn func(current Expression) (Expression, error)) (Expression, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	next, err := fn(*a.value)
	if err != nil {
		return nil, err
	}
	*a.value = orNil(next)
	return *a.value, nil
}

func (a Atom) String() string { return "#atom(" + a.id.String() + ")" }

func (a Atom) Equal(other Expression) bool {
	o, ok := other.(Atom)
	return ok && a.id == o.id
}

func (a Atom) Compare(other Expression) int {
	o, ok := other.(Atom)
	if !ok {
		return compareRank(a, other)
	}
	switch {
	case a.id == o.id:
		return 0
	case a.id.String() < o.id.String():
		return -1
	default:
		return 1
	}
}

func (a Atom) CanonKey() string { return "at:" + a.id.String() }

func (Atom) exprTag() tag { return tagAtom }
