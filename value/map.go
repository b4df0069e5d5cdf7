package value

import (
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is a persistent, key-ordered, structurally-compared keyed
// collection: iterating (Range, String, and everything built on them)
// always walks entries in the total order Expression.Compare imposes on
// their keys, never insertion order. Any Expression may be a key,
// including another Map or Array — Go's built-in `comparable` constraint
// can't express that safely (a slice-backed Array would panic `==`), so
// the map is keyed internally by each key's CanonKey() string rather
// than by the Expression value itself; orderedmap only supplies O(1)
// get/set/delete; iteration order is computed fresh from Compare.
type Map struct {
	entries *orderedmap.OrderedMap[string, mapEntry]
}

type mapEntry struct {
	Key   Expression
	Value Expression
}

// NewMap builds an empty Map.
func NewMap() Map {
	return Map{entries: orderedmap.New[string, mapEntry]()}
}

// Len reports the number of entries.
func (m Map) Len() int {
	if m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

// Get returns the value bound to key and whether it was present.
func (m Map) Get(key Expression) (Expression, bool) {
	if m.entries == nil {
		return nil, false
	}
	e, ok := m.entries.Get(key.CanonKey())
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Assoc returns a new Map with key bound to value, leaving m unchanged.
// An existing binding for an Equal key is replaced in place; a new key
// takes its place in the key-ordered iteration, not at either end.
func (m Map) Assoc(key, v Expression) Map {
	next := m.clone()
	next.entries.Set(key.CanonKey(), mapEntry{Key: key, Value: v})
	return next
}

// Dissoc returns a new Map with key removed, leaving m unchanged. Removing
// an absent key is a no-op that still yields a fresh (equal) Map.
func (m Map) Dissoc(key Expression) Map {
	next := m.clone()
	next.entries.Delete(key.CanonKey())
	return next
}

// Merge returns a new Map containing m's entries overlaid by other's:
// keys present in both take other's value, and any key other introduces
// is added. Iteration order is by key, not by which side introduced it.
func (m Map) Merge(other Map) Map {
	next := m.clone()
	if other.entries != nil {
		for pair := other.entries.Oldest(); pair != nil; pair = pair.Next() {
			next.entries.Set(pair.Key, pair.Value)
		}
	}
	return next
}

// Range calls fn for each entry in key order (Expression.Compare over
// the entries' keys), stopping early if fn returns false.
func (m Map) Range(fn func(key, value Expression) bool) {
	for _, e := range m.sortedEntries() {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// sortedEntries returns m's entries sorted by key total order. The
// underlying orderedmap only needs to support Get/Set/Delete; every
// reader goes through this so insertion order never leaks out.
func (m Map) sortedEntries() []mapEntry {
	if m.entries == nil {
		return nil
	}
	entries := make([]mapEntry, 0, m.entries.Len())
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, pair.Value)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.Compare(entries[j].Key) < 0
	})
	return entries
}

func (m Map) clone() Map {
	next := NewMap()
	if m.entries != nil {
		for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
			next.entries.Set(pair.Key, pair.Value)
		}
	}
	return next
}

func (m Map) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	m.Range(func(k, v Expression) bool {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(k.String())
		b.WriteByte(' ')
		b.WriteString(v.String())
		return true
	})
	b.WriteByte('}')
	return b.String()
}

// Equal reports structural equality: same set of keys (by CanonKey), same
// value under each key. Insertion order does not affect equality.
func (m Map) Equal(other Expression) bool {
	o, ok := other.(Map)
	if !ok || m.Len() != o.Len() {
		return false
	}
	equal := true
	m.Range(func(k, v Expression) bool {
		ov, present := o.Get(k)
		if !present || !v.Equal(ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

func (m Map) Compare(other Expression) int {
	o, ok := other.(Map)
	if !ok {
		return compareRank(m, other)
	}
	return strings.Compare(m.CanonKey(), o.CanonKey())
}

// CanonKey builds a canonical representation from the key-ordered entry
// sequence, so two structurally-equal maps built in different insertion
// orders produce the same key.
func (m Map) CanonKey() string {
	var b strings.Builder
	b.WriteString("m:{")
	first := true
	m.Range(func(k, v Expression) bool {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(k.CanonKey())
		b.WriteByte('=')
		b.WriteString(v.CanonKey())
		return true
	})
	b.WriteByte('}')
	return b.String()
}

func (Map) exprTag() tag { return tagMap }
