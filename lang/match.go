package lang

import (
	"fmt"
	"strings"

	"github.com/gitrdm/yeti/value"
)

// Match structurally matches pattern against subject, extending env on
// success. A Symbol pattern binds unconditionally (including the
// conventional wildcard name "_", which the caller may simply never
// look up). Keyword/String/Integer/Nil patterns require literal
// equality. Array patterns require element-wise positional match of
// equal length. Map patterns require every pattern key to be present in
// the subject map, recursing on each value; extra subject keys are
// allowed. Anything else fails.
func Match(env *value.Environment, pattern, subject value.Expression) (*value.Environment, bool) {
	switch p := pattern.(type) {
	case value.Symbol:
		return env.Insert(string(p), subject), true
	case value.Keyword, value.String, value.Integer, value.Nil:
		if pattern.Equal(subject) {
			return env, true
		}
		return env, false
	case value.Array:
		sub, ok := subject.(value.Array)
		if !ok || len(sub.Elements) != len(p.Elements) {
			return env, false
		}
		cur := env
		for i := range p.Elements {
			next, ok := Match(cur, p.Elements[i], sub.Elements[i])
			if !ok {
				return env, false
			}
			cur = next
		}
		return cur, true
	case value.Map:
		sub, ok := subject.(value.Map)
		if !ok {
			return env, false
		}
		cur := env
		matched := true
		p.Range(func(k, pv value.Expression) bool {
			sv, present := sub.Get(k)
			if !present {
				matched = false
				return false
			}
			next, ok := Match(cur, pv, sv)
			if !ok {
				matched = false
				return false
			}
			cur = next
			return true
		})
		if !matched {
			return env, false
		}
		return cur, true
	default:
		return env, false
	}
}

// FindClauseMatch tries each clause's parameter Array against arguments
// in declaration order, returning the index and extended env of the
// first success. On total failure, err concatenates every clause's
// individual failure message.
func FindClauseMatch(env *value.Environment, clauses []value.FunctionClause, arguments []value.Expression) (int, *value.Environment, error) {
	args := value.NewArray(arguments...)
	var failures []string
	for i, clause := range clauses {
		if next, ok := Match(env, clause.Params, args); ok {
			return i, next, nil
		}
		failures = append(failures, fmt.Sprintf("Cannot pattern match %s with %s", clause.Params.String(), args.String()))
	}
	return -1, nil, fmt.Errorf("%s", strings.Join(failures, "; "))
}
