package lang

import (
	"github.com/gitrdm/yeti/value"
)

func collectionIntrinsics() []value.NativeFunction {
	return []value.NativeFunction{
		native("assoc", nativeAssoc),
		native("dissoc", nativeDissoc),
		native("merge", nativeMerge),
		native("get", nativeGet),
		native("nth", nativeNth),
		native("count", nativeCount),
	}
}

func nativeAssoc(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 3 {
		return env, value.NewError("assoc requires exactly 3 arguments"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	m, ok := values[0].(value.Map)
	if !ok {
		return env, value.NewError("assoc requires a Map argument"), nil
	}
	return env, m.Assoc(values[1], values[2]), nil
}

func nativeDissoc(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 2 {
		return env, value.NewError("dissoc requires exactly 2 arguments"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	m, ok := values[0].(value.Map)
	if !ok {
		return env, value.NewError("dissoc requires a Map argument"), nil
	}
	return env, m.Dissoc(values[1]), nil
}

func nativeMerge(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 2 {
		return env, value.NewError("merge requires exactly 2 arguments"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	m1, ok1 := values[0].(value.Map)
	m2, ok2 := values[1].(value.Map)
	if !ok1 || !ok2 {
		return env, value.NewError("merge requires two Map arguments"), nil
	}
	return env, m1.Merge(m2), nil
}

// nativeGet returns Nil, not an error, when the key is absent and no
// default is supplied — deliberately asymmetric with nth.
func nativeGet(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) < 2 || len(args) > 3 {
		return env, value.NewError("get requires 2 or 3 arguments"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	m, ok := values[0].(value.Map)
	if !ok {
		return env, value.NewError("get requires a Map argument"), nil
	}
	if v, present := m.Get(values[1]); present {
		return env, v, nil
	}
	if len(values) == 3 {
		return env, values[2], nil
	}
	return env, value.Nil{}, nil
}

// nativeNth raises "Index out of range" when the index is missing and
// no default is supplied, the mirror-image choice from nativeGet.
func nativeNth(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) < 2 || len(args) > 3 {
		return env, value.NewError("nth requires 2 or 3 arguments"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	a, ok := values[0].(value.Array)
	if !ok {
		return env, value.NewError("nth requires an Array argument"), nil
	}
	idx, ok := values[1].(value.Integer)
	if !ok {
		return env, value.NewError("nth requires an Integer index"), nil
	}
	i := int(idx.V.Int64())
	if i >= 0 && i < len(a.Elements) {
		return env, a.Elements[i], nil
	}
	if len(values) == 3 {
		return env, values[2], nil
	}
	return env, value.NewError("Index out of range"), nil
}

func nativeCount(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("count requires exactly 1 argument"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	switch v := values[0].(type) {
	case value.Array:
		return env, value.NewInteger(int64(len(v.Elements))), nil
	case value.Map:
		return env, value.NewInteger(int64(v.Len())), nil
	default:
		return env, value.NewError("count requires an Array or Map argument"), nil
	}
}
