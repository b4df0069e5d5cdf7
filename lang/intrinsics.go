package lang

import (
	"github.com/gitrdm/yeti/value"
)

// native is a shorthand for constructing a NativeFunction entry to
// install in the base environment.
func native(name string, fn func(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error)) value.NativeFunction {
	return value.NativeFunction{Name: name, Fn: fn}
}

// evalAll evaluates each raw argument expression in turn against env,
// stopping at the first Effect or Go error. Intrinsic argument lists are
// evaluated sequentially here, unlike Array literals, `for` iterations,
// and Function application argument lists, which fan out concurrently.
func evalAll(env *value.Environment, eval value.Evaluator, args []value.Expression) ([]value.Expression, value.Expression, error) {
	values := make([]value.Expression, 0, len(args))
	for _, a := range args {
		_, v, err := eval(env, a)
		if err != nil {
			return nil, nil, err
		}
		if value.IsEffect(v) {
			return nil, v, nil
		}
		values = append(values, v)
	}
	return values, nil, nil
}

// EvalAll is evalAll exported for external native modules (e.g.
// internal/stdmodule/io) that need the same sequential-argument-evaluation
// helper the core intrinsics use.
func EvalAll(env *value.Environment, eval value.Evaluator, args []value.Expression) ([]value.Expression, value.Expression, error) {
	return evalAll(env, eval, args)
}

// BaseEnvironment builds the environment every top-level program and
// every imported module starts from: the full intrinsic library
// installed under its form/function name.
func BaseEnvironment() *value.Environment {
	env := value.NewEnvironment()
	for _, entries := range [][]value.NativeFunction{
		coreSpecialForms(),
		arithmeticIntrinsics(),
		collectionIntrinsics(),
		concurrencyIntrinsics(),
	} {
		for _, nf := range entries {
			env = env.Insert(nf.Name, nf)
		}
	}
	return env
}
