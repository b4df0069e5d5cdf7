package lang

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/yeti/value"
)

// Evaluate reduces expr to a value in env. The returned
// environment is always the one the *caller* should continue with:
// `def` and native forms that bind names return an extended
// environment; everything with its own local scope (`let`, `for`,
// function application) evaluates internally against an extended
// environment but hands back the environment it was given. A non-nil
// Go error is a host-level failure (malformed internal state) or a
// failed `import`, which reports any failure to read, tokenize, parse or
// evaluate the imported file this way; a language-level failure is an ordinary returned
// Effect value with a nil error — callers must check value.IsEffect
// before doing anything else with the result.
func Evaluate(env *value.Environment, expr value.Expression) (*value.Environment, value.Expression, error) {
	switch e := expr.(type) {
	case value.Symbol:
		v, ok := env.Lookup(string(e))
		if !ok {
			return env, value.NewError(fmt.Sprintf("Symbol %s not found", string(e))), nil
		}
		return env, v, nil

	case value.NamespacedSymbol:
		return evaluateNamespacedSymbol(env, e)

	case value.Quote:
		return env, e.Expr, nil

	case value.Deref:
		_, v, err := Evaluate(env, e.Expr)
		if err != nil || value.IsEffect(v) {
			return env, v, err
		}
		atom, ok := v.(value.Atom)
		if !ok {
			return env, value.NewError("Deref target is not an Atom"), nil
		}
		return env, atom.Get(), nil

	case value.Array:
		values, effect, err := evaluateConcurrent(env, e.Elements)
		if err != nil || effect != nil {
			return env, orEffect(effect), err
		}
		return env, value.NewArray(values...), nil

	case value.Map:
		return evaluateMapLiteral(env, e)

	case value.Call:
		return evaluateCall(env, e)

	default:
		// Every remaining variant (Nil, Bool, Integer, Ratio, Float,
		// String, Keyword, Function, NativeFunction, Module, Atom,
		// Channel, NativeType, Effect) evaluates to itself.
		return env, expr, nil
	}
}

func orEffect(e value.Expression) value.Expression {
	if e == nil {
		return value.Nil{}
	}
	return e
}

func evaluateNamespacedSymbol(env *value.Environment, sym value.NamespacedSymbol) (*value.Environment, value.Expression, error) {
	if len(sym) == 0 {
		return env, value.NewError("empty namespaced symbol"), nil
	}
	v, ok := env.Lookup(sym[0])
	if !ok {
		return env, value.NewError(fmt.Sprintf("Symbol %s not found", sym[0])), nil
	}
	cur := v
	for _, part := range sym[1:] {
		mod, ok := cur.(value.Module)
		if !ok {
			return env, value.NewError(fmt.Sprintf("%s is not a Module", cur.String())), nil
		}
		next, ok := mod.Env.Lookup(part)
		if !ok {
			return env, value.NewError(fmt.Sprintf("Symbol %s not found in module %s", part, mod.Name)), nil
		}
		cur = next
	}
	return env, cur, nil
}

func evaluateMapLiteral(env *value.Environment, m value.Map) (*value.Environment, value.Expression, error) {
	result := value.NewMap()
	var failure value.Expression
	m.Range(func(k, v value.Expression) bool {
		_, kv, err := Evaluate(env, k)
		if err != nil {
			failure = value.NewError(err.Error())
			return false
		}
		if value.IsEffect(kv) {
			failure = kv
			return false
		}
		_, vv, err := Evaluate(env, v)
		if err != nil {
			failure = value.NewError(err.Error())
			return false
		}
		if value.IsEffect(vv) {
			failure = vv
			return false
		}
		result = result.Assoc(kv, vv)
		return true
	})
	if failure != nil {
		return env, failure, nil
	}
	return env, result, nil
}

func evaluateCall(env *value.Environment, call value.Call) (*value.Environment, value.Expression, error) {
	_, fn, err := Evaluate(env, call.Function)
	if err != nil || value.IsEffect(fn) {
		return env, fn, err
	}

	switch f := fn.(type) {
	case value.Function:
		return callFunction(env, f, call.Arguments)
	case value.NativeFunction:
		return f.Fn(env, call.Arguments, Evaluate)
	case value.Keyword:
		args, effect, err := evaluateConcurrent(env, call.Arguments)
		if err != nil || effect != nil {
			return env, orEffect(effect), err
		}
		return env, lookupInMapArg(f, args), nil
	case value.Map:
		args, effect, err := evaluateConcurrent(env, call.Arguments)
		if err != nil || effect != nil {
			return env, orEffect(effect), err
		}
		return env, lookupMapByArg(f, args), nil
	default:
		return env, value.NewError(fmt.Sprintf("Cannot call %s", fn.String())), nil
	}
}

func lookupInMapArg(k value.Keyword, args []value.Expression) value.Expression {
	if len(args) == 0 {
		return value.NewError("keyword call requires a map argument")
	}
	m, ok := args[0].(value.Map)
	if !ok {
		return value.NewError("keyword call requires a map argument")
	}
	if v, present := m.Get(k); present {
		return v
	}
	if len(args) > 1 {
		return args[1]
	}
	return value.Nil{}
}

func lookupMapByArg(m value.Map, args []value.Expression) value.Expression {
	if len(args) == 0 {
		return value.NewError("map call requires a key argument")
	}
	if v, present := m.Get(args[0]); present {
		return v
	}
	if len(args) > 1 {
		return args[1]
	}
	return value.Nil{}
}

// callFunction dispatches a user Function application:
// arguments are evaluated concurrently in the caller's env, a clause is
// chosen by first-match pattern dispatch, the body is evaluated
// sequentially against an env rooted at the function's captured
// environment, and the caller's own env is returned unchanged.
func callFunction(callerEnv *value.Environment, fn value.Function, rawArgs []value.Expression) (*value.Environment, value.Expression, error) {
	args, effect, err := evaluateConcurrent(callerEnv, rawArgs)
	if err != nil || effect != nil {
		return callerEnv, orEffect(effect), err
	}

	idx, callEnv, matchErr := FindClauseMatch(fn.Captured, fn.Clauses, args)
	if matchErr != nil {
		return callerEnv, value.NewError(matchErr.Error()), nil
	}

	callEnv = callEnv.Insert("recur", fn)
	if selfSym, ok := fn.Captured.Lookup("*self*"); ok {
		if name, ok := selfSym.(value.Symbol); ok {
			callEnv = callEnv.Insert(string(name), fn)
		}
	}

	body := fn.Clauses[idx].Body

	result, err := evaluateSequentialBody(callEnv, body)
	if err != nil {
		return callerEnv, nil, err
	}
	return callerEnv, result, nil
}

// evaluateSequentialBody threads env forward through each expression in
// order, keeping only the last value — the shape shared by `let` bodies,
// function bodies, and `for` iteration bodies.
func evaluateSequentialBody(env *value.Environment, body []value.Expression) (value.Expression, error) {
	if len(body) == 0 {
		return value.Nil{}, nil
	}
	var result value.Expression = value.Nil{}
	cur := env
	for _, expr := range body {
		next, v, err := Evaluate(cur, expr)
		if err != nil {
			return nil, err
		}
		if value.IsEffect(v) {
			return v, nil
		}
		cur = next
		result = v
	}
	return result, nil
}

// Apply invokes callee with arguments that are already-evaluated values
// (not raw syntax), used by intrinsics like `swap!` that need to call a
// user-supplied callable on a computed value. For a NativeFunction this
// passes a pass-through Evaluator so self-evaluating literal values
// (including composite Array/Map values) are not mistakenly re-walked as
// syntax.
func Apply(env *value.Environment, callee value.Expression, args []value.Expression) (value.Expression, error) {
	switch f := callee.(type) {
	case value.Function:
		idx, callEnv, err := FindClauseMatch(f.Captured, f.Clauses, args)
		if err != nil {
			return value.NewError(err.Error()), nil
		}
		callEnv = callEnv.Insert("recur", f)
		if selfSym, ok := f.Captured.Lookup("*self*"); ok {
			if name, ok := selfSym.(value.Symbol); ok {
				callEnv = callEnv.Insert(string(name), f)
			}
		}
		return evaluateSequentialBody(callEnv, f.Clauses[idx].Body)
	case value.NativeFunction:
		passthrough := func(_ *value.Environment, e value.Expression) (*value.Environment, value.Expression, error) {
			return env, e, nil
		}
		exprArgs := make([]value.Expression, len(args))
		copy(exprArgs, args)
		_, v, err := f.Fn(env, exprArgs, passthrough)
		return v, err
	case value.Keyword:
		return lookupInMapArg(f, args), nil
	case value.Map:
		return lookupMapByArg(f, args), nil
	default:
		return value.NewError(fmt.Sprintf("Cannot call %s", callee.String())), nil
	}
}

// evaluateConcurrent evaluates exprs against the same starting env on
// separate goroutines (argument lists, Array literals, `do` and `when`
// bodies), gathering results in positional order. Each goroutine's
// returned environment is discarded — only `def` at sequential body
// scope is guaranteed to be observed.
// Returns the first Effect by position if any element produced one.
func evaluateConcurrent(env *value.Environment, exprs []value.Expression) ([]value.Expression, value.Expression, error) {
	results := make([]value.Expression, len(exprs))
	var g errgroup.Group
	for i, expr := range exprs {
		i, expr := i, expr
		g.Go(func() error {
			_, v, err := Evaluate(env, expr)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	for _, v := range results {
		if value.IsEffect(v) {
			return nil, v, nil
		}
	}
	return results, nil, nil
}
