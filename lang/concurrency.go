package lang

import (
	"github.com/gitrdm/yeti/value"
)

func concurrencyIntrinsics() []value.NativeFunction {
	return []value.NativeFunction{
		native("atom", nativeAtom),
		native("reset!", nativeReset),
		native("swap!", nativeSwap),
		native("chan", nativeChan),
		native("put!", nativePut),
		native("take!", nativeTake),
		native("close!", nativeClose),
		native("closed?", nativeClosedQ),
	}
}

func nativeAtom(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("atom requires exactly 1 argument"), nil
	}
	_, v, err := eval(env, args[0])
	if err != nil || value.IsEffect(v) {
		return env, v, err
	}
	return env, value.NewAtom(v), nil
}

func nativeReset(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 2 {
		return env, value.NewError("reset! requires exactly 2 arguments"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	a, ok := values[0].(value.Atom)
	if !ok {
		return env, value.NewError("reset! requires an Atom argument"), nil
	}
	return env, a.Reset(values[1]), nil
}

// nativeSwap evaluates `(f current)` while the atom's lock is held, so
// concurrent swaps can never interleave a read of a stale value with
// another goroutine's write.
func nativeSwap(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 2 {
		return env, value.NewError("swap! requires exactly 2 arguments"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	a, ok := values[0].(value.Atom)
	if !ok {
		return env, value.NewError("swap! requires an Atom argument"), nil
	}
	fn := values[1]
	result, swapErr := a.Swap(func(current value.Expression) (value.Expression, error) {
		return Apply(env, fn, []value.Expression{current})
	})
	if swapErr != nil {
		return env, value.NewError(swapErr.Error()), nil
	}
	return env, result, nil
}

// nativeChan implements `chan [size]` with a default buffer of 1.
func nativeChan(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) > 1 {
		return env, value.NewError("chan requires 0 or 1 arguments"), nil
	}
	capacity := 1
	if len(args) == 1 {
		_, v, err := eval(env, args[0])
		if err != nil || value.IsEffect(v) {
			return env, v, err
		}
		n, ok := v.(value.Integer)
		if !ok {
			return env, value.NewError("chan requires an Integer size"), nil
		}
		capacity = int(n.V.Int64())
	}
	return env, value.NewChannel(capacity), nil
}

// nativePut implements put!: putting Nil is the producer-side
// close signal; putting to an already-closed channel is a silent no-op.
func nativePut(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 2 {
		return env, value.NewError("put! requires exactly 2 arguments"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	c, ok := values[0].(value.Channel)
	if !ok {
		return env, value.NewError("put! requires a Channel argument"), nil
	}
	if _, isNil := values[1].(value.Nil); isNil {
		c.Close()
		return env, value.Nil{}, nil
	}
	c.Put(values[1])
	return env, value.Nil{}, nil
}

func nativeTake(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("take! requires exactly 1 argument"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	c, ok := values[0].(value.Channel)
	if !ok {
		return env, value.NewError("take! requires a Channel argument"), nil
	}
	return env, c.Take(), nil
}

func nativeClose(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("close! requires exactly 1 argument"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	c, ok := values[0].(value.Channel)
	if !ok {
		return env, value.NewError("close! requires a Channel argument"), nil
	}
	c.Close()
	return env, value.Nil{}, nil
}

func nativeClosedQ(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("closed? requires exactly 1 argument"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	c, ok := values[0].(value.Channel)
	if !ok {
		return env, value.NewError("closed? requires a Channel argument"), nil
	}
	return env, value.Bool(c.Closed()), nil
}
