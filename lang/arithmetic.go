package lang

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/gitrdm/yeti/value"
)

// numericTier ranks the three numeric Expression variants so binary
// arithmetic can promote its operands to their common representation:
// int×ratio promotes to ratio, then re-normalises to int if whole.
func numericTier(e value.Expression) int {
	switch e.(type) {
	case value.Integer:
		return 0
	case value.Ratio:
		return 1
	case value.Float:
		return 2
	default:
		return -1
	}
}

func toRat(e value.Expression) (*big.Rat, bool) {
	switch v := e.(type) {
	case value.Integer:
		return new(big.Rat).SetInt(v.V), true
	case value.Ratio:
		return v.V, true
	default:
		return nil, false
	}
}

func toFloat(e value.Expression, prec uint) (*big.Float, bool) {
	switch v := e.(type) {
	case value.Integer:
		return new(big.Float).SetPrec(prec).SetInt(v.V), true
	case value.Ratio:
		f, _ := v.V.Float64()
		return new(big.Float).SetPrec(prec).SetFloat64(f), true
	case value.Float:
		return new(big.Float).SetPrec(prec).Set(v.V), true
	default:
		return nil, false
	}
}

func floatPrec(a, b value.Expression) uint {
	var prec uint = 53
	if f, ok := a.(value.Float); ok && f.Prec > prec {
		prec = f.Prec
	}
	if f, ok := b.(value.Float); ok && f.Prec > prec {
		prec = f.Prec
	}
	return prec
}

type binaryOp func(x, y *big.Int) (*big.Int, error)
type ratOp func(x, y *big.Rat) *big.Rat
type floatOp func(x, y *big.Float) *big.Float

func binaryNumeric(a, b value.Expression, intOp binaryOp, rOp ratOp, fOp floatOp) (value.Expression, error) {
	ta, tb := numericTier(a), numericTier(b)
	if ta < 0 {
		return nil, errors.Errorf("Expected integer argument, got %s", a.String())
	}
	if tb < 0 {
		return nil, errors.Errorf("Expected integer argument, got %s", b.String())
	}
	tier := ta
	if tb > tier {
		tier = tb
	}
	switch tier {
	case 0:
		ai, bi := a.(value.Integer), b.(value.Integer)
		result, err := intOp(ai.V, bi.V)
		if err != nil {
			return nil, err
		}
		return value.NewIntegerFromBigInt(result), nil
	case 1:
		ar, _ := toRat(a)
		br, _ := toRat(b)
		return value.NewRatioFromBigRat(rOp(ar, br)), nil
	default:
		prec := floatPrec(a, b)
		af, _ := toFloat(a, prec)
		bf, _ := toFloat(b, prec)
		return value.NewFloat(fOp(af, bf), prec), nil
	}
}

func addNumbers(a, b value.Expression) (value.Expression, error) {
	return binaryNumeric(a, b,
		func(x, y *big.Int) (*big.Int, error) { return new(big.Int).Add(x, y), nil },
		func(x, y *big.Rat) *big.Rat { return new(big.Rat).Add(x, y) },
		func(x, y *big.Float) *big.Float { return new(big.Float).Add(x, y) })
}

func subNumbers(a, b value.Expression) (value.Expression, error) {
	return binaryNumeric(a, b,
		func(x, y *big.Int) (*big.Int, error) { return new(big.Int).Sub(x, y), nil },
		func(x, y *big.Rat) *big.Rat { return new(big.Rat).Sub(x, y) },
		func(x, y *big.Float) *big.Float { return new(big.Float).Sub(x, y) })
}

func mulNumbers(a, b value.Expression) (value.Expression, error) {
	return binaryNumeric(a, b,
		func(x, y *big.Int) (*big.Int, error) { return new(big.Int).Mul(x, y), nil },
		func(x, y *big.Rat) *big.Rat { return new(big.Rat).Mul(x, y) },
		func(x, y *big.Float) *big.Float { return new(big.Float).Mul(x, y) })
}

// divNumbers honours the rule that integer division always yields a
// Ratio (subsequently normalised to Integer when it divides evenly),
// even when both operands are Integer — (/ 6 3) therefore builds a
// Ratio 6/3 before normalizeRatio collapses it to Integer(2).
func divNumbers(a, b value.Expression) (value.Expression, error) {
	ta, tb := numericTier(a), numericTier(b)
	if ta < 0 {
		return nil, errors.Errorf("Expected integer argument, got %s", a.String())
	}
	if tb < 0 {
		return nil, errors.Errorf("Expected integer argument, got %s", b.String())
	}
	tier := ta
	if tb > tier {
		tier = tb
	}
	if tier == 2 {
		prec := floatPrec(a, b)
		af, _ := toFloat(a, prec)
		bf, _ := toFloat(b, prec)
		if bf.Sign() == 0 {
			return nil, errors.New("division by zero")
		}
		return value.NewFloat(new(big.Float).Quo(af, bf), prec), nil
	}
	ar, _ := toRat(a)
	br, _ := toRat(b)
	if br.Sign() == 0 {
		return nil, errors.New("division by zero")
	}
	return value.NewRatioFromBigRat(new(big.Rat).Quo(ar, br)), nil
}

func arithmeticIntrinsics() []value.NativeFunction {
	return []value.NativeFunction{
		native("+", nativeAdd),
		native("-", nativeSub),
		native("*", nativeMul),
		native("/", nativeDiv),
		native("=", nativeEq),
	}
}

func foldArithmetic(env *value.Environment, eval value.Evaluator, args []value.Expression, identity value.Expression, op func(a, b value.Expression) (value.Expression, error)) (*value.Environment, value.Expression, error) {
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	if len(values) == 0 {
		return env, identity, nil
	}
	acc := values[0]
	for _, v := range values[1:] {
		next, opErr := op(acc, v)
		if opErr != nil {
			return env, value.NewError(opErr.Error()), nil
		}
		acc = next
	}
	return env, acc, nil
}

func nativeAdd(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	return foldArithmetic(env, eval, args, value.NewInteger(0), addNumbers)
}

func nativeMul(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	return foldArithmetic(env, eval, args, value.NewInteger(1), mulNumbers)
}

// nativeSub is asymmetric with `+`/`*`: `-` requires at least one
// argument, and a single argument negates it rather than acting as an
// identity.
func nativeSub(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	if len(values) == 0 {
		return env, value.NewError("- requires at least 1 argument"), nil
	}
	if len(values) == 1 {
		neg, negErr := subNumbers(value.NewInteger(0), values[0])
		if negErr != nil {
			return env, value.NewError(negErr.Error()), nil
		}
		return env, neg, nil
	}
	acc := values[0]
	for _, v := range values[1:] {
		next, subErr := subNumbers(acc, v)
		if subErr != nil {
			return env, value.NewError(subErr.Error()), nil
		}
		acc = next
	}
	return env, acc, nil
}

func nativeDiv(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	if len(values) == 0 {
		return env, value.NewError("/ requires at least 1 argument"), nil
	}
	acc := values[0]
	for _, v := range values[1:] {
		next, divErr := divNumbers(acc, v)
		if divErr != nil {
			return env, value.NewError(divErr.Error()), nil
		}
		acc = next
	}
	return env, acc, nil
}

// nativeEq implements the binary-only `=`: any arity
// other than exactly two arguments is an error rather than a guess.
func nativeEq(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 2 {
		return env, value.NewError("= requires exactly 2 arguments"), nil
	}
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	return env, value.Bool(values[0].Equal(values[1])), nil
}
