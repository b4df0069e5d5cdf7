package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/yeti/value"
)

// runSource tokenizes, parses and evaluates every top-level form of src
// in a fresh base environment, threading the environment forward the way
// cmd/yeti's run command does, and returns the last value.
func runSource(t *testing.T, src string) value.Expression {
	t.Helper()
	tokens, err := Tokenize(src)
	require.NoError(t, err)
	exprs, err := ParseAll(tokens)
	require.NoError(t, err)

	env := BaseEnvironment()
	var result value.Expression = value.Nil{}
	for _, e := range exprs {
		next, v, err := Evaluate(env, e)
		require.NoError(t, err)
		require.False(t, value.IsEffect(v), "unexpected effect: %s", v)
		env = next
		result = v
	}
	return result
}

func runSourceExpectEffect(t *testing.T, src string) value.Effect {
	t.Helper()
	tokens, err := Tokenize(src)
	require.NoError(t, err)
	exprs, err := ParseAll(tokens)
	require.NoError(t, err)

	env := BaseEnvironment()
	for i, e := range exprs {
		next, v, err := Evaluate(env, e)
		require.NoError(t, err)
		if eff, ok := v.(value.Effect); ok {
			return eff
		}
		if i < len(exprs)-1 {
			env = next
		}
	}
	t.Fatal("expected an effect but evaluation completed without one")
	return value.Effect{}
}

func TestEndToEndLiteralScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want value.Expression
	}{
		{name: "variadic_add", src: "(+ 2 3 4)", want: value.NewInteger(9)},
		{name: "ratio_times_integer_reduces", src: "(* 7/3 3)", want: value.NewInteger(7)},
		{name: "float_equality", src: "(= 3.4 3.4)", want: value.Bool(true)},
		{name: "nth_with_default", src: "(nth [1 2 3] 4 100)", want: value.NewInteger(100)},
		{name: "pattern_match_dispatch", src: `((fn ([:apple] "you picked apple") ([:mango] "you selected mango")) :mango)`, want: value.String("you selected mango")},
		{name: "fib", src: "(defn fib ([0] 1) ([1] 1) ([n] (+ (fib (- n 1)) (fib (- n 2))))) (fib 5)", want: value.NewInteger(8)},
		{name: "let_scoped_result", src: "(let [x 5] (+ 1 2) (+ x 2))", want: value.NewInteger(7)},
		{name: "atom_swap_inc", src: "(def a (atom 5)) (swap! a inc) @a", want: value.NewInteger(6)},
		{name: "thread_macro_negatives", src: "(-> 5 (- 3) (- 4))", want: value.NewInteger(-2)},
		{name: "thread_macro_bare_fn", src: "(-> 5 inc inc)", want: value.NewInteger(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runSource(t, tt.src)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestIntegerDivisionProducesNormalizedRatio(t *testing.T) {
	got := runSource(t, "(/ 1 2)")
	r, ok := got.(value.Ratio)
	require.True(t, ok, "expected Ratio, got %T", got)
	assert.Equal(t, "1/2", r.String())
}

func TestNthWithoutDefaultErrors(t *testing.T) {
	eff := runSourceExpectEffect(t, "(nth [1 2 3] 4)")
	assert.Equal(t, "Index out of range", eff.Message())
}

func TestChannelFIFOProgram(t *testing.T) {
	got := runSource(t, `
		(def c (chan 3))
		(put! c 1)
		(put! c 2)
		(put! c 3)
		(let [a (take! c) b (take! c) d (take! c)] [a b d])
	`)
	assert.True(t, got.Equal(value.NewArray(value.NewInteger(1), value.NewInteger(2), value.NewInteger(3))))
}

func TestLetDoesNotLeakBindingToCallerEnv(t *testing.T) {
	tokens, err := Tokenize("(let [x 5] x) x")
	require.NoError(t, err)
	exprs, err := ParseAll(tokens)
	require.NoError(t, err)
	require.Len(t, exprs, 2)

	env := BaseEnvironment()
	next, v, err := Evaluate(env, exprs[0])
	require.NoError(t, err)
	assert.True(t, v.Equal(value.NewInteger(5)))

	_, v2, err := Evaluate(next, exprs[1])
	require.NoError(t, err)
	eff, ok := v2.(value.Effect)
	require.True(t, ok, "expected looking up x after let to error, got %s", v2)
	assert.Contains(t, eff.Message(), "not found")
}

func TestFunctionApplicationDoesNotLeakParamsToCallerEnv(t *testing.T) {
	tokens, err := Tokenize("(defn ignore [x] x) (ignore 1) x")
	require.NoError(t, err)
	exprs, err := ParseAll(tokens)
	require.NoError(t, err)

	env := BaseEnvironment()
	for i, e := range exprs[:2] {
		next, v, err := Evaluate(env, e)
		require.NoError(t, err)
		require.False(t, value.IsEffect(v), "expr %d produced effect %s", i, v)
		env = next
	}
	_, v, err := Evaluate(env, exprs[2])
	require.NoError(t, err)
	eff, ok := v.(value.Effect)
	require.True(t, ok)
	assert.Contains(t, eff.Message(), "not found")
}

func TestQuoteEvaluatesToItselfUnchanged(t *testing.T) {
	got := runSource(t, "(eval '(+ 1 2))")
	assert.True(t, got.Equal(value.NewInteger(3)))

	raw := runSource(t, "'(+ 1 2)")
	call, ok := raw.(value.Call)
	require.True(t, ok)
	assert.True(t, call.Function.Equal(value.Symbol("+")))
}

func TestDefnSelfRecursion(t *testing.T) {
	got := runSource(t, `
		(defn count-down
		  ([0] :done)
		  ([n] (count-down (- n 1))))
		(count-down 5)
	`)
	assert.True(t, got.Equal(value.Keyword(":done")))
}

func TestRecurPointsAtExecutingFunction(t *testing.T) {
	got := runSource(t, `
		(def step (fn ([0] :done) ([n] (recur (- n 1)))))
		(step 3)
	`)
	assert.True(t, got.Equal(value.Keyword(":done")))
}

func TestKeywordAsMapAccessor(t *testing.T) {
	got := runSource(t, `(def m {:a 1 :b 2}) (:a m)`)
	assert.True(t, got.Equal(value.NewInteger(1)))

	got = runSource(t, `(def m {:a 1}) (:missing m :default)`)
	assert.True(t, got.Equal(value.Keyword(":default")))
}

func TestMapAsCallableAccessor(t *testing.T) {
	got := runSource(t, `(def m {:a 1}) (m :a)`)
	assert.True(t, got.Equal(value.NewInteger(1)))
}

// TestImportAndQualifiedAccess exercises the module import contract with
// a hand-built `io` module (internal/stdmodule/io can't be imported here
// without an import cycle, since it itself imports this package).
func TestImportAndQualifiedAccess(t *testing.T) {
	ioEnv := value.NewEnvironment().Insert("read-file", native("read-file", func(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
		return env, value.String("(defn square [x] (* x x))"), nil
	}))
	env := BaseEnvironment().Insert("io", value.Module{Name: "io", Env: ioEnv})

	tokens, err := Tokenize("(import testmod) (testmod/square 5)")
	require.NoError(t, err)
	exprs, err := ParseAll(tokens)
	require.NoError(t, err)

	var result value.Expression
	for _, e := range exprs {
		next, v, err := Evaluate(env, e)
		require.NoError(t, err)
		require.False(t, value.IsEffect(v), "unexpected effect: %s", v)
		env = next
		result = v
	}
	assert.True(t, result.Equal(value.NewInteger(25)))
}

func TestCannotCallNonCallableValue(t *testing.T) {
	eff := runSourceExpectEffect(t, "(5 1 2)")
	assert.Contains(t, eff.Message(), "Cannot call")
}

func TestAssertFailureEffect(t *testing.T) {
	eff := runSourceExpectEffect(t, "(assert false)")
	assert.Equal(t, "Assertion failed", eff.Message())
}

func TestForPreservesInputOrder(t *testing.T) {
	got := runSource(t, "(for [x [3 1 2]] (* x 10))")
	assert.True(t, got.Equal(value.NewArray(value.NewInteger(30), value.NewInteger(10), value.NewInteger(20))))
}

func TestReadStringRoundTrip(t *testing.T) {
	got := runSource(t, `(eval (read-string "(+ 1 2)"))`)
	assert.True(t, got.Equal(value.NewInteger(3)))
}

func TestBoundPredicate(t *testing.T) {
	got := runSource(t, "(def x 1) (bound? x)")
	assert.Equal(t, value.Bool(true), got)

	got = runSource(t, "(bound? never-defined)")
	assert.Equal(t, value.Bool(false), got)
}

func TestStrConcatenatesDisplayForms(t *testing.T) {
	got := runSource(t, `(str "count: " 5 " items")`)
	assert.Equal(t, value.String("count: 5 items"), got)
}
