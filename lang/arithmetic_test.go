package lang

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/yeti/value"
)

func TestArithmeticTierPromotion(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want value.Expression
	}{
		{name: "add_identity_no_args", src: "(+)", want: value.NewInteger(0)},
		{name: "mul_identity_no_args", src: "(*)", want: value.NewInteger(1)},
		{name: "add_variadic", src: "(+ 1 2 3 4)", want: value.NewInteger(10)},
		{name: "integer_plus_ratio_promotes", src: "(+ 1 1/2)", want: mustRatio(3, 2)},
		{name: "mul_ratio_reduces_to_integer", src: "(* 1/2 2)", want: value.NewInteger(1)},
		{name: "negate_single_arg", src: "(- 5)", want: value.NewInteger(-5)},
		{name: "sub_variadic", src: "(- 10 1 2)", want: value.NewInteger(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runSource(t, tt.src)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func mustRatio(num, den int64) value.Expression {
	e, ok := value.NewRatio(big.NewInt(num), big.NewInt(den))
	if !ok {
		panic("mustRatio: zero denominator")
	}
	return e
}

func TestRatioPlusFloatPromotesToFloat(t *testing.T) {
	got := runSource(t, "(+ 1/2 0.5)")
	f, ok := got.(value.Float)
	require.True(t, ok, "expected Float, got %T", got)
	asFloat, _ := f.V.Float64()
	assert.InDelta(t, 1.0, asFloat, 1e-9)
}

func TestDivFloatTierProducesFloat(t *testing.T) {
	got := runSource(t, "(/ 1.0 4)")
	_, ok := got.(value.Float)
	require.True(t, ok, "expected Float, got %T", got)
}

func TestSubWithNoArgumentsErrors(t *testing.T) {
	eff := runSourceExpectEffect(t, "(-)")
	assert.Contains(t, eff.Message(), "at least 1 argument")
}

func TestDivByZeroErrors(t *testing.T) {
	eff := runSourceExpectEffect(t, "(/ 1 0)")
	assert.Contains(t, eff.Message(), "division by zero")
}

func TestEqRequiresExactlyTwoArguments(t *testing.T) {
	eff := runSourceExpectEffect(t, "(= 1 1 1)")
	assert.Contains(t, eff.Message(), "exactly 2 arguments")
}

func TestEqComparesIntegers(t *testing.T) {
	got := runSource(t, "(= 1 1)")
	assert.Equal(t, value.Bool(true), got)

	got = runSource(t, "(= 1 2)")
	assert.Equal(t, value.Bool(false), got)
}
