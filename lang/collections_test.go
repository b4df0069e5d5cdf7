package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gitrdm/yeti/value"
)

func TestAssocAndDissoc(t *testing.T) {
	got := runSource(t, `(def m {:a 1}) (get (assoc m :b 2) :b)`)
	assert.True(t, got.Equal(value.NewInteger(2)))

	got = runSource(t, `(def m {:a 1 :b 2}) (get (dissoc m :b) :b)`)
	assert.Equal(t, value.Nil{}, got)
}

func TestAssocRejectsNonMap(t *testing.T) {
	eff := runSourceExpectEffect(t, `(assoc [1 2] 0 9)`)
	assert.Contains(t, eff.Message(), "Map argument")
}

func TestMergeCombinesMapsRightBiased(t *testing.T) {
	got := runSource(t, `(get (merge {:a 1 :b 1} {:b 2}) :b)`)
	assert.True(t, got.Equal(value.NewInteger(2)))
}

func TestGetReturnsNilForMissingKeyWithoutDefault(t *testing.T) {
	got := runSource(t, `(get {:a 1} :missing)`)
	assert.Equal(t, value.Nil{}, got)
}

func TestGetReturnsSuppliedDefault(t *testing.T) {
	got := runSource(t, `(get {:a 1} :missing 42)`)
	assert.True(t, got.Equal(value.NewInteger(42)))
}

func TestNthOutOfRangeWithoutDefaultIsAnEffectNotNil(t *testing.T) {
	eff := runSourceExpectEffect(t, `(nth [1 2] 5)`)
	assert.Equal(t, "Index out of range", eff.Message())
}

func TestCountOnArrayAndMap(t *testing.T) {
	got := runSource(t, `(count [1 2 3])`)
	assert.True(t, got.Equal(value.NewInteger(3)))

	got = runSource(t, `(count {:a 1 :b 2})`)
	assert.True(t, got.Equal(value.NewInteger(2)))
}

func TestCountRejectsScalar(t *testing.T) {
	eff := runSourceExpectEffect(t, `(count 5)`)
	assert.Contains(t, eff.Message(), "Array or Map")
}
