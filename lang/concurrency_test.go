package lang

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/yeti/value"
)

func TestAtomResetAndDeref(t *testing.T) {
	got := runSource(t, "(def a (atom 1)) (reset! a 9) @a")
	assert.True(t, got.Equal(value.NewInteger(9)))
}

func TestSwapAppliesFunctionToCurrentValue(t *testing.T) {
	got := runSource(t, "(def a (atom 10)) (swap! a (fn [x] (* x 2))) @a")
	assert.True(t, got.Equal(value.NewInteger(20)))
}

func TestSwapRejectsNonAtom(t *testing.T) {
	eff := runSourceExpectEffect(t, "(swap! 5 inc)")
	assert.Contains(t, eff.Message(), "Atom argument")
}

func TestChanDefaultCapacityIsOne(t *testing.T) {
	got := runSource(t, "(def c (chan)) (put! c 1) (take! c)")
	assert.True(t, got.Equal(value.NewInteger(1)))
}

func TestPutNilClosesChannel(t *testing.T) {
	got := runSource(t, "(def c (chan 1)) (put! c nil) (closed? c)")
	assert.Equal(t, value.Bool(true), got)
}

func TestPutOnClosedChannelIsSilentNoOp(t *testing.T) {
	got := runSource(t, "(def c (chan 1)) (close! c) (put! c 1) (take! c)")
	assert.Equal(t, value.Nil{}, got)
}

func TestClosedPredicate(t *testing.T) {
	got := runSource(t, "(def c (chan 1)) (closed? c)")
	assert.Equal(t, value.Bool(false), got)

	got = runSource(t, "(def c (chan 1)) (close! c) (closed? c)")
	assert.Equal(t, value.Bool(true), got)
}

// TestSpawnRunsBodyConcurrentlyAndProducerPattern exercises spawn as a
// fire-and-forget producer feeding a channel the main thread consumes.
func TestSpawnRunsBodyConcurrentlyAndProducerPattern(t *testing.T) {
	tokens, err := Tokenize(`
		(def c (chan 1))
		(spawn (put! c 1) (put! c 2) (put! c nil))
	`)
	require.NoError(t, err)
	exprs, err := ParseAll(tokens)
	require.NoError(t, err)

	env := BaseEnvironment()
	for _, e := range exprs {
		next, v, err := Evaluate(env, e)
		require.NoError(t, err)
		require.False(t, value.IsEffect(v))
		env = next
	}

	c, ok := func() (value.Channel, bool) {
		v, found := env.Lookup("c")
		if !found {
			return value.Channel{}, false
		}
		ch, ok := v.(value.Channel)
		return ch, ok
	}()
	require.True(t, ok)

	deadline := time.After(time.Second)
	var got []int64
	for {
		select {
		case <-deadline:
			t.Fatal("spawned producer did not finish in time")
		default:
		}
		v := c.Take()
		if _, isNil := v.(value.Nil); isNil {
			break
		}
		i, ok := v.(value.Integer)
		require.True(t, ok)
		got = append(got, i.V.Int64())
	}
	assert.Equal(t, []int64{1, 2}, got)
}
