package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelFIFOOrder(t *testing.T) {
	c := NewChannel(3)
	c.Put(NewInteger(1))
	c.Put(NewInteger(2))
	c.Put(NewInteger(3))

	assert.True(t, c.Take().Equal(NewInteger(1)))
	assert.True(t, c.Take().Equal(NewInteger(2)))
	assert.True(t, c.Take().Equal(NewInteger(3)))
}

func TestChannelCloseThenTakeReturnsNilIndefinitely(t *testing.T) {
	c := NewChannel(1)
	c.Close()

	assert.True(t, c.Closed())
	assert.Equal(t, Nil{}, c.Take())
	assert.Equal(t, Nil{}, c.Take())
}

func TestChannelPutOnClosedIsSilentNoOp(t *testing.T) {
	c := NewChannel(1)
	c.Close()
	c.Put(NewInteger(1)) // must not block or panic

	assert.Equal(t, Nil{}, c.Take())
}

func TestChannelPutBlocksUntilSpaceFrees(t *testing.T) {
	c := NewChannel(1)
	c.Put(NewInteger(1))

	done := make(chan struct{})
	go func() {
		c.Put(NewInteger(2))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Put on a full channel should block until space frees")
	case <-time.After(20 * time.Millisecond):
	}

	assert.True(t, c.Take().Equal(NewInteger(1)))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Put should unblock once capacity frees")
	}
	assert.True(t, c.Take().Equal(NewInteger(2)))
}

func TestChannelSingleProducerConsumerPreservesOrder(t *testing.T) {
	c := NewChannel(2)
	const n = 50

	go func() {
		for i := 0; i < n; i++ {
			c.Put(NewInteger(int64(i)))
		}
		c.Close()
	}()

	for i := 0; i < n; i++ {
		v := c.Take()
		require.True(t, v.Equal(NewInteger(int64(i))))
	}
	assert.Equal(t, Nil{}, c.Take())
}

func TestNewChannelDefaultsCapacityToAtLeastOne(t *testing.T) {
	c := NewChannel(0)
	c.Put(NewInteger(1))
	assert.True(t, c.Take().Equal(NewInteger(1)))
}
