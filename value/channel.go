package value

import (
	"sync"

	"github.com/google/uuid"
)

// Channel is a bounded FIFO queue of Expressions shared between
// cooperatively-scheduled tasks. Exactly one piece of state decides
// whether the channel is closed — the `closed` bool guarded by the same
// mutex as the buffer. Putting Nil is the producer's own signal to stop
// sending; it is an ordinary value, not a protocol message, so callers
// that want a hard stop must also call Close.
type Channel struct {
	id       uuid.UUID
	capacity int
	mu       *sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	buf      *[]Expression
	closed   *bool
}

// NewChannel creates a Channel with the given buffer capacity. A
// capacity below 1 is raised to 1 (the `chan` intrinsic defaults to 1
// when no size is given).
func NewChannel(capacity int) Channel {
	if capacity < 1 {
		capacity = 1
	}
	mu := &sync.Mutex{}
	buf := make([]Expression, 0, capacity)
	closed := false
	return Channel{
		id:       uuid.New(),
		capacity: capacity,
		mu:       mu,
		notEmpty: sync.NewCond(mu),
		notFull:  sync.NewCond(mu),
		buf:      &buf,
		closed:   &closed,
	}
}

// Put enqueues v, blocking while the buffer is full. Putting to an
// already-closed channel is a silent no-op, not an error.
func (c Channel) Put(v Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *c.closed {
		return
	}
	for len(*c.buf) >= c.capacity && !*c.closed {
		c.notFull.Wait()
	}
	if *c.closed {
		return
	}
	*c.buf = append(*c.buf, orNil(v))
	c.notEmpty.Signal()
}

// Take dequeues the oldest value, blocking while the buffer is empty and
// the channel is open. Taking from a closed, empty channel returns Nil
// immediately without blocking.
func (c Channel) Take() Expression {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(*c.buf) == 0 && !*c.closed {
		c.notEmpty.Wait()
	}
	if len(*c.buf) == 0 {
		return Nil{}
	}
	v := (*c.buf)[0]
	*c.buf = (*c.buf)[1:]
	c.notFull.Signal()
	return v
}

// Close marks the channel closed, waking any blocked Put or Take so they
// can observe it. Closing an already-closed channel is a no-op.
func (c Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *c.closed {
		return
	}
	*c.closed = true
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

// Closed reports whether Close has been called.
func (c Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.closed
}

func (c Channel) String() string { return "#channel(" + c.id.String() + ")" }

func (c Channel) Equal(other Expression) bool {
	o, ok := other.(Channel)
	return ok && c.id == o.id
}

func (c Channel) Compare(other Expression) int {
	o, ok := other.(Channel)
	if !ok {
		return compareRank(c, other)
	}
	switch {
	case c.id == o.id:
		return 0
	case c.id.String() < o.id.String():
		return -1
	default:
		return 1
	}
}

func (c Channel) CanonKey() string { return "ch:" + c.id.String() }

func (Channel) exprTag() tag { return tagChannel }
