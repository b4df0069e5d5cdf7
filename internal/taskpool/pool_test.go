package taskpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllSubmittedTasks(t *testing.T) {
	p := New(4, 16)
	defer p.Shutdown()

	const n = 50
	var count int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.Submit(func() {
			atomic.AddInt64(&count, 1)
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all tasks completed in time")
	}
	assert.Equal(t, int64(n), atomic.LoadInt64(&count))
}

func TestNewClampsWorkersAndCapacityToAtLeastOne(t *testing.T) {
	p := New(0, 0)
	defer p.Shutdown()

	done := make(chan struct{})
	p.Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool with clamped-to-1 worker did not run the task")
	}
}

func TestShutdownWaitsForInFlightTasks(t *testing.T) {
	p := New(1, 4)
	started := make(chan struct{})
	finish := make(chan struct{})
	var finished int32

	p.Submit(func() {
		close(started)
		<-finish
		atomic.StoreInt32(&finished, 1)
	})
	<-started

	shutdownDone := make(chan struct{})
	go func() {
		p.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		t.Fatal("Shutdown returned before the in-flight task finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(finish)
	select {
	case <-shutdownDone:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return after the in-flight task finished")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
}

func TestSubmitAfterShutdownIsNoOp(t *testing.T) {
	p := New(1, 4)
	p.Shutdown()

	ran := false
	p.Submit(func() { ran = true })
	time.Sleep(10 * time.Millisecond)
	assert.False(t, ran)
}

func TestQueueDepthReflectsPendingTasks(t *testing.T) {
	p := New(1, 8)
	block := make(chan struct{})
	p.Submit(func() { <-block })

	for i := 0; i < 3; i++ {
		p.Submit(func() {})
	}
	time.Sleep(10 * time.Millisecond)
	require.GreaterOrEqual(t, p.QueueDepth(), 1)
	close(block)
	p.Shutdown()
}
