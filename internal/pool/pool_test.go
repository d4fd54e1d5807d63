package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreforge/internal/work"
)

func TestParallelForProcessesEveryIndexExactlyOnce(t *testing.T) {
	p := New(4)
	defer p.Cleanup()

	const n = 2000
	var counts [n]int32
	res := p.ParallelFor(0, n, 1, func(idx uint64, ctx *Ctx) {
		atomic.AddInt32(&counts[idx], 1)
	}, work.Dynamic, 16)

	assert.False(t, res.Failed())
	for i, c := range counts {
		assert.Equal(t, int32(1), c, "index %d processed %d times", i, c)
	}
}

func TestParallelForEmptyRangeIsNoOp(t *testing.T) {
	p := New(2)
	defer p.Cleanup()

	called := false
	res := p.ParallelFor(10, 10, 1, func(idx uint64, ctx *Ctx) { called = true }, work.Static, 0)
	assert.False(t, res.Failed())
	assert.False(t, called)
}

func TestParallelForIsolatesPanickingTask(t *testing.T) {
	p := New(4)
	defer p.Cleanup()

	res := p.ParallelFor(0, 20, 1, func(idx uint64, ctx *Ctx) {
		if idx == 5 {
			panic("boom")
		}
	}, work.Dynamic, 4)

	assert.True(t, res.Failed())
	require.Len(t, res.Failures, 1)
	assert.Equal(t, uint64(5), res.Failures[0].Index)
}

func TestSubmitAndAwaitPropagatesPanicAsError(t *testing.T) {
	p := New(2)
	defer p.Cleanup()

	h := p.Submit(func(idx uint64, ctx *Ctx) { panic(errors.New("submitted task failed")) })
	err := h.Await()
	assert.Error(t, err)
}

func TestSubmitAndAwaitSucceeds(t *testing.T) {
	p := New(2)
	defer p.Cleanup()

	var ran int32
	h := p.Submit(func(idx uint64, ctx *Ctx) { atomic.AddInt32(&ran, 1) })
	err := h.Await()
	assert.NoError(t, err)
	assert.Equal(t, int32(1), ran)
}

func TestBarrierReleasesAllWaiters(t *testing.T) {
	p := New(4)
	defer p.Cleanup()

	var wg sync.WaitGroup
	var arrived int32
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Barrier()
			atomic.AddInt32(&arrived, 1)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		assert.Equal(t, int32(4), arrived)
	case <-time.After(5 * time.Second):
		t.Fatal("barrier did not release all waiters")
	}
}

func TestThreadNumReportsWorkerSlotDuringParallelFor(t *testing.T) {
	p := New(3)
	defer p.Cleanup()

	seen := make(chan int, 30)
	p.ParallelFor(0, 30, 1, func(idx uint64, ctx *Ctx) {
		seen <- p.ThreadNum()
	}, work.Dynamic, 2)
	close(seen)

	for id := range seen {
		assert.GreaterOrEqual(t, id, 0)
		assert.Less(t, id, 3)
	}
}
