// Package pool implements the fixed-size thread pool and parallel-for
// API: a mutex/condition-variable task queue, worker loop, barrier, and
// cleanup, driving internal/work's scheduling state.
package pool

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/petermattis/goid"
	"github.com/sasha-s/go-deadlock"
	"github.com/segmentio/ksuid"
	"github.com/tliron/commonlog"

	"coreforge/internal/work"
)

var log = commonlog.GetLogger("coreforge.pool")

const (
	workerWaitTimeout  = 1 * time.Second
	defaultBarrierWait = 60 * time.Second
)

// Ctx is the per-task context threaded into a loop body.
type Ctx struct {
	ThreadID int
}

// Body is a parallel-for loop body: one call per iteration index.
type Body func(index uint64, ctx *Ctx)

type task struct {
	id    ksuid.KSUID
	index uint64
	ctx   *Ctx
	body  Body
	done  chan error
}

// Result is returned by ParallelFor: per-task panics are isolated and
// aggregated here rather than propagated to the caller's goroutine.
type Result struct {
	Failures []TaskFailure
}

// Failed reports whether any dispatched task panicked.
func (r Result) Failed() bool { return len(r.Failures) > 0 }

// TaskFailure records one task's panic, recovered at the worker boundary.
type TaskFailure struct {
	TaskID ksuid.KSUID
	Index  uint64
	Err    error
}

// Pool is a fixed-size worker pool, lazily started on first use.
type Pool struct {
	mu       deadlock.Mutex
	cond     *sync.Cond
	queue    []task
	shutdown bool

	workingCount int
	numWorkers   int
	started      bool

	barrierMu      deadlock.Mutex
	barrierCond    *sync.Cond
	barrierWaiting int
	barrierGen     int

	threadIDsMu sync.Mutex
	threadIDs   map[int64]int

	failureMu       sync.Mutex
	pendingFailures []TaskFailure

	wg sync.WaitGroup
}

// New returns a Pool that has not yet started any workers; Init starts
// them. numThreads <= 0 selects runtime.NumCPU().
func New(numThreads int) *Pool {
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	p := &Pool{numWorkers: numThreads, threadIDs: make(map[int64]int)}
	p.cond = sync.NewCond(&sync.Mutex{})
	p.barrierCond = sync.NewCond(&sync.Mutex{})
	return p
}

// Init idempotently starts the pool's workers. Returns false if any
// worker goroutine setup fails (partial workers are cleanly stopped);
// in this pure-Go implementation goroutine creation cannot itself fail,
// so the only nontrivial path is the idempotence check.
func (p *Pool) Init() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return true
	}
	p.started = true
	p.wg.Add(p.numWorkers)
	for i := 0; i < p.numWorkers; i++ {
		go p.workerLoop(i)
	}
	log.Debugf("pool started with %d workers", p.numWorkers)
	return true
}

func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()
	p.cond.L.Lock()
	for {
		for len(p.queue) == 0 && !p.shutdown {
			waitWithTimeout(p.cond, workerWaitTimeout)
			if p.shutdown {
				break
			}
		}
		if p.shutdown && len(p.queue) == 0 {
			p.cond.L.Unlock()
			return
		}
		if len(p.queue) == 0 {
			continue
		}
		t := p.queue[0]
		p.queue = p.queue[1:]
		p.workingCount++
		p.cond.L.Unlock()

		p.runTask(id, t)

		p.cond.L.Lock()
		p.workingCount--
		if len(p.queue) == 0 && p.workingCount == 0 {
			p.cond.Broadcast()
		}
	}
}

// waitWithTimeout waits on cond for at most d, so pool shutdown remains
// responsive even without a spurious wakeup.
func waitWithTimeout(cond *sync.Cond, d time.Duration) {
	done := make(chan struct{})
	timer := time.AfterFunc(d, func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
		close(done)
	})
	defer timer.Stop()
	cond.Wait()
	select {
	case <-done:
	default:
	}
}

func (p *Pool) runTask(workerID int, t task) {
	p.setThreadID(workerID)
	var taskErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				taskErr = fmt.Errorf("task %s panicked: %v", t.id, r)
				log.Warningf("%v", taskErr)
				p.recordFailure(t, taskErr)
			}
		}()
		t.body(t.index, t.ctx)
	}()
	if t.done != nil {
		t.done <- taskErr
		close(t.done)
	}
}

// Handle is returned by Submit; Await blocks until the submitted task
// completes and returns its error, if any (including a recovered panic).
type Handle struct {
	id   ksuid.KSUID
	done chan error
}

// Await blocks until the task completes.
func (h Handle) Await() error { return <-h.done }

// Submit enqueues a single task onto the pool's queue under the queue
// mutex/condition-variable, to be picked up by the next idle worker.
func (p *Pool) Submit(body Body) Handle {
	p.Init()
	id := ksuid.New()
	done := make(chan error, 1)
	t := task{id: id, body: body, done: done}

	p.cond.L.Lock()
	p.queue = append(p.queue, t)
	p.cond.Broadcast()
	p.cond.L.Unlock()

	return Handle{id: id, done: done}
}

func (p *Pool) setThreadID(id int) {
	gid := goid.Get()
	p.threadIDsMu.Lock()
	p.threadIDs[gid] = id
	p.threadIDsMu.Unlock()
}

// ThreadNum reports the calling goroutine's worker slot, or -1 if it is
// not a pool worker. It reads goid.Get() as the thread-local key, the
// same mechanism go-deadlock uses to attribute lock ownership.
func (p *Pool) ThreadNum() int {
	gid := goid.Get()
	p.threadIDsMu.Lock()
	defer p.threadIDsMu.Unlock()
	if id, ok := p.threadIDs[gid]; ok {
		return id
	}
	return -1
}

// NumThreads returns the pool's fixed worker count.
func (p *Pool) NumThreads() int { return p.numWorkers }

func (p *Pool) recordFailure(t task, err error) {
	p.failureMu.Lock()
	defer p.failureMu.Unlock()
	p.pendingFailures = append(p.pendingFailures, TaskFailure{TaskID: t.id, Index: t.index, Err: err})
}

// ParallelFor sets up work-distribution state over [start, end) with the
// given step and schedule, starts one goroutine per worker slot that
// pulls indices from that state and runs body on each, and blocks until
// all of them have finished. The pool's task queue and queue workers are
// not used.
func (p *Pool) ParallelFor(start, end, step uint64, body Body, schedule work.Schedule, chunk int) Result {
	p.Init()
	p.pendingFailures = nil

	if start >= end {
		return Result{}
	}

	state, err := work.NewState(start, end, step, schedule, chunk, p.numWorkers)
	if err != nil {
		return Result{Failures: []TaskFailure{{Err: err}}}
	}

	var wg sync.WaitGroup
	for tid := 0; tid < p.numWorkers; tid++ {
		wg.Add(1)
		threadID := tid
		go func() {
			defer wg.Done()
			p.setThreadID(threadID)
			ctx := &Ctx{ThreadID: threadID}
			for {
				idx, ok := state.Next(threadID)
				if !ok {
					return
				}
				p.dispatch(idx, ctx, body)
			}
		}()
	}
	wg.Wait()

	p.failureMu.Lock()
	failures := append([]TaskFailure(nil), p.pendingFailures...)
	p.failureMu.Unlock()
	return Result{Failures: failures}
}

// dispatch runs body synchronously on the calling goroutine (one of the
// goroutines ParallelFor starts), recovering panics
// the same way the queue-driven workerLoop path does.
func (p *Pool) dispatch(index uint64, ctx *Ctx, body Body) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("loop body panicked at index %d: %v", index, r)
			log.Warningf("%v", err)
			p.recordFailure(task{id: ksuid.New(), index: index}, err)
		}
	}()
	body(index, ctx)
}

// Barrier blocks until numThreads callers have arrived, or the default
// timeout elapses — in which case the barrier is forcibly reset and a
// warning is logged so no participant is left waiting forever.
func (p *Pool) Barrier() {
	p.barrierMu.Lock()
	gen := p.barrierGen
	p.barrierWaiting++
	if p.barrierWaiting >= p.numWorkers {
		p.barrierWaiting = 0
		p.barrierGen++
		p.barrierMu.Unlock()
		p.barrierCond.L.Lock()
		p.barrierCond.Broadcast()
		p.barrierCond.L.Unlock()
		return
	}
	p.barrierMu.Unlock()

	deadline := time.Now().Add(defaultBarrierWait)
	p.barrierCond.L.Lock()
	for p.barrierGenUnsafe() == gen && time.Now().Before(deadline) {
		waitWithTimeout(p.barrierCond, defaultBarrierWait)
	}
	p.barrierCond.L.Unlock()

	p.barrierMu.Lock()
	if p.barrierGen == gen {
		log.Warningf("barrier timed out after %s; forcing reset", defaultBarrierWait)
		p.barrierWaiting = 0
		p.barrierGen++
	}
	p.barrierMu.Unlock()
}

func (p *Pool) barrierGenUnsafe() int {
	p.barrierMu.Lock()
	defer p.barrierMu.Unlock()
	return p.barrierGen
}

// Cleanup signals shutdown, wakes every worker, and joins them; pending
// queued tasks are dropped.
func (p *Pool) Cleanup() {
	p.cond.L.Lock()
	p.shutdown = true
	p.queue = nil
	p.cond.Broadcast()
	p.cond.L.Unlock()

	p.wg.Wait()
	log.Debugf("pool cleaned up")
}
