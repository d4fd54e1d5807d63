// Package work implements the per-invocation scheduling state behind a
// parallel-for call: chunk assignment under Static, Dynamic, Guided and
// Auto disciplines, work stealing between threads, and imbalance
// detection. It holds no goroutines of its own — internal/pool drives a
// State by calling Next from each worker.
package work

import (
	"fmt"

	"github.com/sasha-s/go-deadlock"
)

// Schedule selects the chunk-assignment discipline for a State.
type Schedule int

const (
	Static Schedule = iota
	Dynamic
	Guided
	Auto
)

func (s Schedule) String() string {
	switch s {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Guided:
		return "guided"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// ThreadWorkState is one worker's local slice of the iteration range.
type ThreadWorkState struct {
	mu deadlock.Mutex

	NextIndex    uint64
	EndIndex     uint64
	CurrentChunk uint64
	HasWork      bool
	ThreadID     int
}

func (t *ThreadWorkState) remaining() uint64 {
	if t.NextIndex >= t.EndIndex {
		return 0
	}
	return t.EndIndex - t.NextIndex
}

// State is the scheduling state for one active parallel-for invocation.
type State struct {
	// mu is the global work-distribution mutex; it must be acquired
	// before any per-thread mutex (never the reverse), and stealing
	// acquires thief before victim among per-thread mutexes.
	mu deadlock.Mutex

	Start    uint64
	End      uint64
	Step     uint64
	Schedule Schedule

	InitialChunk uint64
	NumThreads   int
	GlobalCursor uint64
	Total        uint64

	PerThread []*ThreadWorkState

	imbalanceItemCounter uint64
}

// NewState validates step/range, computes the total iteration count with
// overflow checking, and assigns per-schedule initial chunks. chunkSize
// <= 0 selects the optimal-chunk heuristic.
func NewState(start, end, step uint64, schedule Schedule, chunkSize int, numThreads int) (*State, error) {
	if step == 0 {
		return nil, fmt.Errorf("work: step must be > 0")
	}
	if numThreads <= 0 {
		return nil, fmt.Errorf("work: num_threads must be > 0")
	}

	s := &State{Start: start, End: end, Step: step, Schedule: schedule, NumThreads: numThreads}

	if start >= end {
		s.Total = 0
		s.PerThread = make([]*ThreadWorkState, numThreads)
		for i := range s.PerThread {
			s.PerThread[i] = &ThreadWorkState{ThreadID: i}
		}
		return s, nil
	}

	span := end - start
	if span > (^uint64(0))-step {
		return nil, fmt.Errorf("work: iteration range overflows")
	}
	s.Total = (span + step - 1) / step

	if chunkSize > 0 {
		s.InitialChunk = uint64(chunkSize)
	} else {
		s.InitialChunk = optimalChunk(s.Total, numThreads)
	}

	s.PerThread = make([]*ThreadWorkState, numThreads)
	for i := range s.PerThread {
		s.PerThread[i] = &ThreadWorkState{ThreadID: i}
	}

	switch schedule {
	case Static:
		s.assignStaticRanges()
	case Dynamic, Guided, Auto:
		// Dynamic/Guided/Auto pull chunks lazily from GlobalCursor via Next.
	}

	return s, nil
}

// optimalChunk implements the chunk-size heuristic used when the caller
// passes chunk_size <= 0: bands of total/num_threads divisions, clamped
// to at least 1.
func optimalChunk(total uint64, numThreads int) uint64 {
	n := uint64(numThreads)
	var divisions uint64
	switch {
	case total < 4*n:
		divisions = 1
	case total < 100:
		divisions = n * 8
	case total < 1000:
		divisions = n * 6
	case total < 10000:
		divisions = n * 4
	default:
		divisions = n * 2
	}
	if divisions == 0 {
		divisions = 1
	}
	chunk := total / divisions
	if chunk < 1 {
		chunk = 1
	}
	return chunk
}

// assignStaticRanges partitions Total into NumThreads contiguous ranges
// and hands each thread its range up front.
func (s *State) assignStaticRanges() {
	base := s.Total / uint64(s.NumThreads)
	rem := s.Total % uint64(s.NumThreads)

	var cursor uint64
	for i, t := range s.PerThread {
		count := base
		if uint64(i) < rem {
			count++
		}
		t.mu.Lock()
		t.NextIndex = s.Start + cursor*s.Step
		t.EndIndex = s.Start + (cursor+count)*s.Step
		if t.EndIndex > s.End {
			t.EndIndex = s.End
		}
		t.CurrentChunk = count
		t.HasWork = t.NextIndex < t.EndIndex
		t.mu.Unlock()
		cursor += count
	}
	// Every item is already assigned, so acquireChunk hands out nothing more.
	s.GlobalCursor = s.Total
}

// Next returns the next iteration index for threadID, or ok=false when
// that thread has exhausted all work available to it (including
// stealing and imbalance remediation).
func (s *State) Next(threadID int) (index uint64, ok bool) {
	t := s.PerThread[threadID]

	t.mu.Lock()
	if t.HasWork && t.NextIndex < t.EndIndex {
		idx := t.NextIndex
		t.NextIndex += s.Step
		if t.NextIndex >= t.EndIndex {
			t.HasWork = false
		}
		t.mu.Unlock()
		s.maybeCheckImbalance(threadID)
		return idx, true
	}
	t.mu.Unlock()

	if s.acquireChunk(t) {
		return s.Next(threadID)
	}

	if s.Schedule == Auto || s.Schedule == Static {
		if s.steal(threadID) {
			return s.Next(threadID)
		}
	}

	s.DetectImbalance(threadID)
	return 0, false
}

// acquireChunk obtains a new chunk from the global cursor for t,
// according to s.Schedule. Returns false if the range is exhausted.
func (s *State) acquireChunk(t *ThreadWorkState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.GlobalCursor >= s.Total {
		return false
	}

	chunkItems := s.chunkSizeLocked()
	if chunkItems == 0 {
		return false
	}
	remainingItems := s.Total - s.GlobalCursor
	if chunkItems > remainingItems {
		chunkItems = remainingItems
	}

	startOffset := s.GlobalCursor
	s.GlobalCursor += chunkItems

	t.mu.Lock()
	t.NextIndex = s.Start + startOffset*s.Step
	t.EndIndex = s.Start + (startOffset+chunkItems)*s.Step
	if t.EndIndex > s.End {
		t.EndIndex = s.End
	}
	t.CurrentChunk = chunkItems
	t.HasWork = t.NextIndex < t.EndIndex
	t.mu.Unlock()

	return t.HasWork
}

// chunkSizeLocked computes the next chunk's item count under s.mu,
// according to the active schedule.
func (s *State) chunkSizeLocked() uint64 {
	switch s.Schedule {
	case Dynamic:
		return s.InitialChunk
	case Guided, Auto:
		return s.guidedChunkLocked()
	default:
		return s.InitialChunk
	}
}

func (s *State) guidedChunkLocked() uint64 {
	remaining := s.Total - s.GlobalCursor
	if remaining == 0 {
		return 0
	}
	n := uint64(s.NumThreads)
	if n == 0 {
		n = 1
	}
	if remaining < 4*n {
		return 1
	}
	r := float64(remaining) / float64(s.Total)
	var divisor uint64
	switch {
	case r > 0.75:
		divisor = 2
	case r > 0.5:
		divisor = 3
	case r > 0.25:
		divisor = 4
	default:
		divisor = 8
	}
	minChunk := uint64(1)
	chunk := remaining / (n * divisor)
	if chunk < minChunk {
		chunk = minChunk
	}
	return chunk
}

// steal scans every other thread under a try-lock, picks the one with
// the largest remaining range, and moves a fraction of it to thief. It
// falls back to a linear first-available scan if the richest victim's
// lock cannot be acquired.
func (s *State) steal(thiefID int) bool {
	thief := s.PerThread[thiefID]

	var bestIdx = -1
	var bestRemaining uint64
	for i, v := range s.PerThread {
		if i == thiefID {
			continue
		}
		if v.mu.TryLock() {
			r := v.remaining()
			if r > bestRemaining {
				bestRemaining = r
				bestIdx = i
			}
			v.mu.Unlock()
		}
	}
	if bestIdx < 0 || bestRemaining == 0 {
		return s.stealLinearFallback(thiefID)
	}

	victim := s.PerThread[bestIdx]

	thief.mu.Lock()
	if !victim.mu.TryLock() {
		thief.mu.Unlock()
		return s.stealLinearFallback(thiefID)
	}
	defer thief.mu.Unlock()
	defer victim.mu.Unlock()

	return takeStolenRange(thief, victim)
}

// stealLinearFallback scans threads in order and steals from the first
// one with spare work, used when the richest victim's lock is unavailable.
func (s *State) stealLinearFallback(thiefID int) bool {
	thief := s.PerThread[thiefID]
	thief.mu.Lock()
	defer thief.mu.Unlock()

	for i, victim := range s.PerThread {
		if i == thiefID {
			continue
		}
		victim.mu.Lock()
		ok := takeStolenRange(thief, victim)
		victim.mu.Unlock()
		if ok {
			return true
		}
	}
	return false
}

// takeStolenRange moves a fraction of victim's remaining range onto
// thief. Caller must hold both locks. Steal fraction: remaining >= 100
// -> 3/4; >= 10 -> 1/2; else -> 1 item, minimum 1.
func takeStolenRange(thief, victim *ThreadWorkState) bool {
	remaining := victim.remaining()
	if remaining == 0 {
		return false
	}

	var stolen uint64
	switch {
	case remaining >= 100:
		stolen = remaining * 3 / 4
	case remaining >= 10:
		stolen = remaining / 2
	default:
		stolen = 1
	}
	if stolen < 1 {
		stolen = 1
	}
	if stolen > remaining {
		stolen = remaining
	}

	newVictimEnd := victim.EndIndex - stolen
	thiefStart := newVictimEnd
	victim.EndIndex = newVictimEnd

	if !thief.HasWork {
		thief.NextIndex = thiefStart
		thief.EndIndex = thiefStart + stolen
	} else {
		thief.EndIndex += stolen
	}
	thief.HasWork = thief.NextIndex < thief.EndIndex
	thief.CurrentChunk += stolen
	return thief.HasWork
}

// maybeCheckImbalance invokes DetectImbalance every 16th item consumed
// by caller, per the Auto schedule's periodic check.
func (s *State) maybeCheckImbalance(callerID int) {
	if s.Schedule != Auto {
		return
	}
	s.mu.Lock()
	s.imbalanceItemCounter++
	due := s.imbalanceItemCounter%16 == 0
	s.mu.Unlock()
	if due {
		s.DetectImbalance(callerID)
	}
}

// DetectImbalance counts idle vs. busy threads, finds the richest
// thread, and applies the schedule's remediation. Returns true if it
// triggered remediation.
func (s *State) DetectImbalance(callerID int) bool {
	var idle, busy int
	var richestRemaining uint64
	for _, t := range s.PerThread {
		t.mu.Lock()
		r := t.remaining()
		if r > 0 {
			busy++
		} else {
			idle++
		}
		if r > richestRemaining {
			richestRemaining = r
		}
		t.mu.Unlock()
	}

	imbalance := idle > 0 && busy > 0 && richestRemaining > 0
	caller := s.PerThread[callerID]
	caller.mu.Lock()
	callerIdle := caller.remaining() == 0
	caller.mu.Unlock()

	if callerIdle {
		s.steal(callerID)
	}

	if !imbalance {
		return false
	}

	switch s.Schedule {
	case Static:
		return true
	case Dynamic:
		s.mu.Lock()
		if s.InitialChunk > 1 {
			s.InitialChunk /= 2
			if s.InitialChunk < 1 {
				s.InitialChunk = 1
			}
		}
		s.mu.Unlock()
		return true
	case Guided, Auto:
		return false
	default:
		return false
	}
}
