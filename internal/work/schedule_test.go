package work

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateRejectsZeroStep(t *testing.T) {
	_, err := NewState(0, 10, 0, Dynamic, 0, 4)
	assert.Error(t, err)
}

func TestNewStateEmptyRangeIsSuccessfulNoOp(t *testing.T) {
	s, err := NewState(5, 5, 1, Dynamic, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), s.Total)
	_, ok := s.Next(0)
	assert.False(t, ok)
}

func TestStaticScheduleAssignsContiguousRanges(t *testing.T) {
	s, err := NewState(0, 100, 1, Static, 0, 4)
	require.NoError(t, err)

	for i, t0 := range s.PerThread {
		assert.True(t, t0.HasWork)
		assert.Equal(t, uint64(i*25), t0.NextIndex)
		assert.Equal(t, uint64((i+1)*25), t0.EndIndex)
	}
}

func TestNoIndexProcessedByTwoThreadsUnderDynamic(t *testing.T) {
	const n = 1000
	s, err := NewState(0, n, 1, Dynamic, 8, 4)
	require.NoError(t, err)

	seen := make(map[uint64]int)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for tid := 0; tid < 4; tid++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				idx, ok := s.Next(id)
				if !ok {
					return
				}
				mu.Lock()
				seen[idx]++
				mu.Unlock()
			}
		}(tid)
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "index %d processed more than once", idx)
	}
}

func TestStaticScheduleCoversEveryIndexExactlyOnce(t *testing.T) {
	const n = 500
	s, err := NewState(0, n, 1, Static, 0, 5)
	require.NoError(t, err)

	seen := make(map[uint64]int)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for tid := 0; tid < 5; tid++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				idx, ok := s.Next(id)
				if !ok {
					return
				}
				mu.Lock()
				seen[idx]++
				mu.Unlock()
			}
		}(tid)
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "index %d processed more than once", idx)
	}
}

func TestOptimalChunkClampsToAtLeastOne(t *testing.T) {
	assert.Equal(t, uint64(1), optimalChunk(1, 8))
	assert.GreaterOrEqual(t, optimalChunk(50000, 8), uint64(1))
}

func TestGuidedChunkShrinksAsRemainingDrops(t *testing.T) {
	s, err := NewState(0, 1000, 1, Guided, 0, 4)
	require.NoError(t, err)

	s.GlobalCursor = 0
	early := s.guidedChunkLocked()

	s.GlobalCursor = 900
	late := s.guidedChunkLocked()

	assert.Greater(t, early, late)
}

func TestDetectImbalanceDynamicHalvesChunk(t *testing.T) {
	s, err := NewState(0, 1000, 1, Dynamic, 16, 4)
	require.NoError(t, err)

	// Starve three threads, leave one busy, to create an observable
	// idle/busy split.
	for i := 1; i < 4; i++ {
		s.PerThread[i].NextIndex = 0
		s.PerThread[i].EndIndex = 0
		s.PerThread[i].HasWork = false
	}
	s.PerThread[0].NextIndex = 0
	s.PerThread[0].EndIndex = 500
	s.PerThread[0].HasWork = true

	before := s.InitialChunk
	s.DetectImbalance(1)
	assert.Equal(t, before/2, s.InitialChunk)
}
