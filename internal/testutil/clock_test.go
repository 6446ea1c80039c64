package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedClock_Now(t *testing.T) {
	clock := NewFixedClock(Reference)
	assert.Equal(t, Reference, clock.Now())
	assert.Equal(t, clock.Now(), clock.Now())
}

func TestFixedClock_Advance(t *testing.T) {
	clock := NewFixedClock(Reference)
	clock.Advance(90 * time.Second)
	assert.Equal(t, Reference.Add(90*time.Second), clock.Now())
}

func TestDeterministicControls_StartsAfterStart(t *testing.T) {
	controls := NewDeterministicControls(100)
	assert.Equal(t, int64(100), controls.Current())

	first := controls.Next()
	assert.Equal(t, "000000101", first.ISA)
	assert.Equal(t, "101", first.GS)
	assert.Equal(t, "0101", first.ST)
	assert.Equal(t, "000000102", controls.Next().ISA)
}

func TestDeterministicControls_Reset(t *testing.T) {
	controls := NewDeterministicControls(0)
	controls.Next()
	controls.Next()
	assert.Equal(t, int64(2), controls.Current())

	controls.Reset()
	assert.Equal(t, int64(0), controls.Current())
	assert.Equal(t, "000000001", controls.Next().ISA)
}

func TestDeterministicControls_ThreadSafe(t *testing.T) {
	controls := NewDeterministicControls(0)
	const numGoroutines = 50
	const callsPerGoroutine = 40

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make([][]string, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		results[i] = make([]string, callsPerGoroutine)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				results[idx][j] = controls.Next().ISA
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, row := range results {
		for _, isa := range row {
			require.False(t, seen[isa], "duplicate control %s", isa)
			seen[isa] = true
		}
	}
	assert.Len(t, seen, numGoroutines*callsPerGoroutine)
}

func TestDeterministicControls_Deterministic(t *testing.T) {
	a := NewDeterministicControls(7)
	b := NewDeterministicControls(7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}
