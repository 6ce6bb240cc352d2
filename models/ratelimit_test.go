package models

import (
	"context"
	"errors"
	"forum-core/helpers"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryHitStore mimics the store contract in RAM: the whole window rule
// runs under one lock, same as the single conditional operation on the
// real backends.
type memoryHitStore struct {
	mutex   sync.Mutex
	now     func() time.Time
	records map[string]rateEntry
}

type rateEntry struct {
	hits        int64
	windowStart time.Time
}

func newMemoryHitStore(now func() time.Time) *memoryHitStore {
	return &memoryHitStore{now: now, records: make(map[string]rateEntry)}
}

func (s *memoryHitStore) Hit(ctx context.Context, address string, window time.Duration, cap int64) (int64, bool, error) {

	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()

	entry, ok := s.records[address]
	if !ok || helpers.WindowElapsed(entry.windowStart, window, now) {
		s.records[address] = rateEntry{hits: 1, windowStart: now}
		return 1, true, nil
	}

	if entry.hits >= cap {
		// refusal must not mutate, or limited clients could never recover
		return entry.hits, false, nil
	}

	entry.hits++
	s.records[address] = entry
	return entry.hits, true, nil
}

// failingHitStore simulates a store outage
type failingHitStore struct{}

func (s failingHitStore) Hit(ctx context.Context, address string, window time.Duration, cap int64) (int64, bool, error) {
	return 0, false, errors.New("connection refused")
}

func frozenClock(at time.Time) (func() time.Time, func(d time.Duration)) {
	var mutex sync.Mutex
	now := at
	read := func() time.Time {
		mutex.Lock()
		defer mutex.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mutex.Lock()
		defer mutex.Unlock()
		now = now.Add(d)
	}
	return read, advance
}

func TestAdmitCountsUpToCap(t *testing.T) {

	clock, _ := frozenClock(time.Date(2021, 3, 14, 12, 0, 0, 0, time.UTC))
	model := RateLimitModel{Store: newMemoryHitStore(clock), Window: 600 * time.Second, Cap: 5}

	for i := 1; i <= 5; i++ {
		decision, err := model.Admit("203.0.113.5")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, int64(i), decision.Hits)
	}

	// request number cap+1 is refused, not an error
	decision, err := model.Admit("203.0.113.5")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, int64(5), decision.Hits)
	assert.Equal(t, 600*time.Second, decision.RetryAfter)

	// a different client is unaffected
	decision, err = model.Admit("198.51.100.7")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, int64(1), decision.Hits)
}

func TestAdmitRefusalDoesNotCount(t *testing.T) {

	clock, _ := frozenClock(time.Date(2021, 3, 14, 12, 0, 0, 0, time.UTC))
	model := RateLimitModel{Store: newMemoryHitStore(clock), Window: 600 * time.Second, Cap: 3}

	for i := 0; i < 3; i++ {
		_, err := model.Admit("203.0.113.5")
		require.NoError(t, err)
	}

	// hammering a limited client must not push the counter further
	for i := 0; i < 10; i++ {
		decision, err := model.Admit("203.0.113.5")
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, int64(3), decision.Hits)
	}
}

func TestAdmitWindowRestart(t *testing.T) {

	clock, advance := frozenClock(time.Date(2021, 3, 14, 12, 0, 0, 0, time.UTC))
	model := RateLimitModel{Store: newMemoryHitStore(clock), Window: 600 * time.Second, Cap: 2}

	for i := 0; i < 2; i++ {
		_, err := model.Admit("203.0.113.5")
		require.NoError(t, err)
	}

	decision, err := model.Admit("203.0.113.5")
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	// one second before the window ends: still limited
	advance(599 * time.Second)
	decision, err = model.Admit("203.0.113.5")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// window over: counting restarts at 1
	advance(1 * time.Second)
	decision, err = model.Admit("203.0.113.5")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, int64(1), decision.Hits)
}

func TestAdmitConcurrentNoLostHits(t *testing.T) {

	clock, _ := frozenClock(time.Date(2021, 3, 14, 12, 0, 0, 0, time.UTC))
	store := newMemoryHitStore(clock)
	model := RateLimitModel{Store: store, Window: 600 * time.Second, Cap: 600}

	const calls = 200
	var wg sync.WaitGroup
	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func() {
			defer wg.Done()
			_, _ = model.Admit("203.0.113.5")
		}()
	}
	wg.Wait()

	// every hit must be counted exactly once
	decision, err := model.Admit("203.0.113.5")
	require.NoError(t, err)
	assert.Equal(t, int64(calls+1), decision.Hits)
}

func TestAdmitConcurrentCapNeverExceeded(t *testing.T) {

	clock, _ := frozenClock(time.Date(2021, 3, 14, 12, 0, 0, 0, time.UTC))
	model := RateLimitModel{Store: newMemoryHitStore(clock), Window: 600 * time.Second, Cap: 50}

	const calls = 200
	var wg sync.WaitGroup
	var mutex sync.Mutex
	allowed := 0

	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func() {
			defer wg.Done()
			decision, err := model.Admit("203.0.113.5")
			if err == nil && decision.Allowed {
				mutex.Lock()
				allowed++
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestAdmitStoreFailure(t *testing.T) {

	model := RateLimitModel{Store: failingHitStore{}}

	decision, err := model.Admit("203.0.113.5")
	assert.Nil(t, decision)
	require.Error(t, err)
	// store errors are the retryable kind
	assert.True(t, helpers.IsSystemError(err))
}

func TestAdmitDefaults(t *testing.T) {

	model := RateLimitModel{}
	assert.Equal(t, 600*time.Second, model.window())
	assert.Equal(t, int64(600), model.cap())
}

func TestNormalizeAddress(t *testing.T) {

	// IPv4-mapped IPv6 and plain IPv4 must share one record
	assert.Equal(t, "203.0.113.5", NormalizeAddress("::ffff:203.0.113.5"))
	assert.Equal(t, "203.0.113.5", NormalizeAddress("203.0.113.5"))
	assert.Equal(t, "2001:db8::1", NormalizeAddress("2001:db8::1"))
	// unparsable input is counted under the raw string
	assert.Equal(t, "not-an-ip", NormalizeAddress("not-an-ip"))
}
