/*
Copyright 2025 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package controller

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testclock "k8s.io/utils/clock/testing"

	"github.com/sstfsched/sstf/pkg/common/observability/logging"
	"github.com/sstfsched/sstf/pkg/iosched/contracts"
	"github.com/sstfsched/sstf/pkg/iosched/contracts/mocks"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

func TestAnticipation_DefersOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithInitialSector(1000), WithInitialProcess(7))
	h.submit("other", 800, 9)

	res := h.dispatch()
	assert.Equal(t, types.DispatchOutcomeNoneAvailable, res.Outcome, "cross-process dispatch should be deferred")
	require.Len(t, h.timers.Timers, 1)

	// Repeated dispatch requests while armed are no-ops.
	for i := 0; i < 3; i++ {
		res = h.dispatch()
		assert.Equal(t, types.DispatchOutcomeNoneAvailable, res.Outcome)
	}
	assert.Len(t, h.timers.Timers, 1, "no additional timer may be armed while one is pending")
	assert.Empty(t, h.driver.Received(), "nothing may be handed off while armed")
	assert.Equal(t, []string{"other"}, ids(h.s.Queue(types.DirectionDown).Items()), "deferred request must stay queued")

	// The window expires; the callback dispatches without the process check.
	h.timers.Last().Fire()
	assert.Equal(t, []string{"other"}, h.dispatchedIDs())
	st := h.stats()
	assert.False(t, st.Armed)
	assert.Equal(t, uint64(800), st.LastSector)
	assert.Equal(t, int32(9), st.LastProcess)
	assert.Equal(t, uint64(1), st.Deferred)
	assert.Equal(t, uint64(1), st.TimerFired)
	assert.Zero(t, st.DownLen)

	// Nothing left; a further dispatch reports none available and arms nothing.
	assert.Equal(t, types.DispatchOutcomeNoneAvailable, h.dispatch().Outcome)
	assert.Len(t, h.timers.Timers, 1)
}

func TestAnticipation_ArrivalFromOtherProcess(t *testing.T) {
	t.Parallel()

	t.Run("DeferredHeadIsNotDeferredAgain", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, WithInitialSector(1000), WithInitialProcess(7))
		h.submit("r800", 800, 9)
		require.False(t, h.dispatch().IsDispatched())
		first := h.timers.Last()

		// r790 queues behind r800 in the DOWN queue, so r800 stays the candidate.
		h.submit("r790", 790, 9)
		assert.True(t, first.Stopped())
		assert.Len(t, h.timers.Timers, 1, "the head already deferred for must be dispatched, not deferred again")
		assert.Equal(t, []string{"r800"}, h.dispatchedIDs())

		// pid 9 is now the active process.
		res := h.dispatch()
		require.True(t, res.IsDispatched())
		assert.Equal(t, "r790", res.Request.ID())
	})

	t.Run("NewHeadFromThirdProcessIsDeferred", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, WithInitialSector(1000), WithInitialProcess(7))
		h.submit("r800", 800, 9)
		require.False(t, h.dispatch().IsDispatched())

		// r850 becomes the DOWN head and is nearer; it gets its own anticipation window.
		h.submit("r850", 850, 11)
		require.Len(t, h.timers.Timers, 2)
		assert.True(t, h.timers.Timers[0].Stopped())
		assert.False(t, h.timers.Timers[1].Stopped())
		assert.Empty(t, h.driver.Received())
		st := h.stats()
		assert.True(t, st.Armed)
		assert.Equal(t, uint64(2), st.Deferred)
		assert.Equal(t, uint64(1), st.Cancelled)

		h.timers.Last().Fire()
		assert.Equal(t, []string{"r850"}, h.dispatchedIDs())
	})
}

func TestAnticipation_StaleTimerIsIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithInitialSector(1000), WithInitialProcess(7))
	h.submit("r800", 800, 9)
	require.False(t, h.dispatch().IsDispatched())
	stale := h.timers.Last()

	// The arrival wins the race: the deferral is cancelled and the nearer r1100 is dispatched.
	h.submit("r1100", 1100, 7)
	require.Equal(t, []string{"r1100"}, h.dispatchedIDs())

	// The cancelled callback still runs; it must not dispatch r800.
	stale.FireStale()
	assert.Equal(t, []string{"r1100"}, h.dispatchedIDs())
	st := h.stats()
	assert.Zero(t, st.TimerFired)
	assert.Equal(t, 1, st.DownLen)

	// A fresh deferral for r800 is armed by the next dispatch; the old callback must not consume it either.
	require.False(t, h.dispatch().IsDispatched())
	require.Len(t, h.timers.Timers, 2)
	stale.FireStale()
	assert.True(t, h.stats().Armed, "a stale callback must not disarm a newer timer")
	h.timers.Last().Fire()
	assert.Equal(t, []string{"r1100", "r800"}, h.dispatchedIDs())
}

func TestAnticipation_TimerAfterDestroy(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithInitialSector(1000), WithInitialProcess(7))
	h.submit("r800", 800, 9)
	require.False(t, h.dispatch().IsDispatched())
	stale := h.timers.Last()
	h.submit("r1100", 1100, 7)
	require.Equal(t, []string{"r1100"}, h.dispatchedIDs())

	// Drain r800 through a fresh window, then destroy.
	require.False(t, h.dispatch().IsDispatched())
	h.timers.Last().Fire()
	h.mu.Lock()
	require.NoError(t, h.s.Destroy())
	h.mu.Unlock()

	assert.NotPanics(t, stale.FireStale, "a callback arriving after destroy must be a no-op")
	assert.Equal(t, []string{"r1100", "r800"}, h.dispatchedIDs())
}

// TestAnticipation_FakeClock runs the scheduler against a clock-backed timer service, where the callback executes on
// the clock's goroutine and takes the device-queue lock itself.
func TestAnticipation_FakeClock(t *testing.T) {
	t.Parallel()

	fakeClock := testclock.NewFakeClock(time.Now())
	mu := &sync.Mutex{}
	driver := &mocks.MockDeviceDriver{}
	cfg, err := NewConfig(WithDeviceName(t.Name()), WithInitialSector(1000), WithInitialProcess(7),
		WithDelayDuration(10*time.Millisecond))
	require.NoError(t, err)
	s, err := New(cfg, mu, driver, WithLogger(logging.NewTestLogger()),
		WithTimerService(contracts.NewClockTimerService(fakeClock)))
	require.NoError(t, err)

	mu.Lock()
	require.NoError(t, s.Submit(types.NewRequest("r800", 800, 9)))
	res := s.DispatchNext()
	mu.Unlock()
	require.False(t, res.IsDispatched())
	require.True(t, fakeClock.HasWaiters(), "an anticipation timer should be pending")

	fakeClock.Step(5 * time.Millisecond)
	assert.Never(t, func() bool { return len(driver.Received()) > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"nothing may be dispatched before the window closes")

	fakeClock.Step(5 * time.Millisecond)
	require.Eventually(t, func() bool { return len(driver.Received()) == 1 }, time.Second, time.Millisecond,
		"the timer callback should dispatch the deferred request")
	assert.Equal(t, "r800", driver.Received()[0].ID())

	mu.Lock()
	defer mu.Unlock()
	st := s.Stats()
	assert.False(t, st.Armed)
	assert.Equal(t, int32(9), st.LastProcess)
	assert.Equal(t, uint64(1), st.TimerFired)
}

// TestAnticipation_ConcurrentSubmitters races submitters against clock-driven timer callbacks and checks that every
// request is dispatched exactly once.
func TestAnticipation_ConcurrentSubmitters(t *testing.T) {
	t.Parallel()

	fakeClock := testclock.NewFakeClock(time.Now())
	mu := &sync.Mutex{}
	driver := &mocks.MockDeviceDriver{}
	cfg, err := NewConfig(WithDeviceName(t.Name()), WithInitialProcess(1))
	require.NoError(t, err)
	s, err := New(cfg, mu, driver, WithLogger(logging.NewTestLogger()),
		WithTimerService(contracts.NewClockTimerService(fakeClock)))
	require.NoError(t, err)

	const (
		numProcs   = 4
		perProcess = 50
	)
	var wg sync.WaitGroup
	for p := 0; p < numProcs; p++ {
		wg.Add(1)
		go func(pid int32) {
			defer wg.Done()
			for i := 0; i < perProcess; i++ {
				mu.Lock()
				assert.NoError(t, s.Submit(types.NewRequest(fmt.Sprintf("p%d-%d", pid, i),
					uint64(pid)*1000+uint64(i)*7, pid)))
				s.DispatchNext()
				mu.Unlock()
				fakeClock.Step(cfg.DelayDuration)
			}
		}(int32(p + 1))
	}
	wg.Wait()

	total := numProcs * perProcess
	require.Eventually(t, func() bool {
		fakeClock.Step(cfg.DelayDuration)
		mu.Lock()
		s.DispatchNext()
		mu.Unlock()
		return len(driver.Received()) == total
	}, 5*time.Second, time.Millisecond, "every submitted request should eventually be dispatched")

	seen := make(map[string]bool, total)
	for _, id := range ids(driver.Received()) {
		assert.False(t, seen[id], "request %s dispatched twice", id)
		seen[id] = true
	}
	mu.Lock()
	defer mu.Unlock()
	require.NoError(t, s.Destroy())
}
