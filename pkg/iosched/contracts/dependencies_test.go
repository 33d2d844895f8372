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

package contracts

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testclock "k8s.io/utils/clock/testing"

	"github.com/sstfsched/sstf/pkg/iosched/types"
)

func TestClockTimerService(t *testing.T) {
	t.Parallel()

	t.Run("FiresAfterDelay", func(t *testing.T) {
		t.Parallel()
		fakeClock := testclock.NewFakeClock(time.Now())
		svc := NewClockTimerService(fakeClock)

		var fired atomic.Int32
		svc.AfterFunc(5*time.Millisecond, func() { fired.Add(1) })

		fakeClock.Step(4 * time.Millisecond)
		assert.Never(t, func() bool { return fired.Load() > 0 }, 20*time.Millisecond, time.Millisecond,
			"Timer must not fire before its delay elapses")

		fakeClock.Step(time.Millisecond)
		assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond,
			"Timer must fire once its delay elapses")
	})

	t.Run("StopPreventsFiring", func(t *testing.T) {
		t.Parallel()
		fakeClock := testclock.NewFakeClock(time.Now())
		svc := NewClockTimerService(fakeClock)

		var fired atomic.Int32
		timer := svc.AfterFunc(5*time.Millisecond, func() { fired.Add(1) })
		assert.True(t, timer.Stop(), "Stop on a pending timer must report success")

		fakeClock.Step(10 * time.Millisecond)
		assert.Never(t, func() bool { return fired.Load() > 0 }, 20*time.Millisecond, time.Millisecond,
			"A stopped timer must not fire")
		assert.False(t, timer.Stop(), "Stop on a stopped timer must report false")
	})

	t.Run("StopAfterFireReportsFalse", func(t *testing.T) {
		t.Parallel()
		fakeClock := testclock.NewFakeClock(time.Now())
		svc := NewClockTimerService(fakeClock)

		var fired atomic.Int32
		timer := svc.AfterFunc(time.Millisecond, func() { fired.Add(1) })
		fakeClock.Step(time.Millisecond)
		assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
		assert.False(t, timer.Stop(), "Stop on a fired timer must report false")
	})

	t.Run("CallbackMayReadTheClock", func(t *testing.T) {
		t.Parallel()
		fakeClock := testclock.NewFakeClock(time.Unix(100, 0))
		svc := NewClockTimerService(fakeClock)

		seen := make(chan time.Time, 1)
		svc.AfterFunc(time.Second, func() { seen <- fakeClock.Now() })

		stepped := make(chan struct{})
		go func() {
			fakeClock.Step(time.Second)
			close(stepped)
		}()
		select {
		case now := <-seen:
			assert.Equal(t, time.Unix(101, 0), now)
		case <-time.After(5 * time.Second):
			t.Fatal("callback reading the clock never completed")
		}
		select {
		case <-stepped:
		case <-time.After(5 * time.Second):
			t.Fatal("Step did not return")
		}
	})
}

func TestDeviceDriverFunc(t *testing.T) {
	t.Parallel()

	var got types.DiskRequest
	driver := DeviceDriverFunc(func(req types.DiskRequest) { got = req })
	req := types.NewRequest("r", 1, 1)
	driver.Handoff(req)
	assert.Same(t, req, got)
}
