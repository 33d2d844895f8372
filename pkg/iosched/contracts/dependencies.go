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
	"time"

	"k8s.io/utils/clock"

	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// DeviceDriver is the host collaborator that receives approved requests and moves them toward the physical medium.
//
// Handoff is always invoked while the host's device-queue lock is held, including when the dispatch was triggered by
// the anticipation timer. Implementations MUST NOT try to acquire that lock.
type DeviceDriver interface {
	// Handoff transfers ownership of req to the driver.
	Handoff(req types.DiskRequest)
}

// DeviceDriverFunc adapts a plain function to the `DeviceDriver` interface.
type DeviceDriverFunc func(req types.DiskRequest)

// Handoff calls f(req).
func (f DeviceDriverFunc) Handoff(req types.DiskRequest) { f(req) }

// Timer is a single-shot timer armed through a `TimerService`.
type Timer interface {
	// Stop prevents the timer from firing. It returns true only for the call that stopped a pending timer.
	// Callers must not rely on the result to tell a fired callback apart from one that has yet to run.
	Stop() bool
}

// TimerService is the host's single-shot timer facility. The scheduler arms at most one timer at a time.
//
// The callback runs on a goroutine owned by the service and without any lock held; the scheduler acquires the
// device-queue lock itself before touching its state.
type TimerService interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// clockTimerService adapts a `clock.WithDelayedExecution` (real or fake) to the `TimerService` interface. Callbacks
// are started on their own goroutine: `testclock.FakeClock` runs expired callbacks while holding its own lock, and a
// callback that reads the same clock would otherwise deadlock.
type clockTimerService struct {
	clock clock.WithDelayedExecution
}

// NewClockTimerService returns a `TimerService` backed by the given clock. Tests pass a
// `k8s.io/utils/clock/testing.FakeClock` and step it to fire timers deterministically.
func NewClockTimerService(c clock.WithDelayedExecution) TimerService {
	return &clockTimerService{clock: c}
}

func (s *clockTimerService) AfterFunc(d time.Duration, fn func()) Timer {
	t := &clockTimer{}
	t.timer = s.clock.AfterFunc(d, func() {
		if t.done.CompareAndSwap(false, true) {
			go fn()
		}
	})
	return t
}

// clockTimer settles once, either by firing or by the first Stop.
type clockTimer struct {
	timer clock.Timer
	done  atomic.Bool
}

func (t *clockTimer) Stop() bool {
	if !t.done.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	return true
}
