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

// Package mocks provides mocks for the interfaces defined in the `contracts` package.
package mocks

import (
	"sync"
	"time"

	"github.com/sstfsched/sstf/pkg/iosched/contracts"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// MockDeviceDriver records every request handed to it.
type MockDeviceDriver struct {
	mu        sync.Mutex
	received  []types.DiskRequest
	OnHandoff func(req types.DiskRequest)
}

func (m *MockDeviceDriver) Handoff(req types.DiskRequest) {
	m.mu.Lock()
	m.received = append(m.received, req)
	m.mu.Unlock()
	if m.OnHandoff != nil {
		m.OnHandoff(req)
	}
}

// Received returns a copy of the requests handed off so far, in order.
func (m *MockDeviceDriver) Received() []types.DiskRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.DiskRequest, len(m.received))
	copy(out, m.received)
	return out
}

var _ contracts.DeviceDriver = &MockDeviceDriver{}

// MockTimer is the `contracts.Timer` returned by `MockTimerService`.
type MockTimer struct {
	Duration time.Duration
	Fn       func()
	stopped  bool
	fired    bool
}

func (t *MockTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Fire runs the callback as the timer service would. It does nothing if the timer was stopped. The callback runs on
// the calling goroutine.
func (t *MockTimer) Fire() {
	if t.stopped || t.fired {
		return
	}
	t.fired = true
	t.Fn()
}

// FireStale runs the callback even though the timer was stopped, simulating a callback that was already in flight
// when Stop was called.
func (t *MockTimer) FireStale() {
	t.Fn()
}

// Stopped reports whether Stop succeeded.
func (t *MockTimer) Stopped() bool { return t.stopped }

// MockTimerService records every armed timer and lets tests fire them by hand.
type MockTimerService struct {
	Timers []*MockTimer
}

func (m *MockTimerService) AfterFunc(d time.Duration, fn func()) contracts.Timer {
	t := &MockTimer{Duration: d, Fn: fn}
	m.Timers = append(m.Timers, t)
	return t
}

// Last returns the most recently armed timer, or nil.
func (m *MockTimerService) Last() *MockTimer {
	if len(m.Timers) == 0 {
		return nil
	}
	return m.Timers[len(m.Timers)-1]
}

var _ contracts.TimerService = &MockTimerService{}
