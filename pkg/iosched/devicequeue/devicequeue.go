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

package devicequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sstfsched/sstf/pkg/common/observability/logging"
	"github.com/sstfsched/sstf/pkg/iosched/contracts"
	"github.com/sstfsched/sstf/pkg/iosched/controller"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// ErrClosed is returned when a request is submitted to a closed `DeviceQueue`.
var ErrClosed = errors.New("device queue is closed")

// DeviceQueue hosts a `controller.Scheduler` for one device. It owns the device-queue lock and drains the scheduler
// into the driver from its `Run` loop.
type DeviceQueue struct {
	mu        sync.Mutex
	scheduler *controller.Scheduler
	driver    contracts.DeviceDriver
	logger    logr.Logger

	// pending counts requests submitted but not yet handed to the driver. Protected by mu.
	pending int
	closed  bool

	// wake nudges the Run loop after a submit or a timer-driven handoff.
	wake chan struct{}
	// idle is signalled when pending drops to zero.
	idle chan struct{}
}

// New creates a DeviceQueue that dispatches to driver. opts are passed through to `controller.New`.
func New(cfg *controller.Config, driver contracts.DeviceDriver, opts ...controller.Option) (*DeviceQueue, error) {
	if driver == nil {
		return nil, errors.New("driver cannot be nil")
	}
	q := &DeviceQueue{
		driver: driver,
		logger: log.Log.WithName("device-queue"),
		wake:   make(chan struct{}, 1),
		idle:   make(chan struct{}, 1),
	}
	s, err := controller.New(cfg, &q.mu, contracts.DeviceDriverFunc(q.handoff), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler for device queue: %w", err)
	}
	q.scheduler = s
	q.logger = q.logger.WithValues("device", cfg.DeviceName)
	return q, nil
}

// Submit queues req for dispatch.
func (q *DeviceQueue) Submit(req types.DiskRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	// Counted before Submit, which may hand req to the driver synchronously.
	q.pending++
	if err := q.scheduler.Submit(req); err != nil {
		q.pending--
		return err
	}
	signal(q.wake)
	return nil
}

// handoff forwards an approved request to the driver. It runs with mu held.
func (q *DeviceQueue) handoff(req types.DiskRequest) {
	q.driver.Handoff(req)
	q.pending--
	if q.pending == 0 {
		signal(q.idle)
	}
	signal(q.wake)
}

// Run drains the scheduler until ctx is cancelled. It must be run as a goroutine.
func (q *DeviceQueue) Run(ctx context.Context) error {
	q.logger.V(logging.DEFAULT).Info("Device queue run loop starting")
	defer q.logger.V(logging.DEFAULT).Info("Device queue run loop stopped")

	for {
		q.drain()
		select {
		case <-ctx.Done():
			return nil
		case <-q.wake:
		}
	}
}

// drain dispatches until the scheduler reports nothing available, either because the queues are empty or because a
// deferred dispatch is pending.
func (q *DeviceQueue) drain() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.scheduler.DispatchNext().IsDispatched() {
	}
}

// WaitIdle blocks until every submitted request has been handed to the driver or ctx is done.
func (q *DeviceQueue) WaitIdle(ctx context.Context) error {
	for {
		q.mu.Lock()
		pending := q.pending
		q.mu.Unlock()
		if pending == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %d requests to drain: %w", pending, ctx.Err())
		case <-q.idle:
		}
	}
}

// Stats returns a snapshot of the scheduler state.
func (q *DeviceQueue) Stats() controller.Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.scheduler.Stats()
}

// Close destroys the scheduler. It fails with an error wrapping `types.ErrInvariantViolation` if requests are still
// queued, in which case the queue stays open.
func (q *DeviceQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	if err := q.scheduler.Destroy(); err != nil {
		return fmt.Errorf("failed to close device queue: %w", err)
	}
	q.closed = true
	return nil
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
