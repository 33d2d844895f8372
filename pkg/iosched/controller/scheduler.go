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
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sstfsched/sstf/pkg/common/observability/logging"
	"github.com/sstfsched/sstf/pkg/iosched/contracts"
	"github.com/sstfsched/sstf/pkg/iosched/framework"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/ordering"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/queue"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/selection"
	"github.com/sstfsched/sstf/pkg/iosched/metrics"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// Scheduler is the anticipatory shortest-seek-first scheduler for one device queue.
//
// It owns exactly two `framework.DirectionQueue`s, remembers the sector and process of the last dispatched request,
// and runs the anticipation state machine. See the package documentation for the locking contract.
type Scheduler struct {
	config   Config
	lock     sync.Locker
	driver   contracts.DeviceDriver
	timers   contracts.TimerService
	selector framework.DispatchSelector
	logger   logr.Logger

	queues      [len(types.Directions)]framework.DirectionQueue
	queued      map[types.DiskRequest]struct{} // every request currently held by either queue
	lastSector  uint64
	lastProcess int32
	guard       anticipationGuard
	destroyed   bool
	stats       Stats
}

// Option customizes the collaborators of a `Scheduler`.
type Option func(*Scheduler)

// WithLogger sets the logger. Defaults to the controller-runtime global logger.
func WithLogger(logger logr.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithTimerService sets the timer service used for the anticipation delay. Defaults to a service backed by the real
// clock.
func WithTimerService(timers contracts.TimerService) Option {
	return func(s *Scheduler) {
		s.timers = timers
	}
}

// New creates a Scheduler for one device queue.
//
// lock is the host's device-queue lock. The caller must hold it around every call to `Submit`, `DispatchNext`,
// `Stats` and `Destroy`; the scheduler acquires it itself only from the anticipation timer callback. driver receives
// every approved request.
//
// New returns an error wrapping `types.ErrAllocationFailure` if the direction queues or the selector cannot be
// created.
func New(config *Config, lock sync.Locker, driver contracts.DeviceDriver, opts ...Option) (*Scheduler, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if lock == nil {
		return nil, errors.New("lock cannot be nil")
	}
	if driver == nil {
		return nil, errors.New("driver cannot be nil")
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler config: %w", err)
	}

	s := &Scheduler{
		config:      *config,
		lock:        lock,
		driver:      driver,
		queued:      make(map[types.DiskRequest]struct{}),
		lastSector:  config.InitialSector,
		lastProcess: config.InitialProcess,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger.GetSink() == nil {
		s.logger = log.Log.WithName("sstf-scheduler")
	}
	s.logger = s.logger.WithValues("device", config.DeviceName)
	if s.timers == nil {
		s.timers = contracts.NewClockTimerService(clock.RealClock{})
	}

	for _, dir := range types.Directions {
		q, err := queue.NewQueueFromName(config.QueueName, ordering.ForDirection(dir))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create %s queue: %w", types.ErrAllocationFailure, dir, err)
		}
		s.queues[dir] = q
	}
	selector, err := selection.NewSelectorFromName(config.SelectorName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create dispatch selector: %w", types.ErrAllocationFailure, err)
	}
	s.selector = selector

	s.logger.V(logging.DEFAULT).Info("Scheduler created",
		"queue", config.QueueName, "selector", config.SelectorName, "delay", config.DelayDuration,
		"initialSector", config.InitialSector, "initialProcess", config.InitialProcess)
	return s, nil
}

// Submit routes req to its direction queue and, if a deferred dispatch is pending, cancels it and dispatches
// immediately. A request that is still queued is rejected with an error wrapping `types.ErrInvariantViolation`.
//
// The caller must hold the device-queue lock.
func (s *Scheduler) Submit(req types.DiskRequest) error {
	if isNilRequest(req) {
		return types.ErrNilRequest
	}
	if s.destroyed {
		return fmt.Errorf("%w: submit: %w", types.ErrInvariantViolation, types.ErrSchedulerDestroyed)
	}
	if _, ok := s.queued[req]; ok {
		return fmt.Errorf("%w: request %q is already queued", types.ErrInvariantViolation, req.ID())
	}

	dir, err := s.route(req)
	if err != nil {
		return err
	}
	s.queued[req] = struct{}{}
	s.stats.Submitted++
	metrics.RecordSubmitted(s.config.DeviceName, dir.String())
	s.recordQueueDepth(dir)
	s.logger.V(logging.TRACE).Info("Request queued",
		"request", req.ID(), "sector", req.Sector(), "pid", req.ProcessID(), "direction", dir,
		"lastSector", s.lastSector)

	s.onRequestArrived()
	return nil
}

// DispatchNext asks for the next request to hand to the driver. On `types.DispatchOutcomeDispatched` the request has
// already been passed to `contracts.DeviceDriver.Handoff`.
//
// The caller must hold the device-queue lock.
func (s *Scheduler) DispatchNext() types.DispatchResult {
	if s.destroyed {
		return types.NoneAvailable()
	}
	return s.dispatch()
}

// Destroy releases the scheduler. It fails with an error wrapping `types.ErrInvariantViolation` if any request is
// still queued; in that case the scheduler is left untouched. Destroying an already destroyed scheduler is a no-op.
//
// The caller must hold the device-queue lock.
func (s *Scheduler) Destroy() error {
	if s.destroyed {
		return nil
	}
	up, down := s.queues[types.DirectionUp].Len(), s.queues[types.DirectionDown].Len()
	if up != 0 || down != 0 {
		err := fmt.Errorf("%w: destroy with %d requests still queued (up=%d, down=%d)",
			types.ErrInvariantViolation, up+down, up, down)
		s.logger.Error(err, "Refusing to destroy scheduler")
		return err
	}

	if s.guard.armed() {
		s.guard.cancel()
	}
	s.destroyed = true
	for _, dir := range types.Directions {
		s.queues[dir] = nil
	}
	s.queued = nil
	s.logger.V(logging.DEFAULT).Info("Scheduler destroyed",
		"dispatched", s.stats.Dispatched, "deferred", s.stats.Deferred)
	return nil
}

// Stats is a point-in-time snapshot of scheduler state.
type Stats struct {
	UpLen, DownLen int
	LastSector     uint64
	LastProcess    int32
	Armed          bool

	Submitted         uint64
	Dispatched        uint64
	Deferred          uint64
	Cancelled         uint64
	TimerFired        uint64
	TotalSeekDistance uint64
}

// Stats returns a snapshot of the scheduler state.
//
// The caller must hold the device-queue lock.
func (s *Scheduler) Stats() Stats {
	st := s.stats
	if !s.destroyed {
		st.UpLen = s.queues[types.DirectionUp].Len()
		st.DownLen = s.queues[types.DirectionDown].Len()
	}
	st.LastSector = s.lastSector
	st.LastProcess = s.lastProcess
	st.Armed = s.guard.armed()
	return st
}

// Queue returns a read-only view of the queue serving dir.
func (s *Scheduler) Queue(dir types.Direction) framework.QueueInspectionMethods {
	return s.queues[dir]
}

// LastSector returns the sector of the most recently dispatched request.
func (s *Scheduler) LastSector() uint64 {
	return s.lastSector
}

var _ framework.SelectionState = &Scheduler{}

// isNilRequest also catches typed nil pointers wrapped in the interface.
func isNilRequest(req types.DiskRequest) bool {
	if req == nil {
		return true
	}
	v := reflect.ValueOf(req)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (s *Scheduler) recordQueueDepth(dir types.Direction) {
	metrics.SetQueueDepth(s.config.DeviceName, dir.String(), s.queues[dir].Len())
}
