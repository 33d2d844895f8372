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

	"github.com/sstfsched/sstf/pkg/common/observability/logging"
	"github.com/sstfsched/sstf/pkg/iosched/contracts"
	"github.com/sstfsched/sstf/pkg/iosched/framework"
	"github.com/sstfsched/sstf/pkg/iosched/metrics"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

type guardState int

const (
	guardIdle guardState = iota
	guardArmed
)

// anticipationGuard is the deferred-dispatch state machine. All fields are protected by the device-queue lock.
type anticipationGuard struct {
	state guardState
	timer contracts.Timer
	// generation identifies the armed timer. A callback carrying an older generation lost a race with cancellation
	// and must do nothing.
	generation uint64
	// deferredFor is the head request the pending or last deferral was made for. It is never deferred for twice.
	deferredFor types.DiskRequest
	// grant allows exactly one dispatch without the process check. It is set when the timer expires.
	grant bool
}

func (g *anticipationGuard) armed() bool {
	return g.state == guardArmed
}

func (g *anticipationGuard) arm(timer contracts.Timer, req types.DiskRequest) {
	g.state = guardArmed
	g.timer = timer
	g.deferredFor = req
}

// cancel stops the pending timer and returns to Idle. The deferral record is kept.
func (g *anticipationGuard) cancel() {
	if g.timer != nil {
		g.timer.Stop()
	}
	g.state = guardIdle
	g.timer = nil
}

// expire returns to Idle after the timer fired and grants one unconditional dispatch.
func (g *anticipationGuard) expire() {
	g.state = guardIdle
	g.timer = nil
	g.grant = true
}

func (g *anticipationGuard) consumeGrant() bool {
	grant := g.grant
	g.grant = false
	return grant
}

// reset forgets the deferral history after a dispatch.
func (g *anticipationGuard) reset() {
	g.deferredFor = nil
	g.grant = false
}

// dispatch runs one dispatch decision. The caller holds the device-queue lock.
func (s *Scheduler) dispatch() types.DispatchResult {
	if s.guard.armed() {
		s.logger.V(logging.TRACE).Info("Dispatch requested while a deferred dispatch is pending")
		return types.NoneAvailable()
	}
	grant := s.guard.consumeGrant()

	candidate, err := s.selector.SelectCandidate(s)
	if err != nil {
		s.logger.Error(err, "Dispatch selector failed, nothing dispatched", "selector", s.selector.Name())
		return types.NoneAvailable()
	}
	if candidate == nil {
		return types.NoneAvailable()
	}

	req := candidate.Request
	if req.ProcessID() != s.lastProcess && !grant && s.guard.deferredFor != req {
		s.deferDispatch(candidate)
		return types.NoneAvailable()
	}
	return s.approve(candidate)
}

// deferDispatch arms the anticipation timer for candidate. The candidate stays queued.
func (s *Scheduler) deferDispatch(candidate *framework.Candidate) {
	s.guard.generation++
	generation := s.guard.generation
	timer := s.timers.AfterFunc(s.config.DelayDuration, func() {
		s.onTimerFired(generation)
	})
	s.guard.arm(timer, candidate.Request)

	s.stats.Deferred++
	metrics.RecordDeferral(s.config.DeviceName)
	s.logger.V(logging.DEBUG).Info("Dispatch deferred, anticipating the active process",
		"candidate", candidate.Request.ID(), "candidatePid", candidate.Request.ProcessID(),
		"lastProcess", s.lastProcess, "delay", s.config.DelayDuration)
}

// approve removes candidate from its queue and hands it to the driver.
func (s *Scheduler) approve(candidate *framework.Candidate) types.DispatchResult {
	q := s.queues[candidate.Direction]
	removed, err := q.RemoveHead()
	if err != nil || removed != candidate.Request {
		// The selector only peeks and the lock is held, so the head cannot have moved. Continuing would lose or
		// duplicate I/O.
		panic(fmt.Errorf("%w: %s queue head changed between selection and removal (err=%v)",
			types.ErrInvariantViolation, candidate.Direction, err))
	}

	req := candidate.Request
	delete(s.queued, req)
	seek := seekDistance(s.lastSector, req.Sector())
	s.lastSector = req.Sector()
	s.lastProcess = req.ProcessID()
	s.guard.reset()

	s.stats.Dispatched++
	s.stats.TotalSeekDistance += seek
	metrics.RecordDispatched(s.config.DeviceName, candidate.Direction.String(), seek)
	s.recordQueueDepth(candidate.Direction)
	s.logger.V(logging.TRACE).Info("Request dispatched",
		"request", req.ID(), "sector", req.Sector(), "pid", req.ProcessID(),
		"direction", candidate.Direction, "seek", seek)

	s.driver.Handoff(req)
	return types.Dispatched(req, candidate.Direction)
}

// onRequestArrived cancels a pending deferral and re-runs dispatch. The caller holds the device-queue lock.
func (s *Scheduler) onRequestArrived() {
	if !s.guard.armed() {
		return
	}
	s.guard.cancel()
	s.stats.Cancelled++
	metrics.RecordCancellation(s.config.DeviceName)
	s.logger.V(logging.DEBUG).Info("Deferred dispatch cancelled by request arrival")

	s.dispatch()
}

// onTimerFired is the anticipation timer callback. It runs on the timer service's goroutine and acquires the
// device-queue lock itself.
func (s *Scheduler) onTimerFired(generation uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.destroyed || !s.guard.armed() || s.guard.generation != generation {
		s.logger.V(logging.DEBUG).Info("Ignoring stale anticipation timer", "generation", generation)
		return
	}
	s.guard.expire()
	s.stats.TimerFired++
	metrics.RecordTimeout(s.config.DeviceName)
	s.logger.V(logging.DEBUG).Info("Anticipation window expired, dispatching")

	s.dispatch()
}

func seekDistance(from, to uint64) uint64 {
	if to >= from {
		return to - from
	}
	return from - to
}
