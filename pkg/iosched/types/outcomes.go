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

package types

import "strconv"

// DispatchOutcome describes the result of a single dispatch attempt.
type DispatchOutcome int

const (
	// DispatchOutcomeNoneAvailable means nothing was handed to the driver. Either every queue is empty or the
	// scheduler is holding the device for the previously active process. This is a normal steady-state signal telling
	// the driver to wait.
	DispatchOutcomeNoneAvailable DispatchOutcome = iota

	// DispatchOutcomeDispatched means a request was removed from its queue and handed to the driver.
	DispatchOutcomeDispatched
)

func (o DispatchOutcome) String() string {
	switch o {
	case DispatchOutcomeNoneAvailable:
		return "NoneAvailable"
	case DispatchOutcomeDispatched:
		return "Dispatched"
	default:
		return "Unknown(" + strconv.Itoa(int(o)) + ")"
	}
}

// DispatchResult is returned by `controller.Scheduler.DispatchNext`.
type DispatchResult struct {
	Outcome DispatchOutcome
	// Request is set only when Outcome is `DispatchOutcomeDispatched`.
	Request DiskRequest
	// Direction is the queue the request was removed from. Meaningful only when dispatched.
	Direction Direction
}

// Dispatched builds a result for a request that was handed to the driver.
func Dispatched(req DiskRequest, dir Direction) DispatchResult {
	return DispatchResult{Outcome: DispatchOutcomeDispatched, Request: req, Direction: dir}
}

// NoneAvailable builds a result for a dispatch attempt that handed nothing to the driver.
func NoneAvailable() DispatchResult {
	return DispatchResult{Outcome: DispatchOutcomeNoneAvailable}
}

// IsDispatched reports whether a request was handed to the driver.
func (r DispatchResult) IsDispatched() bool {
	return r.Outcome == DispatchOutcomeDispatched
}
