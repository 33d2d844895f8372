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

package framework

import (
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// SelectionState is the read-only view of scheduler state offered to a `DispatchSelector`.
type SelectionState interface {
	// LastSector returns the sector of the most recently dispatched request.
	LastSector() uint64

	// Queue returns the queue serving the given direction. It never returns nil for `types.DirectionUp` or
	// `types.DirectionDown`.
	Queue(dir types.Direction) QueueInspectionMethods
}

// Candidate is the request a `DispatchSelector` proposes to dispatch next, together with the queue that owns it.
// The selector only observes the request; it stays in its queue until the scheduler approves dispatch.
type Candidate struct {
	Request   types.DiskRequest
	Direction types.Direction
}

// DispatchSelector chooses which queue head should be dispatched next.
//
// Implementations MUST NOT mutate queue state.
type DispatchSelector interface {
	// Name returns the name of the selector.
	Name() string

	// SelectCandidate returns the proposed candidate, or nil if every queue is empty.
	// An error signals inconsistent queue state; the caller treats it as "nothing to dispatch".
	SelectCandidate(state SelectionState) (*Candidate, error)
}
