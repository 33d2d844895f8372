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

// SectorComparator defines the ordering of a `DirectionQueue`.
type SectorComparator interface {
	// Name returns a string identifier for the ordering (e.g., "sector_asc").
	Name() string

	// Direction returns the travel direction this ordering serves.
	Direction() types.Direction

	// Compare returns a positive value if a request at sector `incoming` must be placed before an existing request at
	// sector `existing`, zero if the sectors are equal, and a negative value otherwise.
	Compare(incoming, existing uint64) int
}

// QueueInspectionMethods defines DirectionQueue's read-only methods.
type QueueInspectionMethods interface {
	// Name returns a string identifier for the concrete queue implementation type (e.g., "ListQueue").
	Name() string

	// Comparator returns the ordering this queue maintains.
	Comparator() SectorComparator

	// Len returns the current number of requests in the queue.
	Len() int

	// IsEmpty reports whether the queue holds no requests.
	IsEmpty() bool

	// PeekHead returns the first request without removing it.
	// Returns ErrQueueEmpty if the queue is empty.
	PeekHead() (types.DiskRequest, error)

	// Items returns a copy of the queued requests in queue order.
	Items() []types.DiskRequest
}

// DirectionQueue is an ordered sequence of pending requests for one travel direction, kept sorted by sector under its
// `SectorComparator`.
//
// The scheduler only ever mutates a DirectionQueue while holding the host's device-queue lock, so no particular
// locking is required by this contract. Implementations shipped in this module are nevertheless goroutine-safe so
// that observers (metrics, debugging) may inspect them concurrently.
type DirectionQueue interface {
	QueueInspectionMethods

	// InsertSorted places the request immediately before the first queued request for which
	// `Comparator().Compare(req.Sector(), queued.Sector()) > 0`, or at the tail if there is none. Requests with equal
	// sectors therefore keep their arrival order.
	// Returns ErrNilQueueItem if req is nil.
	InsertSorted(req types.DiskRequest) error

	// RemoveHead removes and returns the first request.
	// Returns ErrQueueEmpty if the queue is empty.
	RemoveHead() (types.DiskRequest, error)

	// Drain removes all requests from the queue and returns them in queue order.
	// The queue MUST be empty after this operation.
	Drain() []types.DiskRequest
}
