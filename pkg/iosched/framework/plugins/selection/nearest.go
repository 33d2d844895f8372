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

package selection

import (
	"errors"
	"fmt"

	"github.com/sstfsched/sstf/pkg/iosched/framework"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// NearestHeadSelectorName is the name of the shortest-seek selector.
const NearestHeadSelectorName = "NearestHead"

func init() {
	MustRegisterSelector(RegisteredSelectorName(NearestHeadSelectorName),
		func() (framework.DispatchSelector, error) {
			return newNearestHead(), nil
		})
}

type nearestHead struct{}

func newNearestHead() *nearestHead {
	return &nearestHead{}
}

// Name returns the name of the selector.
func (s *nearestHead) Name() string {
	return NearestHeadSelectorName
}

// SelectCandidate implements shortest-seek-first over the two direction queues. Only the queue heads are considered:
// each queue is sorted away from the last dispatched sector, so its head is its nearest request.
//
// When both queues are non-empty the UP head wins if its distance is less than or equal to the DOWN head's distance.
// Ties therefore always resolve to UP.
func (s *nearestHead) SelectCandidate(state framework.SelectionState) (*framework.Candidate, error) {
	up, err := peek(state.Queue(types.DirectionUp))
	if err != nil {
		return nil, fmt.Errorf("failed to peek %s queue: %w", types.DirectionUp, err)
	}
	down, err := peek(state.Queue(types.DirectionDown))
	if err != nil {
		return nil, fmt.Errorf("failed to peek %s queue: %w", types.DirectionDown, err)
	}

	switch {
	case up == nil && down == nil:
		return nil, nil
	case down == nil:
		return &framework.Candidate{Request: up, Direction: types.DirectionUp}, nil
	case up == nil:
		return &framework.Candidate{Request: down, Direction: types.DirectionDown}, nil
	}

	last := state.LastSector()
	if distance(up.Sector(), last) <= distance(last, down.Sector()) {
		return &framework.Candidate{Request: up, Direction: types.DirectionUp}, nil
	}
	return &framework.Candidate{Request: down, Direction: types.DirectionDown}, nil
}

// peek returns the head of q, or nil if q is empty.
func peek(q framework.QueueInspectionMethods) (types.DiskRequest, error) {
	if q == nil || q.Len() == 0 {
		return nil, nil
	}
	head, err := q.PeekHead()
	if err != nil {
		if errors.Is(err, framework.ErrQueueEmpty) {
			// Emptied between Len and PeekHead; only possible for unlocked observers.
			return nil, nil
		}
		return nil, err
	}
	if head == nil {
		return nil, framework.ErrInconsistentQueue
	}
	return head, nil
}

// distance returns the magnitude of far-near. Queued heads sit on their own side of the last sector, so far >= near
// in practice; the magnitude keeps the comparison meaningful if the last sector has since moved past a head.
func distance(far, near uint64) uint64 {
	if far >= near {
		return far - near
	}
	return near - far
}
