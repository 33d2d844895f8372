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

package queue

import (
	"container/list"
	"sync"

	"github.com/sstfsched/sstf/pkg/iosched/framework"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// ListQueueName is the name of the sorted list queue implementation.
const ListQueueName = "ListQueue"

func init() {
	MustRegisterQueue(RegisteredQueueName(ListQueueName),
		func(comparator framework.SectorComparator) (framework.DirectionQueue, error) {
			return newListQueue(comparator), nil
		})
}

// listQueue implements `framework.DirectionQueue` with a doubly linked list kept in comparator order.
// Insertion is a linear scan from the head; head access and removal are O(1). Device queues are usually shallow, so
// the scan is cheap in practice.
type listQueue struct {
	requests   *list.List
	comparator framework.SectorComparator
	mu         sync.RWMutex
}

func newListQueue(comparator framework.SectorComparator) *listQueue {
	return &listQueue{
		requests:   list.New(),
		comparator: comparator,
	}
}

// --- `framework.DirectionQueue` Interface Implementation ---

// InsertSorted inserts req before the first element it must precede.
func (lq *listQueue) InsertSorted(req types.DiskRequest) error {
	if req == nil {
		return framework.ErrNilQueueItem
	}

	lq.mu.Lock()
	defer lq.mu.Unlock()

	sector := req.Sector()
	for e := lq.requests.Front(); e != nil; e = e.Next() {
		if lq.comparator.Compare(sector, e.Value.(types.DiskRequest).Sector()) > 0 {
			lq.requests.InsertBefore(req, e)
			return nil
		}
	}
	lq.requests.PushBack(req)
	return nil
}

// RemoveHead removes and returns the first request.
func (lq *listQueue) RemoveHead() (types.DiskRequest, error) {
	lq.mu.Lock()
	defer lq.mu.Unlock()

	front := lq.requests.Front()
	if front == nil {
		return nil, framework.ErrQueueEmpty
	}
	return lq.requests.Remove(front).(types.DiskRequest), nil
}

// Drain removes all requests from the queue and returns them.
func (lq *listQueue) Drain() []types.DiskRequest {
	lq.mu.Lock()
	defer lq.mu.Unlock()

	drained := lq.itemsLocked()
	lq.requests.Init()
	return drained
}

// Name returns the name of the queue.
func (lq *listQueue) Name() string {
	return ListQueueName
}

// Comparator returns the ordering of the queue.
func (lq *listQueue) Comparator() framework.SectorComparator {
	return lq.comparator
}

// Len returns the number of requests in the queue.
func (lq *listQueue) Len() int {
	lq.mu.RLock()
	defer lq.mu.RUnlock()
	return lq.requests.Len()
}

// IsEmpty reports whether the queue is empty.
func (lq *listQueue) IsEmpty() bool {
	return lq.Len() == 0
}

// PeekHead returns the first request without removing it.
func (lq *listQueue) PeekHead() (types.DiskRequest, error) {
	lq.mu.RLock()
	defer lq.mu.RUnlock()

	front := lq.requests.Front()
	if front == nil {
		return nil, framework.ErrQueueEmpty
	}
	return front.Value.(types.DiskRequest), nil
}

// Items returns the queued requests in order.
func (lq *listQueue) Items() []types.DiskRequest {
	lq.mu.RLock()
	defer lq.mu.RUnlock()
	return lq.itemsLocked()
}

func (lq *listQueue) itemsLocked() []types.DiskRequest {
	items := make([]types.DiskRequest, 0, lq.requests.Len())
	for e := lq.requests.Front(); e != nil; e = e.Next() {
		items = append(items, e.Value.(types.DiskRequest))
	}
	return items
}
