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
	"sync"

	"github.com/tidwall/btree"

	"github.com/sstfsched/sstf/pkg/iosched/framework"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// BTreeQueueName is the name of the B-tree queue implementation.
const BTreeQueueName = "BTreeQueue"

func init() {
	MustRegisterQueue(RegisteredQueueName(BTreeQueueName),
		func(comparator framework.SectorComparator) (framework.DirectionQueue, error) {
			return newBTreeQueue(comparator), nil
		})
}

// btreeEntry pairs a request with its arrival sequence number. The sequence number is the secondary key that keeps
// requests for the same sector in arrival order.
type btreeEntry struct {
	req types.DiskRequest
	seq uint64
}

// btreeQueue implements `framework.DirectionQueue` on top of an ordered B-tree. It produces the same order as
// `listQueue` but inserts in O(log n), which matters for deep queues.
type btreeQueue struct {
	tree       *btree.BTreeG[btreeEntry]
	comparator framework.SectorComparator
	nextSeq    uint64
	mu         sync.RWMutex
}

func newBTreeQueue(comparator framework.SectorComparator) *btreeQueue {
	less := func(a, b btreeEntry) bool {
		// A positive comparison means a must be placed before b.
		if c := comparator.Compare(a.req.Sector(), b.req.Sector()); c != 0 {
			return c > 0
		}
		return a.seq < b.seq
	}
	return &btreeQueue{
		// Locking is done by btreeQueue itself so that the sequence counter and the tree move together.
		tree:       btree.NewBTreeGOptions(less, btree.Options{NoLocks: true}),
		comparator: comparator,
	}
}

// --- `framework.DirectionQueue` Interface Implementation ---

// InsertSorted adds req after every queued request it does not have to precede.
func (bq *btreeQueue) InsertSorted(req types.DiskRequest) error {
	if req == nil {
		return framework.ErrNilQueueItem
	}

	bq.mu.Lock()
	defer bq.mu.Unlock()

	bq.tree.Set(btreeEntry{req: req, seq: bq.nextSeq})
	bq.nextSeq++
	return nil
}

// RemoveHead removes and returns the first request.
func (bq *btreeQueue) RemoveHead() (types.DiskRequest, error) {
	bq.mu.Lock()
	defer bq.mu.Unlock()

	head, ok := bq.tree.PopMin()
	if !ok {
		return nil, framework.ErrQueueEmpty
	}
	return head.req, nil
}

// Drain removes all requests from the queue and returns them.
func (bq *btreeQueue) Drain() []types.DiskRequest {
	bq.mu.Lock()
	defer bq.mu.Unlock()

	drained := bq.itemsLocked()
	bq.tree.Clear()
	return drained
}

// Name returns the name of the queue.
func (bq *btreeQueue) Name() string {
	return BTreeQueueName
}

// Comparator returns the ordering of the queue.
func (bq *btreeQueue) Comparator() framework.SectorComparator {
	return bq.comparator
}

// Len returns the number of requests in the queue.
func (bq *btreeQueue) Len() int {
	bq.mu.RLock()
	defer bq.mu.RUnlock()
	return bq.tree.Len()
}

// IsEmpty reports whether the queue is empty.
func (bq *btreeQueue) IsEmpty() bool {
	return bq.Len() == 0
}

// PeekHead returns the first request without removing it.
func (bq *btreeQueue) PeekHead() (types.DiskRequest, error) {
	bq.mu.RLock()
	defer bq.mu.RUnlock()

	head, ok := bq.tree.Min()
	if !ok {
		return nil, framework.ErrQueueEmpty
	}
	return head.req, nil
}

// Items returns the queued requests in order.
func (bq *btreeQueue) Items() []types.DiskRequest {
	bq.mu.RLock()
	defer bq.mu.RUnlock()
	return bq.itemsLocked()
}

func (bq *btreeQueue) itemsLocked() []types.DiskRequest {
	items := make([]types.DiskRequest, 0, bq.tree.Len())
	bq.tree.Scan(func(e btreeEntry) bool {
		items = append(items, e.req)
		return true
	})
	return items
}
