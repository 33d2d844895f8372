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
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/sstfsched/sstf/pkg/iosched/contracts"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// DispatchRecord describes one request served by a `Disk`.
type DispatchRecord struct {
	Request types.DiskRequest
	// From is the head position before the request was served.
	From uint64
	// Seek is the head movement needed to reach the request's sector.
	Seek uint64
	At   time.Time
}

// Disk is a simulated device driver. It serves every request instantly, moving its head to the request's sector and
// accounting for the distance travelled.
//
// Handoff is called with the device-queue lock held, so Disk guards its own state with a separate mutex.
type Disk struct {
	mu        sync.Mutex
	clock     clock.PassiveClock
	head      uint64
	totalSeek uint64
	records   []DispatchRecord
}

// NewDisk returns a Disk whose head starts at startSector.
func NewDisk(startSector uint64, clk clock.PassiveClock) *Disk {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Disk{head: startSector, clock: clk}
}

// Handoff serves req.
func (d *Disk) Handoff(req types.DiskRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()

	from := d.head
	seek := from - req.Sector()
	if req.Sector() > from {
		seek = req.Sector() - from
	}
	d.head = req.Sector()
	d.totalSeek += seek
	d.records = append(d.records, DispatchRecord{Request: req, From: from, Seek: seek, At: d.clock.Now()})
}

// Head returns the current head position.
func (d *Disk) Head() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.head
}

// TotalSeek returns the accumulated head movement.
func (d *Disk) TotalSeek() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalSeek
}

// Records returns a copy of the served requests in service order.
func (d *Disk) Records() []DispatchRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DispatchRecord, len(d.records))
	copy(out, d.records)
	return out
}

var _ contracts.DeviceDriver = &Disk{}
