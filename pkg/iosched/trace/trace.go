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

// Package trace loads request traces and replays them against a device queue.
//
// A trace is a YAML document:
//
//	name: two-readers
//	events:
//	- {offset: 0ms, sector: 1200, pid: 7}
//	- {offset: 0ms, sector: 800, pid: 9}
//	- {offset: 2ms, sector: 1210, pid: 7, id: follow-up}
//
// Offsets are relative to the start of the replay. Events with an empty id get a random one.
package trace

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"

	"github.com/sstfsched/sstf/pkg/common"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// Event is one request arrival.
type Event struct {
	ID     string          `json:"id,omitempty"`
	Offset common.Duration `json:"offset"`
	Sector uint64          `json:"sector"`
	PID    int32           `json:"pid"`
}

// Trace is an ordered list of request arrivals.
type Trace struct {
	Name   string  `json:"name,omitempty"`
	Events []Event `json:"events"`
}

// Load reads and parses the trace file at path.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML trace, fills in missing ids, validates it, and sorts the events by offset. Events with equal
// offsets keep their file order.
func Parse(data []byte) (*Trace, error) {
	tr := &Trace{}
	if err := yaml.UnmarshalStrict(data, tr); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}
	for i := range tr.Events {
		if tr.Events[i].ID == "" {
			tr.Events[i].ID = uuid.NewString()
		}
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(tr.Events, func(i, j int) bool {
		return tr.Events[i].Offset.Duration < tr.Events[j].Offset.Duration
	})
	return tr, nil
}

// Validate checks that the trace is non-empty, ids are unique, and offsets and pids are non-negative.
func (t *Trace) Validate() error {
	if len(t.Events) == 0 {
		return errors.New("trace has no events")
	}
	seen := make(map[string]int, len(t.Events))
	for i, ev := range t.Events {
		if ev.Offset.Duration < 0 {
			return fmt.Errorf("events[%d] has negative offset %s", i, ev.Offset.Duration)
		}
		if ev.PID < 0 {
			return fmt.Errorf("events[%d] has negative pid %d", i, ev.PID)
		}
		if prev, ok := seen[ev.ID]; ok && ev.ID != "" {
			return fmt.Errorf("events[%d] reuses id '%s' from events[%d]", i, ev.ID, prev)
		}
		seen[ev.ID] = i
	}
	return nil
}

// Requests returns the events as scheduler requests, in trace order.
func (t *Trace) Requests() []types.DiskRequest {
	reqs := make([]types.DiskRequest, 0, len(t.Events))
	for _, ev := range t.Events {
		reqs = append(reqs, types.NewRequest(ev.ID, ev.Sector, ev.PID))
	}
	return reqs
}

// SyntheticOptions parameterizes `Synthetic`.
type SyntheticOptions struct {
	// Processes is the number of concurrent request streams.
	Processes int
	// RequestsPerProcess is the number of requests each stream submits.
	RequestsPerProcess int
	// MaxSector bounds the sectors a stream starts at.
	MaxSector uint64
	// Stride is the sector step between consecutive requests of one stream.
	Stride uint64
	// Interval is the time between consecutive requests of one stream.
	Interval time.Duration
	// Seed makes the trace reproducible.
	Seed int64
}

// Synthetic builds a trace of interleaved sequential readers. Each process starts at a random sector and reads
// forward by Stride every Interval, with a random phase so streams interleave.
func Synthetic(opts SyntheticOptions) (*Trace, error) {
	if opts.Processes <= 0 || opts.RequestsPerProcess <= 0 {
		return nil, fmt.Errorf("synthetic trace needs at least one process and one request, got %d x %d",
			opts.Processes, opts.RequestsPerProcess)
	}
	if opts.MaxSector == 0 {
		return nil, errors.New("synthetic trace needs a positive MaxSector")
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	tr := &Trace{Name: fmt.Sprintf("synthetic-%dx%d-seed%d", opts.Processes, opts.RequestsPerProcess, opts.Seed)}
	for p := 0; p < opts.Processes; p++ {
		pid := int32(p + 1)
		start := uint64(rng.Int63n(int64(min(opts.MaxSector, uint64(1<<62)))))
		var phase time.Duration
		if opts.Interval > 0 {
			phase = time.Duration(rng.Int63n(int64(opts.Interval)))
		}
		for i := 0; i < opts.RequestsPerProcess; i++ {
			tr.Events = append(tr.Events, Event{
				ID:     fmt.Sprintf("p%d-%d", pid, i),
				Offset: common.Duration{Duration: phase + time.Duration(i)*opts.Interval},
				Sector: start + uint64(i)*opts.Stride,
				PID:    pid,
			})
		}
	}
	sort.SliceStable(tr.Events, func(i, j int) bool {
		return tr.Events[i].Offset.Duration < tr.Events[j].Offset.Duration
	})
	return tr, nil
}
