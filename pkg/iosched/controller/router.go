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

	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// classify returns the queue a request for sector belongs to, relative to the last dispatched sector.
func classify(sector, lastSector uint64) types.Direction {
	if sector >= lastSector {
		return types.DirectionUp
	}
	return types.DirectionDown
}

// route classifies req and inserts it into the selected queue.
func (s *Scheduler) route(req types.DiskRequest) (types.Direction, error) {
	dir := classify(req.Sector(), s.lastSector)
	if err := s.queues[dir].InsertSorted(req); err != nil {
		return dir, fmt.Errorf("failed to queue request %q on %s queue: %w", req.ID(), dir, err)
	}
	return dir, nil
}
