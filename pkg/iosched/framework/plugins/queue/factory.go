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

// Package queue provides the `framework.DirectionQueue` implementations used by the scheduler.
package queue

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sstfsched/sstf/pkg/iosched/framework"
)

type RegisteredQueueName string

// QueueConstructor defines the function signature for creating a `framework.DirectionQueue`.
type QueueConstructor func(comparator framework.SectorComparator) (framework.DirectionQueue, error)

var (
	// mu guards the registration map.
	mu sync.RWMutex
	// RegisteredQueues stores the constructors for all registered queues.
	RegisteredQueues = make(map[RegisteredQueueName]QueueConstructor)
)

// MustRegisterQueue registers a queue constructor, and panics if the name is
// already registered.
// This is intended to be called from init() functions.
func MustRegisterQueue(name RegisteredQueueName, constructor QueueConstructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := RegisteredQueues[name]; ok {
		panic(fmt.Sprintf("framework.DirectionQueue already registered with name %q", name))
	}
	RegisteredQueues[name] = constructor
}

// NewQueueFromName creates a new DirectionQueue given its registered name and the ordering it must maintain.
// This is called by the `controller.Scheduler` once per direction during construction.
func NewQueueFromName(name RegisteredQueueName, comparator framework.SectorComparator) (framework.DirectionQueue, error) {
	if comparator == nil {
		return nil, fmt.Errorf("cannot create queue %q without a comparator", name)
	}
	mu.RLock()
	defer mu.RUnlock()
	constructor, ok := RegisteredQueues[name]
	if !ok {
		return nil, fmt.Errorf("no framework.DirectionQueue registered with name %q", name)
	}
	return constructor(comparator)
}

// Names returns the registered queue names in sorted order.
func Names() []RegisteredQueueName {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]RegisteredQueueName, 0, len(RegisteredQueues))
	for name := range RegisteredQueues {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
