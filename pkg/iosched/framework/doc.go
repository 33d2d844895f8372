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

// Package framework defines the pluggable building blocks of the I/O scheduler.
//
// # Queues
//
// A `DirectionQueue` holds the pending requests for one travel direction in sector order. The order is defined by a
// `SectorComparator`: ascending for requests at or above the last dispatched sector (UP), descending for the rest
// (DOWN). Concrete queues live under `plugins/queue` and register themselves by name, comparators under
// `plugins/ordering`.
//
// # Selectors
//
// A `DispatchSelector` looks at the two queue heads and proposes the next `Candidate`. The default, registered under
// `plugins/selection`, picks the head nearest to the last dispatched sector and breaks ties towards UP.
//
// Selectors only propose. Whether the candidate is dispatched now or held back for the previously active process is
// decided by the `controller.Scheduler`.
package framework
