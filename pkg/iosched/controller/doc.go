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

// Package controller contains the anticipatory shortest-seek-first `Scheduler`.
//
// # Request flow
//
// `Submit` classifies a request against the last dispatched sector: at or above it goes to the UP queue (ascending),
// below it to the DOWN queue (descending). `DispatchNext` asks the configured `framework.DispatchSelector` for the
// nearest queue head and then applies the anticipation rule:
//
//   - If the candidate belongs to the process that was dispatched last, it is removed from its queue and handed to
//     the `contracts.DeviceDriver`.
//   - Otherwise the dispatch is deferred. A one-shot timer is armed for the configured delay and `DispatchNext`
//     reports `types.DispatchOutcomeNoneAvailable`. The bet is that the active process submits another nearby
//     request before the window closes, saving a seek.
//
// While the timer is armed, `DispatchNext` is a no-op. A `Submit` cancels the timer and dispatches immediately; the
// candidate the scheduler deferred for is not deferred again. If the timer fires first, the callback dispatches
// whatever is then the best head without the process check.
//
// # Locking
//
// The scheduler has no goroutines and no lock of its own. The host's device-queue lock is injected at construction
// and must be held by the caller of every exported method. The timer callback acquires the same lock before touching
// any state, and a generation number makes a callback that lost the race with a cancelling `Submit` a no-op.
package controller
