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

// Package devicequeue is a reference host for the scheduler: a `DeviceQueue` that owns the device-queue lock and runs
// the dispatch loop, and a simulated `Disk` driver that measures head movement.
//
// Requests reach the driver on two paths. The `Run` loop calls `DispatchNext` until nothing is available, then sleeps
// until a submit or a handoff wakes it. The anticipation timer callback dispatches on its own goroutine; the handoff
// it triggers wakes `Run`, which drains whatever backlog the deferral held up.
package devicequeue
