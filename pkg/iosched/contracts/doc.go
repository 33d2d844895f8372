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

// Package contracts defines the boundary between the scheduler core and its host.
//
// The core consumes two outbound services: a `DeviceDriver` that accepts approved requests and a `TimerService` that
// realizes "wait N milliseconds, then dispatch again". Both are injected into `controller.Scheduler` at construction.
// The host's device-queue lock is the third collaborator; it is injected as a plain `sync.Locker`.
package contracts
