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

package framework

import (
	"errors"
)

// `DirectionQueue` Errors
//
// These errors are returned by `DirectionQueue` methods and are wrapped by the `controller.Scheduler` when they reveal
// a protocol violation.
var (
	// ErrQueueEmpty indicates that `PeekHead` or `RemoveHead` was called on an empty queue.
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrNilQueueItem indicates that a nil request was passed to `InsertSorted`.
	ErrNilQueueItem = errors.New("queue item cannot be nil")
)

// Selector Errors
var (
	// ErrInconsistentQueue indicates that a `DirectionQueue` reported a non-zero length but could not produce a head.
	ErrInconsistentQueue = errors.New("queue length and head disagree")
)
