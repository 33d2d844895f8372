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

package types

import (
	"errors"
)

// --- Lifecycle Errors ---

var (
	// ErrAllocationFailure indicates that a `controller.Scheduler` could not obtain its backing storage (its direction
	// queues or its dispatch selector). The host must not use the scheduler.
	ErrAllocationFailure = errors.New("scheduler allocation failure")

	// ErrInvariantViolation indicates a caller protocol violation, such as destroying a scheduler that still owns
	// queued requests or removing from an empty queue. Continuing after this error risks losing in-flight I/O, so hosts
	// are expected to abort.
	//
	// Callers should use `errors.Is(err, ErrInvariantViolation)` to check for this class of failure.
	ErrInvariantViolation = errors.New("scheduler invariant violation")
)

// --- Submission Errors ---

var (
	// ErrNilRequest indicates that `controller.Scheduler.Submit` was called with a nil request.
	ErrNilRequest = errors.New("request cannot be nil")

	// ErrSchedulerDestroyed indicates an operation on a scheduler after `Destroy` succeeded. Errors of this kind also
	// wrap `ErrInvariantViolation`.
	ErrSchedulerDestroyed = errors.New("scheduler already destroyed")
)
