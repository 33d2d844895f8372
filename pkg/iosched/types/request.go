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

import "fmt"

// DiskRequest is the scheduler's read-only view of a pending storage I/O request.
//
// Ownership of a `DiskRequest` passes to the `controller.Scheduler` on `Submit` and back to the host's
// `contracts.DeviceDriver` on dispatch. The scheduler tracks requests by identity, so implementations must be
// comparable (pointer types are the norm).
type DiskRequest interface {
	// ID returns an identifier used for logging and tracing. It is not required to be unique.
	ID() string

	// Sector returns the target sector on the medium.
	Sector() uint64

	// ProcessID returns the identifier of the process that submitted the request.
	ProcessID() int32
}

// Request is the default `DiskRequest` implementation.
type Request struct {
	id     string
	sector uint64
	pid    int32
}

var _ DiskRequest = &Request{}

// NewRequest creates a new `Request`.
func NewRequest(id string, sector uint64, pid int32) *Request {
	return &Request{id: id, sector: sector, pid: pid}
}

func (r *Request) ID() string       { return r.id }
func (r *Request) Sector() uint64   { return r.sector }
func (r *Request) ProcessID() int32 { return r.pid }

func (r *Request) String() string {
	return fmt.Sprintf("%s(sector=%d, pid=%d)", r.id, r.sector, r.pid)
}
