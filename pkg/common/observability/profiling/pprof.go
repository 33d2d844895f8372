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

package profiling

import (
	"net/http"
	"net/http/pprof"
	"runtime"
)

// Profiles lists the runtime profiles served by SetupPprofHandlers.
var Profiles = []string{
	"heap",
	"goroutine",
	"allocs",
	"threadcreate",
	"block",
	"mutex",
}

// SetupPprofHandlers only implements the pre-defined profiles:
// https://cs.opensource.google/go/go/+/refs/tags/go1.24.4:src/runtime/pprof/pprof.go;l=108
//
// Mutex and block profiling are enabled as a side effect; the scheduler's contention is all on the device-queue lock.
func SetupPprofHandlers(mux *http.ServeMux) {
	for _, p := range Profiles {
		mux.Handle("/debug/pprof/"+p, pprof.Handler(p))
	}

	runtime.SetMutexProfileFraction(1)
	runtime.SetBlockProfileRate(1)
}
