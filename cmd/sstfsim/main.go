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

package main

import (
	"errors"
	"os"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/sstfsched/sstf/cmd/sstfsim/runner"
	"github.com/sstfsched/sstf/pkg/common/observability/logging"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

func main() {
	// For adding out-of-tree queues or selectors, import their packages for their init() registration side effects.
	logging.InitSetupLogging()

	if err := runner.NewRunner().Run(ctrl.SetupSignalHandler()); err != nil {
		if errors.Is(err, types.ErrInvariantViolation) {
			logging.Fatal(ctrl.Log.WithName("setup"), err, "Scheduler invariant violated")
		}
		os.Exit(1)
	}
}
