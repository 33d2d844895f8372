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

package trace

import (
	"context"
	"fmt"

	"k8s.io/utils/clock"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sstfsched/sstf/pkg/common/observability/logging"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// Submitter accepts requests. `devicequeue.DeviceQueue` satisfies it.
type Submitter interface {
	Submit(req types.DiskRequest) error
}

// Replay submits every event of t to target at its offset from the start of the replay, measured on clk. It returns
// the number of requests submitted, stopping early if ctx is done or a submit fails.
func Replay(ctx context.Context, t *Trace, target Submitter, clk clock.Clock) (int, error) {
	logger := log.FromContext(ctx).WithValues("trace", t.Name)
	logger.V(logging.DEFAULT).Info("Replaying trace", "events", len(t.Events))

	start := clk.Now()
	for i, req := range t.Requests() {
		if wait := start.Add(t.Events[i].Offset.Duration).Sub(clk.Now()); wait > 0 {
			timer := clk.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return i, ctx.Err()
			case <-timer.C():
			}
		}
		if err := target.Submit(req); err != nil {
			return i, fmt.Errorf("failed to submit event %d (%s): %w", i, req.ID(), err)
		}
		logger.V(logging.TRACE).Info("Submitted", "request", req.ID(), "sector", req.Sector(), "pid", req.ProcessID())
	}
	return len(t.Events), nil
}
