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

package loader

import (
	"fmt"
	"slices"

	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/queue"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/selection"
)

// validateConfig checks the fields that are set. Cross-field defaults are left to `controller.NewConfig`.
func validateConfig(cfg *SchedulerConfig) error {
	if cfg.Delay != nil && cfg.Delay.Duration <= 0 {
		return fmt.Errorf("delay must be positive, got %s", cfg.Delay.Duration)
	}
	if cfg.Queue != "" && !slices.Contains(queue.Names(), queue.RegisteredQueueName(cfg.Queue)) {
		return fmt.Errorf("queue '%s' is not registered, known queues: %v", cfg.Queue, queue.Names())
	}
	if cfg.Selector != "" && !slices.Contains(selection.Names(), selection.RegisteredSelectorName(cfg.Selector)) {
		return fmt.Errorf("selector '%s' is not registered, known selectors: %v", cfg.Selector, selection.Names())
	}
	if cfg.InitialProcess != nil && *cfg.InitialProcess < 0 {
		return fmt.Errorf("initialProcess cannot be negative, got %d", *cfg.InitialProcess)
	}
	return nil
}
