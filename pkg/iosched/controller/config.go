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

package controller

import (
	"fmt"
	"os"
	"time"

	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/queue"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/selection"
)

const (
	// DefaultDelayDuration is the default anticipation window.
	DefaultDelayDuration = 5 * time.Millisecond
	// DefaultDeviceName labels logs and metrics when no device name is configured.
	DefaultDeviceName = "default"
	// DefaultQueueName is the default direction queue implementation.
	DefaultQueueName = queue.RegisteredQueueName(queue.ListQueueName)
	// DefaultSelectorName is the default dispatch selector.
	DefaultSelectorName = selection.RegisteredSelectorName(selection.NearestHeadSelectorName)
)

// Config holds the configuration for a `Scheduler`. It is fixed at construction.
type Config struct {
	// DeviceName identifies the managed device queue in logs and metrics.
	// Optional: Defaults to `DefaultDeviceName`.
	DeviceName string

	// DelayDuration is how long a dispatch that would switch to a different process is held back, waiting for the
	// previously active process to submit another request.
	// Optional: Defaults to `DefaultDelayDuration` (5ms).
	DelayDuration time.Duration

	// QueueName selects the registered `framework.DirectionQueue` implementation used for both directions.
	// Optional: Defaults to `DefaultQueueName`.
	QueueName queue.RegisteredQueueName

	// SelectorName selects the registered `framework.DispatchSelector`.
	// Optional: Defaults to `DefaultSelectorName`.
	SelectorName selection.RegisteredSelectorName

	// InitialSector seeds the last dispatched sector.
	// Optional: Defaults to 0.
	InitialSector uint64

	// InitialProcess seeds the last dispatched process.
	// Optional: Defaults to the process creating the scheduler.
	InitialProcess int32
}

// ConfigOption is a functional option for configuring the Scheduler.
type ConfigOption func(*Config)

// NewConfig creates a new Config with the given options, applying defaults and validation.
func NewConfig(opts ...ConfigOption) (*Config, error) {
	c := &Config{
		DeviceName:     DefaultDeviceName,
		DelayDuration:  DefaultDelayDuration,
		QueueName:      DefaultQueueName,
		SelectorName:   DefaultSelectorName,
		InitialProcess: int32(os.Getpid()),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// WithDeviceName sets the device name used in logs and metrics.
func WithDeviceName(name string) ConfigOption {
	return func(c *Config) {
		c.DeviceName = name
	}
}

// WithDelayDuration sets the anticipation window.
func WithDelayDuration(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.DelayDuration = d
	}
}

// WithQueue sets the direction queue implementation.
func WithQueue(name queue.RegisteredQueueName) ConfigOption {
	return func(c *Config) {
		c.QueueName = name
	}
}

// WithSelector sets the dispatch selector.
func WithSelector(name selection.RegisteredSelectorName) ConfigOption {
	return func(c *Config) {
		c.SelectorName = name
	}
}

// WithInitialSector seeds the last dispatched sector.
func WithInitialSector(sector uint64) ConfigOption {
	return func(c *Config) {
		c.InitialSector = sector
	}
}

// WithInitialProcess seeds the last dispatched process.
func WithInitialProcess(pid int32) ConfigOption {
	return func(c *Config) {
		c.InitialProcess = pid
	}
}

// validate checks the configuration for validity.
func (c *Config) validate() error {
	if c.DeviceName == "" {
		return fmt.Errorf("DeviceName cannot be empty")
	}
	if c.DelayDuration <= 0 {
		return fmt.Errorf("DelayDuration must be positive, but got %v", c.DelayDuration)
	}
	if c.QueueName == "" {
		return fmt.Errorf("QueueName cannot be empty")
	}
	if c.SelectorName == "" {
		return fmt.Errorf("SelectorName cannot be empty")
	}
	if c.InitialProcess < 0 {
		return fmt.Errorf("InitialProcess cannot be negative, but got %d", c.InitialProcess)
	}
	return nil
}
