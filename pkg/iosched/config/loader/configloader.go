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

// Package loader reads scheduler configuration files.
package loader

import (
	"fmt"

	"github.com/go-logr/logr"
	"sigs.k8s.io/yaml"

	"github.com/sstfsched/sstf/pkg/common"
	"github.com/sstfsched/sstf/pkg/iosched/controller"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/queue"
	"github.com/sstfsched/sstf/pkg/iosched/framework/plugins/selection"
)

// SchedulerConfig is the on-disk form of a `controller.Config`. Every field is optional; unset fields keep the
// controller defaults.
type SchedulerConfig struct {
	DeviceName     string           `json:"deviceName,omitempty"`
	Delay          *common.Duration `json:"delay,omitempty"`
	Queue          string           `json:"queue,omitempty"`
	Selector       string           `json:"selector,omitempty"`
	InitialSector  *uint64          `json:"initialSector,omitempty"`
	InitialProcess *int32           `json:"initialProcess,omitempty"`
}

// LoadConfig parses configBytes and returns the options it sets. Unknown fields are rejected. The options are meant to
// be applied before any command-line overrides.
func LoadConfig(configBytes []byte, logger logr.Logger) ([]controller.ConfigOption, error) {
	rawConfig, err := loadRawConfig(configBytes)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded configuration", "config", rawConfig)

	if err := validateConfig(rawConfig); err != nil {
		return nil, fmt.Errorf("the configuration is invalid - %w", err)
	}
	return toOptions(rawConfig), nil
}

func loadRawConfig(configBytes []byte) (*SchedulerConfig, error) {
	rawConfig := &SchedulerConfig{}
	if err := yaml.UnmarshalStrict(configBytes, rawConfig); err != nil {
		return nil, fmt.Errorf("the configuration could not be parsed - %w", err)
	}
	return rawConfig, nil
}

func toOptions(cfg *SchedulerConfig) []controller.ConfigOption {
	var opts []controller.ConfigOption
	if cfg.DeviceName != "" {
		opts = append(opts, controller.WithDeviceName(cfg.DeviceName))
	}
	if cfg.Delay != nil {
		opts = append(opts, controller.WithDelayDuration(cfg.Delay.Duration))
	}
	if cfg.Queue != "" {
		opts = append(opts, controller.WithQueue(queue.RegisteredQueueName(cfg.Queue)))
	}
	if cfg.Selector != "" {
		opts = append(opts, controller.WithSelector(selection.RegisteredSelectorName(cfg.Selector)))
	}
	if cfg.InitialSector != nil {
		opts = append(opts, controller.WithInitialSector(*cfg.InitialSector))
	}
	if cfg.InitialProcess != nil {
		opts = append(opts, controller.WithInitialProcess(*cfg.InitialProcess))
	}
	return opts
}
