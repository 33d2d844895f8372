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

// Package selection provides `framework.DispatchSelector` implementations.
package selection

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sstfsched/sstf/pkg/iosched/framework"
)

type RegisteredSelectorName string

// SelectorConstructor defines the function signature for creating a `framework.DispatchSelector`.
type SelectorConstructor func() (framework.DispatchSelector, error)

var (
	// mu guards the registration map.
	mu sync.RWMutex
	// RegisteredSelectors stores the constructors for all registered selectors.
	RegisteredSelectors = make(map[RegisteredSelectorName]SelectorConstructor)
)

// MustRegisterSelector registers a selector constructor, and panics if the name is already registered.
// This is intended to be called from init() functions.
func MustRegisterSelector(name RegisteredSelectorName, constructor SelectorConstructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := RegisteredSelectors[name]; ok {
		panic(fmt.Sprintf("framework.DispatchSelector already registered with name %q", name))
	}
	RegisteredSelectors[name] = constructor
}

// NewSelectorFromName creates a new DispatchSelector given its registered name.
func NewSelectorFromName(name RegisteredSelectorName) (framework.DispatchSelector, error) {
	mu.RLock()
	defer mu.RUnlock()
	constructor, ok := RegisteredSelectors[name]
	if !ok {
		return nil, fmt.Errorf("no framework.DispatchSelector registered with name %q", name)
	}
	return constructor()
}

// Names returns the registered selector names in sorted order.
func Names() []RegisteredSelectorName {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]RegisteredSelectorName, 0, len(RegisteredSelectors))
	for name := range RegisteredSelectors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
