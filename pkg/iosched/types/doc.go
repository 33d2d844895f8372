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

// Package types defines the core data types shared by every layer of the I/O scheduler: the `DiskRequest` view of a
// pending request, the UP/DOWN `Direction` classification, dispatch outcomes, and the high-level sentinel errors.
//
// These types are deliberately free of behaviour so that the framework (queues, selectors), the controller
// (the anticipatory scheduler itself) and hosts can all depend on them without import cycles.
package types
