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

// Direction classifies a pending request by the way the head has to travel to reach it, relative to the last
// dispatched sector.
type Direction int

const (
	// DirectionUp holds requests at or beyond the last dispatched sector. Served in ascending sector order.
	DirectionUp Direction = iota
	// DirectionDown holds requests below the last dispatched sector. Served in descending sector order.
	DirectionDown
)

// Directions lists every direction in a stable order, UP first.
var Directions = [...]Direction{DirectionUp, DirectionDown}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "unknown"
	}
}
