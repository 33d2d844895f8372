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

// Package ordering provides the sector orderings used by the UP and DOWN direction queues.
package ordering

import (
	"github.com/sstfsched/sstf/pkg/iosched/framework"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

const (
	// AscendingName is the name of the ascending sector ordering.
	AscendingName = "sector_asc"
	// DescendingName is the name of the descending sector ordering.
	DescendingName = "sector_desc"
)

var (
	// Ascending orders requests by increasing sector. It serves the UP queue.
	Ascending framework.SectorComparator = ascending{}
	// Descending is the exact inverse of Ascending. It serves the DOWN queue.
	Descending framework.SectorComparator = descending{}
)

type ascending struct{}

func (ascending) Name() string               { return AscendingName }
func (ascending) Direction() types.Direction { return types.DirectionUp }

func (ascending) Compare(incoming, existing uint64) int {
	switch {
	case incoming < existing:
		return 1
	case incoming == existing:
		return 0
	default:
		return -1
	}
}

type descending struct{}

func (descending) Name() string               { return DescendingName }
func (descending) Direction() types.Direction { return types.DirectionDown }

func (descending) Compare(incoming, existing uint64) int {
	return -ascending{}.Compare(incoming, existing)
}

// ForDirection returns the ordering serving dir.
func ForDirection(dir types.Direction) framework.SectorComparator {
	if dir == types.DirectionDown {
		return Descending
	}
	return Ascending
}
