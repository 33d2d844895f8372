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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sstfsched/sstf/pkg/iosched/types"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		sector     uint64
		lastSector uint64
		expected   types.Direction
	}{
		{name: "Above", sector: 1200, lastSector: 1000, expected: types.DirectionUp},
		{name: "Below", sector: 800, lastSector: 1000, expected: types.DirectionDown},
		{name: "EqualGoesUp", sector: 1000, lastSector: 1000, expected: types.DirectionUp},
		{name: "ZeroAtZero", sector: 0, lastSector: 0, expected: types.DirectionUp},
		{name: "ZeroBelowAnything", sector: 0, lastSector: 1, expected: types.DirectionDown},
		{name: "MaxSector", sector: math.MaxUint64, lastSector: math.MaxUint64 - 1, expected: types.DirectionUp},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, classify(tc.sector, tc.lastSector))
		})
	}
}

func TestScheduler_Submit_Routing(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithInitialSector(1000), WithInitialProcess(7))
	h.submit("a", 1200, 7)
	h.submit("b", 800, 7)
	h.submit("c", 1000, 7)
	h.submit("d", 1100, 7)
	h.submit("e", 900, 7)

	assert.Equal(t, []string{"c", "d", "a"}, ids(h.s.Queue(types.DirectionUp).Items()), "UP queue must be ascending")
	assert.Equal(t, []string{"e", "b"}, ids(h.s.Queue(types.DirectionDown).Items()), "DOWN queue must be descending")
	assert.Empty(t, h.driver.Received(), "submit must not dispatch while no deferral is pending")
}
