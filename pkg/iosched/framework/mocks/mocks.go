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

package mocks

import (
	"github.com/sstfsched/sstf/pkg/iosched/framework"
	"github.com/sstfsched/sstf/pkg/iosched/types"
)

// MockSectorComparator provides a mock implementation of the `framework.SectorComparator` interface.
type MockSectorComparator struct {
	NameV      string
	DirectionV types.Direction
	CompareV   func(incoming, existing uint64) int
}

func (m *MockSectorComparator) Name() string               { return m.NameV }
func (m *MockSectorComparator) Direction() types.Direction { return m.DirectionV }

func (m *MockSectorComparator) Compare(incoming, existing uint64) int {
	if m.CompareV != nil {
		return m.CompareV(incoming, existing)
	}
	return 0
}

var _ framework.SectorComparator = &MockSectorComparator{}

// MockQueueInspector is a mock implementation of the `framework.QueueInspectionMethods` interface.
type MockQueueInspector struct {
	NameV        string
	ComparatorV  framework.SectorComparator
	LenV         int
	PeekHeadV    types.DiskRequest
	PeekHeadErrV error
	ItemsV       []types.DiskRequest
}

func (m *MockQueueInspector) Name() string                           { return m.NameV }
func (m *MockQueueInspector) Comparator() framework.SectorComparator { return m.ComparatorV }
func (m *MockQueueInspector) Len() int                               { return m.LenV }
func (m *MockQueueInspector) IsEmpty() bool                          { return m.LenV == 0 }
func (m *MockQueueInspector) Items() []types.DiskRequest             { return m.ItemsV }
func (m *MockQueueInspector) PeekHead() (types.DiskRequest, error) {
	return m.PeekHeadV, m.PeekHeadErrV
}

var _ framework.QueueInspectionMethods = &MockQueueInspector{}

// NewMockQueueInspector returns an inspector whose head is the first of reqs. With no reqs it behaves as an empty
// queue.
func NewMockQueueInspector(reqs ...types.DiskRequest) *MockQueueInspector {
	m := &MockQueueInspector{NameV: "MockQueue", LenV: len(reqs), ItemsV: reqs}
	if len(reqs) == 0 {
		m.PeekHeadErrV = framework.ErrQueueEmpty
		return m
	}
	m.PeekHeadV = reqs[0]
	return m
}

// MockSelectionState is a mock implementation of the `framework.SelectionState` interface.
type MockSelectionState struct {
	LastSectorV uint64
	UpV         framework.QueueInspectionMethods
	DownV       framework.QueueInspectionMethods
}

func (m *MockSelectionState) LastSector() uint64 { return m.LastSectorV }

func (m *MockSelectionState) Queue(dir types.Direction) framework.QueueInspectionMethods {
	if dir == types.DirectionDown {
		return m.DownV
	}
	return m.UpV
}

var _ framework.SelectionState = &MockSelectionState{}

// MockDispatchSelector is a mock implementation of the `framework.DispatchSelector` interface.
type MockDispatchSelector struct {
	NameV            string
	SelectCandidateV *framework.Candidate
	SelectErrV       error
	SelectFunc       func(state framework.SelectionState) (*framework.Candidate, error)
}

func (m *MockDispatchSelector) Name() string { return m.NameV }

func (m *MockDispatchSelector) SelectCandidate(state framework.SelectionState) (*framework.Candidate, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(state)
	}
	return m.SelectCandidateV, m.SelectErrV
}

var _ framework.DispatchSelector = &MockDispatchSelector{}
