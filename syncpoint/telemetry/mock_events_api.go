// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	mock "github.com/stretchr/testify/mock"
)

type MockEventsAPI struct {
	mock.Mock
}

func (_m *MockEventsAPI) SendAllArrived(data CycleData) {
	_m.Called(data)
}

func (_m *MockEventsAPI) SendCycleReleased(data CycleData) {
	_m.Called(data)
}

func (_m *MockEventsAPI) SendCycleDrained(data CycleData) {
	_m.Called(data)
}

func NewMockEventsAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventsAPI {
	mock := &MockEventsAPI{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
