/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package jobstepmock provides mock implementations of the job step interfaces for testing.
package jobstepmock

import (
	"context"

	"github.com/sqlagent/jobsync/internal/jobstep/model"

	"github.com/stretchr/testify/mock"
)

// MockStepStore is a mock implementation of the StepStoreInterface.
type MockStepStore struct {
	mock.Mock
}

// ListCommittedSteps mocks the ListCommittedSteps method.
func (m *MockStepStore) ListCommittedSteps(ctx context.Context, jobID string) ([]model.RemoteStep, error) {
	args := m.Called(ctx, jobID)
	steps, _ := args.Get(0).([]model.RemoteStep)
	return steps, args.Error(1)
}

// GetStep mocks the GetStep method.
func (m *MockStepStore) GetStep(ctx context.Context, jobID, identity string) (model.RemoteStep, error) {
	args := m.Called(ctx, jobID, identity)
	return args.Get(0).(model.RemoteStep), args.Error(1)
}

// CreateStep mocks the CreateStep method.
func (m *MockStepStore) CreateStep(ctx context.Context, jobID string, step model.RemoteStep) (string, error) {
	args := m.Called(ctx, jobID, step)
	return args.String(0), args.Error(1)
}

// AlterStep mocks the AlterStep method.
func (m *MockStepStore) AlterStep(ctx context.Context, identity string, update model.StepUpdate) error {
	args := m.Called(ctx, identity, update)
	return args.Error(0)
}

// DeleteStep mocks the DeleteStep method.
func (m *MockStepStore) DeleteStep(ctx context.Context, identity string) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

// GetStartStep mocks the GetStartStep method.
func (m *MockStepStore) GetStartStep(ctx context.Context, jobID string) (int, error) {
	args := m.Called(ctx, jobID)
	return args.Int(0), args.Error(1)
}

// SetStartStep mocks the SetStartStep method.
func (m *MockStepStore) SetStartStep(ctx context.Context, jobID string, position int) error {
	args := m.Called(ctx, jobID, position)
	return args.Error(0)
}

// CreateJob mocks the CreateJob method.
func (m *MockStepStore) CreateJob(ctx context.Context, job model.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// GetJobByName mocks the GetJobByName method.
func (m *MockStepStore) GetJobByName(ctx context.Context, name string) (model.Job, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Job), args.Error(1)
}
