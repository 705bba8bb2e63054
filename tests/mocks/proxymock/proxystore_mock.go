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

// Package proxymock provides mock implementations of the proxy interfaces for testing.
package proxymock

import (
	"context"

	"github.com/sqlagent/jobsync/internal/proxy/model"

	"github.com/stretchr/testify/mock"
)

// MockProxyStore is a mock implementation of the ProxyStoreInterface.
type MockProxyStore struct {
	mock.Mock
}

// ListPrincipals mocks the ListPrincipals method.
func (m *MockProxyStore) ListPrincipals(ctx context.Context, proxyID string,
	category model.PrincipalCategory) ([]string, error) {
	args := m.Called(ctx, proxyID, category)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

// AddPrincipal mocks the AddPrincipal method.
func (m *MockProxyStore) AddPrincipal(ctx context.Context, proxyID string, category model.PrincipalCategory,
	name string) error {
	args := m.Called(ctx, proxyID, category, name)
	return args.Error(0)
}

// RemovePrincipal mocks the RemovePrincipal method.
func (m *MockProxyStore) RemovePrincipal(ctx context.Context, proxyID string, category model.PrincipalCategory,
	name string) error {
	args := m.Called(ctx, proxyID, category, name)
	return args.Error(0)
}

// CreateProxy mocks the CreateProxy method.
func (m *MockProxyStore) CreateProxy(ctx context.Context, proxy model.Proxy) error {
	args := m.Called(ctx, proxy)
	return args.Error(0)
}

// GetProxyByName mocks the GetProxyByName method.
func (m *MockProxyStore) GetProxyByName(ctx context.Context, name string) (model.Proxy, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Proxy), args.Error(1)
}
