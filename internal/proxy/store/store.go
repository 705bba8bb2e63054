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

// Package store provides the SQL implementation of the remote proxy store.
package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/sqlagent/jobsync/internal/proxy/model"
	"github.com/sqlagent/jobsync/internal/system/database/provider"
	dbutils "github.com/sqlagent/jobsync/internal/system/database/utils"
	"github.com/sqlagent/jobsync/internal/system/log"
)

const loggerComponentName = "ProxyStore"

// ProxyStoreInterface is the remote store capability the principal synchronization runs against.
type ProxyStoreInterface interface {
	// ListPrincipals returns the principals of a category in ascending ordinal order.
	ListPrincipals(ctx context.Context, proxyID string, category model.PrincipalCategory) ([]string, error)
	AddPrincipal(ctx context.Context, proxyID string, category model.PrincipalCategory, name string) error
	RemovePrincipal(ctx context.Context, proxyID string, category model.PrincipalCategory, name string) error
	CreateProxy(ctx context.Context, proxy model.Proxy) error
	GetProxyByName(ctx context.Context, name string) (model.Proxy, error)
}

type proxyStore struct {
	dbProvider provider.DBProviderInterface
}

// NewProxyStore creates a proxy store backed by the given database provider.
func NewProxyStore(dbProvider provider.DBProviderInterface) ProxyStoreInterface {
	return &proxyStore{dbProvider: dbProvider}
}

// CreateProxy creates a proxy without principals.
func (s *proxyStore) CreateProxy(ctx context.Context, proxy model.Proxy) error {
	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	if _, err := dbClient.Execute(ctx, QueryCreateProxy, proxy.ID, proxy.Name, proxy.CredentialName); err != nil {
		return fmt.Errorf("failed to create proxy: %w", err)
	}
	return nil
}

// GetProxyByName retrieves a proxy by its name.
func (s *proxyStore) GetProxyByName(ctx context.Context, name string) (model.Proxy, error) {
	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return model.Proxy{}, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(ctx, QueryGetProxyByName, name)
	if err != nil {
		return model.Proxy{}, fmt.Errorf("failed to execute proxy query: %w", err)
	}
	if len(results) == 0 {
		return model.Proxy{}, model.ErrProxyNotFound
	}

	row := results[0]
	proxy := model.Proxy{}
	if proxy.ID, err = dbutils.GetString(row, "proxy_id"); err != nil {
		return model.Proxy{}, err
	}
	if proxy.Name, err = dbutils.GetString(row, "name"); err != nil {
		return model.Proxy{}, err
	}
	if proxy.CredentialName, err = dbutils.GetString(row, "credential_name"); err != nil {
		return model.Proxy{}, err
	}
	return proxy, nil
}

// ListPrincipals lists the principals of a category granted to a proxy. The rows are sorted
// here rather than in SQL so the order does not depend on the database collation.
func (s *proxyStore) ListPrincipals(ctx context.Context, proxyID string,
	category model.PrincipalCategory) ([]string, error) {
	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(ctx, QueryListPrincipals, proxyID, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to execute principal list query: %w", err)
	}

	names := make([]string, 0, len(results))
	for _, row := range results {
		name, err := dbutils.GetString(row, "principal_name")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// AddPrincipal grants a principal access to a proxy.
func (s *proxyStore) AddPrincipal(ctx context.Context, proxyID string, category model.PrincipalCategory,
	name string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	if _, err := dbClient.Execute(ctx, QueryAddPrincipal, proxyID, string(category), name); err != nil {
		return fmt.Errorf("failed to add principal %s: %w", name, err)
	}

	logger.Debug("Added proxy principal", log.String(log.LoggerKeyProxyID, proxyID),
		log.String("category", string(category)), log.String("principal", name))
	return nil
}

// RemovePrincipal revokes a principal's access to a proxy.
func (s *proxyStore) RemovePrincipal(ctx context.Context, proxyID string, category model.PrincipalCategory,
	name string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := s.dbProvider.GetDBClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(ctx, QueryRemovePrincipal, proxyID, string(category), name)
	if err != nil {
		return fmt.Errorf("failed to remove principal %s: %w", name, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("principal %s: %w", name, model.ErrPrincipalNotFound)
	}

	logger.Debug("Removed proxy principal", log.String(log.LoggerKeyProxyID, proxyID),
		log.String("category", string(category)), log.String("principal", name))
	return nil
}
