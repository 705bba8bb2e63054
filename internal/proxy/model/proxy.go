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

// Package model defines proxy accounts and the principals granted access to them.
package model

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrProxyNotFound is returned when the proxy does not exist in the store.
	ErrProxyNotFound = errors.New("proxy not found")
	// ErrPrincipalNotFound is returned when removing a principal the proxy is not granted to.
	ErrPrincipalNotFound = errors.New("principal not found")
)

// PrincipalCategory is the kind of a principal granted access to a proxy.
type PrincipalCategory string

const (
	// CategoryLogin is a server login.
	CategoryLogin PrincipalCategory = "login"
	// CategoryServerRole is a fixed server role.
	CategoryServerRole PrincipalCategory = "server_role"
	// CategoryMsdbRole is a database role of msdb.
	CategoryMsdbRole PrincipalCategory = "msdb_role"
)

// Categories returns the principal categories in processing order.
func Categories() []PrincipalCategory {
	return []PrincipalCategory{CategoryLogin, CategoryServerRole, CategoryMsdbRole}
}

// ParseCategory validates a category name.
func ParseCategory(value string) (PrincipalCategory, error) {
	category := PrincipalCategory(value)
	if !slices.Contains(Categories(), category) {
		return "", fmt.Errorf("unknown principal category %q", value)
	}
	return category, nil
}

// Proxy is a proxy account as held by the remote store.
type Proxy struct {
	ID             string
	Name           string
	CredentialName string
}

// PrincipalSet holds the principals of each category. The categories are independent.
type PrincipalSet struct {
	Logins      []string
	ServerRoles []string
	MsdbRoles   []string
}

// Get returns the principals of a category.
func (p PrincipalSet) Get(category PrincipalCategory) []string {
	switch category {
	case CategoryLogin:
		return p.Logins
	case CategoryServerRole:
		return p.ServerRoles
	case CategoryMsdbRole:
		return p.MsdbRoles
	default:
		return nil
	}
}
