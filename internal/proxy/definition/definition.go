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

// Package definition reads proxy definition documents.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sqlagent/jobsync/internal/proxy/model"
	"github.com/sqlagent/jobsync/internal/system/error/syncerror"

	"gopkg.in/yaml.v3"
)

// ProxyDefinition is the desired state of a proxy and its principals, keyed by category.
type ProxyDefinition struct {
	Proxy      string              `yaml:"proxy"`
	Credential string              `yaml:"credential"`
	Principals map[string][]string `yaml:"principals"`
}

// LoadProxyDefinition reads a proxy definition file.
func LoadProxyDefinition(path string) (*ProxyDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy definition: %w", err)
	}
	return ParseProxyDefinition(data)
}

// ParseProxyDefinition decodes and validates a proxy definition document.
func ParseProxyDefinition(data []byte) (*ProxyDefinition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def ProxyDefinition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, syncerror.NewValidationError("", "proxy definition is empty")
		}
		return nil, fmt.Errorf("failed to parse proxy definition: %w", err)
	}
	if def.Proxy == "" {
		return nil, syncerror.NewValidationError("proxy", "proxy name is required")
	}
	if _, err := def.PrincipalSet(); err != nil {
		return nil, err
	}
	return &def, nil
}

// PrincipalSet returns the principals of the definition. A category left out is empty.
func (d *ProxyDefinition) PrincipalSet() (model.PrincipalSet, error) {
	var set model.PrincipalSet
	for name, principals := range d.Principals {
		category, err := model.ParseCategory(name)
		if err != nil {
			return model.PrincipalSet{}, syncerror.NewValidationError("principals", "%v", err)
		}
		switch category {
		case model.CategoryLogin:
			set.Logins = principals
		case model.CategoryServerRole:
			set.ServerRoles = principals
		case model.CategoryMsdbRole:
			set.MsdbRoles = principals
		}
	}
	return set, nil
}
