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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	for _, category := range Categories() {
		parsed, err := ParseCategory(string(category))
		assert.NoError(t, err)
		assert.Equal(t, category, parsed)
	}

	_, err := ParseCategory("db_owner")
	assert.Error(t, err)
}

func TestPrincipalSetGet(t *testing.T) {
	set := PrincipalSet{Logins: []string{"a"}, ServerRoles: []string{"b"}, MsdbRoles: []string{"c"}}

	assert.Equal(t, []string{"a"}, set.Get(CategoryLogin))
	assert.Equal(t, []string{"b"}, set.Get(CategoryServerRole))
	assert.Equal(t, []string{"c"}, set.Get(CategoryMsdbRole))
	assert.Nil(t, set.Get("other"))
}
