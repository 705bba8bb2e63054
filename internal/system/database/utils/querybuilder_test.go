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

package utils

import (
	"testing"

	"github.com/sqlagent/jobsync/internal/system/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type QueryBuilderTestSuite struct {
	suite.Suite
}

func TestQueryBuilderSuite(t *testing.T) {
	suite.Run(t, new(QueryBuilderTestSuite))
}

func (suite *QueryBuilderTestSuite) TestBuildUpdateQuery() {
	query, err := BuildUpdateQuery("test_update", "AGENT_JOB_STEP", "STEP_UID",
		[]string{"COMMAND", "RETRY_ATTEMPTS"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "test_update", query.ID)
	assert.Equal(suite.T(),
		"UPDATE AGENT_JOB_STEP SET COMMAND = $1, RETRY_ATTEMPTS = $2 WHERE STEP_UID = $3",
		query.GetQuery(model.DataSourceTypePostgres))
	assert.Equal(suite.T(),
		"UPDATE AGENT_JOB_STEP SET COMMAND = ?, RETRY_ATTEMPTS = ? WHERE STEP_UID = ?",
		query.GetQuery(model.DataSourceTypeSQLite))
	assert.Equal(suite.T(), query.PostgresQuery, query.GetQuery("unknown"))
}

func (suite *QueryBuilderTestSuite) TestBuildUpdateQuerySingleColumn() {
	query, err := BuildUpdateQuery("single", "AGENT_JOB", "JOB_ID", []string{"START_STEP_ID"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "UPDATE AGENT_JOB SET START_STEP_ID = $1 WHERE JOB_ID = $2", query.PostgresQuery)
}

func (suite *QueryBuilderTestSuite) TestBuildUpdateQueryRejectsInput() {
	cases := []struct {
		name    string
		table   string
		key     string
		columns []string
	}{
		{"no columns", "AGENT_JOB", "JOB_ID", nil},
		{"bad table", "AGENT_JOB; DROP", "JOB_ID", []string{"NAME"}},
		{"bad key", "AGENT_JOB", "", []string{"NAME"}},
		{"bad column", "AGENT_JOB", "JOB_ID", []string{"NAME = 'x'"}},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			query, err := BuildUpdateQuery("q", tc.table, tc.key, tc.columns)
			assert.Error(suite.T(), err)
			assert.Empty(suite.T(), query.ID)
		})
	}
}
