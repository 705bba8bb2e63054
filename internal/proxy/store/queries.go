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

package store

import (
	dbmodel "github.com/sqlagent/jobsync/internal/system/database/model"
)

var (
	// QueryCreateProxy is the query to create a proxy.
	QueryCreateProxy = dbmodel.DBQuery{
		ID:    "PXQ-PROXY_MGT-00",
		Query: `INSERT INTO AGENT_PROXY (PROXY_ID, NAME, CREDENTIAL_NAME) VALUES ($1, $2, $3)`,
	}

	// QueryGetProxyByName is the query to get a proxy by name.
	QueryGetProxyByName = dbmodel.DBQuery{
		ID:    "PXQ-PROXY_MGT-01",
		Query: `SELECT PROXY_ID, NAME, CREDENTIAL_NAME FROM AGENT_PROXY WHERE NAME = $1`,
	}

	// QueryListPrincipals is the query to list the principals of a category granted to a proxy.
	QueryListPrincipals = dbmodel.DBQuery{
		ID:    "PXQ-PROXY_MGT-02",
		Query: `SELECT PRINCIPAL_NAME FROM AGENT_PROXY_PRINCIPAL WHERE PROXY_ID = $1 AND CATEGORY = $2`,
	}

	// QueryAddPrincipal is the query to grant a principal access to a proxy.
	QueryAddPrincipal = dbmodel.DBQuery{
		ID:    "PXQ-PROXY_MGT-03",
		Query: `INSERT INTO AGENT_PROXY_PRINCIPAL (PROXY_ID, CATEGORY, PRINCIPAL_NAME) VALUES ($1, $2, $3)`,
	}

	// QueryRemovePrincipal is the query to revoke a principal's access to a proxy.
	QueryRemovePrincipal = dbmodel.DBQuery{
		ID: "PXQ-PROXY_MGT-04",
		Query: `DELETE FROM AGENT_PROXY_PRINCIPAL ` +
			`WHERE PROXY_ID = $1 AND CATEGORY = $2 AND PRINCIPAL_NAME = $3`,
	}
)
