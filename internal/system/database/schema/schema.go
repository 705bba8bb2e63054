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

// Package schema holds the DDL of the agent store tables.
package schema

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/sqlagent/jobsync/internal/system/database/client"
	"github.com/sqlagent/jobsync/internal/system/database/model"
)

//go:embed schema.sql
var schemaSQL string

// GetSchemaSQL returns the authoritative schema script.
func GetSchemaSQL() string {
	return schemaSQL
}

// Statements splits the schema script into individual statements.
func Statements() []string {
	var statements []string
	for _, part := range strings.Split(schemaSQL, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// Apply creates any missing tables. It is safe to run against an initialized store.
func Apply(ctx context.Context, dbClient client.DBClientInterface) error {
	for i, stmt := range Statements() {
		query := model.DBQuery{ID: fmt.Sprintf("SCH-AGENT-%02d", i), Query: stmt}
		if _, err := dbClient.Execute(ctx, query); err != nil {
			return fmt.Errorf("failed to apply schema statement %s: %w", query.ID, err)
		}
	}
	return nil
}
