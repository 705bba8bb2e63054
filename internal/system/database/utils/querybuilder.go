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

// Package utils provides helpers for building database queries at runtime.
package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sqlagent/jobsync/internal/system/database/model"
)

// BuildUpdateQuery builds an UPDATE statement that sets only the given columns of the row
// identified by keyColumn. Arguments are expected in column order followed by the key value.
func BuildUpdateQuery(queryID, table, keyColumn string, columns []string) (model.DBQuery, error) {
	if len(columns) == 0 {
		return model.DBQuery{}, errors.New("at least one column is required")
	}
	if err := validateKey(table); err != nil {
		return model.DBQuery{}, fmt.Errorf("invalid table name: %w", err)
	}
	if err := validateKey(keyColumn); err != nil {
		return model.DBQuery{}, fmt.Errorf("invalid key column: %w", err)
	}

	postgresSet := make([]string, 0, len(columns))
	sqliteSet := make([]string, 0, len(columns))
	for i, column := range columns {
		if err := validateKey(column); err != nil {
			return model.DBQuery{}, fmt.Errorf("invalid column name: %w", err)
		}
		postgresSet = append(postgresSet, fmt.Sprintf("%s = $%d", column, i+1))
		sqliteSet = append(sqliteSet, column+" = ?")
	}

	postgresQuery := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(postgresSet, ", "), keyColumn, len(columns)+1)
	sqliteQuery := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		table, strings.Join(sqliteSet, ", "), keyColumn)

	return model.DBQuery{
		ID:            queryID,
		Query:         postgresQuery,
		PostgresQuery: postgresQuery,
		SQLiteQuery:   sqliteQuery,
	}, nil
}

// validateKey ensures that the provided identifier contains only alphanumerics and underscores.
func validateKey(key string) error {
	if key == "" {
		return errors.New("identifier is empty")
	}
	for _, char := range key {
		if !(char >= 'a' && char <= 'z' || char >= 'A' && char <= 'Z' ||
			char >= '0' && char <= '9' || char == '_') {
			return fmt.Errorf("identifier '%s' contains invalid characters", key)
		}
	}
	return nil
}
