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
	"fmt"
	"strconv"
)

// GetString reads a text column from a scanned row. Drivers may return text as []byte.
func GetString(row map[string]interface{}, column string) (string, error) {
	switch v := row[column].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		if _, ok := row[column]; !ok {
			return "", fmt.Errorf("column %s not found in result row", column)
		}
		return "", nil
	default:
		return "", fmt.Errorf("column %s has unexpected type %T", column, v)
	}
}

// GetInt reads an integer column from a scanned row.
func GetInt(row map[string]interface{}, column string) (int, error) {
	switch v := row[column].(type) {
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case []byte:
		return parseInt(column, string(v))
	case string:
		return parseInt(column, v)
	case nil:
		return 0, fmt.Errorf("column %s is missing or null", column)
	default:
		return 0, fmt.Errorf("column %s has unexpected type %T", column, v)
	}
}

func parseInt(column, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("column %s is not an integer: %w", column, err)
	}
	return n, nil
}
