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

package log

import "go.uber.org/zap"

// Field is a structured logging field.
type Field = zap.Field

// String constructs a field with the given key and string value.
func String(key, value string) Field {
	return zap.String(key, value)
}

// Int constructs a field with the given key and int value.
func Int(key string, value int) Field {
	return zap.Int(key, value)
}

// Bool constructs a field with the given key and bool value.
func Bool(key string, value bool) Field {
	return zap.Bool(key, value)
}

// Strings constructs a field carrying a slice of strings.
func Strings(key string, value []string) Field {
	return zap.Strings(key, value)
}

// Any constructs a field with an arbitrary value.
func Any(key string, value interface{}) Field {
	return zap.Any(key, value)
}

// Error constructs a field carrying the given error under the "error" key.
func Error(err error) Field {
	return zap.Error(err)
}
