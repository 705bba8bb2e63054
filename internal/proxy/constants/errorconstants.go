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

// Package constants defines error constants for proxy operations.
package constants

import "github.com/sqlagent/jobsync/internal/system/error/serviceerror"

// Client errors for proxy operations.
var (
	// ErrorInvalidProxyDefinition is the error returned when a proxy definition is rejected.
	ErrorInvalidProxyDefinition = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "PXY-60001",
		Error:            "Invalid proxy definition",
		ErrorDescription: "The proxy definition is malformed or names an unknown principal category",
	}
	// ErrorProxyNotFound is the error returned when a proxy is not found.
	ErrorProxyNotFound = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "PXY-60002",
		Error:            "Proxy not found",
		ErrorDescription: "The proxy with the specified name does not exist",
	}
)

// Server errors for proxy operations.
var (
	// ErrorPrincipalSyncFailed is the error returned when some principal categories failed to synchronize.
	ErrorPrincipalSyncFailed = serviceerror.ServiceError{
		Type:             serviceerror.ServerErrorType,
		Code:             "PXY-65001",
		Error:            "Principal synchronization failed",
		ErrorDescription: "One or more principal categories could not be synchronized",
	}
)
