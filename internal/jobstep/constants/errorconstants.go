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

// Package constants defines error constants for job step operations.
package constants

import "github.com/sqlagent/jobsync/internal/system/error/serviceerror"

// Client errors for job step operations.
var (
	// ErrorInvalidStepDefinition is the error returned when a step or policy is rejected.
	ErrorInvalidStepDefinition = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "JST-60001",
		Error:            "Invalid step definition",
		ErrorDescription: "A step or one of its completion policies is invalid",
	}
	// ErrorJobNotFound is the error returned when a job is not found.
	ErrorJobNotFound = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "JST-60002",
		Error:            "Job not found",
		ErrorDescription: "The job with the specified name does not exist",
	}
	// ErrorStepConflict is the error returned when the remote steps no longer match the local copy.
	ErrorStepConflict = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "JST-60003",
		Error:            "Step conflict",
		ErrorDescription: "The job was changed by someone else, reload it and apply the changes again",
	}
	// ErrorSyncCancelled is the error returned when a synchronization is abandoned.
	ErrorSyncCancelled = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "JST-60004",
		Error:            "Synchronization cancelled",
		ErrorDescription: "The synchronization stopped before all step operations were issued",
	}
)

// Server errors for job step operations.
var (
	// ErrorInternalServerError is the error returned when an unexpected error occurs.
	ErrorInternalServerError = serviceerror.ServiceError{
		Type:             serviceerror.ServerErrorType,
		Code:             "JST-65001",
		Error:            "Internal server error",
		ErrorDescription: "An unexpected error occurred while processing the job",
	}
	// ErrorRemoteStoreFailure is the error returned when a remote store call fails.
	ErrorRemoteStoreFailure = serviceerror.ServiceError{
		Type:             serviceerror.ServerErrorType,
		Code:             "JST-65002",
		Error:            "Remote store failure",
		ErrorDescription: "A call to the job store failed, earlier step operations are not rolled back",
	}
)
